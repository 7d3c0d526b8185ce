package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIsConnectedTo(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	user := User{Connections: []primitive.ObjectID{a}}
	assert.True(t, user.IsConnectedTo(a))
	assert.False(t, user.IsConnectedTo(b))

	empty := User{}
	assert.False(t, empty.IsConnectedTo(a))
}

func TestLikedBy(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	post := Post{Likes: []primitive.ObjectID{a}}
	assert.True(t, post.LikedBy(a))
	assert.False(t, post.LikedBy(b))
}
