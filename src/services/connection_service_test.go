package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/theleywin/linkup-backend/src/models"
)

func TestStatusForPending(t *testing.T) {
	me := primitive.NewObjectID()
	other := primitive.NewObjectID()

	sent := &models.ConnectionRequest{Sender: me, Receiver: other}
	assert.Equal(t, StatusPending, statusForPending(me, sent))

	received := &models.ConnectionRequest{Sender: other, Receiver: me}
	assert.Equal(t, StatusReceived, statusForPending(me, received))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 20, clampLimit(0, 20))
	assert.Equal(t, 20, clampLimit(-5, 20))
	assert.Equal(t, 1, clampLimit(1, 20))
	assert.Equal(t, 100, clampLimit(100, 20))
	assert.Equal(t, 100, clampLimit(5000, 20))
}
