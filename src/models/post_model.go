package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	Id        primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	User      primitive.ObjectID   `json:"user" bson:"user"`
	Content   string               `json:"content" bson:"content"`
	Image     string               `json:"image,omitempty" bson:"image,omitempty"`
	Likes     []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments  []Comment            `json:"comments" bson:"comments"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// Comment is embedded in its post. Each comment carries its own ObjectID so
// it can be deleted individually.
type Comment struct {
	Id        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// LikedBy reports whether the user is in the post's likes set.
func (p *Post) LikedBy(user primitive.ObjectID) bool {
	for _, id := range p.Likes {
		if id == user {
			return true
		}
	}
	return false
}

// PostResponse is a post with author and comment authors populated.
type PostResponse struct {
	Id        primitive.ObjectID   `json:"_id"`
	User      UserSummary          `json:"user"`
	Content   string               `json:"content"`
	Image     string               `json:"image,omitempty"`
	Likes     []primitive.ObjectID `json:"likes"`
	Comments  []CommentResponse    `json:"comments"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

type CommentResponse struct {
	Id        primitive.ObjectID `json:"_id"`
	User      UserSummary        `json:"user"`
	Text      string             `json:"text"`
	CreatedAt time.Time          `json:"createdAt"`
}
