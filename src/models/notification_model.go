package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notification struct {
	Id                primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Recipient         primitive.ObjectID `json:"recipient" bson:"recipient"`
	Sender            primitive.ObjectID `json:"sender" bson:"sender"`
	Type              NotificationType   `json:"type" bson:"type"`
	Message           string             `json:"message" bson:"message"`
	Read              bool               `json:"read" bson:"read"`
	ConnectionRequest primitive.ObjectID `json:"connectionRequest,omitempty" bson:"connectionRequest,omitempty"`
	RelatedPost       primitive.ObjectID `json:"relatedPost,omitempty" bson:"relatedPost,omitempty"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type NotificationType string

// The post_like and post_comment types exist for clients that create them;
// the post endpoints here do not emit notifications.
const (
	NotificationTypeConnectionRequest  NotificationType = "connection_request"
	NotificationTypeConnectionAccepted NotificationType = "connection_accepted"
	NotificationTypePostLike           NotificationType = "post_like"
	NotificationTypePostComment        NotificationType = "post_comment"
)
