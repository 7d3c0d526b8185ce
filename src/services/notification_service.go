package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/theleywin/linkup-backend/src/models"
)

const defaultNotificationLimit = 20

// NotificationService creates and manages durable notification records.
type NotificationService struct {
	db *mongo.Database
}

func NewNotificationService(db *mongo.Database) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) collection() *mongo.Collection {
	return s.db.Collection("notifications")
}

// Emit writes one notification record. Notifications are best-effort: a
// failed write is logged and swallowed so the triggering action, which has
// already committed, still succeeds.
func (s *NotificationService) Emit(ctx context.Context, recipient, sender primitive.ObjectID, notifType models.NotificationType, message string, connectionRequest, relatedPost primitive.ObjectID) {
	now := time.Now()
	notification := models.Notification{
		Id:                primitive.NewObjectID(),
		Recipient:         recipient,
		Sender:            sender,
		Type:              notifType,
		Message:           message,
		Read:              false,
		ConnectionRequest: connectionRequest,
		RelatedPost:       relatedPost,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if _, err := s.collection().InsertOne(ctx, notification); err != nil {
		log.Error().Err(err).
			Str("type", string(notifType)).
			Str("recipient", recipient.Hex()).
			Msg("Failed to create notification")
	}
}

// NotificationResponse is a notification with the sender populated.
type NotificationResponse struct {
	Id                primitive.ObjectID      `json:"_id"`
	Recipient         primitive.ObjectID      `json:"recipient"`
	Sender            models.UserSummary      `json:"sender"`
	Type              models.NotificationType `json:"type"`
	Message           string                  `json:"message"`
	Read              bool                    `json:"read"`
	ConnectionRequest primitive.ObjectID      `json:"connectionRequest,omitempty"`
	RelatedPost       primitive.ObjectID      `json:"relatedPost,omitempty"`
	CreatedAt         time.Time               `json:"createdAt"`
	UpdatedAt         time.Time               `json:"updatedAt"`
}

// List returns the owner's notifications newest first, plus the unread count
// over the whole inbox (not just the returned page).
func (s *NotificationService) List(ctx context.Context, owner primitive.ObjectID, limit, skip int) ([]NotificationResponse, int64, error) {
	limit = clampLimit(limit, defaultNotificationLimit)
	if skip < 0 {
		skip = 0
	}

	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(int64(limit)).
		SetSkip(int64(skip))

	cursor, err := s.collection().Find(ctx, bson.M{"recipient": owner}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, 0, err
	}

	senderIDs := make([]primitive.ObjectID, 0, len(notifications))
	for _, n := range notifications {
		senderIDs = append(senderIDs, n.Sender)
	}
	senders, err := loadUserSummaries(ctx, s.db, senderIDs)
	if err != nil {
		return nil, 0, err
	}

	response := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		response = append(response, NotificationResponse{
			Id:                n.Id,
			Recipient:         n.Recipient,
			Sender:            senders[n.Sender],
			Type:              n.Type,
			Message:           n.Message,
			Read:              n.Read,
			ConnectionRequest: n.ConnectionRequest,
			RelatedPost:       n.RelatedPost,
			CreatedAt:         n.CreatedAt,
			UpdatedAt:         n.UpdatedAt,
		})
	}

	unreadCount, err := s.collection().CountDocuments(ctx, bson.M{
		"recipient": owner,
		"read":      false,
	})
	if err != nil {
		return nil, 0, err
	}

	return response, unreadCount, nil
}

// MarkRead flips the read flag on one of the owner's notifications.
func (s *NotificationService) MarkRead(ctx context.Context, id, owner primitive.ObjectID) (*models.Notification, error) {
	filter := bson.M{"_id": id, "recipient": owner}
	update := bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var notification models.Notification
	err := s.collection().FindOneAndUpdate(ctx, filter, update, opts).Decode(&notification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound("Notification not found")
		}
		return nil, err
	}
	return &notification, nil
}

// MarkAllRead marks every unread notification of the owner as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, owner primitive.ObjectID) error {
	_, err := s.collection().UpdateMany(ctx,
		bson.M{"recipient": owner, "read": false},
		bson.M{"$set": bson.M{"read": true, "updatedAt": time.Now()}},
	)
	return err
}

// Delete removes one of the owner's notifications.
func (s *NotificationService) Delete(ctx context.Context, id, owner primitive.ObjectID) error {
	result, err := s.collection().DeleteOne(ctx, bson.M{"_id": id, "recipient": owner})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound("Notification not found")
	}
	return nil
}

// DeleteForRequest removes notifications that reference a connection request,
// used when the sender withdraws it.
func (s *NotificationService) DeleteForRequest(ctx context.Context, requestID primitive.ObjectID, notifType models.NotificationType) error {
	_, err := s.collection().DeleteMany(ctx, bson.M{
		"connectionRequest": requestID,
		"type":              notifType,
	})
	return err
}

// clampLimit keeps client-supplied page sizes sane.
func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > 100 {
		return 100
	}
	return limit
}
