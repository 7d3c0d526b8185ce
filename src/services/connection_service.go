package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/theleywin/linkup-backend/src/models"
)

// ConnectionService owns the lifecycle of connection requests and the
// symmetric connections set on user documents.
type ConnectionService struct {
	db              *mongo.Database
	client          *mongo.Client
	notifications   *NotificationService
	useTransactions bool
}

func NewConnectionService(db *mongo.Database, client *mongo.Client, notifications *NotificationService, useTransactions bool) *ConnectionService {
	return &ConnectionService{
		db:              db,
		client:          client,
		notifications:   notifications,
		useTransactions: useTransactions,
	}
}

func (s *ConnectionService) requests() *mongo.Collection {
	return s.db.Collection("connection_requests")
}

func (s *ConnectionService) users() *mongo.Collection {
	return s.db.Collection("users")
}

// SendRequest creates a pending request from sender to receiver and notifies
// the receiver. Any existing request between the pair blocks a new one,
// whatever its status; a rejected pair therefore cannot re-request. That
// matches the long-standing behavior clients rely on, so it stays.
func (s *ConnectionService) SendRequest(ctx context.Context, sender *models.User, receiver primitive.ObjectID, message string) (*models.ConnectionRequest, error) {
	if sender.Id == receiver {
		return nil, ErrValidation("Cannot send a connection request to yourself")
	}

	count, err := s.users().CountDocuments(ctx, bson.M{"_id": receiver})
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound("User not found")
	}

	if sender.IsConnectedTo(receiver) {
		return nil, ErrConflict("Already connected with this user")
	}

	filter := bson.M{"$or": []bson.M{
		{"sender": sender.Id, "receiver": receiver},
		{"sender": receiver, "receiver": sender.Id},
	}}
	var existing models.ConnectionRequest
	err = s.requests().FindOne(ctx, filter).Decode(&existing)
	if err == nil {
		return nil, ErrConflict("Connection request already exists")
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	now := time.Now()
	request := models.ConnectionRequest{
		Id:        primitive.NewObjectID(),
		Sender:    sender.Id,
		Receiver:  receiver,
		Status:    models.ConnectionStatusPending,
		Message:   message,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.requests().InsertOne(ctx, request); err != nil {
		// The unique {sender, receiver} index catches the race where two
		// sends for the same pair pass the duplicate check together.
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrConflict("Connection request already exists")
		}
		return nil, err
	}

	s.notifications.Emit(ctx, receiver, sender.Id,
		models.NotificationTypeConnectionRequest,
		fmt.Sprintf("%s sent you a connection request", sender.Name),
		request.Id, primitive.NilObjectID)

	return &request, nil
}

// Accept moves a pending request to accepted and adds each party to the
// other's connections set, then notifies the original sender.
func (s *ConnectionService) Accept(ctx context.Context, requestID primitive.ObjectID, actingUser *models.User) (*models.ConnectionRequest, error) {
	request, err := s.pendingRequestFor(ctx, requestID, actingUser.Id)
	if err != nil {
		return nil, err
	}

	if s.useTransactions {
		err = s.acceptInTransaction(ctx, request)
	} else {
		err = s.acceptSequential(ctx, request)
	}
	if err != nil {
		return nil, err
	}

	request.Status = models.ConnectionStatusAccepted

	s.notifications.Emit(ctx, request.Sender, actingUser.Id,
		models.NotificationTypeConnectionAccepted,
		fmt.Sprintf("%s accepted your connection request", actingUser.Name),
		primitive.NilObjectID, primitive.NilObjectID)

	return request, nil
}

// acceptInTransaction performs the status flip and both connections writes
// inside one session, so a crash cannot leave a one-sided connection.
func (s *ConnectionService) acceptInTransaction(ctx context.Context, request *models.ConnectionRequest) error {
	session, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if err := s.applyAccept(sc, request); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

// acceptSequential is the fallback for deployments without replica sets.
// Failures roll back already-applied writes on a best-effort basis.
func (s *ConnectionService) acceptSequential(ctx context.Context, request *models.ConnectionRequest) error {
	update := bson.M{"$set": bson.M{
		"status":    models.ConnectionStatusAccepted,
		"updatedAt": time.Now(),
	}}
	if _, err := s.requests().UpdateOne(ctx, bson.M{"_id": request.Id}, update); err != nil {
		return err
	}

	if _, err := s.users().UpdateOne(ctx,
		bson.M{"_id": request.Sender},
		bson.M{"$addToSet": bson.M{"connections": request.Receiver}},
	); err != nil {
		s.revertAccept(ctx, request, false)
		return err
	}

	if _, err := s.users().UpdateOne(ctx,
		bson.M{"_id": request.Receiver},
		bson.M{"$addToSet": bson.M{"connections": request.Sender}},
	); err != nil {
		s.revertAccept(ctx, request, true)
		return err
	}

	return nil
}

func (s *ConnectionService) applyAccept(ctx context.Context, request *models.ConnectionRequest) error {
	update := bson.M{"$set": bson.M{
		"status":    models.ConnectionStatusAccepted,
		"updatedAt": time.Now(),
	}}
	if _, err := s.requests().UpdateOne(ctx, bson.M{"_id": request.Id}, update); err != nil {
		return err
	}
	if _, err := s.users().UpdateOne(ctx,
		bson.M{"_id": request.Sender},
		bson.M{"$addToSet": bson.M{"connections": request.Receiver}},
	); err != nil {
		return err
	}
	_, err := s.users().UpdateOne(ctx,
		bson.M{"_id": request.Receiver},
		bson.M{"$addToSet": bson.M{"connections": request.Sender}},
	)
	return err
}

func (s *ConnectionService) revertAccept(ctx context.Context, request *models.ConnectionRequest, senderUpdated bool) {
	if senderUpdated {
		if _, err := s.users().UpdateOne(ctx,
			bson.M{"_id": request.Sender},
			bson.M{"$pull": bson.M{"connections": request.Receiver}},
		); err != nil {
			log.Error().Err(err).Str("request", request.Id.Hex()).Msg("Failed to revert sender connections")
		}
	}
	if _, err := s.requests().UpdateOne(ctx,
		bson.M{"_id": request.Id},
		bson.M{"$set": bson.M{"status": models.ConnectionStatusPending}},
	); err != nil {
		log.Error().Err(err).Str("request", request.Id.Hex()).Msg("Failed to revert request status")
	}
}

// Reject moves a pending request to rejected. No notification is emitted.
func (s *ConnectionService) Reject(ctx context.Context, requestID primitive.ObjectID, actingUser *models.User) (*models.ConnectionRequest, error) {
	request, err := s.pendingRequestFor(ctx, requestID, actingUser.Id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"status":    models.ConnectionStatusRejected,
		"updatedAt": time.Now(),
	}}
	if _, err := s.requests().UpdateOne(ctx, bson.M{"_id": request.Id}, update); err != nil {
		return nil, err
	}

	request.Status = models.ConnectionStatusRejected
	return request, nil
}

// pendingRequestFor loads a request and checks the acting user may decide it.
func (s *ConnectionService) pendingRequestFor(ctx context.Context, requestID, receiver primitive.ObjectID) (*models.ConnectionRequest, error) {
	var request models.ConnectionRequest
	err := s.requests().FindOne(ctx, bson.M{"_id": requestID}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound("Connection request not found")
		}
		return nil, err
	}

	if request.Receiver != receiver {
		return nil, ErrForbidden("Not authorized to process this request")
	}
	if request.Status != models.ConnectionStatusPending {
		return nil, ErrConflict("Request already processed")
	}
	return &request, nil
}

// Withdraw deletes the sender's still-pending request to receiver along with
// the notification it produced. Decided requests cannot be withdrawn.
func (s *ConnectionService) Withdraw(ctx context.Context, sender, receiver primitive.ObjectID) error {
	var request models.ConnectionRequest
	err := s.requests().FindOne(ctx, bson.M{
		"sender":   sender,
		"receiver": receiver,
		"status":   models.ConnectionStatusPending,
	}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound("No pending connection request found to withdraw")
		}
		return err
	}

	if err := s.notifications.DeleteForRequest(ctx, request.Id, models.NotificationTypeConnectionRequest); err != nil {
		log.Error().Err(err).Str("request", request.Id.Hex()).Msg("Failed to delete request notifications")
	}

	_, err = s.requests().DeleteOne(ctx, bson.M{"_id": request.Id})
	return err
}

// Status values returned by Status.
const (
	StatusConnected = "connected"
	StatusPending   = "pending"
	StatusReceived  = "received"
	StatusNone      = "none"
)

// Status reports the relation between the acting user and target. A live
// connection wins over any stale pending record.
func (s *ConnectionService) Status(ctx context.Context, actingUser *models.User, target primitive.ObjectID) (string, primitive.ObjectID, error) {
	if actingUser.Id == target {
		return "", primitive.NilObjectID, ErrValidation("Cannot check connection status with yourself")
	}

	if actingUser.IsConnectedTo(target) {
		return StatusConnected, primitive.NilObjectID, nil
	}

	filter := bson.M{
		"$or": []bson.M{
			{"sender": actingUser.Id, "receiver": target},
			{"sender": target, "receiver": actingUser.Id},
		},
		"status": models.ConnectionStatusPending,
	}
	var pending models.ConnectionRequest
	err := s.requests().FindOne(ctx, filter).Decode(&pending)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return StatusNone, primitive.NilObjectID, nil
		}
		return "", primitive.NilObjectID, err
	}

	return statusForPending(actingUser.Id, &pending), pending.Id, nil
}

// statusForPending picks the direction-dependent status for a pending request.
func statusForPending(actingUser primitive.ObjectID, pending *models.ConnectionRequest) string {
	if pending.Sender == actingUser {
		return StatusPending
	}
	return StatusReceived
}

// ConnectionRequestResponse is a pending request with the sender populated.
type ConnectionRequestResponse struct {
	Id        primitive.ObjectID      `json:"_id"`
	Sender    models.UserSummary      `json:"sender"`
	Receiver  primitive.ObjectID      `json:"receiver"`
	Status    models.ConnectionStatus `json:"status"`
	Message   string                  `json:"message"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

// PendingRequests lists requests awaiting the user's decision, newest first.
func (s *ConnectionService) PendingRequests(ctx context.Context, receiver primitive.ObjectID) ([]ConnectionRequestResponse, error) {
	filter := bson.M{
		"receiver": receiver,
		"status":   models.ConnectionStatusPending,
	}
	opts := options.Find().SetSort(bson.M{"createdAt": -1})

	cursor, err := s.requests().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []models.ConnectionRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}

	senderIDs := make([]primitive.ObjectID, 0, len(requests))
	for _, r := range requests {
		senderIDs = append(senderIDs, r.Sender)
	}
	senders, err := loadUserSummaries(ctx, s.db, senderIDs)
	if err != nil {
		return nil, err
	}

	response := make([]ConnectionRequestResponse, 0, len(requests))
	for _, r := range requests {
		response = append(response, ConnectionRequestResponse{
			Id:        r.Id,
			Sender:    senders[r.Sender],
			Receiver:  r.Receiver,
			Status:    r.Status,
			Message:   r.Message,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}
	return response, nil
}

// ListConnections returns summaries of the user's current connections.
func (s *ConnectionService) ListConnections(ctx context.Context, user *models.User) ([]models.UserSummary, error) {
	summaries, err := loadUserSummaries(ctx, s.db, user.Connections)
	if err != nil {
		return nil, err
	}

	connections := make([]models.UserSummary, 0, len(summaries))
	for _, id := range user.Connections {
		if summary, ok := summaries[id]; ok {
			connections = append(connections, summary)
		}
	}
	return connections, nil
}

// RemoveConnection removes each user from the other's connections set.
// Removing a connection that does not exist is a no-op.
func (s *ConnectionService) RemoveConnection(ctx context.Context, actingUser *models.User, target primitive.ObjectID) error {
	if actingUser.Id == target {
		return ErrValidation("Cannot remove yourself as a connection")
	}

	if _, err := s.users().UpdateOne(ctx,
		bson.M{"_id": actingUser.Id},
		bson.M{"$pull": bson.M{"connections": target}},
	); err != nil {
		return err
	}

	_, err := s.users().UpdateOne(ctx,
		bson.M{"_id": target},
		bson.M{"$pull": bson.M{"connections": actingUser.Id}},
	)
	return err
}
