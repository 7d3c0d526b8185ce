package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/theleywin/linkup-backend/src/db"
	"github.com/theleywin/linkup-backend/src/models"
	"github.com/theleywin/linkup-backend/src/storage"
)

// The tests in this file need a running MongoDB. Set TEST_MONGODB_URI to run
// them; without it they skip.

type testEnv struct {
	users         *UserService
	posts         *PostService
	connections   *ConnectionService
	notifications *NotificationService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set; skipping store-backed tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	database := client.Database("linkup_test_" + primitive.NewObjectID().Hex())
	require.NoError(t, db.EnsureIndexes(ctx, database))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = database.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	media, err := storage.NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)

	notifications := NewNotificationService(database)
	return &testEnv{
		users:         NewUserService(database, media),
		posts:         NewPostService(database, media),
		connections:   NewConnectionService(database, client, notifications, false),
		notifications: notifications,
	}
}

func (e *testEnv) register(t *testing.T, name, email string) *models.User {
	t.Helper()
	user, err := e.users.Register(context.Background(), name, email, "secret1")
	require.NoError(t, err)
	return user
}

func (e *testEnv) reload(t *testing.T, id primitive.ObjectID) *models.User {
	t.Helper()
	user, err := e.users.FindByID(context.Background(), id)
	require.NoError(t, err)
	return user
}

func TestSendAcceptFlow(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := env.register(t, "Alice", "alice@example.com")
	bob := env.register(t, "Bob", "bob@example.com")

	request, err := env.connections.SendRequest(ctx, alice, bob.Id, "hello")
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusPending, request.Status)
	assert.Equal(t, "hello", request.Message)

	// Bob sees it pending
	pending, err := env.connections.PendingRequests(ctx, bob.Id)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, request.Id, pending[0].Id)
	assert.Equal(t, "Alice", pending[0].Sender.Name)

	// Bob got a connection_request notification
	inbox, unread, err := env.notifications.List(ctx, bob.Id, 0, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, models.NotificationTypeConnectionRequest, inbox[0].Type)
	assert.Equal(t, int64(1), unread)

	accepted, err := env.connections.Accept(ctx, request.Id, bob)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionStatusAccepted, accepted.Status)

	// Both sides hold the connection
	assert.True(t, env.reload(t, alice.Id).IsConnectedTo(bob.Id))
	assert.True(t, env.reload(t, bob.Id).IsConnectedTo(alice.Id))

	// Alice got a connection_accepted notification
	inbox, _, err = env.notifications.List(ctx, alice.Id, 0, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, models.NotificationTypeConnectionAccepted, inbox[0].Type)
}

func TestSendRequestGuards(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := env.register(t, "Alice", "alice@example.com")
	bob := env.register(t, "Bob", "bob@example.com")

	_, err := env.connections.SendRequest(ctx, alice, alice.Id, "")
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = env.connections.SendRequest(ctx, alice, primitive.NewObjectID(), "")
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = env.connections.SendRequest(ctx, alice, bob.Id, "")
	require.NoError(t, err)

	// A second send, either direction, conflicts
	_, err = env.connections.SendRequest(ctx, alice, bob.Id, "")
	assert.Equal(t, KindConflict, KindOf(err))
	_, err = env.connections.SendRequest(ctx, bob, alice.Id, "")
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestRejectedPairStaysBlocked(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := env.register(t, "Alice", "alice@example.com")
	bob := env.register(t, "Bob", "bob@example.com")

	request, err := env.connections.SendRequest(ctx, alice, bob.Id, "")
	require.NoError(t, err)
	_, err = env.connections.Reject(ctx, request.Id, bob)
	require.NoError(t, err)

	// The rejected request still blocks a resend
	_, err = env.connections.SendRequest(ctx, alice, bob.Id, "")
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestAcceptGuards(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := env.register(t, "Alice", "alice@example.com")
	bob := env.register(t, "Bob", "bob@example.com")
	carol := env.register(t, "Carol", "carol@example.com")

	request, err := env.connections.SendRequest(ctx, alice, bob.Id, "")
	require.NoError(t, err)

	_, err = env.connections.Accept(ctx, primitive.NewObjectID(), bob)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = env.connections.Accept(ctx, request.Id, carol)
	assert.Equal(t, KindForbidden, KindOf(err))

	_, err = env.connections.Accept(ctx, request.Id, bob)
	require.NoError(t, err)

	_, err = env.connections.Accept(ctx, request.Id, bob)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestWithdrawOnlyWhilePending(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := env.register(t, "Alice", "alice@example.com")
	bob := env.register(t, "Bob", "bob@example.com")

	request, err := env.connections.SendRequest(ctx, alice, bob.Id, "")
	require.NoError(t, err)

	require.NoError(t, env.connections.Withdraw(ctx, alice.Id, bob.Id))

	// The request notification went away with it
	inbox, _, err := env.notifications.List(ctx, bob.Id, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, inbox)

	// Nothing left to withdraw
	assert.Equal(t, KindNotFound, KindOf(env.connections.Withdraw(ctx, alice.Id, bob.Id)))

	// After accept, withdraw is gone too
	request, err = env.connections.SendRequest(ctx, alice, bob.Id, "")
	require.NoError(t, err)
	_, err = env.connections.Accept(ctx, request.Id, bob)
	require.NoError(t, err)
	assert.Equal(t, KindNotFound, KindOf(env.connections.Withdraw(ctx, alice.Id, bob.Id)))
}

func TestStatusLifecycle(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := env.register(t, "Alice", "alice@example.com")
	bob := env.register(t, "Bob", "bob@example.com")

	status, _, err := env.connections.Status(ctx, alice, bob.Id)
	require.NoError(t, err)
	assert.Equal(t, StatusNone, status)

	request, err := env.connections.SendRequest(ctx, alice, bob.Id, "")
	require.NoError(t, err)

	status, requestID, err := env.connections.Status(ctx, alice, bob.Id)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, status)
	assert.Equal(t, request.Id, requestID)

	status, requestID, err = env.connections.Status(ctx, bob, alice.Id)
	require.NoError(t, err)
	assert.Equal(t, StatusReceived, status)
	assert.Equal(t, request.Id, requestID)

	_, err = env.connections.Accept(ctx, request.Id, bob)
	require.NoError(t, err)

	status, _, err = env.connections.Status(ctx, env.reload(t, alice.Id), bob.Id)
	require.NoError(t, err)
	assert.Equal(t, StatusConnected, status)

	require.NoError(t, env.connections.RemoveConnection(ctx, env.reload(t, alice.Id), bob.Id))

	status, _, err = env.connections.Status(ctx, env.reload(t, alice.Id), bob.Id)
	require.NoError(t, err)
	assert.Equal(t, StatusNone, status)

	// Both sides dropped it
	assert.False(t, env.reload(t, alice.Id).IsConnectedTo(bob.Id))
	assert.False(t, env.reload(t, bob.Id).IsConnectedTo(alice.Id))

	// Removing again is a no-op
	require.NoError(t, env.connections.RemoveConnection(ctx, env.reload(t, alice.Id), bob.Id))
}

func TestToggleLikePairRestoresState(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := env.register(t, "Alice", "alice@example.com")
	bob := env.register(t, "Bob", "bob@example.com")

	post, err := env.posts.Create(ctx, alice, "hello world", nil)
	require.NoError(t, err)

	liked, isLiked, err := env.posts.ToggleLike(ctx, post.Id, bob)
	require.NoError(t, err)
	assert.True(t, isLiked)
	assert.Contains(t, liked.Likes, bob.Id)

	unliked, isLiked, err := env.posts.ToggleLike(ctx, post.Id, bob)
	require.NoError(t, err)
	assert.False(t, isLiked)
	assert.NotContains(t, unliked.Likes, bob.Id)
	assert.Len(t, unliked.Likes, 0)
}

func TestCommentLifecycle(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := env.register(t, "Alice", "alice@example.com")
	bob := env.register(t, "Bob", "bob@example.com")

	post, err := env.posts.Create(ctx, alice, "hello world", nil)
	require.NoError(t, err)

	_, err = env.posts.AddComment(ctx, post.Id, bob, "  ")
	assert.Equal(t, KindValidation, KindOf(err))

	withComment, err := env.posts.AddComment(ctx, post.Id, bob, "nice post")
	require.NoError(t, err)
	require.Len(t, withComment.Comments, 1)
	commentID := withComment.Comments[0].Id
	assert.Equal(t, "Bob", withComment.Comments[0].User.Name)

	// The post owner is not the comment author, so they cannot delete it
	_, err = env.posts.DeleteComment(ctx, post.Id, commentID, alice)
	assert.Equal(t, KindForbidden, KindOf(err))

	cleared, err := env.posts.DeleteComment(ctx, post.Id, commentID, bob)
	require.NoError(t, err)
	assert.Empty(t, cleared.Comments)
	assert.Equal(t, "hello world", cleared.Content)
}

func TestPostUpdateValidation(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := env.register(t, "Alice", "alice@example.com")
	bob := env.register(t, "Bob", "bob@example.com")

	post, err := env.posts.Create(ctx, alice, "hello", nil)
	require.NoError(t, err)

	_, err = env.posts.Update(ctx, post.Id, alice, "", nil)
	assert.Equal(t, KindValidation, KindOf(err))

	// Original content unchanged after the rejected update
	unchanged, err := env.posts.Get(ctx, post.Id)
	require.NoError(t, err)
	assert.Equal(t, "hello", unchanged.Content)

	_, err = env.posts.Update(ctx, post.Id, bob, "hijack", nil)
	assert.Equal(t, KindForbidden, KindOf(err))

	updated, err := env.posts.Update(ctx, post.Id, alice, "hello again", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello again", updated.Content)
}

func TestPostDeleteOwnership(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := env.register(t, "Alice", "alice@example.com")
	bob := env.register(t, "Bob", "bob@example.com")

	post, err := env.posts.Create(ctx, alice, "mine", nil)
	require.NoError(t, err)

	assert.Equal(t, KindForbidden, KindOf(env.posts.Delete(ctx, post.Id, bob)))
	require.NoError(t, env.posts.Delete(ctx, post.Id, alice))
	_, err = env.posts.Get(ctx, post.Id)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestFeedScopedToConnections(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := env.register(t, "Alice", "alice@example.com")
	bob := env.register(t, "Bob", "bob@example.com")
	carol := env.register(t, "Carol", "carol@example.com")

	_, err := env.posts.Create(ctx, alice, "from alice", nil)
	require.NoError(t, err)
	_, err = env.posts.Create(ctx, bob, "from bob", nil)
	require.NoError(t, err)
	_, err = env.posts.Create(ctx, carol, "from carol", nil)
	require.NoError(t, err)

	request, err := env.connections.SendRequest(ctx, alice, bob.Id, "")
	require.NoError(t, err)
	_, err = env.connections.Accept(ctx, request.Id, bob)
	require.NoError(t, err)

	feed, err := env.posts.Feed(ctx, env.reload(t, alice.Id))
	require.NoError(t, err)
	require.Len(t, feed, 2)
	for _, p := range feed {
		assert.NotEqual(t, "from carol", p.Content)
	}
}

func TestNotificationOwnership(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := env.register(t, "Alice", "alice@example.com")
	bob := env.register(t, "Bob", "bob@example.com")

	_, err := env.connections.SendRequest(ctx, alice, bob.Id, "")
	require.NoError(t, err)

	inbox, unread, err := env.notifications.List(ctx, bob.Id, 0, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, int64(1), unread)

	// Alice cannot touch Bob's notification
	_, err = env.notifications.MarkRead(ctx, inbox[0].Id, alice.Id)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, KindNotFound, KindOf(env.notifications.Delete(ctx, inbox[0].Id, alice.Id)))

	marked, err := env.notifications.MarkRead(ctx, inbox[0].Id, bob.Id)
	require.NoError(t, err)
	assert.True(t, marked.Read)

	_, unread, err = env.notifications.List(ctx, bob.Id, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)

	require.NoError(t, env.notifications.Delete(ctx, inbox[0].Id, bob.Id))
	inbox, _, err = env.notifications.List(ctx, bob.Id, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, inbox)
}

func TestMarkAllRead(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	bob := env.register(t, "Bob", "bob@example.com")
	for i := 0; i < 3; i++ {
		alice := env.register(t, "Alice", "alice"+primitive.NewObjectID().Hex()+"@example.com")
		_, err := env.connections.SendRequest(ctx, alice, bob.Id, "")
		require.NoError(t, err)
	}

	_, unread, err := env.notifications.List(ctx, bob.Id, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), unread)

	require.NoError(t, env.notifications.MarkAllRead(ctx, bob.Id))

	_, unread, err = env.notifications.List(ctx, bob.Id, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestNotificationPaging(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	bob := env.register(t, "Bob", "bob@example.com")
	for i := 0; i < 5; i++ {
		sender := env.register(t, "Sender", "sender"+primitive.NewObjectID().Hex()+"@example.com")
		_, err := env.connections.SendRequest(ctx, sender, bob.Id, "")
		require.NoError(t, err)
	}

	page, unread, err := env.notifications.List(ctx, bob.Id, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)
	assert.Equal(t, int64(5), unread)

	rest, _, err := env.notifications.List(ctx, bob.Id, 10, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 3)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	user := env.register(t, "Alice", "alice@example.com")
	assert.Equal(t, "Professional", user.Headline)
	assert.False(t, user.OnboardingComplete)

	_, err := env.users.Register(ctx, "Alice Again", "alice@example.com", "secret1")
	assert.Equal(t, KindConflict, KindOf(err))

	authed, err := env.users.Authenticate(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.Id, authed.Id)

	_, err = env.users.Authenticate(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.users.Authenticate(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSearchUsers(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	env.register(t, "Ada Lovelace", "ada@example.com")
	env.register(t, "Grace Hopper", "grace@example.com")

	results, err := env.users.Search(ctx, "LOVE")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Ada Lovelace", results[0].Name)

	results, err = env.users.Search(ctx, "example.com")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	_, err = env.users.Search(ctx, "")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestProfileUpdatePartial(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := env.register(t, "Alice", "alice@example.com")
	bob := env.register(t, "Bob", "bob@example.com")

	headline := "Platform Engineer"
	skills := []string{"go", "mongodb"}
	complete := true
	updated, err := env.users.UpdateProfile(ctx, alice.Id, alice, ProfileUpdate{
		Headline:           &headline,
		Skills:             &skills,
		OnboardingComplete: &complete,
	})
	require.NoError(t, err)
	assert.Equal(t, "Platform Engineer", updated.Headline)
	assert.Equal(t, skills, updated.Skills)
	assert.True(t, updated.OnboardingComplete)
	// Untouched fields survive
	assert.Equal(t, "Alice", updated.Name)

	// Arrays replace wholesale
	newSkills := []string{"rust"}
	updated, err = env.users.UpdateProfile(ctx, alice.Id, alice, ProfileUpdate{Skills: &newSkills})
	require.NoError(t, err)
	assert.Equal(t, newSkills, updated.Skills)

	// Only the owner can update
	_, err = env.users.UpdateProfile(ctx, alice.Id, bob, ProfileUpdate{Headline: &headline})
	assert.Equal(t, KindForbidden, KindOf(err))
}
