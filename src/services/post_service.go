package services

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/theleywin/linkup-backend/src/models"
	"github.com/theleywin/linkup-backend/src/storage"
)

// Upload carries one multipart file from the controller into a service.
type Upload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// PostService handles post CRUD, the like toggle and embedded comments.
type PostService struct {
	db    *mongo.Database
	media storage.Storage
}

func NewPostService(db *mongo.Database, media storage.Storage) *PostService {
	return &PostService{db: db, media: media}
}

func (s *PostService) posts() *mongo.Collection {
	return s.db.Collection("posts")
}

// Create stores a new post. Content is required; media is optional.
func (s *PostService) Create(ctx context.Context, owner *models.User, content string, media *Upload) (*models.PostResponse, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrValidation("Please provide post content")
	}

	imageURL, err := s.saveMedia(ctx, media)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	post := models.Post{
		Id:        primitive.NewObjectID(),
		User:      owner.Id,
		Content:   content,
		Image:     imageURL,
		Likes:     []primitive.ObjectID{},
		Comments:  []models.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.posts().InsertOne(ctx, post); err != nil {
		return nil, err
	}

	return s.populateOne(ctx, post)
}

// Update replaces the content, and the media when a new file is supplied.
// The previous stored media object is discarded on replacement.
func (s *PostService) Update(ctx context.Context, postID primitive.ObjectID, actingUser *models.User, content string, media *Upload) (*models.PostResponse, error) {
	post, err := s.ownedPost(ctx, postID, actingUser.Id, "update")
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(content) == "" {
		return nil, ErrValidation("Please provide post content")
	}

	set := bson.M{
		"content":   content,
		"updatedAt": time.Now(),
	}

	if media != nil {
		imageURL, err := s.saveMedia(ctx, media)
		if err != nil {
			return nil, err
		}
		if post.Image != "" {
			s.deleteMedia(ctx, post.Image)
		}
		set["image"] = imageURL
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Post
	err = s.posts().FindOneAndUpdate(ctx, bson.M{"_id": postID}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return nil, err
	}

	return s.populateOne(ctx, updated)
}

// Delete removes the post and its stored media.
func (s *PostService) Delete(ctx context.Context, postID primitive.ObjectID, actingUser *models.User) error {
	post, err := s.ownedPost(ctx, postID, actingUser.Id, "delete")
	if err != nil {
		return err
	}

	if post.Image != "" {
		s.deleteMedia(ctx, post.Image)
	}

	result, err := s.posts().DeleteOne(ctx, bson.M{"_id": postID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound("Post not found")
	}
	return nil
}

// Get returns a single post, populated. Posts are readable by anyone.
func (s *PostService) Get(ctx context.Context, postID primitive.ObjectID) (*models.PostResponse, error) {
	var post models.Post
	err := s.posts().FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound("Post not found")
		}
		return nil, err
	}
	return s.populateOne(ctx, post)
}

// ListAll returns every post, newest first.
func (s *PostService) ListAll(ctx context.Context) ([]models.PostResponse, error) {
	return s.list(ctx, bson.M{})
}

// Feed returns posts by the user and their connections, newest first.
func (s *PostService) Feed(ctx context.Context, user *models.User) ([]models.PostResponse, error) {
	authors := make([]primitive.ObjectID, 0, len(user.Connections)+1)
	authors = append(authors, user.Connections...)
	authors = append(authors, user.Id)
	return s.list(ctx, bson.M{"user": bson.M{"$in": authors}})
}

func (s *PostService) list(ctx context.Context, filter bson.M) ([]models.PostResponse, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := s.posts().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return populatePosts(ctx, s.db, posts)
}

// ToggleLike flips the user's membership in the likes set. Presence in the
// set is the only like state; there are no separate like/unlike operations.
func (s *PostService) ToggleLike(ctx context.Context, postID primitive.ObjectID, user *models.User) (*models.PostResponse, bool, error) {
	var post models.Post
	err := s.posts().FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, false, ErrNotFound("Post not found")
		}
		return nil, false, err
	}

	liked := !post.LikedBy(user.Id)
	var update bson.M
	if liked {
		update = bson.M{
			"$addToSet": bson.M{"likes": user.Id},
			"$set":      bson.M{"updatedAt": time.Now()},
		}
	} else {
		update = bson.M{
			"$pull": bson.M{"likes": user.Id},
			"$set":  bson.M{"updatedAt": time.Now()},
		}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Post
	if err := s.posts().FindOneAndUpdate(ctx, bson.M{"_id": postID}, update, opts).Decode(&updated); err != nil {
		return nil, false, err
	}

	response, err := s.populateOne(ctx, updated)
	if err != nil {
		return nil, false, err
	}
	return response, liked, nil
}

// AddComment appends a comment with a server-assigned timestamp and its own
// identity.
func (s *PostService) AddComment(ctx context.Context, postID primitive.ObjectID, user *models.User, text string) (*models.PostResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrValidation("Please provide comment text")
	}

	comment := models.Comment{
		Id:        primitive.NewObjectID(),
		User:      user.Id,
		Text:      text,
		CreatedAt: time.Now(),
	}

	update := bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Post
	err := s.posts().FindOneAndUpdate(ctx, bson.M{"_id": postID}, update, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound("Post not found")
		}
		return nil, err
	}

	return s.populateOne(ctx, updated)
}

// DeleteComment removes a comment. Only the comment's author may delete it;
// the post owner has no say over other people's comments.
func (s *PostService) DeleteComment(ctx context.Context, postID, commentID primitive.ObjectID, actingUser *models.User) (*models.PostResponse, error) {
	var post models.Post
	err := s.posts().FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound("Post not found")
		}
		return nil, err
	}

	var comment *models.Comment
	for i := range post.Comments {
		if post.Comments[i].Id == commentID {
			comment = &post.Comments[i]
			break
		}
	}
	if comment == nil {
		return nil, ErrNotFound("Comment not found")
	}
	if comment.User != actingUser.Id {
		return nil, ErrForbidden("Not authorized to delete this comment")
	}

	update := bson.M{
		"$pull": bson.M{"comments": bson.M{"_id": commentID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Post
	if err := s.posts().FindOneAndUpdate(ctx, bson.M{"_id": postID}, update, opts).Decode(&updated); err != nil {
		return nil, err
	}

	return s.populateOne(ctx, updated)
}

func (s *PostService) populateOne(ctx context.Context, post models.Post) (*models.PostResponse, error) {
	populated, err := populatePosts(ctx, s.db, []models.Post{post})
	if err != nil {
		return nil, err
	}
	return &populated[0], nil
}

func (s *PostService) saveMedia(ctx context.Context, media *Upload) (string, error) {
	if media == nil {
		return "", nil
	}
	if !storage.Accepts("image", media.ContentType) {
		return "", ErrValidation("Only image files or mp4 video are allowed for post uploads")
	}
	url, err := s.media.Save(ctx, "image", media.Filename, media.ContentType, media.Reader)
	if err != nil {
		return "", err
	}
	return url, nil
}

func (s *PostService) deleteMedia(ctx context.Context, url string) {
	if err := s.media.Delete(ctx, url); err != nil {
		log.Error().Err(err).Str("url", url).Msg("Failed to delete stored media")
	}
}

// ownedPost loads a post and checks the acting user owns it.
func (s *PostService) ownedPost(ctx context.Context, postID, owner primitive.ObjectID, action string) (*models.Post, error) {
	var post models.Post
	err := s.posts().FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound("Post not found")
		}
		return nil, err
	}
	if post.User != owner {
		return nil, ErrForbidden("Not authorized to " + action + " this post")
	}
	return &post, nil
}
