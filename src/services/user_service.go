package services

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/theleywin/linkup-backend/src/models"
	"github.com/theleywin/linkup-backend/src/storage"
)

const searchResultLimit = 10

// ErrInvalidCredentials is returned by Authenticate for a wrong email or
// password, so the controller can answer 401 instead of 400.
var ErrInvalidCredentials = errors.New("invalid email or password")

// UserService handles accounts and profile data.
type UserService struct {
	db    *mongo.Database
	media storage.Storage
}

func NewUserService(db *mongo.Database, media storage.Storage) *UserService {
	return &UserService{db: db, media: media}
}

func (s *UserService) users() *mongo.Collection {
	return s.db.Collection("users")
}

// Register creates an account with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	count, err := s.users().CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrConflict("Email already in use")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 11)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := models.User{
		Id:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		Password:     string(hashed),
		Headline:     "Professional",
		Skills:       []string{},
		JobInterests: []string{},
		Education:    []models.Education{},
		Connections:  []primitive.ObjectID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.users().InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrConflict("Email already in use")
		}
		return nil, err
	}

	return &user, nil
}

// Authenticate checks the email/password pair and returns the account.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// FindByID loads a user document.
func (s *UserService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.users().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound("User not found")
		}
		return nil, err
	}
	return &user, nil
}

// GetProfile returns a user together with their posts, newest first.
// Profiles are readable by anyone.
func (s *UserService) GetProfile(ctx context.Context, id primitive.ObjectID) (*models.User, []models.PostResponse, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	cursor, err := s.db.Collection("posts").Find(ctx,
		bson.M{"user": id},
		options.Find().SetSort(bson.M{"createdAt": -1}),
	)
	if err != nil {
		return nil, nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, nil, err
	}

	populated, err := populatePosts(ctx, s.db, posts)
	if err != nil {
		return nil, nil, err
	}

	return user, populated, nil
}

// List returns all users, newest first.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	cursor, err := s.users().Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Search matches the query as a case-insensitive substring of name, email or
// headline, capped at ten results in the store's natural order.
func (s *UserService) Search(ctx context.Context, query string) ([]models.User, error) {
	if query == "" {
		return nil, ErrValidation("Please provide a search query")
	}

	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": []bson.M{
		{"name": pattern},
		{"email": pattern},
		{"headline": pattern},
	}}

	cursor, err := s.users().Find(ctx, filter,
		options.Find().SetLimit(searchResultLimit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ProfileUpdate carries a partial profile change. Nil fields are left
// untouched; slice fields replace the stored value wholesale.
type ProfileUpdate struct {
	Name               *string
	Headline           *string
	Location           *string
	Bio                *string
	Skills             *[]string
	JobInterests       *[]string
	Education          *[]models.Education
	OnboardingComplete *bool
	Files              map[string]*Upload
}

// UpdateProfile applies a partial update to the target's profile. Only the
// profile owner may update it.
func (s *UserService) UpdateProfile(ctx context.Context, targetID primitive.ObjectID, actingUser *models.User, update ProfileUpdate) (*models.User, error) {
	if targetID != actingUser.Id {
		return nil, ErrForbidden("Not authorized to update this profile")
	}

	set := bson.M{"updatedAt": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Headline != nil {
		set["headline"] = *update.Headline
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.Skills != nil {
		set["skills"] = *update.Skills
	}
	if update.JobInterests != nil {
		set["jobInterests"] = *update.JobInterests
	}
	if update.Education != nil {
		set["education"] = *update.Education
	}
	if update.OnboardingComplete != nil {
		set["onboardingComplete"] = *update.OnboardingComplete
	}

	for field, file := range update.Files {
		if file == nil {
			continue
		}
		url, err := s.saveProfileFile(ctx, actingUser, field, file)
		if err != nil {
			return nil, err
		}
		switch field {
		case "profilePicture":
			set["profilePicture"] = url
		case "bannerImage":
			set["bannerImage"] = url
		case "resume":
			set["resumeUrl"] = url
		}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := s.users().FindOneAndUpdate(ctx, bson.M{"_id": targetID}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound("User not found")
		}
		return nil, err
	}
	return &user, nil
}

// saveProfileFile stores a newly uploaded profile file and drops the object
// it replaces. Resumes are overwritten in place without deleting the old URL.
func (s *UserService) saveProfileFile(ctx context.Context, user *models.User, field string, file *Upload) (string, error) {
	if !storage.Accepts(field, file.ContentType) {
		return "", ErrValidation("Unsupported file type for " + field)
	}

	url, err := s.media.Save(ctx, field, file.Filename, file.ContentType, file.Reader)
	if err != nil {
		return "", err
	}

	var old string
	switch field {
	case "profilePicture":
		old = user.ProfilePicture
	case "bannerImage":
		old = user.BannerImage
	}
	if old != "" {
		if err := s.media.Delete(ctx, old); err != nil {
			log.Error().Err(err).Str("url", old).Msg("Failed to delete replaced media")
		}
	}

	return url, nil
}
