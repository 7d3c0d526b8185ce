package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/theleywin/linkup-backend/src/models"
)

var summaryProjection = bson.M{
	"name":           1,
	"email":          1,
	"profilePicture": 1,
	"headline":       1,
}

// loadUserSummaries fetches the summary projection for a set of user IDs in
// one query. IDs that no longer resolve to a user map to a zero summary.
func loadUserSummaries(ctx context.Context, db *mongo.Database, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	summaries := make(map[primitive.ObjectID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return summaries, nil
	}

	cursor, err := db.Collection("users").Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(summaryProjection),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.UserSummary
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	for _, u := range users {
		summaries[u.Id] = u
	}
	return summaries, nil
}

// populatePosts resolves post authors and comment authors into summaries,
// the manual equivalent of a mongoose populate.
func populatePosts(ctx context.Context, db *mongo.Database, posts []models.Post) ([]models.PostResponse, error) {
	idSet := make(map[primitive.ObjectID]struct{})
	for _, p := range posts {
		idSet[p.User] = struct{}{}
		for _, c := range p.Comments {
			idSet[c.User] = struct{}{}
		}
	}

	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	summaries, err := loadUserSummaries(ctx, db, ids)
	if err != nil {
		return nil, err
	}

	response := make([]models.PostResponse, 0, len(posts))
	for _, p := range posts {
		comments := make([]models.CommentResponse, 0, len(p.Comments))
		for _, c := range p.Comments {
			comments = append(comments, models.CommentResponse{
				Id:        c.Id,
				User:      summaries[c.User],
				Text:      c.Text,
				CreatedAt: c.CreatedAt,
			})
		}
		response = append(response, models.PostResponse{
			Id:        p.Id,
			User:      summaries[p.User],
			Content:   p.Content,
			Image:     p.Image,
			Likes:     p.Likes,
			Comments:  comments,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}
	return response, nil
}
