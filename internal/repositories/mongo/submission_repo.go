package mongo

import (
	"context"

	"codeeditor/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SubmissionRepo is append-only.
type SubmissionRepo struct{ col *mongo.Collection }

func NewSubmissionRepo(db *mongo.Database, collection string) *SubmissionRepo {
	if collection == "" {
		collection = "submissions"
	}
	return &SubmissionRepo{col: db.Collection(collection)}
}

func (r *SubmissionRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

func (r *SubmissionRepo) CreateSubmission(ctx context.Context, s *models.Submission) error {
	_, err := r.col.InsertOne(ctx, s)
	return err
}

// ListByUser returns a user's submissions, newest first.
func (r *SubmissionRepo) ListByUser(ctx context.Context, userID string) ([]models.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Submission{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SubmissionRepo) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
