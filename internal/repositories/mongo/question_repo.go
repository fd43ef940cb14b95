package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"codeeditor/internal/models"
	"codeeditor/internal/repositories"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QuestionRepo stores questions in a single MongoDB collection keyed by UUID.
type QuestionRepo struct{ col *mongo.Collection }

func NewQuestionRepo(db *mongo.Database, collection string) *QuestionRepo {
	if collection == "" {
		collection = "questions"
	}
	return &QuestionRepo{col: db.Collection(collection)}
}

// EnsureIndexes adds a unique index on slug.
func (r *QuestionRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *QuestionRepo) Create(ctx context.Context, q *models.Question) (*models.Question, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.Slug = slug.Make(q.Title)
	now := time.Now().UTC()
	q.CreatedAt, q.UpdatedAt = now, now

	if _, err := r.col.InsertOne(ctx, q); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("question %q: %w", q.Title, repositories.ErrConflict)
		}
		return nil, err
	}
	return q, nil
}

func (r *QuestionRepo) List(ctx context.Context, opts repositories.QuestionFilter) ([]models.Question, int64, error) {
	filter := bson.M{}
	if search := strings.TrimSpace(opts.Search); search != "" {
		filter["title"] = bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
	}
	if opts.Difficulty != "" {
		filter["difficulty"] = opts.Difficulty
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	find := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if opts.Limit > 0 {
		page := max(opts.Page, 1)
		find.SetSkip(int64((page - 1) * opts.Limit)).SetLimit(int64(opts.Limit))
	}
	cur, err := r.col.Find(ctx, filter, find)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	out := []models.Question{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *QuestionRepo) GetByID(ctx context.Context, id string) (*models.Question, error) {
	var q models.Question
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&q); err != nil {
		return nil, notFound(err)
	}
	return &q, nil
}

// GetRandom samples one question, optionally restricted to a difficulty.
func (r *QuestionRepo) GetRandom(ctx context.Context, difficulty models.Difficulty) (*models.Question, error) {
	pipeline := mongo.Pipeline{}
	if difficulty != "" {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"difficulty": difficulty}}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$sample", Value: bson.M{"size": 1}}})

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, err
		}
		return nil, repositories.ErrNotFound
	}
	var q models.Question
	if err := cur.Decode(&q); err != nil {
		return nil, err
	}
	return &q, nil
}

// Update replaces the editable fields of a question and returns the stored result.
func (r *QuestionRepo) Update(ctx context.Context, id string, q *models.Question) (*models.Question, error) {
	set := bson.M{
		"title":       q.Title,
		"slug":        slug.Make(q.Title),
		"description": q.Description,
		"difficulty":  q.Difficulty,
		"topicTags":   q.TopicTags,
		"languages":   q.Languages,
		"testCases":   q.TestCases,
		"updatedAt":   time.Now().UTC(),
	}

	var updated models.Question
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("question %q: %w", q.Title, repositories.ErrConflict)
		}
		return nil, notFound(err)
	}
	return &updated, nil
}

func (r *QuestionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *QuestionRepo) MarkSolved(ctx context.Context, id string) error {
	return r.setFields(ctx, id, bson.M{"solved": true})
}

// MarkDone flags the question as solved and keeps code as the solution for
// language. language becomes part of a field path, so dots and a leading $
// are rejected.
func (r *QuestionRepo) MarkDone(ctx context.Context, id, language, code string) error {
	if language == "" || strings.Contains(language, ".") || strings.HasPrefix(language, "$") {
		return fmt.Errorf("%w: solution language %q", repositories.ErrInvalid, language)
	}
	return r.setFields(ctx, id, bson.M{"solved": true, "solution." + language: code})
}

func (r *QuestionRepo) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *QuestionRepo) setFields(ctx context.Context, id string, set bson.M) error {
	set["updatedAt"] = time.Now().UTC()
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repositories.ErrNotFound
	}
	return err
}
