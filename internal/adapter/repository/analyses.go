package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hamim-ifty/Atc/internal/domain"
)

type AnalysisRepo struct {
	col *mongo.Collection
}

func NewAnalysisRepo(db *mongo.Database) *AnalysisRepo {
	return &AnalysisRepo{col: db.Collection("analyses")}
}

func (r *AnalysisRepo) Insert(ctx context.Context, a *domain.Analysis) error {
	_, err := r.col.InsertOne(ctx, a)
	return err
}

func (r *AnalysisRepo) GetByID(ctx context.Context, id string) (*domain.Analysis, error) {
	var a domain.Analysis
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns analyses newest first. An empty userID lists across all
// users; a non-empty one narrows to that user's history.
func (r *AnalysisRepo) List(ctx context.Context, userID string, limit, offset int64) ([]domain.Analysis, error) {
	filter := bson.M{}
	if userID != "" {
		filter["user_id"] = userID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	analyses := []domain.Analysis{}
	if err := cur.All(ctx, &analyses); err != nil {
		return nil, err
	}
	return analyses, nil
}

func (r *AnalysisRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAnonymousOlderThan purges analyses that have no owner and predate
// the cutoff. Owned analyses are never purged.
func (r *AnalysisRepo) DeleteAnonymousOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"user_id": ""},
			{"user_id": bson.M{"$exists": false}},
		},
		"created_at": bson.M{"$lt": cutoff},
	}
	res, err := r.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
