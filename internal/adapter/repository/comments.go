package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hamim-ifty/Atc/internal/domain"
)

type CommentRepo struct {
	col *mongo.Collection
}

func NewCommentRepo(db *mongo.Database) *CommentRepo {
	return &CommentRepo{col: db.Collection("comments")}
}

func (r *CommentRepo) Insert(ctx context.Context, c *domain.Comment) error {
	_, err := r.col.InsertOne(ctx, c)
	return err
}

// List returns comments newest first, optionally narrowed to one analysis.
func (r *CommentRepo) List(ctx context.Context, analysisID string, limit int64) ([]domain.Comment, error) {
	filter := bson.M{}
	if analysisID != "" {
		filter["analysis_id"] = analysisID
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	comments := []domain.Comment{}
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *CommentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
