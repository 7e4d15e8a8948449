package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hamim-ifty/Atc/internal/domain"
)

// StatsRepo assembles the aggregate snapshot for the stats endpoint from the
// analyses, users and comments collections.
type StatsRepo struct {
	analyses *mongo.Collection
	users    *mongo.Collection
	comments *mongo.Collection
}

func NewStatsRepo(db *mongo.Database) *StatsRepo {
	return &StatsRepo{
		analyses: db.Collection("analyses"),
		users:    db.Collection("users"),
		comments: db.Collection("comments"),
	}
}

// Collect gathers counts and score averages. It is intentionally
// best-effort: a metric that cannot be computed is left at its zero value
// and the rest of the snapshot is still returned.
func (r *StatsRepo) Collect(ctx context.Context) (*domain.Stats, error) {
	stats := &domain.Stats{}

	if n, err := r.analyses.CountDocuments(ctx, bson.M{}); err == nil {
		stats.TotalAnalyses = n
	}
	if n, err := r.users.CountDocuments(ctx, bson.M{}); err == nil {
		stats.TotalUsers = n
	}
	if n, err := r.comments.CountDocuments(ctx, bson.M{}); err == nil {
		stats.TotalComments = n
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	if n, err := r.analyses.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": weekAgo}}); err == nil {
		stats.AnalysesLast7d = n
	}

	if avgScore, avgATS, err := r.scoreAverages(ctx); err == nil {
		stats.AverageScore = avgScore
		stats.AverageATSScore = avgATS
	}

	return stats, nil
}

func (r *StatsRepo) scoreAverages(ctx context.Context) (float64, float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "avg_score", Value: bson.D{{Key: "$avg", Value: "$result.score"}}},
			{Key: "avg_ats", Value: bson.D{{Key: "$avg", Value: "$result.ats_score"}}},
		}}},
	}

	cur, err := r.analyses.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		AvgScore float64 `bson:"avg_score"`
		AvgATS   float64 `bson:"avg_ats"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].AvgScore, rows[0].AvgATS, nil
}
