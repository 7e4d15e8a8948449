package migration

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Migration represents one idempotent schema step. Index creation is a
// no-op when the index already exists, so the whole list reruns safely on
// every startup.
type Migration struct {
	Name string
	Up   func(ctx context.Context, db *mongo.Database) error
}

// RunMigrations executes all necessary index bootstrap steps on startup.
func RunMigrations(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	migrations := []Migration{
		{Name: "users_email_unique", Up: usersEmailUnique},
		{Name: "analyses_created_at", Up: analysesCreatedAt},
		{Name: "analyses_user_created_at", Up: analysesUserCreatedAt},
		{Name: "comments_analysis_created_at", Up: commentsAnalysisCreatedAt},
	}

	for _, m := range migrations {
		if err := m.Up(ctx, db); err != nil {
			logger.Error("migration failed", zap.String("name", m.Name), zap.Error(err))
			return err
		}
		logger.Info("migration completed", zap.String("name", m.Name))
	}
	return nil
}

func usersEmailUnique(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func analysesCreatedAt(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("analyses").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	return err
}

func analysesUserCreatedAt(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("analyses").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

func commentsAnalysisCreatedAt(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("comments").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "analysis_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
