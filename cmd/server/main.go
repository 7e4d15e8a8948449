package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	httpadapter "github.com/hamim-ifty/Atc/internal/adapter/http"
	"github.com/hamim-ifty/Atc/internal/adapter/repository"
	"github.com/hamim-ifty/Atc/internal/cleanup"
	"github.com/hamim-ifty/Atc/internal/config"
	"github.com/hamim-ifty/Atc/internal/extract"
	"github.com/hamim-ifty/Atc/internal/infrastructure/migration"
	"github.com/hamim-ifty/Atc/internal/storage"
	"github.com/hamim-ifty/Atc/internal/usecase"
	"github.com/hamim-ifty/Atc/pkg/ai"
	infra "github.com/hamim-ifty/Atc/pkg/infrastructure"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// mongo + indexes
	db, err := infra.NewMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("mongo connection failed", zap.Error(err))
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			logger.Warn("mongo disconnect failed", zap.Error(err))
		}
	}()
	if err := migration.RunMigrations(ctx, db, logger); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	analyses := repository.NewAnalysisRepo(db)
	users := repository.NewUserRepo(db)
	comments := repository.NewCommentRepo(db)
	stats := repository.NewStatsRepo(db)

	uploads, err := storage.NewUploads(cfg.UploadDir, cfg.MaxUploadBytes, logger)
	if err != nil {
		logger.Fatal("upload dir setup failed", zap.Error(err))
	}

	pipeline := extract.New(extract.Config{
		MaxFileBytes:  cfg.MaxUploadBytes,
		PdftotextPath: cfg.PdftotextPath,
		ToolTimeout:   cfg.ToolTimeout,
	}, logger)

	// the AI client is optional: without a key the service still lists and
	// serves stored analyses, new ones are answered with 502
	var aiClient usecase.AnalysisClient
	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, analysis requests will be rejected")
	} else {
		client, err := ai.NewClient(ctx, ai.Config{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			MaxInput:   cfg.MaxInputChars,
			MaxRetries: cfg.AIMaxRetries,
			Timeout:    cfg.AITimeout,
		})
		if err != nil {
			logger.Warn("ai client setup failed", zap.Error(err))
		} else {
			aiClient = client
		}
	}

	renderer := infra.NewChromedpRenderer(cfg.ChromePath)
	analyzer := usecase.NewAnalyzer(pipeline, aiClient, analyses, renderer, cfg.MinResumeChars, logger)

	janitor := cleanup.NewJanitor(cleanup.Config{
		Dir:           uploads.Dir(),
		SweepEvery:    cfg.SweepInterval,
		MaxAge:        cfg.SweepMaxAge,
		RetentionDays: cfg.RetentionDays,
	}, analyses, logger)
	if err := janitor.Start(); err != nil {
		logger.Fatal("janitor start failed", zap.Error(err))
	}
	defer janitor.Stop()

	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.MaxUploadBytes) + 1<<20, // room for multipart framing
	})
	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(cors.New())

	h := httpadapter.NewHandler(httpadapter.Deps{
		Service:  analyzer,
		Analyses: analyses,
		Users:    users,
		Comments: comments,
		Stats:    stats,
		Uploads:  uploads,
		Logger:   logger,
	})
	h.Register(app)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.String("port", cfg.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Development() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
