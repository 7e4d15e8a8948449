package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultMongoURI, cfg.MongoURI)
	assert.Equal(t, DefaultMongoDB, cfg.MongoDB)
	assert.Equal(t, DefaultGeminiModel, cfg.GeminiModel)
	assert.Equal(t, DefaultAITimeout, cfg.AITimeout)
	assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.MaxUploadBytes)
	assert.Equal(t, DefaultMinResumeChars, cfg.MinResumeChars)
	assert.Equal(t, "pdftotext", cfg.PdftotextPath)
	assert.Equal(t, DefaultSweepInterval, cfg.SweepInterval)
	assert.Equal(t, DefaultSweepMaxAge, cfg.SweepMaxAge)
	assert.Zero(t, cfg.RetentionDays)
	assert.False(t, cfg.Development())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "development")
	t.Setenv("MONGODB_DB", "resumes_test")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("SWEEP_INTERVAL", "1m")
	t.Setenv("RETENTION_DAYS", "30")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.Development())
	assert.Equal(t, "resumes_test", cfg.MongoDB)
	assert.Equal(t, int64(1<<20), cfg.MaxUploadBytes)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.Equal(t, 30, cfg.RetentionDays)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "ten")
	t.Setenv("SWEEP_INTERVAL", "soon")
	t.Setenv("AI_MAX_RETRIES", "many")

	cfg := Load()

	assert.Equal(t, int64(DefaultMaxUploadBytes), cfg.MaxUploadBytes)
	assert.Equal(t, DefaultSweepInterval, cfg.SweepInterval)
	assert.Equal(t, DefaultAIMaxRetries, cfg.AIMaxRetries)
}
