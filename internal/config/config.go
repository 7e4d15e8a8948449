package config

import (
	"os"
	"strconv"
	"time"
)

// Defaults for everything tunable. Each can be overridden by the
// environment variable of the same concern; see Load.
const (
	DefaultPort           = "3000"
	DefaultMongoURI       = "mongodb://localhost:27017"
	DefaultMongoDB        = "resume_analyzer"
	DefaultGeminiModel    = "gemini-2.0-flash"
	DefaultAITimeout      = 60 * time.Second
	DefaultAIMaxRetries   = 3
	DefaultMaxInputChars  = 15000
	DefaultUploadDir      = "uploads"
	DefaultMaxUploadBytes = 10 << 20 // 10 MiB
	DefaultMinResumeChars = 50
	DefaultToolTimeout    = 20 * time.Second
	DefaultSweepInterval  = 10 * time.Minute
	DefaultSweepMaxAge    = time.Hour
)

// Config carries every runtime setting. It is loaded once in main and
// passed explicitly into constructors; nothing else reads the environment.
type Config struct {
	Port string
	Env  string

	MongoURI string
	MongoDB  string

	GeminiAPIKey  string
	GeminiModel   string
	AITimeout     time.Duration
	AIMaxRetries  int
	MaxInputChars int

	UploadDir      string
	MaxUploadBytes int64
	MinResumeChars int

	PdftotextPath string
	ToolTimeout   time.Duration

	SweepInterval time.Duration
	SweepMaxAge   time.Duration
	RetentionDays int

	ChromePath string
}

// Load reads the configuration from the environment, falling back to
// defaults for anything unset. It never fails: a missing AI key only
// disables analysis, which the caller decides how to handle.
func Load() *Config {
	return &Config{
		Port: getEnv("PORT", DefaultPort),
		Env:  getEnv("APP_ENV", "production"),

		MongoURI: getEnv("MONGODB_URI", DefaultMongoURI),
		MongoDB:  getEnv("MONGODB_DB", DefaultMongoDB),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", DefaultGeminiModel),
		AITimeout:     getDuration("AI_TIMEOUT", DefaultAITimeout),
		AIMaxRetries:  getInt("AI_MAX_RETRIES", DefaultAIMaxRetries),
		MaxInputChars: getInt("AI_MAX_INPUT_CHARS", DefaultMaxInputChars),

		UploadDir:      getEnv("UPLOAD_DIR", DefaultUploadDir),
		MaxUploadBytes: getInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
		MinResumeChars: getInt("MIN_RESUME_CHARS", DefaultMinResumeChars),

		PdftotextPath: getEnv("PDFTOTEXT_PATH", "pdftotext"),
		ToolTimeout:   getDuration("EXTRACT_TOOL_TIMEOUT", DefaultToolTimeout),

		SweepInterval: getDuration("SWEEP_INTERVAL", DefaultSweepInterval),
		SweepMaxAge:   getDuration("SWEEP_MAX_AGE", DefaultSweepMaxAge),
		RetentionDays: getInt("RETENTION_DAYS", 0),

		ChromePath: getEnv("CHROME_PATH", ""),
	}
}

// Development reports whether the service runs with a development profile
// (human-readable logs, looser chromedp flags).
func (c *Config) Development() bool {
	return c.Env == "development"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
