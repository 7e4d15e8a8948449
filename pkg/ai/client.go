package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/hamim-ifty/Atc/internal/model"
)

var (
	// ErrUnavailable means the model could not be reached at all.
	ErrUnavailable = errors.New("ai: service unavailable")
	// ErrBadResponse means the model answered with something that is not a
	// valid analysis document.
	ErrBadResponse = errors.New("ai: malformed response")
)

const (
	defaultModel      = "gemini-2.0-flash"
	defaultMaxInput   = 15000
	defaultMaxRetries = 3
	defaultTimeout    = 60 * time.Second

	maxListItems = 10
)

type Config struct {
	APIKey     string
	Model      string
	MaxInput   int
	MaxRetries int
	Timeout    time.Duration
}

// Client analyses resume text through the Gemini API and returns a
// schema-checked result.
type Client struct {
	genai *genai.Client
	cfg   Config
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxInput <= 0 {
		cfg.MaxInput = defaultMaxInput
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Client{genai: gc, cfg: cfg}, nil
}

// Model reports the model name requests are sent to.
func (c *Client) Model() string { return c.cfg.Model }

// Analyze scores and rewrites the given resume text. Oversized input is
// truncated with a visible marker before prompting. Transport failures are
// retried with exponential backoff; a response that survives retries but
// cannot be decoded and validated fails with ErrBadResponse.
func (c *Client) Analyze(ctx context.Context, resumeText, targetRole string) (*model.AnalysisResult, error) {
	prompt := buildPrompt(truncateInput(resumeText, c.cfg.MaxInput), targetRole)

	genCfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.2),
	}

	var resp *genai.GenerateContentResponse
	var lastErr error
	for i := 0; i < c.cfg.MaxRetries; i++ {
		resp, lastErr = c.genai.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(prompt), genCfg)
		if lastErr == nil {
			break
		}
		if i < c.cfg.MaxRetries-1 {
			backoff := time.Duration(1<<i) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty candidate", ErrBadResponse)
	}
	return decodeResult(text)
}

// responseText flattens the first candidate's text parts. Reading parts
// directly keeps us independent of convenience accessors.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// decodeResult turns the raw model output into a validated AnalysisResult:
// salvage the JSON payload, check it against the schema, then decode and
// normalise it.
func decodeResult(raw string) (*model.AnalysisResult, error) {
	payload := []byte(salvageJSON(raw))

	var m map[string]interface{}
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if err := model.ValidateMap(m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	var result model.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	normalizeResult(&result)
	return &result, nil
}

// salvageJSON recovers the JSON object from model output that wrapped it in
// code fences or commentary: strip fences, and if the remainder still does
// not parse, take the substring from the first '{' to the last '}'.
func salvageJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	if json.Valid([]byte(s)) {
		return s
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

func normalizeResult(r *model.AnalysisResult) {
	r.Score = clampScore(r.Score)
	r.ATSScore = clampScore(r.ATSScore)
	r.Strengths = tidyList(r.Strengths)
	r.Improvements = tidyList(r.Improvements)
	r.Keywords = tidyList(r.Keywords)
	r.Suggestions = tidyList(r.Suggestions)
	r.RewrittenResume = strings.TrimSpace(r.RewrittenResume)
	r.CoverLetter = strings.TrimSpace(r.CoverLetter)
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// tidyList trims items, drops empty ones and caps the list length.
func tidyList(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		s := strings.TrimSpace(it)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == maxListItems {
			break
		}
	}
	return out
}
