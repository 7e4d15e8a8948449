package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/hamim-ifty/Atc/internal/config"
	"github.com/hamim-ifty/Atc/internal/extract"
	"github.com/hamim-ifty/Atc/internal/model"
	"github.com/hamim-ifty/Atc/pkg/ai"
)

// analyze extracts text from a resume file and, when GEMINI_API_KEY is set,
// scores it the same way the server does. Handy for trying the extraction
// strategies against a real file without running the full service.

type output struct {
	File   string                `json:"file"`
	Chars  int                   `json:"chars"`
	Text   string                `json:"text"`
	Model  string                `json:"model,omitempty"`
	Result *model.AnalysisResult `json:"result,omitempty"`
}

func main() {
	filePath := flag.String("file", "", "Path to resume file (pdf, docx or txt)")
	role := flag.String("role", "", "Target role to score against (optional)")
	mimeType := flag.String("mime", "", "MIME type override (default: from extension)")
	outPath := flag.String("out", "", "Path to write JSON output (optional)")
	flag.Parse()

	if strings.TrimSpace(*filePath) == "" {
		exitErr("file path is required")
	}

	cfg := config.Load()
	logger := zap.NewNop()
	if cfg.Development() {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}

	pipeline := extract.New(extract.Config{
		MaxFileBytes:  cfg.MaxUploadBytes,
		PdftotextPath: cfg.PdftotextPath,
		ToolTimeout:   cfg.ToolTimeout,
	}, logger)

	mt := *mimeType
	if mt == "" {
		mt = mimeFromExt(*filePath)
	}

	ctx := context.Background()
	text, err := pipeline.Extract(ctx, extract.Request{
		FilePath: *filePath,
		FileName: filepath.Base(*filePath),
		MIMEType: mt,
	})
	if err != nil {
		exitErr(fmt.Sprintf("extract: %v", err))
	}

	out := output{
		File:  filepath.Base(*filePath),
		Chars: utf8.RuneCountInString(text),
		Text:  text,
	}

	if cfg.GeminiAPIKey != "" {
		client, err := ai.NewClient(ctx, ai.Config{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			MaxInput:   cfg.MaxInputChars,
			MaxRetries: cfg.AIMaxRetries,
			Timeout:    cfg.AITimeout,
		})
		if err != nil {
			exitErr(fmt.Sprintf("ai client: %v", err))
		}
		result, err := client.Analyze(ctx, text, *role)
		if err != nil {
			exitErr(fmt.Sprintf("analyze: %v", err))
		}
		out.Model = client.Model()
		out.Result = result
	}

	pretty, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("format json: %v", err))
	}
	pretty = append(pretty, '\n')

	if *outPath != "" {
		if err := os.WriteFile(*outPath, pretty, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}
	if _, err := os.Stdout.Write(pretty); err != nil {
		exitErr(fmt.Sprintf("write stdout: %v", err))
	}
}

func mimeFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".doc":
		return "application/msword"
	case ".txt", ".text":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
