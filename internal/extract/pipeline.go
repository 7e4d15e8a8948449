package extract

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	// minTextDefault is the post-condition floor: any extraction yielding
	// fewer characters after trimming counts as insufficient content.
	minTextDefault = 10

	maxFileBytesDefault = 10 << 20
	toolTimeoutDefault  = 20 * time.Second
	pdftotextDefault    = "pdftotext"
)

type fileType int

const (
	typeUnknown fileType = iota
	typePDF
	typeWord
	typeText
)

// Config carries the pipeline knobs. Zero values fall back to the defaults
// above so a bare Config{} behaves sensibly.
type Config struct {
	MaxFileBytes  int64
	MinTextChars  int
	PdftotextPath string
	ToolTimeout   time.Duration
}

// Request identifies one uploaded file to extract text from.
type Request struct {
	FilePath string
	FileName string
	MIMEType string
}

// Pipeline turns uploaded resume files into plain text. It is stateless and
// safe for concurrent use.
type Pipeline struct {
	cfg    Config
	runner CommandRunner
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Pipeline {
	return NewWithRunner(cfg, execRunner{}, logger)
}

// NewWithRunner builds a pipeline with a caller-supplied CommandRunner for
// the pdftotext strategy.
func NewWithRunner(cfg Config, runner CommandRunner, logger *zap.Logger) *Pipeline {
	if cfg.MaxFileBytes <= 0 {
		cfg.MaxFileBytes = maxFileBytesDefault
	}
	if cfg.MinTextChars <= 0 {
		cfg.MinTextChars = minTextDefault
	}
	if cfg.PdftotextPath == "" {
		cfg.PdftotextPath = pdftotextDefault
	}
	if cfg.ToolTimeout <= 0 {
		cfg.ToolTimeout = toolTimeoutDefault
	}
	if runner == nil {
		runner = execRunner{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, runner: runner, logger: logger}
}

// Extract validates the file, dispatches on its declared type and returns
// the trimmed text. Every failure comes back as an *Error whose Kind tells
// the caller what went wrong; the input file is never modified.
func (p *Pipeline) Extract(ctx context.Context, req Request) (string, error) {
	if err := ValidateFile(req.FilePath, req.FileName, p.cfg.MaxFileBytes); err != nil {
		return "", err
	}

	var (
		text     string
		strategy string
		err      error
	)
	switch detectType(req.MIMEType, req.FileName) {
	case typePDF:
		text, strategy, err = p.extractPDF(ctx, req.FilePath)
	case typeWord:
		text, err = extractWord(req.FilePath)
		strategy = "docx"
	case typeText:
		text, err = readPlainText(req.FilePath)
		strategy = "plain"
	default:
		return "", unsupportedErr(req.MIMEType, req.FileName)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n < p.cfg.MinTextChars {
		return "", insufficientErr(n, p.cfg.MinTextChars)
	}

	p.logger.Info("text extracted",
		zap.String("file", req.FileName),
		zap.String("strategy", strategy),
		zap.Int("chars", utf8.RuneCountInString(text)))
	return text, nil
}

// detectType trusts the declared MIME type first and falls back to the file
// extension when the type is missing or generic.
func detectType(mimeType, name string) fileType {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch mt {
	case "application/pdf":
		return typePDF
	case "application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return typeWord
	case "text/plain":
		return typeText
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return typePDF
	case ".doc", ".docx":
		return typeWord
	case ".txt":
		return typeText
	}
	return typeUnknown
}

// readPlainText slurps the file as UTF-8, replacing any invalid sequences
// rather than failing on them.
func readPlainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", extractionErr(err)
	}
	return string(bytes.ToValidUTF8(data, []byte("�"))), nil
}
