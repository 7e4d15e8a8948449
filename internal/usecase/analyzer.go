package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hamim-ifty/Atc/internal/domain"
	"github.com/hamim-ifty/Atc/internal/extract"
	"github.com/hamim-ifty/Atc/internal/model"
	"github.com/hamim-ifty/Atc/pkg/ai"
)

// ErrResumeTooShort rejects input below the minimum before any AI spend.
var ErrResumeTooShort = errors.New("usecase: resume text below minimum length")

const defaultMinResumeChars = 50

type TextExtractor interface {
	Extract(ctx context.Context, req extract.Request) (string, error)
}

type AnalysisClient interface {
	Analyze(ctx context.Context, resumeText, targetRole string) (*model.AnalysisResult, error)
	Model() string
}

type AnalysisSaver interface {
	Insert(ctx context.Context, a *domain.Analysis) error
}

type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// Analyzer orchestrates one analysis: obtain text (pasted or extracted from
// an upload), run it through the AI client, persist the record.
type Analyzer struct {
	extractor TextExtractor
	ai        AnalysisClient
	repo      AnalysisSaver
	renderer  Renderer
	minChars  int
	logger    *zap.Logger
}

func NewAnalyzer(extractor TextExtractor, client AnalysisClient, repo AnalysisSaver, renderer Renderer, minChars int, logger *zap.Logger) *Analyzer {
	if minChars <= 0 {
		minChars = defaultMinResumeChars
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		extractor: extractor,
		ai:        client,
		repo:      repo,
		renderer:  renderer,
		minChars:  minChars,
		logger:    logger,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, in AnalyzeInput) (*domain.Analysis, error) {
	source := in.Source
	if source == "" {
		source = domain.SourcePaste
	}

	text := strings.TrimSpace(in.ResumeText)
	if source == domain.SourceUpload {
		extracted, err := a.extractor.Extract(ctx, extract.Request{
			FilePath: in.FilePath,
			FileName: in.FileName,
			MIMEType: in.MIMEType,
		})
		if err != nil {
			return nil, err
		}
		text = extracted
	}

	if utf8.RuneCountInString(text) < a.minChars {
		return nil, ErrResumeTooShort
	}
	if a.ai == nil {
		return nil, ai.ErrUnavailable
	}

	result, err := a.ai.Analyze(ctx, text, in.TargetRole)
	if err != nil {
		return nil, fmt.Errorf("analysing resume: %w", err)
	}

	analysis := &domain.Analysis{
		ID:         uuid.New().String(),
		UserID:     in.UserID,
		Source:     source,
		FileName:   in.FileName,
		TargetRole: in.TargetRole,
		ResumeText: text,
		Model:      a.ai.Model(),
		Result:     *result,
		CreatedAt:  time.Now().UTC(),
	}
	if err := a.repo.Insert(ctx, analysis); err != nil {
		return nil, fmt.Errorf("saving analysis: %w", err)
	}

	a.logger.Info("analysis stored",
		zap.String("id", analysis.ID),
		zap.String("source", source),
		zap.Int("score", result.Score),
		zap.Int("ats_score", result.ATSScore))
	return analysis, nil
}

// RenderPDF produces a PDF from the given HTML with retry and signature
// validation; headless Chrome occasionally returns empty output under load.
func (a *Analyzer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	if a.renderer == nil {
		return nil, errors.New("usecase: no renderer configured")
	}

	var pdfBytes []byte
	var renderErr error
	attempts := 3
	for i := 0; i < attempts; i++ {
		pdfBytes, renderErr = a.renderer.RenderHTMLToPDF(ctx, html)
		if renderErr == nil {
			if len(pdfBytes) > 0 && bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
				return pdfBytes, nil
			}
			renderErr = fmt.Errorf("invalid PDF output (len=%d)", len(pdfBytes))
		}
		a.logger.Warn("render attempt failed", zap.Int("attempt", i+1), zap.Error(renderErr))
		if i < attempts-1 {
			backoff := time.Duration(1<<i) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("rendering pdf after %d attempts: %w", attempts, renderErr)
}
