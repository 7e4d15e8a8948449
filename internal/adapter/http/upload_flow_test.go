package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamim-ifty/Atc/internal/domain"
	"github.com/hamim-ifty/Atc/internal/extract"
	"github.com/hamim-ifty/Atc/internal/model"
	"github.com/hamim-ifty/Atc/internal/storage"
	"github.com/hamim-ifty/Atc/internal/usecase"
	"github.com/hamim-ifty/Atc/pkg/ai"
)

// salvageablePDF carries its text in metadata fields and parenthesised runs
// so the byte-scan strategy can recover it despite the trashed xref table.
var salvageablePDF = []byte("%PDF-1.4\n" +
	"1 0 obj\n" +
	"<< /Title (Senior Backend Engineer with nine years of Go) " +
	"/Subject (Resume for platform roles) " +
	"/Keywords (golang, kubernetes, postgresql, grpc, kafka) >>\n" +
	"endobj\n" +
	"2 0 obj\n<< /Length 64 >>\nstream\n" +
	"BT (Built payment infrastructure processing millions daily) Tj ET\n" +
	"endstream\nendobj\n" +
	"trailer\n<< /Root 1 0 R >>\nstartxref\n999999\n%%EOF\n")

type flowAI struct {
	result  *model.AnalysisResult
	err     error
	gotText string
}

func (f *flowAI) Analyze(_ context.Context, resumeText, _ string) (*model.AnalysisResult, error) {
	f.gotText = resumeText
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *flowAI) Model() string { return "gemini-test" }

type flowRepo struct {
	saved []*domain.Analysis
}

func (f *flowRepo) Insert(_ context.Context, a *domain.Analysis) error {
	f.saved = append(f.saved, a)
	return nil
}

type failRunner struct{}

func (failRunner) Run(context.Context, string, ...string) ([]byte, error) {
	return nil, errors.New("pdftotext not installed")
}

// newFlowApp wires the real pipeline, upload store and analyzer behind the
// handler, stubbing only the AI client and the record store.
func newFlowApp(t *testing.T, aiStub *flowAI) (*fiber.App, *flowRepo, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")
	uploads, err := storage.NewUploads(dir, 10<<20, nil)
	require.NoError(t, err)

	pipeline := extract.NewWithRunner(extract.Config{}, failRunner{}, nil)
	repo := &flowRepo{}
	svc := usecase.NewAnalyzer(pipeline, aiStub, repo, nil, 50, nil)

	h := NewHandler(Deps{
		Service:  svc,
		Analyses: &analysesStub{byID: map[string]*domain.Analysis{}},
		Users:    &usersStub{byID: map[string]*domain.User{}},
		Comments: &commentsStub{},
		Stats:    &statsStub{stats: &domain.Stats{}},
		Uploads:  uploads,
	})
	app := fiber.New()
	h.Register(app)
	return app, repo, dir
}

func TestUploadFlowEndToEnd(t *testing.T) {
	res := sampleAnalysis().Result
	aiStub := &flowAI{result: &res}
	app, repo, dir := newFlowApp(t, aiStub)

	body, ctype := multipartUpload(t, "resume.pdf", salvageablePDF, map[string]string{
		"targetRole": "Backend Engineer",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/analyses/upload", body)
	req.Header.Set("Content-Type", ctype)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	require.Len(t, repo.saved, 1)
	saved := repo.saved[0]
	assert.Equal(t, domain.SourceUpload, saved.Source)
	assert.Equal(t, "resume.pdf", saved.FileName)
	assert.GreaterOrEqual(t, len(saved.ResumeText), 10)
	assert.Contains(t, saved.ResumeText, "Senior Backend Engineer")
	assert.Contains(t, aiStub.gotText, "golang, kubernetes")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadFlowCleansUpOnAIFailure(t *testing.T) {
	aiStub := &flowAI{err: fmt.Errorf("%w: quota exceeded", ai.ErrUnavailable)}
	app, repo, dir := newFlowApp(t, aiStub)

	body, ctype := multipartUpload(t, "resume.pdf", salvageablePDF, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/analyses/upload", body)
	req.Header.Set("Content-Type", ctype)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	resp.Body.Close()

	assert.Empty(t, repo.saved)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
