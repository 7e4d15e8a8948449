package http

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hamim-ifty/Atc/internal/adapter/repository"
	"github.com/hamim-ifty/Atc/internal/domain"
	"github.com/hamim-ifty/Atc/internal/extract"
	"github.com/hamim-ifty/Atc/internal/storage"
	"github.com/hamim-ifty/Atc/internal/usecase"
	"github.com/hamim-ifty/Atc/pkg/ai"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type AnalysisService interface {
	Analyze(ctx context.Context, in usecase.AnalyzeInput) (*domain.Analysis, error)
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

type AnalysisStore interface {
	GetByID(ctx context.Context, id string) (*domain.Analysis, error)
	List(ctx context.Context, userID string, limit, offset int64) ([]domain.Analysis, error)
	Delete(ctx context.Context, id string) error
}

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
}

type CommentStore interface {
	Insert(ctx context.Context, c *domain.Comment) error
	List(ctx context.Context, analysisID string, limit int64) ([]domain.Comment, error)
	Delete(ctx context.Context, id string) error
}

type StatsSource interface {
	Collect(ctx context.Context) (*domain.Stats, error)
}

type UploadStore interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(path string)
}

type Deps struct {
	Service  AnalysisService
	Analyses AnalysisStore
	Users    UserStore
	Comments CommentStore
	Stats    StatsSource
	Uploads  UploadStore
	Logger   *zap.Logger
}

type Handler struct {
	svc      AnalysisService
	analyses AnalysisStore
	users    UserStore
	comments CommentStore
	stats    StatsSource
	uploads  UploadStore
	logger   *zap.Logger
}

func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		svc:      d.Service,
		analyses: d.Analyses,
		users:    d.Users,
		comments: d.Comments,
		stats:    d.Stats,
		uploads:  d.Uploads,
		logger:   logger,
	}
}

func (h *Handler) Register(app *fiber.App) {
	app.Get("/health", h.Health)

	api := app.Group("/api")
	api.Post("/analyses", h.CreateAnalysis)
	api.Post("/analyses/upload", h.UploadAnalysis)
	api.Get("/analyses", h.ListAnalyses)
	api.Get("/analyses/:id", h.GetAnalysis)
	api.Delete("/analyses/:id", h.DeleteAnalysis)
	api.Get("/analyses/:id/download", h.DownloadAnalysis)

	api.Post("/users", h.CreateUser)
	api.Get("/users/:id", h.GetUser)
	api.Put("/users/:id", h.UpdateUser)
	api.Delete("/users/:id", h.DeleteUser)
	api.Get("/users/:id/analyses", h.UserAnalyses)

	api.Post("/comments", h.CreateComment)
	api.Get("/comments", h.ListComments)
	api.Delete("/comments/:id", h.DeleteComment)

	api.Get("/stats", h.Stats)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

type analyzeReq struct {
	ResumeText string `json:"resumeText"`
	TargetRole string `json:"targetRole"`
	UserID     string `json:"userId"`
}

func (h *Handler) CreateAnalysis(c *fiber.Ctx) error {
	var req analyzeReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if req.ResumeText == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "resumeText is required"})
	}

	analysis, err := h.svc.Analyze(c.UserContext(), usecase.AnalyzeInput{
		UserID:     req.UserID,
		TargetRole: req.TargetRole,
		Source:     domain.SourcePaste,
		ResumeText: req.ResumeText,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(analysis)
}

func (h *Handler) UploadAnalysis(c *fiber.Ctx) error {
	fh, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "multipart field 'resume' is required"})
	}

	path, err := h.uploads.Save(fh)
	if err != nil {
		return h.fail(c, err)
	}
	// the temp file must go away on every exit path
	defer h.uploads.Remove(path)

	analysis, err := h.svc.Analyze(c.UserContext(), usecase.AnalyzeInput{
		UserID:     c.FormValue("userId"),
		TargetRole: c.FormValue("targetRole"),
		Source:     domain.SourceUpload,
		FileName:   fh.Filename,
		FilePath:   path,
		MIMEType:   fh.Header.Get("Content-Type"),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(analysis)
}

func (h *Handler) ListAnalyses(c *fiber.Ctx) error {
	limit, offset := listRange(c)
	analyses, err := h.analyses.List(c.UserContext(), c.Query("userId"), limit, offset)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"analyses": analyses, "count": len(analyses)})
}

func (h *Handler) GetAnalysis(c *fiber.Ctx) error {
	analysis, err := h.analyses.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(analysis)
}

func (h *Handler) DeleteAnalysis(c *fiber.Ctx) error {
	if err := h.analyses.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Stats(c *fiber.Ctx) error {
	stats, err := h.stats.Collect(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(stats)
}

func listRange(c *fiber.Ctx) (limit, offset int64) {
	limit = int64(c.QueryInt("limit", defaultListLimit))
	if limit < 1 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset = int64(c.QueryInt("offset", 0))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// fail maps domain failures onto HTTP statuses: bad input 400, unreadable
// Word document 422, exhausted extraction 500, AI trouble 502, missing
// records 404. Anything unrecognised is logged and answered with a plain 500.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	var exErr *extract.Error
	if errors.As(err, &exErr) {
		status := fiber.StatusBadRequest
		switch exErr.Kind {
		case extract.KindDocument:
			status = fiber.StatusUnprocessableEntity
		case extract.KindExtraction:
			status = fiber.StatusInternalServerError
		}
		return c.Status(status).JSON(fiber.Map{"error": exErr.UserMessage()})
	}

	switch {
	case errors.Is(err, usecase.ErrResumeTooShort):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Resume must contain at least 50 characters of text.",
		})
	case errors.Is(err, storage.ErrUnsupportedExtension):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported file type. Upload a PDF, Word document, or plain-text file.",
		})
	case errors.Is(err, storage.ErrTooLarge):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is too large.",
		})
	case errors.Is(err, ai.ErrUnavailable), errors.Is(err, ai.ErrBadResponse):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "The analysis service is unavailable right now. Please try again shortly.",
		})
	case errors.Is(err, repository.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, repository.ErrDuplicateEmail):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "email already registered"})
	}

	h.logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
