package http

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/yuin/goldmark"

	"github.com/hamim-ifty/Atc/internal/domain"
)

//go:embed templates/report.html
var reportHTML string

var reportTpl = template.Must(template.New("report").Parse(reportHTML))

type reportData struct {
	Title     string
	Subtitle  string
	Content   template.HTML
	Generated string
}

// DownloadAnalysis serves the rewritten resume or cover letter of a stored
// analysis. The documents are kept as markdown; md and txt stream them as-is,
// pdf converts to HTML and renders through the headless-Chrome renderer.
func (h *Handler) DownloadAnalysis(c *fiber.Ctx) error {
	analysis, err := h.analyses.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}

	doc := c.Query("doc", "resume")
	var title, content string
	switch doc {
	case "resume":
		title = "Rewritten Resume"
		content = analysis.Result.RewrittenResume
	case "cover-letter":
		title = "Cover Letter"
		content = analysis.Result.CoverLetter
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "doc must be 'resume' or 'cover-letter'"})
	}
	if strings.TrimSpace(content) == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": fmt.Sprintf("analysis has no %s document", doc)})
	}

	name := fmt.Sprintf("%s-%s", doc, shortID(analysis.ID))
	switch format := c.Query("format", "pdf"); format {
	case "md":
		c.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.md"`, name))
		return c.SendString(content)
	case "txt":
		c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.txt"`, name))
		return c.SendString(content)
	case "pdf":
		html, err := buildReport(title, analysis, content)
		if err != nil {
			return h.fail(c, err)
		}
		pdf, err := h.svc.RenderPDF(c.UserContext(), html)
		if err != nil {
			return h.fail(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.pdf"`, name))
		return c.Send(pdf)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "format must be 'pdf', 'md' or 'txt'"})
	}
}

func buildReport(title string, a *domain.Analysis, md string) (string, error) {
	var body bytes.Buffer
	if err := goldmark.Convert([]byte(md), &body); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	subtitle := a.TargetRole
	if subtitle == "" {
		subtitle = "General application"
	}
	var out bytes.Buffer
	data := reportData{
		Title:     title,
		Subtitle:  subtitle,
		Content:   template.HTML(body.String()),
		Generated: a.CreatedAt.Format("2 January 2006"),
	}
	if err := reportTpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("building report: %w", err)
	}
	return out.String(), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
