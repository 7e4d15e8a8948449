package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/hamim-ifty/Atc/internal/domain"
)

type commentReq struct {
	AnalysisID string `json:"analysisId"`
	UserName   string `json:"userName"`
	Message    string `json:"message"`
	Rating     int    `json:"rating"`
}

func (h *Handler) CreateComment(c *fiber.Ctx) error {
	var req commentReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "message is required"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "rating must be between 1 and 5"})
	}
	userName := strings.TrimSpace(req.UserName)
	if userName == "" {
		userName = "Anonymous"
	}

	comment := &domain.Comment{
		ID:         uuid.New().String(),
		AnalysisID: req.AnalysisID,
		UserName:   userName,
		Message:    req.Message,
		Rating:     req.Rating,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.comments.Insert(c.UserContext(), comment); err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *Handler) ListComments(c *fiber.Ctx) error {
	limit, _ := listRange(c)
	comments, err := h.comments.List(c.UserContext(), c.Query("analysisId"), limit)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments, "count": len(comments)})
}

func (h *Handler) DeleteComment(c *fiber.Ctx) error {
	if err := h.comments.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
