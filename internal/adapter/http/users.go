package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/hamim-ifty/Atc/internal/domain"
)

type userReq struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Headline   string `json:"headline"`
	TargetRole string `json:"targetRole"`
}

func (h *Handler) CreateUser(c *fiber.Ctx) error {
	var req userReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "a valid email is required"})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:         uuid.New().String(),
		Email:      req.Email,
		Name:       req.Name,
		Headline:   strings.TrimSpace(req.Headline),
		TargetRole: strings.TrimSpace(req.TargetRole),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := h.users.Create(c.UserContext(), user); err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *Handler) GetUser(c *fiber.Ctx) error {
	user, err := h.users.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(user)
}

func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	var req userReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	user, err := h.users.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	user.Headline = strings.TrimSpace(req.Headline)
	user.TargetRole = strings.TrimSpace(req.TargetRole)
	user.UpdatedAt = time.Now().UTC()

	if err := h.users.Update(c.UserContext(), user); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(user)
}

func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	if err := h.users.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) UserAnalyses(c *fiber.Ctx) error {
	userID := c.Params("id")
	if _, err := h.users.GetByID(c.UserContext(), userID); err != nil {
		return h.fail(c, err)
	}
	limit, offset := listRange(c)
	analyses, err := h.analyses.List(c.UserContext(), userID, limit, offset)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"analyses": analyses, "count": len(analyses)})
}
