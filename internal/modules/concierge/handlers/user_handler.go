package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sergedenimes/denim-atelier-be/internal/modules/concierge/repositories"
	"github.com/sergedenimes/denim-atelier-be/internal/modules/concierge/services"
)

// respondErr maps domain errors onto the HTTP status classes: validation
// failures are 4xx, unresolved ids are 404, everything else is a 500.
func respondErr(c *fiber.Ctx, err error) error {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": vErr.Message})
	}
	if errors.Is(err, repositories.ErrUserNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}
	if errors.Is(err, repositories.ErrConversationNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "conversation not found"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

// UserHandler exposes user registration and lookup.
type UserHandler struct {
	service *services.ConciergeService
}

func NewUserHandler(service *services.ConciergeService) *UserHandler {
	return &UserHandler{service: service}
}

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateUser godoc
// @Summary Register a user, or return the existing account for the email
// @Tags Users
// @Accept json
// @Produce json
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]string
// @Router /users [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	user, err := h.service.GetOrCreateUser(req.Name, req.Email)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(user)
}
