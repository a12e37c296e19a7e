package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sergedenimes/denim-atelier-be/internal/modules/design/repositories"
	"github.com/sergedenimes/denim-atelier-be/internal/modules/design/services"
)

const maxUploadBytes = 10 * 1024 * 1024

// SessionHandler exposes the design-session flow over HTTP.
type SessionHandler struct {
	service         *services.SessionService
	detectTimeout   time.Duration
	generateTimeout time.Duration
}

func NewSessionHandler(service *services.SessionService, detectTimeout, generateTimeout time.Duration) *SessionHandler {
	return &SessionHandler{
		service:         service,
		detectTimeout:   detectTimeout,
		generateTimeout: generateTimeout,
	}
}

// respondErr maps domain errors onto the HTTP status classes: validation
// failures are 4xx, unresolved ids are 404, everything else is a 500.
func respondErr(c *fiber.Ctx, err error) error {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": vErr.Message})
	}
	if errors.Is(err, repositories.ErrSessionNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

// CreateSession godoc
// @Summary Upload a garment photo and open a design session
// @Tags Sessions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Garment photo (max 10MB)"
// @Success 201 {object} models.DesignSession
// @Failure 400 {object} map[string]string
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "no file provided",
		})
	}
	if file.Size > maxUploadBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file too large (max 10MB)",
		})
	}

	session, err := h.service.StartSession(c.Context(), file)
	if err != nil {
		return respondErr(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session_id":        session.ID,
		"garment_image_url": session.GarmentImageURL,
	})
}

// GetSession godoc
// @Summary Resume a design session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.DesignSession
// @Failure 404 {object} map[string]string
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.service.GetSession(c.Params("id"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(session)
}

// Detect godoc
// @Summary Classify the uploaded garment
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} ai.DetectionResult
// @Failure 404 {object} map[string]string
// @Router /sessions/{id}/detect [post]
func (h *SessionHandler) Detect(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.detectTimeout)
	defer cancel()

	detection, err := h.service.Detect(ctx, c.Params("id"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(detection)
}

type selectStyleRequest struct {
	StyleKey string `json:"style_key"`
}

// SelectStyle godoc
// @Summary Choose a catalog style for the session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.DesignSession
// @Failure 400 {object} map[string]string
// @Router /sessions/{id}/style [put]
func (h *SessionHandler) SelectStyle(c *fiber.Ctx) error {
	var req selectStyleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.StyleKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "style_key is required"})
	}

	session, err := h.service.SelectStyle(c.Context(), c.Params("id"), req.StyleKey)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(session)
}

// SubmitCustom godoc
// @Summary Submit free-form customization instructions
// @Tags Sessions
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param instructions formData string true "Instructions (10-500 characters)"
// @Param reference formData file false "Optional design reference image"
// @Success 200 {object} models.DesignSession
// @Failure 400 {object} map[string]string
// @Router /sessions/{id}/custom [put]
func (h *SessionHandler) SubmitCustom(c *fiber.Ctx) error {
	instructions := c.FormValue("instructions")
	if instructions == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "instructions are required"})
	}

	// Optional reference image
	reference, err := c.FormFile("reference")
	if err != nil {
		reference = nil
	}
	if reference != nil && reference.Size > maxUploadBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file too large (max 10MB)"})
	}

	session, err := h.service.SubmitCustom(c.Context(), c.Params("id"), instructions, reference)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(session)
}

// Generate godoc
// @Summary Generate a design image for the chosen path
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.GenerateResult
// @Failure 400 {object} map[string]string
// @Router /sessions/{id}/generate [post]
func (h *SessionHandler) Generate(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.generateTimeout)
	defer cancel()

	result, err := h.service.Generate(ctx, c.Params("id"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(result)
}

type regenerateRequest struct {
	Feedback string `json:"feedback"`
}

// Regenerate godoc
// @Summary Regenerate the design with customer feedback
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.GenerateResult
// @Failure 400 {object} map[string]string
// @Router /sessions/{id}/regenerate [post]
func (h *SessionHandler) Regenerate(c *fiber.Ctx) error {
	var req regenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	ctx, cancel := context.WithTimeout(c.Context(), h.generateTimeout)
	defer cancel()

	result, err := h.service.Regenerate(ctx, c.Params("id"), req.Feedback)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(result)
}

// Lock godoc
// @Summary Lock the current design and compute its price
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.LockResult
// @Failure 400 {object} map[string]string
// @Router /sessions/{id}/lock [post]
func (h *SessionHandler) Lock(c *fiber.Ctx) error {
	result, err := h.service.Lock(c.Context(), c.Params("id"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(result)
}

// ListGenerations godoc
// @Summary List the generation audit trail for a session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {array} models.Generation
// @Router /sessions/{id}/generations [get]
func (h *SessionHandler) ListGenerations(c *fiber.Ctx) error {
	generations, err := h.service.ListGenerations(c.Params("id"))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(generations)
}
