package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sergedenimes/denim-atelier-be/internal/modules/concierge/services"
)

// ConversationHandler exposes the conversation threads: the customer's own
// thread and the admin inbox over all of them.
type ConversationHandler struct {
	service *services.ConciergeService
}

func NewConversationHandler(service *services.ConciergeService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// ListConversations godoc
// @Summary List conversations
// @Description With user_id, returns that user's thread (opening one if absent). Without it, returns the admin inbox ordered by latest customer activity.
// @Tags Conversations
// @Produce json
// @Param user_id query string false "User ID"
// @Success 200 {array} models.Conversation
// @Router /conversations [get]
func (h *ConversationHandler) ListConversations(c *fiber.Ctx) error {
	if userID := c.Query("user_id"); userID != "" {
		conversation, err := h.service.GetOrCreateConversation(userID)
		if err != nil {
			return respondErr(c, err)
		}
		return c.JSON([]interface{}{conversation})
	}

	conversations, err := h.service.ListConversations()
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(conversations)
}

type createConversationRequest struct {
	UserID string `json:"user_id"`
}

// CreateConversation godoc
// @Summary Open (or return) the user's conversation thread
// @Tags Conversations
// @Accept json
// @Produce json
// @Success 200 {object} models.Conversation
// @Failure 404 {object} map[string]string
// @Router /conversations [post]
func (h *ConversationHandler) CreateConversation(c *fiber.Ctx) error {
	var req createConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id is required"})
	}

	conversation, err := h.service.GetOrCreateConversation(req.UserID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(conversation)
}

type decideOrderRequest struct {
	Action string `json:"action"`
}

// DecideOrder godoc
// @Summary Accept or decline the order discussed in a conversation
// @Description Requires a prior admin review with verdict "possible". Each conversation is decided at most once.
// @Tags Conversations
// @Accept json
// @Produce json
// @Param id path string true "Conversation ID"
// @Success 200 {object} models.Conversation
// @Failure 400 {object} map[string]string
// @Router /conversations/{id} [patch]
func (h *ConversationHandler) DecideOrder(c *fiber.Ctx) error {
	var req decideOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	var accept bool
	switch req.Action {
	case "accept":
		accept = true
	case "decline":
		accept = false
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "action must be 'accept' or 'decline'"})
	}

	conversation, err := h.service.DecideOrder(c.Params("id"), accept)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(conversation)
}
