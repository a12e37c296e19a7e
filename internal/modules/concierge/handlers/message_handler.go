package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sergedenimes/denim-atelier-be/internal/modules/concierge/models"
	"github.com/sergedenimes/denim-atelier-be/internal/modules/concierge/services"
)

// MessageHandler exposes the message timeline of a conversation.
type MessageHandler struct {
	service *services.ConciergeService
}

func NewMessageHandler(service *services.ConciergeService) *MessageHandler {
	return &MessageHandler{service: service}
}

// ListMessages godoc
// @Summary List a conversation's messages, oldest first
// @Tags Messages
// @Produce json
// @Param conversation_id query string true "Conversation ID"
// @Success 200 {array} models.Message
// @Failure 404 {object} map[string]string
// @Router /messages [get]
func (h *MessageHandler) ListMessages(c *fiber.Ctx) error {
	conversationID := c.Query("conversation_id")
	if conversationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "conversation_id is required"})
	}

	messages, err := h.service.ListMessages(conversationID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(messages)
}

type postMessageRequest struct {
	ConversationID string  `json:"conversation_id"`
	SenderRole     string  `json:"sender_role"`
	MessageType    string  `json:"message_type"`
	Body           *string `json:"body"`
	FileURL        *string `json:"file_url"`
	FileName       *string `json:"file_name"`
	FileType       *string `json:"file_type"`
	LinkURL        *string `json:"link_url"`
	Verdict        *string `json:"verdict"`
}

// PostMessage godoc
// @Summary Append a message to a conversation
// @Tags Messages
// @Accept json
// @Produce json
// @Success 201 {object} models.Message
// @Failure 400 {object} map[string]string
// @Router /messages [post]
func (h *MessageHandler) PostMessage(c *fiber.Ctx) error {
	var req postMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.ConversationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "conversation_id is required"})
	}

	in := services.PostMessageInput{
		ConversationID: req.ConversationID,
		SenderRole:     models.SenderRole(req.SenderRole),
		MessageType:    models.MessageType(req.MessageType),
		Body:           req.Body,
		FileURL:        req.FileURL,
		FileName:       req.FileName,
		FileType:       req.FileType,
		LinkURL:        req.LinkURL,
	}
	if req.Verdict != nil {
		verdict := models.Verdict(*req.Verdict)
		in.Verdict = &verdict
	}

	message, err := h.service.PostMessage(in)
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}
