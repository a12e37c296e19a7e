package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sergedenimes/denim-atelier-be/internal/core/storage"
)

const maxAttachmentBytes = 10 * 1024 * 1024

// UploadHandler stores chat attachments and hands back the public URL a
// message can reference.
type UploadHandler struct {
	storage *storage.Service
}

func NewUploadHandler(storageService *storage.Service) *UploadHandler {
	return &UploadHandler{storage: storageService}
}

// UploadAttachment godoc
// @Summary Upload a conversation attachment
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Attachment (max 10MB)"
// @Success 201 {object} storage.UploadResult
// @Failure 400 {object} map[string]string
// @Router /uploads/attachment [post]
func (h *UploadHandler) UploadAttachment(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no file provided"})
	}
	if file.Size > maxAttachmentBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file too large (max 10MB)"})
	}

	result, err := h.storage.UploadMultipart(c.Context(), file, &storage.UploadOptions{
		Folder:   storage.FolderAttachments,
		PublicID: storage.NewObjectKey("attachment"),
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"url":  result.SecureURL,
		"name": file.Filename,
		"mime": file.Header.Get("Content-Type"),
	})
}
