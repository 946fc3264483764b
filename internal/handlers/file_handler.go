package handlers

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"hrsystem/internal/services"
)

// FileHandler serves blobs through signed, time-limited download links.
type FileHandler struct {
	documentStore services.DocumentStore
}

func NewFileHandler(documentStore services.DocumentStore) *FileHandler {
	return &FileHandler{documentStore: documentStore}
}

func (h *FileHandler) HandleDownload(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil || name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid file name",
		})
	}

	expires := c.Query("expires")
	sig := c.Query("sig")

	if err := h.documentStore.VerifySignedName(name, expires, sig); err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "invalid or expired download link",
		})
	}

	rc, size, err := h.documentStore.Open(name)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "file not found",
		})
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.SendStream(rc, int(size))
}
