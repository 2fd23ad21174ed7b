package upload

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const maxFilesPerRequest = 10

// Handlers binds the upload routes.
type Handlers struct {
	service *Service
}

// NewHandlers creates the handler set.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the upload endpoints on router.
func (h *Handlers) RegisterRoutes(router fiber.Router) {
	group := router.Group("/upload")
	group.Post("/single", h.uploadSingle)
	group.Post("/multiple", h.uploadMultiple)
}

// uploadSingle handles POST /upload/single with one file under field
// "file".
func (h *Handlers) uploadSingle(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return uploadErrors.NewWithCause(ErrNoFile, err)
	}

	stored, err := h.service.Store(c.Context(), "file", header)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"message":      "File uploaded successfully",
		"relativePath": stored.RelativePath,
		"absolutePath": stored.AbsolutePath,
	})
}

// uploadMultiple handles POST /upload/multiple with up to ten files under
// field "files".
func (h *Handlers) uploadMultiple(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return uploadErrors.NewWithCause(ErrNoFile, err)
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return uploadErrors.New(ErrNoFile)
	}
	if len(headers) > maxFilesPerRequest {
		headers = headers[:maxFilesPerRequest]
	}

	files := make([]StoredFile, 0, len(headers))
	for _, header := range headers {
		stored, err := h.service.Store(c.Context(), "files", header)
		if err != nil {
			return err
		}
		files = append(files, stored)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("%d files uploaded successfully", len(files)),
		"files":   files,
	})
}
