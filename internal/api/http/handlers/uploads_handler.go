package handlers

import (
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/srkbolt25-collab/srkfence-backend/internal/api/dto"
	"github.com/srkbolt25-collab/srkfence-backend/internal/config"
	"github.com/srkbolt25-collab/srkfence-backend/internal/media"
	apperrors "github.com/srkbolt25-collab/srkfence-backend/pkg/util"
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// UploadsHandler forwards image batches to the media host.
type UploadsHandler struct {
	gateway     *media.Gateway
	maxFileSize int64
}

// NewUploadsHandler constructs handler.
func NewUploadsHandler(gateway *media.Gateway, cfg config.MediaConfig) *UploadsHandler {
	return &UploadsHandler{gateway: gateway, maxFileSize: cfg.MaxFileSizeBytes()}
}

// Upload POST /api/uploads. Multipart form with files[] and optional folder.
func (h *UploadsHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return apperrors.NewValidationError("multipart form required", nil)
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return apperrors.NewValidationError("at least one file required", nil)
	}

	folder := ""
	if vals := form.Value["folder"]; len(vals) > 0 {
		folder = vals[0]
	}

	files := make([]media.File, 0, len(headers))
	for _, header := range headers {
		contentType := header.Header.Get("Content-Type")
		if !allowedType(contentType) {
			return apperrors.NewValidationError("unsupported file type", map[string]any{
				header.Filename: fmt.Sprintf("content type %q not allowed", contentType),
			})
		}
		if header.Size > h.maxFileSize {
			return apperrors.NewValidationError("file too large", map[string]any{
				header.Filename: fmt.Sprintf("exceeds %d bytes", h.maxFileSize),
			})
		}

		f, err := header.Open()
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return apperrors.NewInternalError(err)
		}

		files = append(files, media.File{
			Name:        header.Filename,
			ContentType: contentType,
			Data:        data,
		})
	}

	images, err := h.gateway.UploadAll(c.Context(), files, folder)
	if err != nil {
		return apperrors.NewUploadFailed(err)
	}

	return c.JSON(dto.UploadResponse{Success: true, Images: images})
}

func allowedType(contentType string) bool {
	for _, allowed := range allowedImageTypes {
		if strings.HasPrefix(contentType, allowed) {
			return true
		}
	}
	return false
}
