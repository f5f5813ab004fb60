package dto

import "github.com/srkbolt25-collab/srkfence-backend/internal/media"

// UploadResponse returns the stored images for a batch.
type UploadResponse struct {
	Success bool          `json:"success"`
	Images  []media.Image `json:"images"`
}
