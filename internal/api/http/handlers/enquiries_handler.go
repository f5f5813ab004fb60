package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/srkbolt25-collab/srkfence-backend/internal/api/dto"
	"github.com/srkbolt25-collab/srkfence-backend/internal/domain"
	"github.com/srkbolt25-collab/srkfence-backend/internal/service"
	apperrors "github.com/srkbolt25-collab/srkfence-backend/pkg/util"
)

// EnquiriesHandler serves RFQ intake (public) and the admin workflow
// (token-gated, including listing).
type EnquiriesHandler struct {
	service *service.EnquiryService
}

// NewEnquiriesHandler constructs handler.
func NewEnquiriesHandler(enquiryService *service.EnquiryService) *EnquiriesHandler {
	return &EnquiriesHandler{service: enquiryService}
}

// Submit POST /api/enquiries (public).
func (h *EnquiriesHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitEnquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	items := make([]domain.EnquiryItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.EnquiryItem{
			ProductID:    item.ProductID,
			ProductTitle: item.ProductTitle,
			Quantity:     item.Quantity,
		})
	}

	record, err := h.service.Submit(c.Context(), service.EnquirySubmitInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Message: req.Message,
		Items:   items,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(record.Flatten())
}

// List GET /api/enquiries.
func (h *EnquiriesHandler) List(c *fiber.Ctx) error {
	records, err := h.service.List(c.Context())
	if err != nil {
		return err
	}

	items := make([]map[string]any, 0, len(records))
	for i := range records {
		items = append(items, records[i].Flatten())
	}
	return c.JSON(fiber.Map{"enquiries": items})
}

// Get GET /api/enquiries/:id.
func (h *EnquiriesHandler) Get(c *fiber.Ctx) error {
	record, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(record.Flatten())
}

// UpdateStatus PUT /api/enquiries/:id/status.
func (h *EnquiriesHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateEnquiryStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	record, err := h.service.UpdateStatus(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(record.Flatten())
}

// Delete DELETE /api/enquiries/:id.
func (h *EnquiriesHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
