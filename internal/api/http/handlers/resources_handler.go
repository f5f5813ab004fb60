package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/srkbolt25-collab/srkfence-backend/internal/resource"
	"github.com/srkbolt25-collab/srkfence-backend/internal/service"
	apperrors "github.com/srkbolt25-collab/srkfence-backend/pkg/util"
)

// ResourcesHandler serves every content collection through one generic
// implementation driven by the resource registry. Reads are public; writes
// sit behind the bearer middleware at the route level.
type ResourcesHandler struct {
	service  *service.ResourceService
	registry *resource.Registry
}

// NewResourcesHandler constructs handler.
func NewResourcesHandler(resourceService *service.ResourceService, registry *resource.Registry) *ResourcesHandler {
	return &ResourcesHandler{service: resourceService, registry: registry}
}

// List GET /api/:resource.
func (h *ResourcesHandler) List(c *fiber.Ctx) error {
	def, err := h.lookup(c)
	if err != nil {
		return err
	}

	records, err := h.service.List(c.Context(), def)
	if err != nil {
		return err
	}

	items := make([]map[string]any, 0, len(records))
	for i := range records {
		items = append(items, def.EnsureArrays(records[i].Flatten()))
	}
	return c.JSON(fiber.Map{def.Plural: items})
}

// Get GET /api/:resource/:id.
func (h *ResourcesHandler) Get(c *fiber.Ctx) error {
	def, err := h.lookup(c)
	if err != nil {
		return err
	}

	record, err := h.service.Get(c.Context(), def, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(def.EnsureArrays(record.Flatten()))
}

// Create POST /api/:resource.
func (h *ResourcesHandler) Create(c *fiber.Ctx) error {
	def, err := h.lookup(c)
	if err != nil {
		return err
	}

	body, err := parseBody(c)
	if err != nil {
		return err
	}

	record, err := h.service.Create(c.Context(), def, body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(def.EnsureArrays(record.Flatten()))
}

// Update PUT /api/:resource/:id.
func (h *ResourcesHandler) Update(c *fiber.Ctx) error {
	def, err := h.lookup(c)
	if err != nil {
		return err
	}

	body, err := parseBody(c)
	if err != nil {
		return err
	}

	record, err := h.service.Update(c.Context(), def, c.Params("id"), body)
	if err != nil {
		return err
	}
	return c.JSON(def.EnsureArrays(record.Flatten()))
}

// Delete DELETE /api/:resource/:id.
func (h *ResourcesHandler) Delete(c *fiber.Ctx) error {
	def, err := h.lookup(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Context(), def, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *ResourcesHandler) lookup(c *fiber.Ctx) (resource.Definition, error) {
	kind := c.Params("resource")
	def, ok := h.registry.Lookup(kind)
	if !ok {
		return resource.Definition{}, apperrors.NewNotFound("resource")
	}
	return def, nil
}

// parseBody decodes an arbitrary JSON object; the schema check happens in the
// resource definitions.
func parseBody(c *fiber.Ctx) (map[string]any, error) {
	var body map[string]any
	if err := json.Unmarshal(c.Body(), &body); err != nil || body == nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}
	return body, nil
}
