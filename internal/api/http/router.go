package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/srkbolt25-collab/srkfence-backend/internal/api/http/handlers"
	"github.com/srkbolt25-collab/srkfence-backend/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Resources      *handlers.ResourcesHandler
	Enquiries      *handlers.EnquiriesHandler
	Uploads        *handlers.UploadsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Reads on content collections are public;
// every mutating verb and the whole enquiry admin surface require a bearer
// token. Literal routes are registered before the :resource parameter routes
// so auth, enquiries and uploads are never shadowed by the generic handler.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	requireAuth := cfg.AuthMiddleware.Handle

	api.Post("/auth/login", cfg.Auth.Login)

	api.Post("/enquiries", cfg.Enquiries.Submit)
	api.Get("/enquiries", requireAuth, cfg.Enquiries.List)
	api.Get("/enquiries/:id", requireAuth, cfg.Enquiries.Get)
	api.Put("/enquiries/:id/status", requireAuth, cfg.Enquiries.UpdateStatus)
	api.Delete("/enquiries/:id", requireAuth, cfg.Enquiries.Delete)

	api.Post("/uploads", requireAuth, cfg.Uploads.Upload)

	api.Get("/:resource", cfg.Resources.List)
	api.Get("/:resource/:id", cfg.Resources.Get)
	api.Post("/:resource", requireAuth, cfg.Resources.Create)
	api.Put("/:resource/:id", requireAuth, cfg.Resources.Update)
	api.Delete("/:resource/:id", requireAuth, cfg.Resources.Delete)
}
