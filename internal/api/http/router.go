package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/roster-service/internal/api/http/handlers"
	"github.com/spec-kit/roster-service/internal/auth"
	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Roster         *handlers.RosterHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))

	app.Post("/auth/login", cfg.Auth.Login)

	api := app.Group("/api/v1")
	api.Get("/collaborators", cfg.Roster.ListCollaborators)
	api.Get("/collaborators/:id", cfg.Roster.GetCollaborator)
	api.Post("/roster/reload", cfg.Roster.Reload)
	api.Get("/statistics", cfg.Roster.Statistics)
	api.Get("/units", cfg.Roster.Units)
	api.Get("/roles", cfg.Roster.Roles)
	api.Get("/categories", cfg.Roster.Categories)
	api.Get("/statuses", cfg.Roster.Statuses)
	api.Get("/diagnostics", cfg.Roster.Diagnostics)
	api.Get("/dashboard", cfg.Roster.Dashboard)

	admin := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Post("/collaborators", cfg.Roster.CreateCollaborator)
	admin.Delete("/collaborators/:id", cfg.Roster.DeleteCollaborator)
	admin.Put("/dashboard/filter", cfg.Roster.SetDashboardFilter)
}
