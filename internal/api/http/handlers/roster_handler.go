package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/roster-service/internal/api/dto"
	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/roster"
	"github.com/spec-kit/roster-service/internal/service"
	apperrors "github.com/spec-kit/roster-service/pkg/util/errorutil"
)

// RosterHandler serves roster views, statistics and catalogs.
type RosterHandler struct {
	service *service.RosterService
}

// NewRosterHandler constructs handler.
func NewRosterHandler(rosterService *service.RosterService) *RosterHandler {
	return &RosterHandler{service: rosterService}
}

// ListCollaborators GET /api/v1/collaborators.
func (h *RosterHandler) ListCollaborators(c *fiber.Ctx) error {
	filter, err := parseFilter(dto.FilterPayload{
		Category: c.Query("category"),
		Unit:     c.Query("unit"),
		Query:    c.Query("q"),
	})
	if err != nil {
		return err
	}
	view, err := h.service.View(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCollaboratorListResponse(view)})
}

// GetCollaborator GET /api/v1/collaborators/:id.
func (h *RosterHandler) GetCollaborator(c *fiber.Ctx) error {
	collaborator, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCollaboratorResponse(*collaborator)})
}

// CreateCollaborator POST /api/v1/collaborators.
func (h *RosterHandler) CreateCollaborator(c *fiber.Ctx) error {
	var req dto.CreateCollaboratorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	created, err := h.service.AddCollaborator(c.UserContext(), service.NewCollaborator{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		Status:   req.Status,
		Unit:     req.Unit,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCollaboratorResponse(*created)})
}

// DeleteCollaborator DELETE /api/v1/collaborators/:id.
func (h *RosterHandler) DeleteCollaborator(c *fiber.Ctx) error {
	if err := h.service.RemoveCollaborator(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Reload POST /api/v1/roster/reload.
func (h *RosterHandler) Reload(c *fiber.Ctx) error {
	snap, err := h.service.Load(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"version":    snap.Version,
		"statistics": dto.NewStatisticsResponse(snap.Statistics),
	}})
}

// Statistics GET /api/v1/statistics.
func (h *RosterHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.service.Statistics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStatisticsResponse(stats)})
}

// Units GET /api/v1/units.
func (h *RosterHandler) Units(c *fiber.Ctx) error {
	units, err := h.service.Units(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": units})
}

// Roles GET /api/v1/roles.
func (h *RosterHandler) Roles(c *fiber.Ctx) error {
	roles, err := h.service.Roles(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": roles})
}

// Categories GET /api/v1/categories.
func (h *RosterHandler) Categories(c *fiber.Ctx) error {
	stats, err := h.service.Statistics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryResponses(h.service.Categories(), stats)})
}

// Statuses GET /api/v1/statuses.
func (h *RosterHandler) Statuses(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return apperrors.NewValidationError("limit must be a non-negative integer", map[string]any{"limit": raw})
		}
		limit = parsed
	}
	groups, err := h.service.StatusBreakdown(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStatusGroupResponses(groups)})
}

// Diagnostics GET /api/v1/diagnostics.
func (h *RosterHandler) Diagnostics(c *fiber.Ctx) error {
	report := h.service.Diagnose(c.UserContext())
	return c.JSON(fiber.Map{"data": dto.NewDiagnosticsResponse(report)})
}

// Dashboard GET /api/v1/dashboard.
func (h *RosterHandler) Dashboard(c *fiber.Ctx) error {
	snap, err := h.service.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDashboardResponse(snap)})
}

// SetDashboardFilter PUT /api/v1/dashboard/filter.
func (h *RosterHandler) SetDashboardFilter(c *fiber.Ctx) error {
	var req dto.FilterPayload
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	filter, err := parseFilter(req)
	if err != nil {
		return err
	}
	snap, err := h.service.SetDashboardFilter(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDashboardResponse(snap)})
}

func parseFilter(p dto.FilterPayload) (roster.Filter, error) {
	category, ok := domain.ParseCategory(p.Category)
	if !ok {
		return roster.Filter{}, apperrors.NewValidationError("unknown category", map[string]any{"category": p.Category})
	}
	return roster.Filter{Category: category, Unit: p.Unit, Query: p.Query}.Normalize(), nil
}
