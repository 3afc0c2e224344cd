package dto

import (
	"time"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/roster"
	"github.com/spec-kit/roster-service/internal/service"
)

// CollaboratorResponse is one roster record.
type CollaboratorResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email,omitempty"`
	Role      string          `json:"role"`
	Status    string          `json:"status"`
	Category  domain.Category `json:"category"`
	Unit      string          `json:"unit"`
	PhotoURL  string          `json:"photo_url"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateCollaboratorRequest payload.
type CreateCollaboratorRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	Unit     string `json:"unit"`
	PhotoURL string `json:"photo_url"`
}

// FilterPayload is the selection on the three filter dimensions.
type FilterPayload struct {
	Category string `json:"category"`
	Unit     string `json:"unit"`
	Query    string `json:"q"`
}

// StatisticsResponse counts collaborators per category over the whole roster.
type StatisticsResponse struct {
	Total       int                         `json:"total"`
	ByCategory  map[domain.Category]int     `json:"by_category"`
	Percentages map[domain.Category]float64 `json:"percentages"`
}

// CollaboratorListResponse is a filtered view with whole-roster statistics.
type CollaboratorListResponse struct {
	Version    uint64                 `json:"version"`
	Filter     FilterPayload          `json:"filter"`
	Count      int                    `json:"count"`
	Items      []CollaboratorResponse `json:"items"`
	Statistics StatisticsResponse     `json:"statistics"`
}

// DashboardResponse is the shared view state.
type DashboardResponse struct {
	CollaboratorListResponse
	Units []string `json:"units"`
}

// CategoryResponse describes one selectable category.
type CategoryResponse struct {
	Code  domain.Category `json:"code"`
	Label string          `json:"label"`
	Count int             `json:"count"`
}

// StatusGroupResponse is one row of the status breakdown.
type StatusGroupResponse struct {
	Status   string          `json:"status"`
	Count    int             `json:"count"`
	Category domain.Category `json:"category"`
}

// DiagnosticsResponse reports store health and a roster sample.
type DiagnosticsResponse struct {
	StoreReachable bool                   `json:"store_reachable"`
	StoreError     string                 `json:"store_error,omitempty"`
	Total          int                    `json:"total"`
	Statistics     StatisticsResponse     `json:"statistics"`
	Sample         []CollaboratorResponse `json:"sample"`
	LoadedVersion  uint64                 `json:"loaded_version"`
	CheckedAt      time.Time              `json:"checked_at"`
}

// NewCollaboratorResponse maps a domain record.
func NewCollaboratorResponse(c domain.Collaborator) CollaboratorResponse {
	return CollaboratorResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Role:      c.Role,
		Status:    c.Status,
		Category:  c.Category(),
		Unit:      c.Unit,
		PhotoURL:  c.PhotoURL,
		CreatedAt: c.CreatedAt,
	}
}

// NewCollaboratorResponses maps a list, never returning nil.
func NewCollaboratorResponses(records []domain.Collaborator) []CollaboratorResponse {
	out := make([]CollaboratorResponse, 0, len(records))
	for _, c := range records {
		out = append(out, NewCollaboratorResponse(c))
	}
	return out
}

// NewStatisticsResponse maps statistics.
func NewStatisticsResponse(s roster.Statistics) StatisticsResponse {
	return StatisticsResponse{
		Total:       s.Total,
		ByCategory:  s.ByCategory,
		Percentages: s.Percentages(),
	}
}

// NewFilterPayload maps a normalized filter.
func NewFilterPayload(f roster.Filter) FilterPayload {
	return FilterPayload{Category: string(f.Category), Unit: f.Unit, Query: f.Query}
}

// NewCollaboratorListResponse maps a service view.
func NewCollaboratorListResponse(v service.ViewResult) CollaboratorListResponse {
	return CollaboratorListResponse{
		Version:    v.Version,
		Filter:     NewFilterPayload(v.Filter),
		Count:      len(v.Records),
		Items:      NewCollaboratorResponses(v.Records),
		Statistics: NewStatisticsResponse(v.Statistics),
	}
}

// NewDashboardResponse maps the shared view state.
func NewDashboardResponse(s roster.Snapshot) DashboardResponse {
	return DashboardResponse{
		CollaboratorListResponse: NewCollaboratorListResponse(service.ViewResult{
			Version:    s.Version,
			Filter:     s.Filter,
			Records:    s.View,
			Statistics: s.Statistics,
		}),
		Units: s.Units,
	}
}

// NewCategoryResponses lists categories with their counts; ALL counts everyone.
func NewCategoryResponses(categories []domain.Category, stats roster.Statistics) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryResponse{Code: c, Label: c.Label(), Count: stats.Count(c)})
	}
	return out
}

// NewStatusGroupResponses maps the status breakdown.
func NewStatusGroupResponses(groups []roster.StatusGroup) []StatusGroupResponse {
	out := make([]StatusGroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, StatusGroupResponse{Status: g.Status, Count: g.Count, Category: g.Category})
	}
	return out
}

// NewDiagnosticsResponse maps a diagnostics report.
func NewDiagnosticsResponse(d service.Diagnostics) DiagnosticsResponse {
	return DiagnosticsResponse{
		StoreReachable: d.StoreReachable,
		StoreError:     d.StoreError,
		Total:          d.Total,
		Statistics:     NewStatisticsResponse(d.Statistics),
		Sample:         NewCollaboratorResponses(d.Sample),
		LoadedVersion:  d.LoadedVersion,
		CheckedAt:      d.CheckedAt,
	}
}
