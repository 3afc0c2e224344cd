package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/events"
	"github.com/spec-kit/roster-service/internal/observability"
	"github.com/spec-kit/roster-service/internal/repository"
	"github.com/spec-kit/roster-service/internal/roster"
	apperrors "github.com/spec-kit/roster-service/pkg/util/errorutil"
)

const diagnosticSampleSize = 3

// NewCollaborator is the input for AddCollaborator.
type NewCollaborator struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email,max=320"`
	Role     string `json:"role" validate:"required,max=100"`
	Status   string `json:"status" validate:"max=100"`
	Unit     string `json:"unit" validate:"max=200"`
	PhotoURL string `json:"photo_url" validate:"omitempty,url"`
}

func (n *NewCollaborator) trim() {
	n.Name = strings.TrimSpace(n.Name)
	n.Email = strings.TrimSpace(n.Email)
	n.Role = strings.TrimSpace(n.Role)
	n.Status = strings.TrimSpace(n.Status)
	n.Unit = strings.TrimSpace(n.Unit)
	n.PhotoURL = strings.TrimSpace(n.PhotoURL)
}

// ViewResult is a filtered roster together with statistics over the whole roster.
type ViewResult struct {
	Version    uint64
	Filter     roster.Filter
	Records    []domain.Collaborator
	Statistics roster.Statistics
}

// Diagnostics reports store connectivity and a sample of the stored roster.
type Diagnostics struct {
	StoreReachable bool
	StoreError     string
	Total          int
	Statistics     roster.Statistics
	Sample         []domain.Collaborator
	LoadedVersion  uint64
	CheckedAt      time.Time
}

// RosterDependencies bundles collaborators of RosterService.
type RosterDependencies struct {
	Repo           repository.CollaboratorRepository
	State          *roster.ViewState
	Cache          *RosterCache
	Views          *ViewCache
	Dispatcher     events.Dispatcher
	Metrics        *observability.Metrics
	Logger         *zap.Logger
	DefaultPhoto   string
	BreakdownLimit int
}

// RosterService owns the in-memory roster snapshot and the operations on it.
type RosterService struct {
	repo           repository.CollaboratorRepository
	state          *roster.ViewState
	cache          *RosterCache
	views          *ViewCache
	dispatcher     events.Dispatcher
	metrics        *observability.Metrics
	logger         *zap.Logger
	validate       *validator.Validate
	defaultPhoto   string
	breakdownLimit int

	loadMu sync.Mutex
	loaded atomic.Bool
}

// NewRosterService builds the service.
func NewRosterService(deps RosterDependencies) *RosterService {
	state := deps.State
	if state == nil {
		state = roster.NewViewState()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := deps.BreakdownLimit
	if limit <= 0 {
		limit = roster.DefaultBreakdownLimit
	}
	return &RosterService{
		repo:           deps.Repo,
		state:          state,
		cache:          deps.Cache,
		views:          deps.Views,
		dispatcher:     deps.Dispatcher,
		metrics:        deps.Metrics,
		logger:         logger,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		defaultPhoto:   deps.DefaultPhoto,
		breakdownLimit: limit,
	}
}

// Load fetches the roster, from the shared cache when warm and from the store
// otherwise, and swaps it into the view state.
func (s *RosterService) Load(ctx context.Context) (roster.Snapshot, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.loadLocked(ctx, true)
}

func (s *RosterService) loadLocked(ctx context.Context, useCache bool) (roster.Snapshot, error) {
	source := "store"
	var records []domain.Collaborator

	if useCache {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("roster cache read failed", zap.Error(err))
		}
		if ok {
			records, source = cached, "cache"
		}
	}

	if records == nil {
		stored, err := s.repo.List(ctx)
		if err != nil {
			return roster.Snapshot{}, apperrors.NewUnavailable("roster store", err)
		}
		records = stored
		if err := s.cache.Set(ctx, records); err != nil {
			s.logger.Warn("roster cache write failed", zap.Error(err))
		}
	}

	records = s.withDefaultPhotos(records)
	snap := s.state.Replace(records)
	s.loaded.Store(true)
	s.views.Purge()
	s.metrics.RecordReload(source, len(records))

	s.logger.Info("roster loaded",
		zap.String("source", source),
		zap.Int("total", snap.Statistics.Total),
		zap.Uint64("version", snap.Version))

	s.publish(ctx, events.EventRosterLoaded, "", events.RosterLoadedPayload{
		Total:      snap.Statistics.Total,
		ByCategory: snap.Statistics.ByCategory,
		FromCache:  source == "cache",
	})
	return snap, nil
}

func (s *RosterService) withDefaultPhotos(records []domain.Collaborator) []domain.Collaborator {
	out := make([]domain.Collaborator, len(records))
	copy(out, records)
	if s.defaultPhoto == "" {
		return out
	}
	for i := range out {
		if strings.TrimSpace(out[i].PhotoURL) == "" {
			out[i].PhotoURL = s.defaultPhoto
		}
	}
	return out
}

// Snapshot returns the current state, loading the roster on first use.
func (s *RosterService) Snapshot(ctx context.Context) (roster.Snapshot, error) {
	if s.loaded.Load() {
		return s.state.Snapshot(), nil
	}
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if s.loaded.Load() {
		return s.state.Snapshot(), nil
	}
	return s.loadLocked(ctx, true)
}

// View filters the current roster. Statistics always cover the whole roster.
func (s *RosterService) View(ctx context.Context, f roster.Filter) (ViewResult, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return ViewResult{}, err
	}
	f = f.Normalize()

	view, ok := s.views.Get(snap.Version, f)
	if !ok {
		view = roster.ComputeView(snap.Records, f)
		s.views.Set(snap.Version, f, view)
	}
	return ViewResult{
		Version:    snap.Version,
		Filter:     f,
		Records:    view,
		Statistics: snap.Statistics,
	}, nil
}

// Statistics returns category counts over the whole roster.
func (s *RosterService) Statistics(ctx context.Context) (roster.Statistics, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return roster.Statistics{}, err
	}
	return snap.Statistics, nil
}

// Units lists the unit choices, starting with the all-units sentinel.
func (s *RosterService) Units(ctx context.Context) ([]string, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Units, nil
}

// Roles lists distinct roles, or the default list for an empty roster.
func (s *RosterService) Roles(ctx context.Context) ([]string, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return roster.Roles(snap.Records), nil
}

// Categories lists the selectable categories, ALL first.
func (s *RosterService) Categories() []domain.Category {
	out := make([]domain.Category, 0, len(domain.Categories)+1)
	out = append(out, domain.CategoryAll)
	return append(out, domain.Categories...)
}

// StatusBreakdown groups raw statuses by frequency. A non-positive limit
// uses the configured default.
func (s *RosterService) StatusBreakdown(ctx context.Context, limit int) ([]roster.StatusGroup, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.breakdownLimit
	}
	return roster.StatusBreakdown(snap.Records, limit), nil
}

// Get returns one collaborator from the store.
func (s *RosterService) Get(ctx context.Context, id string) (*domain.Collaborator, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapStoreError(err, id)
	}
	if c.PhotoURL == "" {
		c.PhotoURL = s.defaultPhoto
	}
	return c, nil
}

// AddCollaborator validates and stores a new collaborator, then reloads.
func (s *RosterService) AddCollaborator(ctx context.Context, in NewCollaborator) (*domain.Collaborator, error) {
	in.trim()
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	c := &domain.Collaborator{
		Name:     in.Name,
		Email:    in.Email,
		Role:     in.Role,
		Status:   in.Status,
		Unit:     in.Unit,
		PhotoURL: in.PhotoURL,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, s.mapStoreError(err, c.ID)
	}

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventCollaboratorAdded, c.ID, events.CollaboratorChangedPayload{
		Name: c.Name,
		Role: c.Role,
		Unit: c.Unit,
	})
	return c, nil
}

// RemoveCollaborator deletes a collaborator, then reloads.
func (s *RosterService) RemoveCollaborator(ctx context.Context, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.mapStoreError(err, id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapStoreError(err, id)
	}

	if err := s.refresh(ctx); err != nil {
		return err
	}
	s.publish(ctx, events.EventCollaboratorRemoved, id, events.CollaboratorChangedPayload{
		Name: existing.Name,
		Role: existing.Role,
		Unit: existing.Unit,
	})
	return nil
}

// refresh drops the shared snapshot and reloads from the store.
func (s *RosterService) refresh(ctx context.Context) error {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("roster cache invalidation failed", zap.Error(err))
	}
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	_, err := s.loadLocked(ctx, false)
	return err
}

// Diagnose checks the store directly, bypassing every cache.
func (s *RosterService) Diagnose(ctx context.Context) Diagnostics {
	d := Diagnostics{
		LoadedVersion: s.state.Version(),
		CheckedAt:     time.Now().UTC(),
		Sample:        []domain.Collaborator{},
		Statistics:    roster.ComputeStatistics(nil),
	}

	if err := s.repo.Ping(ctx); err != nil {
		d.StoreError = err.Error()
		return d
	}
	records, err := s.repo.List(ctx)
	if err != nil {
		d.StoreError = err.Error()
		return d
	}

	d.StoreReachable = true
	d.Total = len(records)
	d.Statistics = roster.ComputeStatistics(records)
	n := min(diagnosticSampleSize, len(records))
	d.Sample = append(d.Sample, records[:n]...)
	return d
}

// Dashboard returns the shared view state.
func (s *RosterService) Dashboard(ctx context.Context) (roster.Snapshot, error) {
	return s.Snapshot(ctx)
}

// SetDashboardFilter changes the shared selection and announces it.
func (s *RosterService) SetDashboardFilter(ctx context.Context, f roster.Filter) (roster.Snapshot, error) {
	if _, err := s.Snapshot(ctx); err != nil {
		return roster.Snapshot{}, err
	}
	snap := s.state.SetFilter(f)
	s.publish(ctx, events.EventViewChanged, "", events.ViewChangedPayload{
		Version:  snap.Version,
		Category: snap.Filter.Category,
		Unit:     snap.Filter.Unit,
		Query:    snap.Filter.Query,
		Matched:  len(snap.View),
	})
	return snap, nil
}

func (s *RosterService) publish(ctx context.Context, typ events.EventType, collaboratorID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	err := s.dispatcher.Publish(ctx, events.Event{
		ID:             uuid.NewString(),
		Type:           typ,
		CollaboratorID: collaboratorID,
		Timestamp:      time.Now().UTC(),
		Payload:        payload,
	})
	if err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(typ)), zap.Error(err))
	}
}

func (s *RosterService) mapStoreError(err error, id string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound("collaborator", map[string]any{"id": id})
	case errors.Is(err, repository.ErrConflict):
		return apperrors.NewConflict("collaborator already exists", map[string]any{"id": id})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return err
	default:
		return apperrors.NewUnavailable("roster store", err)
	}
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[jsonFieldName(fe.Field())] = fe.Tag()
	}
	return apperrors.NewValidationError("invalid collaborator", details)
}

func jsonFieldName(field string) string {
	switch field {
	case "PhotoURL":
		return "photo_url"
	default:
		return strings.ToLower(field)
	}
}
