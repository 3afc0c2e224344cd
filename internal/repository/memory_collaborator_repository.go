package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/roster-service/internal/domain"
)

type memoryCollaboratorRepository struct {
	mu      sync.RWMutex
	records map[string]domain.Collaborator
	now     func() time.Time
}

// NewMemoryCollaboratorRepository returns a process-local store, used when no
// database is configured. Records without an id get one assigned.
func NewMemoryCollaboratorRepository(seed []domain.Collaborator) CollaboratorRepository {
	r := &memoryCollaboratorRepository{
		records: make(map[string]domain.Collaborator, len(seed)),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, c := range seed {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = r.now()
		}
		r.records[c.ID] = c
	}
	return r
}

func (r *memoryCollaboratorRepository) List(ctx context.Context) ([]domain.Collaborator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	result := make([]domain.Collaborator, 0, len(r.records))
	for _, c := range r.records {
		result = append(result, c)
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *memoryCollaboratorRepository) GetByID(ctx context.Context, id string) (*domain.Collaborator, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *memoryCollaboratorRepository) Create(ctx context.Context, c *domain.Collaborator) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, exists := r.records[c.ID]; exists {
		return ErrConflict
	}
	c.CreatedAt = r.now()
	r.records[c.ID] = *c
	return nil
}

func (r *memoryCollaboratorRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *memoryCollaboratorRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}
