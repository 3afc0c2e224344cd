package service

import (
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/observability"
	"github.com/spec-kit/roster-service/internal/roster"
)

// ViewCache keeps recently computed filtered views per instance. Keys carry
// the snapshot version, so a reload never serves a stale view.
type ViewCache struct {
	cache   *expirable.LRU[string, []domain.Collaborator]
	metrics *observability.Metrics
}

// NewViewCache creates an LRU of at most size views living for ttl. A
// non-positive size disables caching.
func NewViewCache(size int, ttl time.Duration, metrics *observability.Metrics) *ViewCache {
	if size <= 0 {
		return nil
	}
	return &ViewCache{
		cache:   expirable.NewLRU[string, []domain.Collaborator](size, nil, ttl),
		metrics: metrics,
	}
}

func viewKey(version uint64, f roster.Filter) string {
	return fmt.Sprintf("%d|%s|%s|%s", version, f.Category, f.Unit, f.Query)
}

// Get returns the cached view for f at version.
func (v *ViewCache) Get(version uint64, f roster.Filter) ([]domain.Collaborator, bool) {
	if v == nil {
		return nil, false
	}
	view, ok := v.cache.Get(viewKey(version, f))
	if ok {
		v.metrics.ViewCacheHit()
		return view, true
	}
	v.metrics.ViewCacheMiss()
	return nil, false
}

// Set stores a view. The slice must not be modified afterwards.
func (v *ViewCache) Set(version uint64, f roster.Filter, view []domain.Collaborator) {
	if v == nil {
		return
	}
	v.cache.Add(viewKey(version, f), view)
}

// Purge drops every cached view.
func (v *ViewCache) Purge() {
	if v == nil {
		return
	}
	v.cache.Purge()
}

// Len reports the number of cached views.
func (v *ViewCache) Len() int {
	if v == nil {
		return 0
	}
	return v.cache.Len()
}
