package roster

import (
	"sync"

	"github.com/spec-kit/roster-service/internal/domain"
)

// Snapshot is the view state at one version. Its slices are shared between
// readers and must not be modified.
type Snapshot struct {
	Version    uint64
	Filter     Filter
	Records    []domain.Collaborator
	View       []domain.Collaborator
	Statistics Statistics
	Units      []string
}

// Listener receives a snapshot after every state change.
type Listener func(Snapshot)

// ViewState holds the current roster and filter selection and notifies
// subscribers whenever either changes.
type ViewState struct {
	mu        sync.RWMutex
	records   []domain.Collaborator
	filter    Filter
	version   uint64
	current   Snapshot
	listeners map[int]Listener
	nextID    int
}

// NewViewState returns an empty state selecting everything.
func NewViewState() *ViewState {
	v := &ViewState{
		filter:    Filter{}.Normalize(),
		listeners: make(map[int]Listener),
	}
	v.current = v.build()
	return v
}

// Subscribe registers l and returns a function that removes it.
func (v *ViewState) Subscribe(l Listener) func() {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.listeners[id] = l
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.listeners, id)
			v.mu.Unlock()
		})
	}
}

// Snapshot returns the current state.
func (v *ViewState) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Version returns the current state version; zero means nothing was loaded.
func (v *ViewState) Version() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.version
}

// Replace swaps in a new roster wholesale.
func (v *ViewState) Replace(records []domain.Collaborator) Snapshot {
	owned := append([]domain.Collaborator(nil), records...)
	return v.update(func() { v.records = owned })
}

// SetFilter replaces the whole selection.
func (v *ViewState) SetFilter(f Filter) Snapshot {
	return v.update(func() { v.filter = f.Normalize() })
}

// SetCategory changes the category selection.
func (v *ViewState) SetCategory(c domain.Category) Snapshot {
	return v.update(func() {
		v.filter.Category = c
		v.filter = v.filter.Normalize()
	})
}

// SetUnit changes the unit selection.
func (v *ViewState) SetUnit(unit string) Snapshot {
	return v.update(func() {
		v.filter.Unit = unit
		v.filter = v.filter.Normalize()
	})
}

// SetQuery changes the free-text query.
func (v *ViewState) SetQuery(q string) Snapshot {
	return v.update(func() {
		v.filter.Query = q
		v.filter = v.filter.Normalize()
	})
}

func (v *ViewState) update(mutate func()) Snapshot {
	v.mu.Lock()
	mutate()
	v.version++
	v.current = v.build()
	snap := v.current
	listeners := make([]Listener, 0, len(v.listeners))
	for _, l := range v.listeners {
		listeners = append(listeners, l)
	}
	v.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
	return snap
}

// build must be called with mu held.
func (v *ViewState) build() Snapshot {
	return Snapshot{
		Version:    v.version,
		Filter:     v.filter,
		Records:    v.records,
		View:       ComputeView(v.records, v.filter),
		Statistics: ComputeStatistics(v.records),
		Units:      Units(v.records),
	}
}
