package events

import (
	"time"

	"github.com/spec-kit/roster-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRosterLoaded        EventType = "roster_loaded"
	EventCollaboratorAdded   EventType = "collaborator_added"
	EventCollaboratorRemoved EventType = "collaborator_removed"
	EventViewChanged         EventType = "view_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID             string      `json:"id"`
	Type           EventType   `json:"type"`
	CollaboratorID string      `json:"collaborator_id,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`
	Payload        interface{} `json:"payload"`
}

// RosterLoadedPayload payload.
type RosterLoadedPayload struct {
	Total      int                     `json:"total"`
	ByCategory map[domain.Category]int `json:"by_category"`
	FromCache  bool                    `json:"from_cache"`
}

// CollaboratorChangedPayload payload for adds and removals.
type CollaboratorChangedPayload struct {
	Name string `json:"name"`
	Role string `json:"role"`
	Unit string `json:"unit,omitempty"`
}

// ViewChangedPayload payload.
type ViewChangedPayload struct {
	Version  uint64          `json:"version"`
	Category domain.Category `json:"category"`
	Unit     string          `json:"unit"`
	Query    string          `json:"query,omitempty"`
	Matched  int             `json:"matched"`
}
