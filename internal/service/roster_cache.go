package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/roster-service/internal/domain"
)

const rosterSnapshotKey = "roster:snapshot:v1"

// RosterCache shares the last loaded roster between instances through Redis.
// A nil *RosterCache, or one without a client, always misses.
type RosterCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRosterCache returns a cache over client. A nil client or a zero ttl
// disables caching.
func NewRosterCache(client *redis.Client, ttl time.Duration) *RosterCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &RosterCache{client: client, ttl: ttl}
}

type cachedCollaborator struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status,omitempty"`
	Unit      string    `json:"unit,omitempty"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Get returns the cached roster, if any.
func (c *RosterCache) Get(ctx context.Context) ([]domain.Collaborator, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, rosterSnapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read roster snapshot: %w", err)
	}
	records, err := decodeRoster(raw)
	if err != nil {
		return nil, false, err
	}
	return records, true, nil
}

// Set stores records for the configured ttl.
func (c *RosterCache) Set(ctx context.Context, records []domain.Collaborator) error {
	if c == nil {
		return nil
	}
	raw, err := encodeRoster(records)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, rosterSnapshotKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("write roster snapshot: %w", err)
	}
	return nil
}

// Invalidate drops the cached roster.
func (c *RosterCache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if err := c.client.Del(ctx, rosterSnapshotKey).Err(); err != nil {
		return fmt.Errorf("drop roster snapshot: %w", err)
	}
	return nil
}

func encodeRoster(records []domain.Collaborator) ([]byte, error) {
	out := make([]cachedCollaborator, len(records))
	for i, r := range records {
		out[i] = cachedCollaborator(r)
	}
	return json.Marshal(out)
}

func decodeRoster(raw []byte) ([]domain.Collaborator, error) {
	var in []cachedCollaborator
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("decode roster snapshot: %w", err)
	}
	out := make([]domain.Collaborator, len(in))
	for i, r := range in {
		out[i] = domain.Collaborator(r)
	}
	return out, nil
}
