package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("AUTH_ADMIN_PASSWORD", "")
	t.Setenv("AUTH_ADMIN_PASSWORD_HASH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Empty(t, cfg.Postgres.DSN)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "roster.events", cfg.Redis.EventsChannel)
	assert.Equal(t, DefaultPhotoURL, cfg.Roster.DefaultPhotoURL)
	assert.Equal(t, 15, cfg.Roster.BreakdownLimit)
	assert.Equal(t, "admin", cfg.Auth.AdminPassword, "development falls back to a dev password")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_SNAPSHOT_TTL_SECONDS", "5")
	t.Setenv("ROSTER_VIEW_CACHE_TTL_SECONDS", "0")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("ROSTER_BREAKDOWN_LIMIT", "not-a-number")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 5*time.Second, cfg.Redis.SnapshotTTL())
	assert.Zero(t, cfg.Roster.ViewCacheTTL())
	assert.False(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, 15, cfg.Roster.BreakdownLimit, "invalid ints fall back to the default")
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL())
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "x")
	_, err := Load()
	assert.ErrorContains(t, err, "REDIS_DB")
}

func TestLoad_ProductionHasNoDevPassword(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_ADMIN_PASSWORD", "")
	t.Setenv("AUTH_ADMIN_PASSWORD_HASH", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Auth.AdminPassword)
}
