package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultPhotoURL is used for collaborators stored without a photo.
const DefaultPhotoURL = "https://www.gravatar.com/avatar/?d=identicon&s=200"

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Roster   RosterConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values. An empty Addr disables Redis.
type RedisConfig struct {
	Addr               string
	Password           string
	DB                 int
	SnapshotTTLSeconds int
	EventsChannel      string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	AdminUsername         string
	AdminPasswordHash     string
	// AdminPassword is hashed at startup when no hash is configured.
	AdminPassword string
}

// RosterConfig tunes roster loading and caching.
type RosterConfig struct {
	DefaultPhotoURL     string
	SeedFile            string
	ViewCacheSize       int
	ViewCacheTTLSeconds int
	BreakdownLimit      int

	// RefreshIntervalSeconds reloads the roster periodically; 0 disables it.
	RefreshIntervalSeconds int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "roster-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:               os.Getenv("REDIS_ADDR"),
			Password:           os.Getenv("REDIS_PASSWORD"),
			DB:                 redisDB,
			SnapshotTTLSeconds: getEnvAsInt("REDIS_SNAPSHOT_TTL_SECONDS", 60),
			EventsChannel:      getEnv("REDIS_EVENTS_CHANNEL", "roster.events"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			AdminUsername:         getEnv("AUTH_ADMIN_USERNAME", "admin"),
			AdminPasswordHash:     os.Getenv("AUTH_ADMIN_PASSWORD_HASH"),
			AdminPassword:         os.Getenv("AUTH_ADMIN_PASSWORD"),
		},
		Roster: RosterConfig{
			DefaultPhotoURL:        getEnv("ROSTER_DEFAULT_PHOTO_URL", DefaultPhotoURL),
			SeedFile:               os.Getenv("ROSTER_SEED_FILE"),
			ViewCacheSize:          getEnvAsInt("ROSTER_VIEW_CACHE_SIZE", 256),
			ViewCacheTTLSeconds:    getEnvAsInt("ROSTER_VIEW_CACHE_TTL_SECONDS", 30),
			BreakdownLimit:         getEnvAsInt("ROSTER_BREAKDOWN_LIMIT", 15),
			RefreshIntervalSeconds: getEnvAsInt("ROSTER_REFRESH_INTERVAL_SECONDS", 0),
		},
	}

	if cfg.Auth.AdminPasswordHash == "" && cfg.Auth.AdminPassword == "" && cfg.App.Env != "production" {
		cfg.Auth.AdminPassword = "admin"
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// SnapshotTTL returns how long a cached roster snapshot stays valid.
func (r RedisConfig) SnapshotTTL() time.Duration {
	if r.SnapshotTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(r.SnapshotTTLSeconds) * time.Second
}

// ViewCacheTTL returns the lifetime of a cached filtered view.
func (r RosterConfig) ViewCacheTTL() time.Duration {
	if r.ViewCacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(r.ViewCacheTTLSeconds) * time.Second
}

// RefreshInterval returns the background reload period.
func (r RosterConfig) RefreshInterval() time.Duration {
	if r.RefreshIntervalSeconds <= 0 {
		return 0
	}
	return time.Duration(r.RefreshIntervalSeconds) * time.Second
}

// AccessTokenTTL returns the JWT lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
