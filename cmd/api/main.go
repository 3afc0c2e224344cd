package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/roster-service/internal/api/http"
	"github.com/spec-kit/roster-service/internal/api/http/handlers"
	"github.com/spec-kit/roster-service/internal/auth"
	"github.com/spec-kit/roster-service/internal/config"
	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/events"
	"github.com/spec-kit/roster-service/internal/observability"
	"github.com/spec-kit/roster-service/internal/persistence"
	"github.com/spec-kit/roster-service/internal/repository"
	"github.com/spec-kit/roster-service/internal/roster"
	"github.com/spec-kit/roster-service/internal/service"
	"github.com/spec-kit/roster-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations && pg.Enabled() {
		if err := persistence.RunMigrations(cfg.Postgres.DSN, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	repo, err := openStore(pg, cfg.Roster, logger)
	if err != nil {
		logger.Fatal("failed to open roster store", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, redis.Handle(), cfg.Redis.EventsChannel))

	state := roster.NewViewState()
	state.Subscribe(func(s roster.Snapshot) {
		logger.Debug("view state changed",
			zap.Uint64("version", s.Version),
			zap.String("category", string(s.Filter.Category)),
			zap.String("unit", s.Filter.Unit),
			zap.Int("matched", len(s.View)),
			zap.Int("total", s.Statistics.Total))
	})

	rosterService := service.NewRosterService(service.RosterDependencies{
		Repo:           repo,
		State:          state,
		Cache:          service.NewRosterCache(redis.Handle(), cfg.Redis.SnapshotTTL()),
		Views:          service.NewViewCache(cfg.Roster.ViewCacheSize, cfg.Roster.ViewCacheTTL(), metrics),
		Dispatcher:     dispatcher,
		Metrics:        metrics,
		Logger:         logger,
		DefaultPhoto:   cfg.Roster.DefaultPhotoURL,
		BreakdownLimit: cfg.Roster.BreakdownLimit,
	})
	if _, err := rosterService.Load(ctx); err != nil {
		logger.Warn("initial roster load failed; will retry on first request", zap.Error(err))
	}

	refresher := worker.NewRefreshWorker(rosterService, cfg.Roster.RefreshInterval(), logger)
	refresher.Start(ctx)

	authService, err := service.NewAuthService(cfg.Auth)
	if err != nil {
		logger.Fatal("failed to init auth", zap.Error(err))
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"store": repo,
			"redis": redis,
		}),
		Roster:         handlers.NewRosterHandler(rosterService),
		Auth:           handlers.NewAuthHandler(authService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	refresher.Wait()
	if err := app.Shutdown(); err != nil {
		logger.Warn("fiber shutdown", zap.Error(err))
	}
}

// openStore prefers Postgres and falls back to an in-memory roster seeded
// from the configured file.
func openStore(pg *persistence.Postgres, cfg config.RosterConfig, logger *zap.Logger) (repository.CollaboratorRepository, error) {
	if pg.Enabled() {
		return repository.NewCollaboratorRepository(pg.PoolHandle()), nil
	}
	var seed []domain.Collaborator
	if cfg.SeedFile != "" {
		records, err := repository.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		seed = records
	}
	logger.Info("using in-memory roster store", zap.Int("seeded", len(seed)))
	return repository.NewMemoryCollaboratorRepository(seed), nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
