package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/roster-service/internal/config"
	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/observability"
	"github.com/spec-kit/roster-service/internal/persistence"
	"github.com/spec-kit/roster-service/internal/repository"
)

var errNoDSN = errors.New("POSTGRES_DSN is required for this command")

// store bundles a repository with the transaction starter backing it. A nil
// tx means writes are not transactional.
type store struct {
	repo  repository.CollaboratorRepository
	tx    persistence.TxStarter
	close func()
}

// env resolves configuration and backends lazily so that subcommands only
// pay for what they use.
type env struct {
	loadConfig func() (*config.Config, error)
	openStore  func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*store, error)

	cfg    *config.Config
	logger *zap.Logger
}

func newEnv() *env {
	return &env{loadConfig: config.Load, openStore: openStore}
}

func (e *env) init() error {
	if e.cfg != nil {
		return nil
	}
	cfg, err := e.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	e.cfg, e.logger = cfg, logger
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*store, error) {
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if pg.Enabled() {
		pool := pg.PoolHandle()
		return &store{repo: repository.NewCollaboratorRepository(pool), tx: pool, close: pg.Close}, nil
	}

	var seed []domain.Collaborator
	if cfg.Roster.SeedFile != "" {
		if seed, err = repository.LoadSeedFile(cfg.Roster.SeedFile); err != nil {
			return nil, err
		}
	}
	return &store{repo: repository.NewMemoryCollaboratorRepository(seed), close: func() {}}, nil
}
