package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/roster-service/internal/roster"
)

// Loader reloads the roster snapshot.
type Loader interface {
	Load(ctx context.Context) (roster.Snapshot, error)
}

// RefreshWorker reloads the roster on a fixed interval.
type RefreshWorker struct {
	loader   Loader
	interval time.Duration
	logger   *zap.Logger
	done     chan struct{}
}

// NewRefreshWorker returns nil when interval is not positive.
func NewRefreshWorker(loader Loader, interval time.Duration, logger *zap.Logger) *RefreshWorker {
	if loader == nil || interval <= 0 {
		return nil
	}
	return &RefreshWorker{loader: loader, interval: interval, logger: logger, done: make(chan struct{})}
}

// Start runs the reload loop in the background until ctx is cancelled.
func (w *RefreshWorker) Start(ctx context.Context) {
	if w == nil {
		return
	}
	go w.run(ctx)
}

// Wait blocks until the loop started by Start returns.
func (w *RefreshWorker) Wait() {
	if w == nil {
		return
	}
	<-w.done
}

func (w *RefreshWorker) run(ctx context.Context) {
	defer close(w.done)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("roster refresh worker started", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("roster refresh worker stopped")
			return
		case <-ticker.C:
			loadCtx, cancel := context.WithTimeout(ctx, w.interval)
			if _, err := w.loader.Load(loadCtx); err != nil {
				w.logger.Warn("scheduled roster reload failed", zap.Error(err))
			}
			cancel()
		}
	}
}
