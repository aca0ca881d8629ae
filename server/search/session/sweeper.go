package session

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper evicts idle sessions on a ticker. Backends with native TTL expiry
// make each run a cheap no-op.
type Sweeper struct {
	store       Store
	idleTimeout time.Duration
	interval    time.Duration
	logger      *slog.Logger
}

func NewSweeper(store Store, idleTimeout, interval time.Duration) *Sweeper {
	if idleTimeout <= 0 {
		idleTimeout = DefaultIdleTimeout
	}
	if interval <= 0 {
		interval = idleTimeout
	}
	return &Sweeper{
		store:       store,
		idleTimeout: idleTimeout,
		interval:    interval,
		logger:      slog.Default(),
	}
}

// Run sweeps until the context is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single sweep.
func (s *Sweeper) RunOnce(ctx context.Context) {
	cutoff := time.Now().Add(-s.idleTimeout)
	removed, err := s.store.Sweep(ctx, cutoff)
	if err != nil {
		s.logger.Warn("session sweep failed", "error", err)
		return
	}
	if removed > 0 {
		s.logger.Info("swept idle sessions", "count", removed)
	}
}
