package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/elenayuscula/aprendenotion/internal/domain"
)

// Syncer defines the interface for sync operations.
type Syncer interface {
	Name() string
	Sync(ctx context.Context) (*domain.SyncStats, error)
}

type Scheduler struct {
	syncers  []Syncer
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

func NewScheduler(interval time.Duration, logger *slog.Logger, syncers ...Syncer) *Scheduler {
	return &Scheduler{
		syncers:  syncers,
		interval: interval,
		timeout:  5 * time.Minute,
		logger:   logger,
	}
}

// Start syncs immediately and then on every tick until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval, "collections", len(s.syncers))

	s.runSync(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runSync(ctx)
		}
	}
}

func (s *Scheduler) runSync(ctx context.Context) {
	syncCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.RunOnce(syncCtx); err != nil {
		s.logger.Error("sync failed", "error", err)
	}
}

// RunOnce syncs every collection concurrently and joins their errors.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	errs := make([]error, len(s.syncers))

	var wg sync.WaitGroup
	for i, syncer := range s.syncers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := syncer.Sync(ctx); err != nil {
				errs[i] = fmt.Errorf("sync %s: %w", syncer.Name(), err)
			}
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}
