package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/promptlib/internal/logger"
)

// Reloader re-reads the collection from the store.
type Reloader interface {
	Reload(ctx context.Context) (int, error)
}

// StoreSyncer periodically reloads the repository from the store, picking up
// writes made by other processes sharing the same backend.
type StoreSyncer struct {
	repo          Reloader
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewStoreSyncer creates a syncer. An interval of zero disables the ticker;
// manual triggers are still served.
func NewStoreSyncer(
	repo Reloader,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *StoreSyncer {
	return &StoreSyncer{
		repo:          repo,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start runs the sync loop in a goroutine.
func (s *StoreSyncer) Start(ctx context.Context) {
	var ticker *time.Ticker
	var tick <-chan time.Time
	if s.interval > 0 {
		ticker = time.NewTicker(s.interval)
		tick = ticker.C
	}

	go func() {
		if ticker != nil {
			defer ticker.Stop()
		}
		for {
			select {
			case <-tick:
				s.syncAndLog(ctx)
			case <-s.manualTrigger:
				s.logger.Info("manual store sync triggered")
				s.syncAndLog(ctx)
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the syncer
func (s *StoreSyncer) Stop() {
	close(s.stopCh)
}

func (s *StoreSyncer) syncAndLog(ctx context.Context) {
	if err := s.Sync(ctx); err != nil {
		s.logger.Error("store sync failed", logger.Error(err))
	}
}

// Sync reloads the repository once. On failure the repository keeps its
// current collection.
func (s *StoreSyncer) Sync(ctx context.Context) error {
	count, err := s.repo.Reload(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload prompts: %w", err)
	}

	s.logger.Info("synced prompts from store", logger.Int("count", count))
	return nil
}
