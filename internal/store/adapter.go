package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/promptlib/internal/codec"
	"github.com/MrSnakeDoc/promptlib/internal/domain"
	"github.com/MrSnakeDoc/promptlib/internal/logger"
	"github.com/MrSnakeDoc/promptlib/internal/metrics"
)

// Adapter reads and writes the whole collection through a Backend.
// Storage problems are logged and counted, never handed to callers.
type Adapter struct {
	backend Backend
	key     string
	logger  logger.Logger
	metrics metrics.Recorder
}

func NewAdapter(backend Backend, key string, log logger.Logger, rec metrics.Recorder) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Adapter{
		backend: backend,
		key:     key,
		logger:  log.With(logger.String("store_key", key)),
		metrics: rec,
	}
}

func (a *Adapter) Key() string { return a.key }

// Load returns the stored collection. An absent key, an unreachable backend
// and an unreadable blob all yield an empty collection.
func (a *Adapter) Load(ctx context.Context) []domain.Prompt {
	prompts, err := a.Fetch(ctx)
	if err != nil {
		return []domain.Prompt{}
	}
	return prompts
}

// Fetch is Load without the fallback, for callers that must not mistake a
// failed read for an empty library. Failures are still logged.
func (a *Adapter) Fetch(ctx context.Context) ([]domain.Prompt, error) {
	data, err := a.backend.Get(ctx, a.key)
	if errors.Is(err, ErrNotFound) {
		a.logger.Debug("no stored collection, starting empty")
		return []domain.Prompt{}, nil
	}
	if err != nil {
		a.metrics.StoreFailure("load")
		a.logger.Warn("failed to read stored collection", logger.Error(err))
		return nil, fmt.Errorf("failed to read collection: %w", err)
	}

	prompts, badTimes, err := codec.Decode(data)
	if err != nil {
		a.metrics.StoreFailure("decode")
		a.logger.Error("stored collection is corrupt",
			logger.Int("bytes", len(data)),
			logger.Error(err))
		return nil, err
	}

	if badTimes > 0 {
		a.metrics.StoreFailure("timestamp")
		a.logger.Warn("stored prompts with unreadable createdAt kept without a date",
			logger.Int("count", badTimes))
	}

	a.logger.Debug("collection loaded", logger.Int("count", len(prompts)))
	return prompts, nil
}

// Save replaces the stored collection with prompts.
func (a *Adapter) Save(ctx context.Context, prompts []domain.Prompt) {
	data, err := codec.Encode(prompts)
	if err != nil {
		a.metrics.StoreFailure("encode")
		a.logger.Error("failed to encode collection, not saved", logger.Error(err))
		return
	}
	if err := a.backend.Set(ctx, a.key, data); err != nil {
		a.metrics.StoreFailure("save")
		a.logger.Error("failed to save collection",
			logger.Int("count", len(prompts)),
			logger.Error(err))
		return
	}
	a.logger.Debug("collection saved", logger.Int("count", len(prompts)))
}

func (a *Adapter) Ping(ctx context.Context) error {
	return a.backend.Ping(ctx)
}

func (a *Adapter) Close() error {
	return a.backend.Close()
}
