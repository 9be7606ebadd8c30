package app

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/promptlib/internal/config"
	"github.com/MrSnakeDoc/promptlib/internal/logger"
	"github.com/MrSnakeDoc/promptlib/internal/metrics"
	"github.com/MrSnakeDoc/promptlib/internal/redis"
	"github.com/MrSnakeDoc/promptlib/internal/repository"
	"github.com/MrSnakeDoc/promptlib/internal/sources/seed"
	"github.com/MrSnakeDoc/promptlib/internal/store"
	"github.com/MrSnakeDoc/promptlib/internal/store/file"
	"github.com/MrSnakeDoc/promptlib/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/promptlib/internal/store/redis"
	"github.com/MrSnakeDoc/promptlib/internal/store/sqlite"
	"github.com/MrSnakeDoc/promptlib/internal/utils"
)

// Library is an opened prompt library: the configured backend, the adapter
// in front of it and the repository loaded from it. CLI commands and the
// server both start from here.
type Library struct {
	Repo    *repository.Repository
	Store   *store.Adapter
	Metrics *metrics.Metrics

	backend store.Backend
	logger  logger.Logger
}

// OpenLibrary connects the configured backend and loads the collection.
// An unreachable backend is an error; an empty or unreadable stored
// collection is not.
func OpenLibrary(ctx context.Context, cfg *config.Config, log logger.Logger) (*Library, error) {
	backend, err := newBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	adapter := store.NewAdapter(backend, cfg.StoreKey, log, m)
	repo := repository.New(ctx, adapter, log, repository.WithMetrics(m))

	return &Library{
		Repo:    repo,
		Store:   adapter,
		Metrics: m,
		backend: backend,
		logger:  log,
	}, nil
}

// Seed imports the starter pack at path. Every entry is validated first; a
// file with any invalid entry imports nothing.
func (l *Library) Seed(ctx context.Context, path string) (repository.ImportResult, error) {
	cands, err := seed.Candidates(seed.NewLoader(path), seed.NewMapper())
	if err != nil {
		return repository.ImportResult{}, err
	}

	res := l.Repo.ImportMerge(ctx, cands)
	l.logger.Info("seed file imported",
		logger.String("file", path),
		logger.Int("imported", len(res.Imported)))
	return res, nil
}

// SeedIfEmpty applies the starter pack only to an empty library.
func (l *Library) SeedIfEmpty(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	if n := l.Repo.Count(); n > 0 {
		l.logger.Debug("library not empty, skipping seed file", logger.Int("count", n))
		return nil
	}
	_, err := l.Seed(ctx, path)
	return err
}

func (l *Library) Close() {
	utils.MustClose(l.backend, "store", l.logger)
}

func newBackend(ctx context.Context, cfg *config.Config, log logger.Logger) (store.Backend, error) {
	switch cfg.StoreType {
	case config.StoreMemory:
		log.Warn("using in-memory store, prompts are lost on exit")
		return memory.New(), nil

	case config.StoreFile:
		s, err := file.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open file store: %w", err)
		}
		log.Debug("file store opened", logger.String("dir", cfg.DataDir))
		return s, nil

	case config.StoreSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		log.Debug("sqlite store opened", logger.String("path", cfg.SQLitePath))
		return s, nil

	case config.StoreRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return redisstore.NewStore(client), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreType)
	}
}
