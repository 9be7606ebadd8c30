package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/promptlib/internal/config"
	"github.com/MrSnakeDoc/promptlib/internal/httpserver"
	"github.com/MrSnakeDoc/promptlib/internal/httpserver/deps"
	"github.com/MrSnakeDoc/promptlib/internal/logger"
	"github.com/MrSnakeDoc/promptlib/internal/scheduler"
	"github.com/MrSnakeDoc/promptlib/internal/version"
)

// App is the long-running server: the library, the HTTP API and the
// background jobs around them.
type App struct {
	cfg         *config.Config
	logger      logger.Logger
	lib         *Library
	server      *httpserver.Server
	syncer      *scheduler.StoreSyncer
	snapshotter *scheduler.Snapshotter
}

func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	lib, err := OpenLibrary(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	if err := lib.SeedIfEmpty(ctx, cfg.SeedFile); err != nil {
		lib.Close()
		return nil, fmt.Errorf("failed to apply seed file: %w", err)
	}

	// Create manual trigger channels
	syncTrigger := make(chan struct{}, 1)
	syncer := scheduler.NewStoreSyncer(lib.Repo, loggerClient, cfg.SyncInterval, syncTrigger)

	// Initialize snapshotter (if a snapshot directory is configured)
	var snapshotter *scheduler.Snapshotter
	var snapshotTrigger chan struct{}
	if cfg.SnapshotDir != "" {
		loggerClient.Info("snapshot dir configured, initializing snapshotter",
			logger.String("dir", cfg.SnapshotDir))
		snapshotTrigger = make(chan struct{}, 1)
		snapshotter = scheduler.NewSnapshotter(
			lib.Repo,
			cfg.SnapshotDir,
			cfg.SnapshotRetain,
			loggerClient,
			cfg.SnapshotInterval,
			snapshotTrigger,
		)
	} else {
		loggerClient.Info("snapshot dir not configured, snapshots disabled")
	}

	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		TimeNow:         time.Now,
		AllowedHosts:    cfg.AllowedHosts,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMin,
		Repository:      lib.Repo,
		Store:           lib.Store,
		StoreType:       cfg.StoreType,
		MetricsHandler:  lib.Metrics.Handler(),
		SyncTrigger:     syncTrigger,
		SnapshotTrigger: snapshotTrigger,
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		lib:         lib,
		server:      httpserver.New(cfg, loggerClient, d),
		syncer:      syncer,
		snapshotter: snapshotter,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting promptlib %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("promptlib %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)
	a.logger.Info("configuration", logger.String("store", a.cfg.StoreType),
		logger.Int("prompts", a.lib.Repo.Count()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.lib.Close()

	a.syncer.Start(ctx)
	a.logger.Info("store syncer started",
		logger.Duration("interval", a.cfg.SyncInterval))

	if a.snapshotter != nil {
		if err := a.snapshotter.Start(ctx); err != nil {
			return fmt.Errorf("failed to start snapshotter: %w", err)
		}
		a.logger.Info("snapshotter started",
			logger.Duration("interval", a.cfg.SnapshotInterval),
			logger.Int("retain", a.cfg.SnapshotRetain))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.syncer.Stop()
	if a.snapshotter != nil {
		a.snapshotter.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ promptlib stopped cleanly")
	return nil
}
