package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/MrSnakeDoc/promptlib/internal/codec"
	"github.com/MrSnakeDoc/promptlib/internal/domain"
	"github.com/MrSnakeDoc/promptlib/internal/logger"
)

// Snapshots carry their own prefix so pruning never touches export files a
// user saved in the same directory.
const (
	snapshotPrefix = "snapshot-"
	snapshotGlob   = snapshotPrefix + "prompts-*.json"
)

// snapshotName is the file written for the day of t.
func snapshotName(t time.Time) string {
	return snapshotPrefix + codec.ExportFilename(t)
}

// Lister exposes the current collection.
type Lister interface {
	List() []domain.Prompt
}

// Snapshotter periodically writes an export document of the collection into
// a directory, one file per day, and prunes old files.
type Snapshotter struct {
	repo          Lister
	dir           string
	retain        int
	logger        logger.Logger
	interval      time.Duration
	now           func() time.Time
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

func NewSnapshotter(
	repo Lister,
	dir string,
	retain int,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *Snapshotter {
	return &Snapshotter{
		repo:          repo,
		dir:           dir,
		retain:        retain,
		logger:        log,
		interval:      interval,
		now:           time.Now,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start writes a first snapshot and then runs the loop in a goroutine.
func (s *Snapshotter) Start(ctx context.Context) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	s.snapshotAndLog()

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
				s.snapshotAndLog()
			case <-s.manualTrigger:
				s.logger.Info("manual snapshot triggered")
				s.snapshotAndLog()
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the snapshotter
func (s *Snapshotter) Stop() {
	close(s.stopCh)
}

func (s *Snapshotter) snapshotAndLog() {
	if _, err := s.Snapshot(); err != nil {
		s.logger.Error("snapshot failed", logger.Error(err))
	}
}

// Snapshot writes today's export file and prunes old ones. It returns the
// written path, or "" when the library is empty and nothing was written.
// A second snapshot on the same day overwrites the first.
func (s *Snapshotter) Snapshot() (string, error) {
	prompts := s.repo.List()
	if len(prompts) == 0 {
		s.logger.Debug("library is empty, skipping snapshot")
		return "", nil
	}

	data, err := codec.Export(prompts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, snapshotName(s.now()))
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}

	s.logger.Info("snapshot written",
		logger.String("path", path),
		logger.Int("count", len(prompts)))

	if err := s.Prune(); err != nil {
		return path, err
	}
	return path, nil
}

// Prune removes the oldest snapshots beyond the retention count. The
// date-stamped names sort chronologically. A retention of zero keeps all.
func (s *Snapshotter) Prune() error {
	if s.retain <= 0 {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(s.dir, snapshotGlob))
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}
	if len(files) <= s.retain {
		return nil
	}

	sort.Strings(files)
	for _, f := range files[:len(files)-s.retain] {
		if err := os.Remove(f); err != nil {
			return fmt.Errorf("failed to remove snapshot: %w", err)
		}
		s.logger.Debug("snapshot pruned", logger.String("path", f))
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move snapshot in place: %w", err)
	}
	return nil
}
