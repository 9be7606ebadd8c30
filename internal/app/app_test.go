package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/promptlib/internal/config"
	"github.com/MrSnakeDoc/promptlib/internal/domain"
	"github.com/MrSnakeDoc/promptlib/internal/logger"
)

const seedYAML = `- code:
    - title: Refactor
      content: Refactor this function.
- text:
    - title: Summary
      content: Summarize this text.
      favorite: true
`

func testConfig(t *testing.T, storeType string) *config.Config {
	t.Helper()
	home := t.TempDir()
	return &config.Config{
		ListenPort:          ":0",
		ShutdownTimeout:     time.Second,
		Home:                home,
		StoreType:           storeType,
		StoreKey:            "prompts",
		DataDir:             home,
		SQLitePath:          filepath.Join(home, "promptlib.db"),
		SnapshotInterval:    time.Hour,
		RedisDT:             time.Second,
		RedisRT:             time.Second,
		RedisWT:             time.Second,
		RedisPoolSize:       2,
		RedisConnectTimeout: 2 * time.Second,
		RedisRetryInterval:  10 * time.Millisecond,
		RedisMaxWait:        50 * time.Millisecond,
		RedisPingTimeout:    time.Second,
		RedisWarnThreshold:  3,
		RateLimitBurst:      10,
		RateLimitPerMin:     10,
	}
}

func writeSeedFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o644))
	return path
}

func TestOpenLibraryPersistsAcrossOpens(t *testing.T) {
	mr := miniredis.RunT(t)

	for _, storeType := range []string{config.StoreFile, config.StoreSQLite, config.StoreRedis} {
		t.Run(storeType, func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig(t, storeType)
			cfg.RedisAddr = mr.Addr()
			cfg.StoreKey = "prompts-" + storeType

			lib, err := OpenLibrary(ctx, cfg, logger.NewNop())
			require.NoError(t, err)
			added := lib.Repo.Add(ctx, domain.Draft{Title: "Persisted", Content: "Still here."})
			lib.Close()

			lib, err = OpenLibrary(ctx, cfg, logger.NewNop())
			require.NoError(t, err)
			defer lib.Close()

			got, ok := lib.Repo.Get(added.ID)
			require.True(t, ok)
			assert.Equal(t, added, got)
		})
	}
}

func TestOpenLibraryMemoryStartsEmpty(t *testing.T) {
	lib, err := OpenLibrary(context.Background(), testConfig(t, config.StoreMemory), logger.NewNop())
	require.NoError(t, err)
	defer lib.Close()

	assert.Equal(t, 0, lib.Repo.Count())
}

func TestOpenLibraryUnknownBackend(t *testing.T) {
	_, err := OpenLibrary(context.Background(), testConfig(t, "etcd"), logger.NewNop())
	assert.Error(t, err)
}

func TestOpenLibraryRedisUnreachable(t *testing.T) {
	cfg := testConfig(t, config.StoreRedis)
	cfg.RedisAddr = "127.0.0.1:1"
	cfg.RedisConnectTimeout = 100 * time.Millisecond

	_, err := OpenLibrary(context.Background(), cfg, logger.NewNop())
	assert.Error(t, err)
}

func TestSeedIfEmpty(t *testing.T) {
	ctx := context.Background()
	lib, err := OpenLibrary(ctx, testConfig(t, config.StoreMemory), logger.NewNop())
	require.NoError(t, err)
	defer lib.Close()

	path := writeSeedFile(t)
	require.NoError(t, lib.SeedIfEmpty(ctx, path))
	require.Equal(t, 2, lib.Repo.Count())

	list := lib.Repo.List()
	assert.Equal(t, "Refactor", list[0].Title)
	assert.Equal(t, "code", list[0].Category)
	assert.True(t, list[1].IsFavorite)

	// Not empty any more: nothing is imported twice.
	require.NoError(t, lib.SeedIfEmpty(ctx, path))
	assert.Equal(t, 2, lib.Repo.Count())

	require.NoError(t, lib.SeedIfEmpty(ctx, ""))
}

func TestSeedRejectsInvalidFile(t *testing.T) {
	ctx := context.Background()
	lib, err := OpenLibrary(ctx, testConfig(t, config.StoreMemory), logger.NewNop())
	require.NoError(t, err)
	defer lib.Close()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- music:\n    - title: Song\n      content: la\n"), 0o644))

	_, err = lib.Seed(ctx, path)
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
	assert.Equal(t, 0, lib.Repo.Count())
}

func TestNewWiresBackgroundJobs(t *testing.T) {
	cfg := testConfig(t, config.StoreMemory)
	cfg.SeedFile = writeSeedFile(t)
	cfg.SnapshotDir = filepath.Join(cfg.Home, "snapshots")

	a, err := New(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	defer a.lib.Close()

	assert.NotNil(t, a.syncer)
	assert.NotNil(t, a.snapshotter)
	assert.Equal(t, 2, a.lib.Repo.Count())
}

func TestNewWithoutSnapshots(t *testing.T) {
	a, err := New(context.Background(), testConfig(t, config.StoreMemory), logger.NewNop())
	require.NoError(t, err)
	defer a.lib.Close()

	assert.Nil(t, a.snapshotter)
}
