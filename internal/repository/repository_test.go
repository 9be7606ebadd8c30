package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/promptlib/internal/domain"
	"github.com/MrSnakeDoc/promptlib/internal/logger"
	"github.com/MrSnakeDoc/promptlib/internal/store"
	"github.com/MrSnakeDoc/promptlib/internal/store/memory"
)

var fixedNow = time.Date(2025, 5, 17, 9, 30, 0, 0, time.UTC)

type fixture struct {
	repo    *Repository
	adapter *store.Adapter
	backend *memory.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	backend := memory.New()
	adapter := store.NewAdapter(backend, store.DefaultKey, logger.NewNop(), nil)
	repo := New(context.Background(), adapter, logger.NewNop(),
		WithClock(domain.ClockFunc(func() time.Time { return fixedNow })))
	return fixture{repo: repo, adapter: adapter, backend: backend}
}

// assertPersisted checks that the store holds exactly the in-memory collection.
func (f fixture) assertPersisted(t *testing.T) {
	t.Helper()
	assert.Equal(t, f.repo.List(), f.adapter.Load(context.Background()))
}

func TestNewLoadsStoredCollection(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	adapter := store.NewAdapter(backend, store.DefaultKey, logger.NewNop(), nil)
	stored := []domain.Prompt{{ID: "1", Title: "t", Content: "c", Category: "text", CreatedAt: fixedNow}}
	adapter.Save(ctx, stored)

	repo := New(ctx, adapter, logger.NewNop())

	assert.Equal(t, stored, repo.List())
	assert.Equal(t, 1, repo.Count())
}

func TestNewWithCorruptStoreStartsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	require.NoError(t, backend.Set(ctx, store.DefaultKey, []byte("garbage")))

	repo := New(ctx, store.NewAdapter(backend, "", logger.NewNop(), nil), logger.NewNop())

	assert.Zero(t, repo.Count())
}

func TestAddPrependsAndDefaultsCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.repo.Add(ctx, domain.Draft{Title: " First ", Content: "one"})
	second := f.repo.Add(ctx, domain.Draft{Title: "Second", Content: "two", Category: "code"})

	list := f.repo.List()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	assert.Equal(t, " First ", first.Title)
	assert.Equal(t, domain.DefaultCategoryID, first.Category)
	assert.False(t, first.IsFavorite)
	assert.Equal(t, fixedNow, first.CreatedAt)
	f.assertPersisted(t)
}

func TestIDsStayUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		f.repo.Add(ctx, domain.Draft{Title: fmt.Sprintf("p%d", i), Content: "c"})
	}
	first := f.repo.List()[0]
	f.repo.ImportMerge(ctx, []domain.ImportCandidate{
		{Draft: domain.Draft{Title: "dup", Content: "c"}, ID: first.ID},
		{Draft: domain.Draft{Title: "new", Content: "c"}, ID: "x-1"},
		{Draft: domain.Draft{Title: "dup again", Content: "c"}, ID: "x-1"},
		{Draft: domain.Draft{Title: "no id", Content: "c"}},
	})
	f.repo.Add(ctx, domain.Draft{Title: "after import", Content: "c"})

	seen := make(map[domain.ID]bool)
	for _, p := range f.repo.List() {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
	assert.Len(t, seen, 25)
}

func TestMissingIDIsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.repo.Add(ctx, domain.Draft{Title: "keep", Content: "me"})
	before := f.repo.List()

	_, ok := f.repo.Update(ctx, "missing", domain.Draft{Title: "x", Content: "y"})
	assert.False(t, ok)
	_, ok = f.repo.ToggleFavorite(ctx, "missing")
	assert.False(t, ok)
	assert.False(t, f.repo.Delete(ctx, "missing"))

	assert.Equal(t, before, f.repo.List())
	f.assertPersisted(t)
}

func TestUpdatePreservesIdentity(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	adapter := store.NewAdapter(backend, "", logger.NewNop(), nil)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	adapter.Save(ctx, []domain.Prompt{{ID: "5", Title: "old", Content: "old", Category: "text", CreatedAt: created}})
	repo := New(ctx, adapter, logger.NewNop())

	draft := domain.Draft{Title: "new", Content: "body", Category: "design", URL: "https://x.test", IsFavorite: true}
	got, ok := repo.Update(ctx, "5", draft)

	require.True(t, ok)
	assert.Equal(t, domain.ID("5"), got.ID)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, draft, got.Draft())
	assert.Equal(t, []domain.Prompt{got}, adapter.Load(ctx))
}

func TestUpdateStoresContentVerbatim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.repo.Add(ctx, domain.Draft{Title: "Loop", Content: "c", Category: "code"})

	draft := domain.Draft{Title: "Loop", Content: "    for x in y:\n        print(x)\n", Category: "code"}
	got, ok := f.repo.Update(ctx, p.ID, draft)

	require.True(t, ok)
	assert.Equal(t, draft, got.Draft())
	f.assertPersisted(t)
}

func TestToggleFavorite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.repo.Add(ctx, domain.Draft{Title: "t", Content: "c"})

	got, ok := f.repo.ToggleFavorite(ctx, p.ID)
	require.True(t, ok)
	assert.True(t, got.IsFavorite)

	got, ok = f.repo.ToggleFavorite(ctx, p.ID)
	require.True(t, ok)
	assert.False(t, got.IsFavorite)
	f.assertPersisted(t)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.repo.Add(ctx, domain.Draft{Title: "a", Content: "c"})
	b := f.repo.Add(ctx, domain.Draft{Title: "b", Content: "c"})
	c := f.repo.Add(ctx, domain.Draft{Title: "c", Content: "c"})

	assert.True(t, f.repo.Delete(ctx, b.ID))

	list := f.repo.List()
	require.Len(t, list, 2)
	assert.Equal(t, c.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)
	f.assertPersisted(t)
}

func TestListIsASnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.repo.Add(ctx, domain.Draft{Title: "a", Content: "c"})

	snapshot := f.repo.List()
	snapshot[0].Title = "changed"
	f.repo.Add(ctx, domain.Draft{Title: "b", Content: "c"})

	assert.Len(t, snapshot, 1)
	assert.Equal(t, "a", f.repo.List()[1].Title)
}

func TestImportMerge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	existing := f.repo.Add(ctx, domain.Draft{Title: "existing", Content: "c"})

	res := f.repo.ImportMerge(ctx, []domain.ImportCandidate{
		{Draft: domain.Draft{Title: "A", Content: "B"}},
		{Draft: domain.Draft{Content: "no title"}},
		{Draft: domain.Draft{Title: "C", Content: "D", Category: "video", IsFavorite: true}},
	})

	require.Len(t, res.Imported, 2)
	assert.Equal(t, 1, res.Skipped)

	list := f.repo.List()
	require.Len(t, list, 3)
	assert.Equal(t, "A", list[0].Title)
	assert.Equal(t, "text", list[0].Category)
	assert.False(t, list[0].IsFavorite)
	assert.Equal(t, "C", list[1].Title)
	assert.Equal(t, "video", list[1].Category)
	assert.True(t, list[1].IsFavorite)
	assert.Equal(t, existing.ID, list[2].ID)
	assert.Equal(t, fixedNow, list[0].CreatedAt)
	f.assertPersisted(t)
}

func TestImportMergeNothingAccepted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.repo.ImportMerge(ctx, []domain.ImportCandidate{{}})

	assert.Empty(t, res.Imported)
	assert.Equal(t, 1, res.Skipped)
	_, err := f.backend.Get(ctx, store.DefaultKey)
	assert.ErrorIs(t, err, store.ErrNotFound, "nothing should be written")
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.repo.Add(ctx, domain.Draft{Title: "Cat photo", Content: "x", Category: "photo"})
	f.repo.Add(ctx, domain.Draft{Title: "Write code", Content: "x", Category: "code"})

	got := f.repo.Search(domain.Filter{Category: "photo"})
	require.Len(t, got, 1)
	assert.Equal(t, "Cat photo", got[0].Title)
}

func TestReloadPicksUpExternalWrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.repo.Add(ctx, domain.Draft{Title: "mine", Content: "c"})

	other := New(ctx, f.adapter, logger.NewNop())
	other.Add(ctx, domain.Draft{Title: "theirs", Content: "c"})

	n, err := f.repo.Reload(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, other.List(), f.repo.List())
}

func TestReloadKeepsCollectionOnReadFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.repo.Add(ctx, domain.Draft{Title: "mine", Content: "c"})
	require.NoError(t, f.backend.Set(ctx, store.DefaultKey, []byte("corrupt")))

	n, err := f.repo.Reload(ctx)
	assert.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "mine", f.repo.List()[0].Title)
}

func TestConcurrentMutationsPersistFinalState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := f.repo.Add(ctx, domain.Draft{Title: fmt.Sprintf("p%d", i), Content: "c"})
			if i%2 == 0 {
				f.repo.ToggleFavorite(ctx, p.ID)
			}
			if i%5 == 0 {
				f.repo.Delete(ctx, p.ID)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 40, f.repo.Count())
	f.assertPersisted(t)
}
