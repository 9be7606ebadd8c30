// Package repository owns the canonical prompt collection.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/promptlib/internal/domain"
	"github.com/MrSnakeDoc/promptlib/internal/logger"
	"github.com/MrSnakeDoc/promptlib/internal/metrics"
)

// Persister is the storage side of the repository.
type Persister interface {
	// Load never fails; problems yield an empty collection.
	Load(ctx context.Context) []domain.Prompt
	// Fetch reports failures so a reload can keep what it has.
	Fetch(ctx context.Context) ([]domain.Prompt, error)
	Save(ctx context.Context, prompts []domain.Prompt)
}

// ImportResult describes one import merge.
type ImportResult struct {
	Imported []domain.Prompt
	Skipped  int
}

// Repository holds the collection newest first. Every mutation builds a new
// slice, swaps it in and persists it while still holding the lock, so stored
// snapshots follow mutation order. Slices handed out are never modified.
type Repository struct {
	mu       sync.RWMutex
	prompts  []domain.Prompt
	lastLoad time.Time

	store     Persister
	logger    logger.Logger
	metrics   metrics.Recorder
	clock     domain.Clock
	ids       domain.IDGenerator
	importIDs domain.IDGenerator
}

type Option func(*Repository)

func WithClock(c domain.Clock) Option { return func(r *Repository) { r.clock = c } }

// WithIDGenerator sets the generator for prompts created with Add.
func WithIDGenerator(g domain.IDGenerator) Option { return func(r *Repository) { r.ids = g } }

// WithImportIDGenerator sets the generator for imported records that need a fresh id.
func WithImportIDGenerator(g domain.IDGenerator) Option {
	return func(r *Repository) { r.importIDs = g }
}

func WithMetrics(m metrics.Recorder) Option { return func(r *Repository) { r.metrics = m } }

// New builds the repository and loads the stored collection.
func New(ctx context.Context, store Persister, log logger.Logger, opts ...Option) *Repository {
	r := &Repository{
		store:     store,
		logger:    log,
		metrics:   metrics.Nop{},
		clock:     domain.SystemClock,
		ids:       &domain.MillisIDs{},
		importIDs: domain.SuffixedIDs{},
	}
	for _, opt := range opts {
		opt(r)
	}

	r.prompts = store.Load(ctx)
	r.lastLoad = r.clock.Now()
	r.metrics.CollectionSize(len(r.prompts))
	r.logger.Info("prompt library loaded", logger.Int("count", len(r.prompts)))
	return r
}

func (r *Repository) now() time.Time {
	return r.clock.Now().UTC().Truncate(time.Millisecond)
}

// List returns the whole collection, newest first.
func (r *Repository) List() []domain.Prompt {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Prompt, len(r.prompts))
	copy(out, r.prompts)
	return out
}

// Search returns the prompts matching f in collection order.
func (r *Repository) Search(f domain.Filter) []domain.Prompt {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return domain.Apply(r.prompts, f)
}

func (r *Repository) Get(id domain.ID) (domain.Prompt, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := domain.Index(r.prompts, id); i >= 0 {
		return r.prompts[i], true
	}
	return domain.Prompt{}, false
}

func (r *Repository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.prompts)
}

// LastLoad returns when the collection was last read from the store.
func (r *Repository) LastLoad() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.lastLoad
}

// commit must be called with mu held.
func (r *Repository) commit(ctx context.Context, op string, next []domain.Prompt) {
	r.prompts = next
	r.store.Save(ctx, next)
	r.metrics.Mutation(op)
	r.metrics.CollectionSize(len(next))
}

// taken must be called with mu held.
func (r *Repository) taken(id domain.ID) bool {
	return domain.Index(r.prompts, id) >= 0
}

// Add creates a prompt from the draft and puts it first.
// The draft is stored as given, neither trimmed nor validated.
func (r *Repository) Add(ctx context.Context, d domain.Draft) domain.Prompt {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	p := domain.Prompt{
		ID:        r.ids.Next(now, r.taken),
		CreatedAt: now,
	}.WithDraft(d)

	next := make([]domain.Prompt, 0, len(r.prompts)+1)
	next = append(next, p)
	next = append(next, r.prompts...)
	r.commit(ctx, "add", next)

	r.logger.Debug("prompt added", logger.String("id", p.ID.String()))
	return p
}

// Update replaces the mutable fields of the prompt with id, keeping its id
// and creation time. It reports false, changing nothing, when id is absent.
func (r *Repository) Update(ctx context.Context, id domain.ID, d domain.Draft) (domain.Prompt, bool) {
	return r.replace(ctx, "update", id, func(p domain.Prompt) domain.Prompt {
		return p.WithDraft(d)
	})
}

// ToggleFavorite flips the favorite flag of the prompt with id.
func (r *Repository) ToggleFavorite(ctx context.Context, id domain.ID) (domain.Prompt, bool) {
	return r.replace(ctx, "toggle_favorite", id, func(p domain.Prompt) domain.Prompt {
		p.IsFavorite = !p.IsFavorite
		return p
	})
}

func (r *Repository) replace(ctx context.Context, op string, id domain.ID, fn func(domain.Prompt) domain.Prompt) (domain.Prompt, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := domain.Index(r.prompts, id)
	if i < 0 {
		r.logger.Debug("prompt not found", logger.String("op", op), logger.String("id", id.String()))
		return domain.Prompt{}, false
	}

	next := make([]domain.Prompt, len(r.prompts))
	copy(next, r.prompts)
	next[i] = fn(next[i])
	r.commit(ctx, op, next)
	return next[i], true
}

// Delete removes the prompt with id. It reports whether anything was removed.
func (r *Repository) Delete(ctx context.Context, id domain.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := domain.Index(r.prompts, id)
	if i < 0 {
		r.logger.Debug("prompt not found", logger.String("op", "delete"), logger.String("id", id.String()))
		return false
	}

	next := make([]domain.Prompt, 0, len(r.prompts)-1)
	next = append(next, r.prompts[:i]...)
	next = append(next, r.prompts[i+1:]...)
	r.commit(ctx, "delete", next)
	return true
}

// ImportMerge accepts the complete candidates, puts them first in input
// order and persists once. Nothing is written when no candidate is accepted.
func (r *Repository) ImportMerge(ctx context.Context, cands []domain.ImportCandidate) ImportResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	accepted, skipped := domain.AcceptImport(cands, r.taken, r.importIDs, r.now())
	r.metrics.Imported(len(accepted), skipped)

	if len(accepted) > 0 {
		next := make([]domain.Prompt, 0, len(accepted)+len(r.prompts))
		next = append(next, accepted...)
		next = append(next, r.prompts...)
		r.commit(ctx, "import", next)
	}

	r.logger.Info("import merged",
		logger.Int("imported", len(accepted)),
		logger.Int("skipped", skipped))
	return ImportResult{Imported: accepted, Skipped: skipped}
}

// Reload replaces the collection with the stored one, picking up writes
// made by other processes. On a failed read the current collection is kept.
// The store is read under the lock so no concurrent mutation is lost.
func (r *Repository) Reload(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prompts, err := r.store.Fetch(ctx)
	if err != nil {
		return len(r.prompts), err
	}

	r.prompts = prompts
	r.lastLoad = r.clock.Now()
	r.metrics.CollectionSize(len(prompts))
	return len(prompts), nil
}
