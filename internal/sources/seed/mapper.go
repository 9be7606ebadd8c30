package seed

import (
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/promptlib/internal/domain"
)

// Mapper converts seed entries to import candidates.
type Mapper struct{}

func NewMapper() *Mapper {
	return &Mapper{}
}

// Map returns one candidate per entry, in file order. Seed files are written
// by hand, so invalid entries are reported instead of skipped.
func (m *Mapper) Map(file File) ([]domain.ImportCandidate, error) {
	var (
		cands []domain.ImportCandidate
		errs  []error
	)

	for gi, group := range file {
		for category, entries := range group {
			for ei, e := range entries {
				draft := domain.Draft{
					Title:      e.Title,
					Content:    e.Content,
					Category:   category,
					URL:        e.URL,
					IsFavorite: e.Favorite,
				}
				if err := draft.Validate(); err != nil {
					errs = append(errs, fmt.Errorf("group %d (%s), entry %d: %w", gi+1, category, ei+1, err))
					continue
				}
				cands = append(cands, domain.ImportCandidate{Draft: draft.Normalize()})
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	return cands, nil
}

// Candidates loads the file behind l and maps it.
func Candidates(l *Loader, m *Mapper) ([]domain.ImportCandidate, error) {
	file, err := l.Load()
	if err != nil {
		return nil, err
	}
	return m.Map(file)
}
