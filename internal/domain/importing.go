package domain

import "time"

// ImportCandidate is one element of an import document. ID and CreatedAt
// are zero when the element did not carry a usable value.
type ImportCandidate struct {
	Draft
	ID        ID
	CreatedAt time.Time
}

// AcceptImport turns candidates into prompts, in input order. Candidates
// without a title or content are skipped. Missing or already used ids are
// replaced with ids from gen; taken reports ids held by the library.
func AcceptImport(cands []ImportCandidate, taken func(ID) bool, gen IDGenerator, now time.Time) ([]Prompt, int) {
	accepted := make([]Prompt, 0, len(cands))
	batch := make(map[ID]struct{}, len(cands))
	used := func(id ID) bool {
		if _, ok := batch[id]; ok {
			return true
		}
		return taken != nil && taken(id)
	}

	skipped := 0
	for _, c := range cands {
		if !c.Complete() {
			skipped++
			continue
		}

		id := c.ID
		if id.IsZero() || used(id) {
			id = gen.Next(now, used)
		}
		batch[id] = struct{}{}

		createdAt := c.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}

		p := Prompt{ID: id, CreatedAt: createdAt.UTC()}
		accepted = append(accepted, p.WithDraft(c.Draft))
	}
	return accepted, skipped
}
