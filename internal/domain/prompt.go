package domain

import "time"

// Prompt is a reusable text snippet stored in the library.
type Prompt struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned once, at creation or import, and never changes.
	ID ID

	// CreatedAt is the creation instant, kept across edits. Always UTC.
	// Prompts created here have millisecond precision; imported ones keep
	// whatever precision their document carried.
	CreatedAt time.Time

	// ─────────────────────────────
	// Content (mutable)
	// ─────────────────────────────

	// Title is the short name shown in listings.
	Title string

	// Content is the prompt body itself.
	Content string

	// Category is a category id from the registry.
	// Imported records may carry ids the registry does not know.
	Category string

	// URL optionally points at where the prompt came from. Empty when absent.
	URL string

	// IsFavorite marks the prompt as starred.
	IsFavorite bool
}

// Draft returns the mutable fields of p, ready to be edited.
func (p Prompt) Draft() Draft {
	return Draft{
		Title:      p.Title,
		Content:    p.Content,
		Category:   p.Category,
		URL:        p.URL,
		IsFavorite: p.IsFavorite,
	}
}

// WithDraft replaces every mutable field of p with the draft, verbatim.
// An empty category becomes the default one. ID and CreatedAt are kept.
func (p Prompt) WithDraft(d Draft) Prompt {
	if d.Category == "" {
		d.Category = DefaultCategoryID
	}
	p.Title = d.Title
	p.Content = d.Content
	p.Category = d.Category
	p.URL = d.URL
	p.IsFavorite = d.IsFavorite
	return p
}

// Index returns the position of the prompt with the given id, or -1.
func Index(prompts []Prompt, id ID) int {
	for i := range prompts {
		if prompts[i].ID == id {
			return i
		}
	}
	return -1
}
