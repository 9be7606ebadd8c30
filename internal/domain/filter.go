package domain

import "strings"

// Filter selects a subset of the library. Zero values match everything.
type Filter struct {
	// Query is matched case-insensitively as a substring of title or content.
	Query string
	// Category restricts to one category id. "all" and "" are wildcards.
	Category string
	// FavoritesOnly keeps starred prompts only.
	FavoritesOnly bool
}

func (f Filter) Match(p Prompt) bool {
	if f.Category != "" && f.Category != AllCategoryID && p.Category != f.Category {
		return false
	}
	if f.FavoritesOnly && !p.IsFavorite {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Content), q)
}

// Apply returns the prompts matching f, in their original order.
func Apply(prompts []Prompt, f Filter) []Prompt {
	out := make([]Prompt, 0, len(prompts))
	for _, p := range prompts {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
