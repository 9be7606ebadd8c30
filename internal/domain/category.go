package domain

const (
	// AllCategoryID is the filter wildcard. It is never assigned to a prompt.
	AllCategoryID = "all"
	// DefaultCategoryID is used when a draft or imported record has none.
	DefaultCategoryID = "text"
)

// Category groups prompts by intended use.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

var categories = []Category{
	{ID: AllCategoryID, Name: "All", Icon: "📚"},
	{ID: "photo", Name: "Photo", Icon: "📸"},
	{ID: "video", Name: "Video", Icon: "🎥"},
	{ID: "productivity", Name: "Productivity", Icon: "⚡"},
	{ID: "text", Name: "Text", Icon: "📝"},
	{ID: "code", Name: "Code", Icon: "💻"},
	{ID: "design", Name: "Design", Icon: "🎨"},
}

// Categories returns the registry in display order, "all" first.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// AssignableCategories returns the registry without the "all" wildcard.
func AssignableCategories() []Category {
	out := make([]Category, 0, len(categories)-1)
	for _, c := range categories {
		if c.ID != AllCategoryID {
			out = append(out, c)
		}
	}
	return out
}

func LookupCategory(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryInfo returns display info for id, falling back to the first
// registry entry for unknown ids.
func CategoryInfo(id string) Category {
	if c, ok := LookupCategory(id); ok {
		return c
	}
	return categories[0]
}

// IsAssignable reports whether a prompt may be filed under id.
func IsAssignable(id string) bool {
	_, ok := LookupCategory(id)
	return ok && id != AllCategoryID
}
