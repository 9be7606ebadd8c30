package codec

import (
	"fmt"
	"time"

	"github.com/MrSnakeDoc/promptlib/internal/domain"
)

// TimeLayout is the timestamp format written to documents: ISO-8601 in UTC
// with exactly three fractional digits.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Record is the wire form of a prompt, shared by the persisted blob, the
// export document and the HTTP API.
type Record struct {
	ID         domain.ID `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	URL        string    `json:"url"`
	IsFavorite bool      `json:"isFavorite"`
	CreatedAt  string    `json:"createdAt"`
}

func FromPrompt(p domain.Prompt) Record {
	return Record{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		Category:   p.Category,
		URL:        p.URL,
		IsFavorite: p.IsFavorite,
		CreatedAt:  FormatTime(p.CreatedAt),
	}
}

// Records converts a collection, always returning a non-nil slice so that
// empty collections encode as [].
func Records(prompts []domain.Prompt) []Record {
	out := make([]Record, 0, len(prompts))
	for _, p := range prompts {
		out = append(out, FromPrompt(p))
	}
	return out
}

// Prompt converts the record back. An empty createdAt yields a zero time.
func (r Record) Prompt() (domain.Prompt, error) {
	p := r.prompt()
	if r.CreatedAt != "" {
		t, err := ParseTime(r.CreatedAt)
		if err != nil {
			return p, fmt.Errorf("record %s: %w", r.ID, err)
		}
		p.CreatedAt = t
	}
	return p, nil
}

func (r Record) prompt() domain.Prompt {
	return domain.Prompt{
		ID:         r.ID,
		Title:      r.Title,
		Content:    r.Content,
		Category:   r.Category,
		URL:        r.URL,
		IsFavorite: r.IsFavorite,
	}
}

// FormatTime writes t in UTC with three fractional digits, or with as many
// as needed when t carries sub-millisecond precision.
func FormatTime(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()%int(time.Millisecond) != 0 {
		return t.Format(time.RFC3339Nano)
	}
	return t.Format(TimeLayout)
}

// ParseTime accepts any RFC 3339 timestamp and returns it in UTC at full
// precision.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid createdAt %q: %w", s, err)
	}
	return t.UTC(), nil
}
