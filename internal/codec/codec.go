package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/promptlib/internal/domain"
)

// MediaType of export and import documents.
const MediaType = "application/json"

// ErrImportParse is returned when an import document is not a JSON array.
var ErrImportParse = errors.New("import document is not a JSON array")

// Encode writes the compact persisted form of a collection.
func Encode(prompts []domain.Prompt) ([]byte, error) {
	data, err := marshal(Records(prompts), false)
	if err != nil {
		return nil, fmt.Errorf("failed to encode prompts: %w", err)
	}
	return data, nil
}

// Export writes the human-facing export document, indented by two spaces.
func Export(prompts []domain.Prompt) ([]byte, error) {
	data, err := marshal(Records(prompts), true)
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return data, nil
}

// marshal leaves <, > and & unescaped since prompts routinely contain markup.
func marshal(v any, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Decode parses a persisted collection verbatim. A blob that is not an
// array of records is an error; callers decide how to recover. A record
// whose createdAt cannot be read is kept with a zero CreatedAt, and counted
// in the returned int, so one bad timestamp never costs the collection.
func Decode(data []byte) ([]domain.Prompt, int, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, 0, fmt.Errorf("failed to decode prompts: %w", err)
	}

	prompts := make([]domain.Prompt, 0, len(records))
	badTimes := 0
	for _, r := range records {
		p, err := r.Prompt()
		if err != nil {
			badTimes++
		}
		prompts = append(prompts, p)
	}
	return prompts, badTimes, nil
}

// ParseImport reads an import document. The document itself must be a JSON
// array, otherwise ErrImportParse is returned. Elements are read leniently:
// fields of the wrong type count as absent, and elements that are not
// objects produce empty candidates that acceptance will reject.
func ParseImport(data []byte) ([]domain.ImportCandidate, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrImportParse
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportParse, err)
	}

	cands := make([]domain.ImportCandidate, 0, len(elems))
	for _, raw := range elems {
		cands = append(cands, parseCandidate(raw))
	}
	return cands, nil
}

func parseCandidate(raw json.RawMessage) domain.ImportCandidate {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return domain.ImportCandidate{}
	}

	c := domain.ImportCandidate{
		Draft: domain.Draft{
			Title:      stringField(fields, "title"),
			Content:    stringField(fields, "content"),
			Category:   stringField(fields, "category"),
			URL:        stringField(fields, "url"),
			IsFavorite: bytes.Equal(bytes.TrimSpace(fields["isFavorite"]), []byte("true")),
		},
	}

	if v, ok := fields["id"]; ok {
		var id domain.ID
		if err := json.Unmarshal(v, &id); err == nil {
			c.ID = id
		}
	}
	if s := stringField(fields, "createdAt"); s != "" {
		if t, err := ParseTime(s); err == nil {
			c.CreatedAt = t
		}
	}
	return c
}

func stringField(fields map[string]json.RawMessage, key string) string {
	v, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

// ExportFilename is the date-stamped name offered for export documents.
func ExportFilename(t time.Time) string {
	return "prompts-" + t.UTC().Format("2006-01-02") + ".json"
}
