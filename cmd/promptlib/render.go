package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/MrSnakeDoc/promptlib/internal/codec"
	"github.com/MrSnakeDoc/promptlib/internal/domain"
)

const (
	outputTable = "table"
	outputJSON  = "json"

	titleColumnWidth = 48
	dateLayout       = "Jan 2, 2006"
)

func validateOutput(format string) error {
	switch format {
	case outputTable, outputJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", format, outputTable, outputJSON)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderPrompts(w io.Writer, prompts []domain.Prompt, format string) error {
	if format == outputJSON {
		return writeJSON(w, codec.Records(prompts))
	}

	if len(prompts) == 0 {
		_, err := fmt.Fprintln(w, "No prompts found.")
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Title", "Category", "★", "Added"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignCenter},
	})

	for _, p := range prompts {
		t.AppendRow(table.Row{
			p.ID.String(),
			truncate(p.Title, titleColumnWidth),
			categoryLabel(p.Category),
			star(p.IsFavorite),
			p.CreatedAt.Local().Format(dateLayout),
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d prompts", len(prompts))})
	t.Render()
	return nil
}

func renderPrompt(w io.Writer, p domain.Prompt) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", star(p.IsFavorite), p.Title)
	fmt.Fprintf(&b, "ID:       %s\n", p.ID)
	fmt.Fprintf(&b, "Category: %s\n", categoryLabel(p.Category))
	if p.URL != "" {
		fmt.Fprintf(&b, "URL:      %s\n", p.URL)
	}
	fmt.Fprintf(&b, "Added on %s\n\n", p.CreatedAt.Local().Format(dateLayout))
	b.WriteString(p.Content)
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func renderCategories(w io.Writer, cats []domain.Category, counts map[string]int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Name", "Prompts"})
	for _, c := range cats {
		t.AppendRow(table.Row{c.ID, c.Icon + " " + c.Name, counts[c.ID]})
	}
	t.Render()
}

// categoryLabel shows unknown ids as stored, next to the fallback icon.
func categoryLabel(id string) string {
	info := domain.CategoryInfo(id)
	if info.ID != id {
		return info.Icon + " " + id
	}
	return info.Icon + " " + info.Name
}

func star(favorite bool) string {
	if favorite {
		return "★"
	}
	return "☆"
}

func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}
