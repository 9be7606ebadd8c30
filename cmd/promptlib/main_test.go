package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/promptlib/internal/codec"
)

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("PROMPTLIB_HOME", home)
	t.Setenv("PROMPTLIB_STORE", "file")
	// Empty values fall back to defaults derived from PROMPTLIB_HOME.
	t.Setenv("PROMPTLIB_DATA_DIR", "")
	t.Setenv("PROMPTLIB_SQLITE_PATH", "")
	t.Setenv("PROMPTLIB_LOG_LEVEL", "error")
	return home
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, out)
	return out
}

func addPrompt(t *testing.T, args ...string) string {
	t.Helper()
	out := mustRun(t, append([]string{"add"}, args...)...)
	id, ok := strings.CutPrefix(strings.TrimSpace(out), "Added prompt ")
	require.True(t, ok, out)
	return id
}

func listJSON(t *testing.T, args ...string) []codec.Record {
	t.Helper()
	out := mustRun(t, append([]string{"list", "-o", "json"}, args...)...)
	var records []codec.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records), out)
	return records
}

func TestAddListShow(t *testing.T) {
	setupHome(t)

	id := addPrompt(t, "-t", "  Code review ", "--content", "Review this diff.", "-c", "code", "--url", "https://example.com")
	addPrompt(t, "-t", "Essay", "--content", "Write an essay.")

	records := listJSON(t)
	require.Len(t, records, 2)
	assert.Equal(t, "Essay", records[0].Title)
	assert.Equal(t, "text", records[0].Category)
	assert.Equal(t, "Code review", records[1].Title)
	assert.Equal(t, id, records[1].ID.String())

	records = listJSON(t, "-q", "DIFF", "-c", "code")
	require.Len(t, records, 1)
	assert.Equal(t, id, records[0].ID.String())

	out := mustRun(t, "list")
	assert.Contains(t, out, "Code review")
	assert.Contains(t, strings.ToLower(out), "2 prompts")

	out = mustRun(t, "show", id)
	assert.Contains(t, out, "Code review")
	assert.Contains(t, out, "Review this diff.")
	assert.Contains(t, out, "https://example.com")
	assert.Contains(t, out, "Added on")
}

func TestAddRejectsInvalidDraft(t *testing.T) {
	setupHome(t)

	out, err := run(t, "add", "-t", " ", "--content", "x", "-c", "music")
	require.Error(t, err)
	assert.Contains(t, out, "title is required")
	assert.Contains(t, out, "unknown category")

	assert.Empty(t, listJSON(t))
}

func TestListRejectsUnknownOutput(t *testing.T) {
	setupHome(t)

	_, err := run(t, "list", "-o", "yaml")
	assert.Error(t, err)
}

func TestEditFavRm(t *testing.T) {
	setupHome(t)
	id := addPrompt(t, "-t", "Summary", "--content", "Summarize.", "-c", "text")

	mustRun(t, "edit", id, "-c", "productivity")
	records := listJSON(t)
	require.Len(t, records, 1)
	assert.Equal(t, "Summary", records[0].Title)
	assert.Equal(t, "Summarize.", records[0].Content)
	assert.Equal(t, "productivity", records[0].Category)

	_, err := run(t, "edit", id, "-t", "")
	assert.Error(t, err)

	assert.Contains(t, mustRun(t, "fav", id), "Starred")
	assert.True(t, listJSON(t, "--favorites")[0].IsFavorite)
	assert.Contains(t, mustRun(t, "fav", id), "Unstarred")
	assert.Empty(t, listJSON(t, "--favorites"))

	mustRun(t, "rm", id)
	assert.Empty(t, listJSON(t))

	_, err = run(t, "rm", id)
	assert.Error(t, err)
	_, err = run(t, "show", id)
	assert.Error(t, err)
}

func TestExportImportRoundTrip(t *testing.T) {
	setupHome(t)
	addPrompt(t, "-t", "First", "--content", "one", "-c", "code", "--favorite")
	addPrompt(t, "-t", "Second", "--content", "two")
	before := listJSON(t)

	path := filepath.Join(t.TempDir(), "backup.json")
	assert.Contains(t, mustRun(t, "export", "-o", path), "Exported 2 prompts")

	// Fresh library, same file.
	setupHome(t)
	assert.Contains(t, mustRun(t, "import", path), "Imported 2 prompts (0 skipped)")
	assert.Equal(t, before, listJSON(t))

	// Importing again keeps both copies under fresh ids.
	mustRun(t, "import", path)
	after := listJSON(t)
	require.Len(t, after, 4)
	assert.NotEqual(t, before[0].ID, after[0].ID)
}

func TestEditImportedPromptKeepsUntouchedFields(t *testing.T) {
	setupHome(t)
	path := filepath.Join(t.TempDir(), "legacy.json")
	doc := `[{"id":42,"title":"Loop","content":"    for x in y:\n        print(x)\n","category":"music"}]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	mustRun(t, "import", path)

	mustRun(t, "edit", "42", "-t", "  Python loop ")

	records := listJSON(t)
	require.Len(t, records, 1)
	assert.Equal(t, "Python loop", records[0].Title)
	assert.Equal(t, "    for x in y:\n        print(x)\n", records[0].Content)
	assert.Equal(t, "music", records[0].Category)

	_, err := run(t, "edit", "42", "-c", "poetry")
	assert.Error(t, err)
}

func TestExportToStdoutAndDefaultName(t *testing.T) {
	setupHome(t)
	addPrompt(t, "-t", "Only", "--content", "one")

	out := mustRun(t, "export", "-o", "-")
	cands, err := codec.ParseImport([]byte(out))
	require.NoError(t, err)
	require.Len(t, cands, 1)

	dir := t.TempDir()
	t.Chdir(dir)
	mustRun(t, "export")
	files, err := filepath.Glob(filepath.Join(dir, "prompts-*.json"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestExportEmptyLibrary(t *testing.T) {
	setupHome(t)
	dir := t.TempDir()
	t.Chdir(dir)

	out := mustRun(t, "export")
	assert.Contains(t, out, "empty")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImportRejectsNonArray(t *testing.T) {
	setupHome(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"title":"x"}`), 0o644))

	_, err := run(t, "import", path)
	assert.ErrorIs(t, err, codec.ErrImportParse)
	assert.Empty(t, listJSON(t))
}

func TestSeedAndCategories(t *testing.T) {
	setupHome(t)
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- code:\n    - title: Refactor\n      content: Refactor this.\n"), 0o644))

	assert.Contains(t, mustRun(t, "seed", path), "Imported 1 prompts")

	out := mustRun(t, "categories")
	assert.Contains(t, out, "Code")
	assert.Contains(t, out, "Photo")

	out = mustRun(t, "categories", "-o", "json")
	var cats []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &cats))
	assert.Equal(t, "all", cats[0]["id"])
}

func TestVersion(t *testing.T) {
	out := mustRun(t, "version")
	assert.Contains(t, out, "promptlib")
	assert.Contains(t, out, "Commit:")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b", truncate("a \n b", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
