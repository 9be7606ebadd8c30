package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoaderLoad(t *testing.T) {
	path := writeSeed(t, `---
- code:
    - title: Refactor
      content: Refactor this function.
    - title: Review
      content: Review this diff.
      url: https://example.com/review
- photo:
    - title: Product shot
      content: Studio photo on white.
      favorite: true
`)

	file, err := NewLoader(path).Load()
	require.NoError(t, err)
	require.Len(t, file, 2)

	require.Len(t, file[0]["code"], 2)
	assert.Equal(t, "https://example.com/review", file[0]["code"][1].URL)
	assert.True(t, file[1]["photo"][0].Favorite)
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "absent.yaml")).Load()
	assert.Error(t, err)
}

func TestLoaderInvalidYAML(t *testing.T) {
	path := writeSeed(t, "- code: [unterminated")

	_, err := NewLoader(path).Load()
	assert.Error(t, err)
}
