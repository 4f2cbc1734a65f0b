package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTokensMergesSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "ids.txt")
	require.NoError(t, os.WriteFile(file, []byte(`# batch from 2025-06
first-slug

42
# trailing comment
second-slug
`), 0o644))

	tokens, err := readTokens("arg-slug", "a, b ,,c", file)
	require.NoError(t, err)
	assert.Equal(t, []string{"arg-slug", "a", "b", "c", "first-slug", "42", "second-slug"}, tokens)
}

func TestReadTokensEmptyInputs(t *testing.T) {
	t.Parallel()

	tokens, err := readTokens("", "", "")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestReadTokensMissingFile(t *testing.T) {
	t.Parallel()

	_, err := readTokens("", "", filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}
