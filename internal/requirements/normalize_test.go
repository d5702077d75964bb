package requirements

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(raw)
}

func TestNormalizeRewritesNonCanonicalSpecs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "core.yaml"), `
group: core
packages:
  - name: SQLAlchemy
    minimum: v1.4.0
  - name: alembic
    maximum: 2.0.0
`)

	n := &YAMLNormalizer{}
	require.NoError(t, n.Normalize(context.Background(), dir))

	out := readFile(t, filepath.Join(dir, "core.yaml"))
	assert.Contains(t, out, "sqlalchemy")
	assert.Contains(t, out, "1.4.0")
	assert.NotContains(t, out, "v1.4.0")

	// alembic sorts before sqlalchemy
	assert.Less(t,
		indexOf(out, "alembic"),
		indexOf(out, "sqlalchemy"),
	)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tracing.yaml")
	writeFile(t, path, `
group: tracing
packages:
  - name: OpenTelemetry_SDK
    minimum: 1.9.0
`)

	n := &YAMLNormalizer{}
	require.NoError(t, n.Normalize(context.Background(), dir))
	first := readFile(t, path)
	firstStat, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, n.Normalize(context.Background(), dir))
	second := readFile(t, path)
	secondStat, err := os.Stat(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// Untouched: the second pass must not rewrite an already-canonical file.
	assert.Equal(t, firstStat.ModTime(), secondStat.ModTime())
}

func TestNormalizeSkipsNonYAMLFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "core-requirements.txt"), "alembic<2.0.0\n")
	writeFile(t, filepath.Join(dir, "core.yaml"), "group: core\npackages: []\n")

	n := &YAMLNormalizer{}
	require.NoError(t, n.Normalize(context.Background(), dir))

	assert.Equal(t, "alembic<2.0.0\n", readFile(t, filepath.Join(dir, "core-requirements.txt")))
}

func TestNormalizeFailsOnInvalidSpec(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "core.yaml"), `
group: core
packages:
  - name: numpy
    pin: 1.26.0
    minimum: 1.20.0
`)

	n := &YAMLNormalizer{}
	err := n.Normalize(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestNormalizeFailsOnMissingName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "core.yaml"), `
group: core
packages:
  - minimum: 1.0.0
`)

	n := &YAMLNormalizer{}
	err := n.Normalize(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
