package colors

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorFor_MappingAndPaletteFallback(t *testing.T) {
	r := New(map[string]string{"VER": "#112233"})

	assert.Equal(t, "#112233", r.ColorFor("VER", 0))
	// unmapped drivers take the palette color of their request position
	assert.Equal(t, "#A259F7", r.ColorFor("LEC", 0))
	assert.Equal(t, "#00B4D8", r.ColorFor("LEC", 1))
	assert.Equal(t, "#43FF64", r.ColorFor("HAM", 2))
	// palette wraps for larger fields
	assert.Equal(t, "#A259F7", r.ColorFor("ALO", 3))
}

func TestColors_RequestOrder(t *testing.T) {
	r := New(nil)
	got := r.Colors([]string{"VER", "LEC"})
	assert.Equal(t, []string{"#A259F7", "#00B4D8"}, got)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "colors.yml")
	content := `
palette: ["#111111", "#222222"]
drivers:
  VER: "#A259F7"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "#A259F7", r.ColorFor("VER", 0))
	assert.Equal(t, "#111111", r.ColorFor("LEC", 0))
	assert.Equal(t, "#222222", r.ColorFor("LEC", 1))
}

func TestLoad_RejectsBadHex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "colors.yml")
	require.NoError(t, os.WriteFile(path, []byte("drivers:\n  VER: notacolor\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestReplace(t *testing.T) {
	r := New(map[string]string{"VER": "#111111"})
	r.Replace(New(map[string]string{"VER": "#222222"}))
	assert.Equal(t, "#222222", r.ColorFor("VER", 0))
}
