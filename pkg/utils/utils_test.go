package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 5*time.Minute, ParseDuration("5m", time.Second))
	assert.Equal(t, time.Second, ParseDuration("", time.Second))
	assert.Equal(t, time.Second, ParseDuration("soon", time.Second))
	assert.Equal(t, time.Second, ParseDuration("-3s", time.Second))
	assert.Equal(t, time.Duration(0), ParseDuration("0s", time.Second))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "electric-vehicles-2026", Slugify("  Electric Vehicles: 2026! ", 0))
	assert.Equal(t, "article", Slugify("!!!", 0))
	assert.Equal(t, "abc", Slugify("abc-def", 4))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "hello...", Truncate("hello world", 8))
	assert.Equal(t, "caf...", Truncate("café au lait", 7))
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 3, CountWords(" one\ttwo\nthree "))
	assert.Equal(t, 0, CountWords(""))
}

func TestOutputManager(t *testing.T) {
	om := NewOutputManager(t.TempDir())

	path, err := om.WriteFile("gen-1", "article.md", []byte("# hi\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(om.BaseOutputDir, "gen-1", "article.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# hi\n", string(data))

	path, err = om.GetOutputFilePath("../escape", "x.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(om.BaseOutputDir, "escape", "x.json"), path)
}

func TestFileTypes(t *testing.T) {
	om := NewOutputManager("")
	assert.Equal(t, "html", om.GetFileType("a.HTM"))
	assert.Equal(t, "markdown", om.GetFileType("a.markdown"))
	assert.Equal(t, "json", om.GetFileType("a.json"))
	assert.Equal(t, "unknown", om.GetFileType("a.pdf"))

	assert.Equal(t, "text/markdown; charset=utf-8", ContentType("markdown"))
	assert.Equal(t, "application/json", ContentType("json"))
	assert.Equal(t, "text/plain; charset=utf-8", ContentType("pdf"))
}
