package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatWithCommas(t *testing.T) {
	testCases := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		65535:    "65,535",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for n, expected := range testCases {
		assert.Equal(t, expected, FormatWithCommas(n), "n=%d", n)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "ab…", Truncate("abcd", 3))
	assert.Equal(t, "abcd", Truncate("abcd", 0))
	assert.Equal(t, "…", Truncate("abcd", 1))
}

func TestFoldPrompt(t *testing.T) {
	assert.Equal(t, "abc", FoldPrompt("AbC", true))
	assert.Equal(t, "AbC", FoldPrompt("AbC", false))
	assert.Equal(t, "", FoldPrompt("", true))
}

func TestTOMLHelpers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.toml")
	type section struct {
		Name  string `toml:"name"`
		Count int    `toml:"count"`
		On    bool   `toml:"on"`
	}
	type doc struct {
		Section section `toml:"section"`
	}
	require.NoError(t, SaveTOMLFile(doc{Section: section{Name: "cats", Count: 3, On: true}}, path))

	raw, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)
	s, ok := ExtractSection(raw, "section")
	require.True(t, ok)

	name, ok := ExtractString(s, "name")
	assert.True(t, ok)
	assert.Equal(t, "cats", name)
	count, ok := ExtractInt64(s, "count")
	assert.True(t, ok)
	assert.Equal(t, 3, count)
	on, ok := ExtractBool(s, "on")
	assert.True(t, ok)
	assert.True(t, on)

	_, ok = ExtractInt64(s, "name")
	assert.False(t, ok)
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	result := CheckDirStatus(dir)
	assert.True(t, result.Exists)
	assert.True(t, result.Writable)
	assert.True(t, FileExists(dir))

	left, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, left, "write check cleans up after itself")
}

func TestPathResolverCorpus(t *testing.T) {
	pr, err := NewPathResolver("topserve-test")
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "cats.txt")
	require.NoError(t, os.WriteFile(path, []byte("abc\n"), 0644))

	resolved, err := pr.GetCorpusPath(path)
	require.NoError(t, err)
	assert.Equal(t, path, resolved)

	_, err = pr.GetCorpusPath(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
	_, err = pr.GetCorpusPath("")
	assert.Error(t, err)

	assert.Len(t, pr.CorpusCandidates("rel.txt"), 3)
	assert.NotEmpty(t, pr.GetRuntimeInfo()["os"])
}
