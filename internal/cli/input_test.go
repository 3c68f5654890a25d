package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bastiangx/topserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catSentences = []string{
	"abc", "abazacy", "dbcef", "xzz", "gdbc", "abazacy",
	"xyz", "abazacy", "dbcef", "xyz", "xxx", "xzz",
}

func init() {
	log.SetLevel(log.FatalLevel)
}

func newHandler(t *testing.T, input string, foldCase bool) (*InputHandler, *bytes.Buffer) {
	t.Helper()
	trie, err := suggest.Build(catSentences)
	require.NoError(t, err)

	var out bytes.Buffer
	return NewInputHandler(trie, strings.NewReader(input), &out, 60, foldCase, true), &out
}

func TestInputLoop(t *testing.T) {
	h, out := newHandler(t, "x\nab\nq\n\n:empty\n", false)
	require.NoError(t, h.Start())

	output := out.String()
	assert.Contains(t, output, "yz")
	assert.Contains(t, output, "azacy")
	assert.Contains(t, output, "no sentence starts with 'q'")
	assert.Contains(t, output, "(count: 3)")
	assert.Equal(t, 4, h.requestCount)
}

func TestInputQuitAndStats(t *testing.T) {
	h, out := newHandler(t, ":stats\n:q\nx\n", false)
	require.NoError(t, h.Start())

	output := out.String()
	assert.Contains(t, output, "sentences")
	assert.Contains(t, output, "12")
	assert.Equal(t, 0, h.requestCount, "nothing after :q is read")
}

func TestInputFoldCase(t *testing.T) {
	h, out := newHandler(t, "XY", true)
	require.NoError(t, h.Start())
	assert.Contains(t, out.String(), "z")
	assert.NotContains(t, out.String(), "no sentence")
}

func TestInputInvalidSymbol(t *testing.T) {
	h, out := newHandler(t, "XY\n", false)
	require.NoError(t, h.Start())
	assert.NotContains(t, out.String(), "count:")
}

func TestVerifier(t *testing.T) {
	h, _ := newHandler(t, "x\nab\nq\n:empty\ng\n", false)
	scan, err := suggest.NewScan(countAll(catSentences), nil)
	require.NoError(t, err)
	h.SetVerifier(scan)

	require.NoError(t, h.Start())
	assert.Equal(t, 0, h.Mismatches())

	// a verifier built from a different corpus must disagree
	h, _ = newHandler(t, "x\n", false)
	other, err := suggest.NewScan([]suggest.Entry{{Sentence: "xzz", Count: 5}}, nil)
	require.NoError(t, err)
	h.SetVerifier(other)
	require.NoError(t, h.Start())
	assert.Equal(t, 1, h.Mismatches())
}

func TestRenderResult(t *testing.T) {
	line := renderResult("ab", suggest.Suggestion{Sentence: "abazacy", Count: 1234}, true, true)
	assert.Contains(t, line, "ab")
	assert.Contains(t, line, "azacy")
	assert.Contains(t, line, "1,234")

	line = renderResult("", suggest.Suggestion{Sentence: "", Count: 2}, true, false)
	assert.Contains(t, line, "empty sentence")
	assert.NotContains(t, line, "count")
}

func countAll(sentences []string) []suggest.Entry {
	counts := map[string]int{}
	var entries []suggest.Entry
	for _, s := range sentences {
		if counts[s] == 0 {
			entries = append(entries, suggest.Entry{Sentence: s})
		}
		counts[s]++
	}
	for i := range entries {
		entries[i].Count = counts[entries[i].Sentence]
	}
	return entries
}
