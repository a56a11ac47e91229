package search

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docket/internal/markdown"
	"git.home.luguber.info/inful/docket/internal/toc"
)

func TestBuilder_Empty(t *testing.T) {
	assert.Empty(t, NewBuilder().Finalise())
}

func TestBuilder_Frequencies(t *testing.T) {
	freqs := NewBuilder().AddTerms("a test a string").Finalise()

	require.Len(t, freqs, 3)
	assert.InDelta(t, 0.5, freqs["a"], 1e-9)
	assert.InDelta(t, 0.25, freqs["test"], 1e-9)
	assert.Greater(t, freqs["a"], freqs["string"])
}

func TestBuilder_SplitsOnPunctuationAndLowercases(t *testing.T) {
	freqs := NewBuilder().AddTerms("Hello, WORLD! <b>foo-bar</b> x+y=z café").Finalise()

	terms := make([]string, 0, len(freqs))
	for term := range freqs {
		terms = append(terms, term)
	}
	assert.ElementsMatch(t, []string{"hello", "world", "b", "foo", "bar", "x", "y", "z", "café"}, terms)
}

func TestExtractText_SkipsScripts(t *testing.T) {
	text, err := ExtractText(strings.NewReader(`<p>Hello <em>there</em></p><script>var x = 1;</script><style>p{}</style><p>end</p>`))
	require.NoError(t, err)

	assert.Equal(t, []string{"Hello", "there", "end"}, strings.Fields(text))
}

func TestIndex_AddPageAndWrite(t *testing.T) {
	doc := markdown.NewParser().Parse([]byte("# Install Guide\n\nRun the *installer* twice.\n\n[TOC]\n"))
	content, err := toc.Build(doc.Source, doc.Events, markdown.NewRenderer(nil))
	require.NoError(t, err)

	idx := NewIndex()
	require.NoError(t, idx.AddPage("Install", "guide/", content))
	require.NoError(t, idx.AddPage("Home", "", &toc.Toc{}))
	assert.Equal(t, 2, idx.Len())

	dir := t.TempDir()
	require.NoError(t, idx.WriteTo(dir))

	raw, err := os.ReadFile(filepath.Join(dir, IndexFile))
	require.NoError(t, err)

	var entries []Entry
	require.NoError(t, json.Unmarshal(raw, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "", entries[0].Slug)
	assert.Equal(t, "guide/", entries[1].Slug)
	assert.Equal(t, "Install", entries[1].Title)
	assert.Contains(t, entries[1].Terms, "installer")
	assert.Contains(t, entries[1].Terms, "guide")
	assert.NotContains(t, entries[1].Terms, "em")
}
