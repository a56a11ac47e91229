package search

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"git.home.luguber.info/inful/docket/internal/toc"
)

// IndexFile is the name of the index written to the output root.
const IndexFile = "search_index.json"

// Entry is one page in the search index.
type Entry struct {
	Title string          `json:"title"`
	Slug  string          `json:"slug"`
	Terms TermFrequencies `json:"terms"`
}

// Index collects entries from concurrently rendered pages.
type Index struct {
	mu      sync.Mutex
	entries []Entry
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{}
}

// AddPage indexes the text of a page's content. slug is the page's path
// relative to the site root.
func (i *Index) AddPage(title, slug string, content *toc.Toc) error {
	b := NewBuilder().AddTerms(title)
	err := content.Walk(func(el toc.Element) error {
		var markup string
		switch e := el.(type) {
		case toc.RenderedBlock:
			markup = string(e)
		case *toc.Node:
			markup = string(e.Heading.Content)
		default:
			return nil
		}
		text, err := ExtractText(strings.NewReader(markup))
		if err != nil {
			return err
		}
		b.AddTerms(text)
		return nil
	})
	if err != nil {
		return fmt.Errorf("index %s: %w", slug, err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.entries = append(i.entries, Entry{Title: title, Slug: slug, Terms: b.Finalise()})
	return nil
}

// Entries returns the indexed pages ordered by slug.
func (i *Index) Entries() []Entry {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]Entry, len(i.entries))
	copy(out, i.entries)
	sort.SliceStable(out, func(a, b int) bool { return out[a].Slug < out[b].Slug })
	return out
}

// Len returns the number of indexed pages.
func (i *Index) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.entries)
}

// WriteTo writes the index as JSON into dir.
func (i *Index) WriteTo(dir string) error {
	data, err := json.Marshal(i.Entries())
	if err != nil {
		return err
	}
	// #nosec G306 -- site output is meant to be world readable
	return os.WriteFile(filepath.Join(dir, IndexFile), data, 0o644)
}
