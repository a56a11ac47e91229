package render

import (
	"io"

	"git.home.luguber.info/inful/docket/internal/asset"
	"git.home.luguber.info/inful/docket/internal/doctree"
	"git.home.luguber.info/inful/docket/internal/highlight"
	"git.home.luguber.info/inful/docket/internal/metrics"
	"git.home.luguber.info/inful/docket/internal/search"
)

// Layout emits the markup for a single page.
type Layout interface {
	// Render writes page to w. kind tells the layout where the page sits
	// relative to its bale.
	Render(w io.Writer, st *State, kind PageKind, page *doctree.Page) error
	// Assets lists the static files the layout needs at the site root.
	Assets() []asset.Asset
}

// Context is the global, read-only configuration of one render.
type Context struct {
	// Output is the root directory of the rendered site.
	Output string
	// SiteName is shown as the root of the breadcrumbs.
	SiteName string
	Layout   Layout
	// Highlighter is the code highlighting strategy pages were rendered
	// with. Layouts use it to emit any page header it needs.
	Highlighter highlight.Highlighter
	Recorder    metrics.Recorder
	// Search collects page text when non-nil.
	Search *search.Index
	// Concurrency bounds how many sibling bales render at once. Values
	// below one mean one.
	Concurrency int
}

func (c *Context) recorder() metrics.Recorder {
	if c.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return c.Recorder
}

func (c *Context) concurrency() int {
	if c.Concurrency < 1 {
		return 1
	}
	return c.Concurrency
}
