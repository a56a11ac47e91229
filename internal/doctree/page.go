package doctree

import (
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docket/internal/markdown"
	"git.home.luguber.info/inful/docket/internal/slug"
	"git.home.luguber.info/inful/docket/internal/toc"
)

// Page is one opened markdown file.
type Page struct {
	// Slug names the page's output directory within its bale.
	Slug string
	// Title is the plain text of the first heading, or the file name when the
	// page has no headings.
	Title   string
	Content *toc.Toc
	// Source is the path the page was read from.
	Source string
}

// Loader opens pages and scans bales. A single Loader is shared by the whole
// tree.
type Loader struct {
	parser   *markdown.Parser
	renderer *markdown.Renderer
}

// NewLoader creates a loader that renders markdown with r.
func NewLoader(r *markdown.Renderer) *Loader {
	if r == nil {
		r = markdown.NewRenderer(nil)
	}
	return &Loader{parser: markdown.NewParser(), renderer: r}
}

// OpenPage reads and parses the markdown file at path.
func (l *Loader) OpenPage(path string) (*Page, error) {
	source, err := os.ReadFile(path) // #nosec G304 -- path comes from the scanned source tree
	if err != nil {
		return nil, ioError("read page", path, err)
	}
	return l.pageFromSource(path, source)
}

func (l *Loader) pageFromSource(path string, source []byte) (*Page, error) {
	doc := l.parser.Parse(source)
	content, err := toc.Build(doc.Source, doc.Events, l.renderer)
	if err != nil {
		return nil, err
	}

	title := fileTitle(path)
	if h := content.PrimaryHeading(); h != nil && h.Text != "" {
		title = h.Text
	}

	return &Page{
		Slug:    slug.SlugifyPath(path),
		Title:   title,
		Content: content,
		Source:  path,
	}, nil
}

// renderFooter renders footer markdown in one pass. Footers are not split
// into a tree of contents.
func (l *Loader) renderFooter(source []byte) (string, error) {
	return l.renderer.RenderDocument(l.parser.Parse(source))
}

func fileTitle(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
