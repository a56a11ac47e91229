// Package layout provides the page layouts used to render a site.
package layout

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"io"
	"strings"

	"git.home.luguber.info/inful/docket/internal/asset"
	"git.home.luguber.info/inful/docket/internal/doctree"
	"git.home.luguber.info/inful/docket/internal/render"
	"git.home.luguber.info/inful/docket/internal/toc"
)

// OutlineDepth is the default deepest heading level listed in a page outline.
const OutlineDepth = 3

// DefaultFooter is used for bales that do not supply a footer.
const DefaultFooter template.HTML = "<p>Rendered by <a href='https://github.com/iwillspeak/docket/'>docket</a></p>"

//go:embed assets/*
var assetFS embed.FS

//go:embed page.html.tmpl
var pageTemplate string

var pageTmpl = template.Must(template.New("page").Parse(pageTemplate))

// HTML is the default layout: a single HTML document per page with
// breadcrumbs, a sidebar of the bale's contents and an outline of the page.
type HTML struct {
	assets []asset.Asset
	depth  int
}

// NewHTML creates the default layout.
func NewHTML() *HTML {
	entries, err := assetFS.ReadDir("assets")
	if err != nil {
		panic(fmt.Sprintf("layout assets missing: %v", err))
	}
	assets := make([]asset.Asset, 0, len(entries))
	for _, e := range entries {
		data, err := assetFS.ReadFile("assets/" + e.Name())
		if err != nil {
			panic(fmt.Sprintf("layout asset %s: %v", e.Name(), err))
		}
		assets = append(assets, asset.Internal{Path: e.Name(), Contents: data})
	}
	return &HTML{assets: assets, depth: OutlineDepth}
}

// WithOutlineDepth limits page outlines to headings of level depth or
// shallower. Values outside 1..6 are ignored.
func (h *HTML) WithOutlineDepth(depth int) *HTML {
	if depth >= 1 && depth <= 6 {
		h.depth = depth
	}
	return h
}

// Assets returns the stylesheet and scripts copied to the site root.
func (h *HTML) Assets() []asset.Asset { return h.assets }

type navLink struct {
	Title string
	Href  string
}

type pageData struct {
	SiteName    string
	PageTitle   string
	Root        string
	Header      template.HTML
	Breadcrumbs []navLink
	BaleTitle   string
	BaleHref    string
	Navs        []navLink
	Outline     template.HTML
	Content     template.HTML
	Footer      template.HTML
}

// Render writes page as a complete HTML document.
func (h *HTML) Render(w io.Writer, st *render.State, kind render.PageKind, page *doctree.Page) error {
	prefix := kind.PathToBale()

	var header bytes.Buffer
	if hl := st.Context().Highlighter; hl != nil {
		if err := hl.WriteHeader(&header); err != nil {
			return err
		}
	}

	data := pageData{
		SiteName:  st.Context().SiteName,
		PageTitle: page.Title,
		Root:      st.PathToRoot(kind),
		Header:    template.HTML(header.String()), // #nosec G203 -- emitted by the highlighter
		BaleTitle: st.Bale().Title,
		BaleHref:  prefix,
		Outline:   RenderOutline(page.Content, h.depth),
		Footer:    DefaultFooter,
	}
	for _, c := range st.Breadcrumbs(prefix) {
		data.Breadcrumbs = append(data.Breadcrumbs, navLink{Title: c.Title, Href: c.Path})
	}
	for _, n := range st.Navs() {
		data.Navs = append(data.Navs, navLink{Title: n.Title, Href: prefix + n.Slug + "/"})
	}
	if st.Bale().HasFooter() {
		data.Footer = st.Bale().Footer
	}

	content, err := RenderContent(page.Content, h.depth)
	if err != nil {
		return err
	}
	data.Content = content

	return pageTmpl.Execute(w, data)
}

// RenderContent linearises a page's tree of contents back into markup.
// Outline placeholders are replaced by the page outline, limited to depth.
func RenderContent(t *toc.Toc, depth int) (template.HTML, error) {
	var sb strings.Builder
	err := t.Walk(func(el toc.Element) error {
		switch e := el.(type) {
		case toc.RenderedBlock:
			sb.WriteString(string(e))
		case toc.TocReference:
			sb.WriteString(string(RenderOutline(t, depth)))
		case *toc.Node:
			// children follow in the walk
			slug := html.EscapeString(e.Heading.Slug)
			fmt.Fprintf(&sb, "<h%[1]d id='%[2]s'><a href='#%[2]s'>%[3]s</a></h%[1]d>\n",
				e.Heading.Level, slug, e.Heading.Content)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return template.HTML(sb.String()), nil // #nosec G203 -- markup rendered from source markdown
}

// RenderOutline renders the page's headings as nested lists, skipping
// headings deeper than limit. When the page has a single top heading with
// children, that heading is treated as the page title and only its children
// are listed.
func RenderOutline(t *toc.Toc, limit int) template.HTML {
	nodes := t.Nodes()
	if len(nodes) == 1 && len(nodes[0].Nodes()) > 0 {
		nodes = nodes[0].Nodes()
	}
	var sb strings.Builder
	writeOutline(&sb, nodes, limit)
	return template.HTML(sb.String()) // #nosec G203 -- markup rendered from source markdown
}

func writeOutline(sb *strings.Builder, nodes []*toc.Node, limit int) {
	sb.WriteString("<ul class='toc'>")
	for _, n := range nodes {
		if n.Heading.Level > limit {
			continue
		}
		fmt.Fprintf(sb, "<li><a href='#%s'>%s</a>", html.EscapeString(n.Heading.Slug), n.Heading.Content)
		if children := n.Nodes(); anyWithin(children, limit) {
			writeOutline(sb, children, limit)
		}
		sb.WriteString("</li>")
	}
	sb.WriteString("</ul>")
}

func anyWithin(nodes []*toc.Node, limit int) bool {
	for _, n := range nodes {
		if n.Heading.Level <= limit {
			return true
		}
	}
	return false
}
