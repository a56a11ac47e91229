package render

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docket/internal/doctree"
)

// NavInfo is one entry in a bale's navigation list.
type NavInfo struct {
	Title string
	Slug  string
}

func navsForItems(items []doctree.Item) []NavInfo {
	navs := make([]NavInfo, 0, len(items))
	for _, it := range items {
		navs = append(navs, NavInfo{Title: it.Title(), Slug: it.Slug()})
	}
	return navs
}

// PageKind says where a page is written relative to its bale. The zero value
// is IndexPage.
type PageKind struct {
	slug string
}

// IndexPage is the bale's own index, written at the bale's root.
var IndexPage = PageKind{}

// NestedPage is a page written one directory below its bale.
func NestedPage(slug string) PageKind {
	return PageKind{slug: slug}
}

// IsIndex reports whether the page is a bale index.
func (k PageKind) IsIndex() bool { return k.slug == "" }

// Slug returns the nested page's slug, or "" for an index.
func (k PageKind) Slug() string { return k.slug }

// PathToBale is the relative prefix from the page to its bale's directory.
func (k PageKind) PathToBale() string {
	if k.IsIndex() {
		return "./"
	}
	return "../"
}

// State is one level of the render walk. Each nested bale gets a State
// linked to its parent, ending at a root which holds the Context.
type State struct {
	ctx    *Context
	parent *State
	// rel is the slash separated path of this level from the site root,
	// empty at the root and ending in '/' otherwise.
	rel  string
	out  string
	bale *doctree.Frontispiece
	navs []NavInfo
}

// NewRootState creates the state for the root bale of a render.
func NewRootState(ctx *Context, bale *doctree.Frontispiece, navs []NavInfo) *State {
	return &State{ctx: ctx, out: ctx.Output, bale: bale, navs: navs}
}

// Child creates the state for a nested bale.
func (s *State) Child(bale *doctree.Frontispiece, navs []NavInfo) *State {
	return &State{
		ctx:    s.ctx,
		parent: s,
		rel:    s.rel + bale.Slug + "/",
		out:    filepath.Join(s.out, bale.Slug),
		bale:   bale,
		navs:   navs,
	}
}

// Context returns the global render context.
func (s *State) Context() *Context { return s.ctx }

// Parent returns the enclosing level, or nil at the root.
func (s *State) Parent() *State { return s.parent }

// OutputPath is the directory this level renders into.
func (s *State) OutputPath() string { return s.out }

// Bale returns the frontispiece of the bale being rendered.
func (s *State) Bale() *doctree.Frontispiece { return s.bale }

// Navs lists the bale's pages and nested bales in order.
func (s *State) Navs() []NavInfo { return s.navs }

// Depth is the number of bales between this level and the root.
func (s *State) Depth() int {
	d := 0
	for p := s.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Ancestors returns this state followed by each parent up to the root.
func (s *State) Ancestors() []*State {
	var chain []*State
	for cur := s; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	return chain
}

// PathToRoot is the relative prefix from a page of the given kind to the site
// root.
func (s *State) PathToRoot(kind PageKind) string {
	up := s.Depth()
	if !kind.IsIndex() {
		up++
	}
	if up == 0 {
		return "./"
	}
	return strings.Repeat("../", up)
}

// SitePath is the page's directory relative to the site root, as used in
// links from the search index.
func (s *State) SitePath(kind PageKind) string {
	if kind.IsIndex() {
		return s.rel
	}
	return s.rel + kind.Slug() + "/"
}

// Breadcrumb is one link in the trail from the site root to the current
// bale.
type Breadcrumb struct {
	Title string
	Path  string
}

// Breadcrumbs returns the trail from the root to the current bale. prefix is
// the path from the page to its own bale; each level further up adds one
// "../". The root entry is titled with the site name.
func (s *State) Breadcrumbs(prefix string) []Breadcrumb {
	chain := s.Ancestors()
	crumbs := make([]Breadcrumb, len(chain))
	path := prefix
	for i, st := range chain {
		title := st.bale.Title
		if st.parent == nil {
			title = s.ctx.SiteName
		}
		crumbs[len(chain)-1-i] = Breadcrumb{Title: title, Path: path}
		path += "../"
	}
	return crumbs
}
