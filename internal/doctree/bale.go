package doctree

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/docket/internal/asset"
	"git.home.luguber.info/inful/docket/internal/logfields"
	"git.home.luguber.info/inful/docket/internal/slug"
)

// Frontispiece is the part of a bale known after a shallow scan.
type Frontispiece struct {
	Title string
	Slug  string
	// Index is the bale's index or readme page, if it has one.
	Index *Page
	// Footer is the rendered footer markup, empty when the bale has no footer.
	Footer template.HTML
}

// HasFooter reports whether the bale supplied its own footer.
func (f *Frontispiece) HasFooter() bool { return f.Footer != "" }

// UnopenedBale is a scanned directory whose contents are classified but not
// yet resolved.
type UnopenedBale struct {
	Frontispiece Frontispiece
	// Path is the directory the bale was scanned from.
	Path string

	pages  []string
	assets []string
	nested []string
	loader *Loader
}

// Item is an entry in an opened bale: a PageItem or a BaleItem.
type Item interface {
	Title() string
	Slug() string
	isItem()
}

// PageItem is a page inside a bale.
type PageItem struct {
	Page *Page
}

func (p PageItem) Title() string { return p.Page.Title }
func (p PageItem) Slug() string  { return p.Page.Slug }
func (PageItem) isItem()         {}

// BaleItem is a nested bale. It stays unopened until the walker reaches it.
type BaleItem struct {
	Bale *UnopenedBale
}

func (b BaleItem) Title() string { return b.Bale.Frontispiece.Title }
func (b BaleItem) Slug() string  { return b.Bale.Frontispiece.Slug }
func (BaleItem) isItem()         {}

// Bale is an opened directory.
type Bale struct {
	Frontispiece Frontispiece
	Assets       []asset.Asset
	Items        []Item
}

// OpenRoot scans the root of a documentation tree.
func (l *Loader) OpenRoot(dir string) (*UnopenedBale, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, ioError("stat", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}
	return l.Scan(dir)
}

// Scan performs the shallow scan of dir. Only the index page is opened.
func (l *Loader) Scan(dir string) (*UnopenedBale, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ioError("read dir", dir, err)
	}

	b := &UnopenedBale{Path: dir, loader: l}
	var index, footer string

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		isDir, err := entryIsDir(path, entry)
		if err != nil {
			return nil, err
		}
		if isDir {
			b.nested = append(b.nested, path)
			continue
		}

		ext, _ := slug.NormalisedExt(path)
		if !isMarkdownExt(ext) {
			b.assets = append(b.assets, path)
			continue
		}
		stem, _ := slug.NormalisedStem(path)
		switch stem {
		case "index", "readme":
			index = path
		case "footer":
			footer = path
		default:
			b.pages = append(b.pages, path)
		}
	}

	var indexPage *Page
	if index != "" {
		if indexPage, err = l.OpenPage(index); err != nil {
			return nil, err
		}
	}

	var footerHTML string
	if footer != "" {
		raw, err := os.ReadFile(footer) // #nosec G304 -- path comes from the scanned source tree
		if err != nil {
			return nil, ioError("read footer", footer, err)
		}
		if footerHTML, err = l.renderFooter(raw); err != nil {
			return nil, err
		}
	}

	b.Frontispiece = newFrontispiece(dir, indexPage, footerHTML)

	slog.Debug("Scanned bale",
		logfields.Path(dir),
		logfields.Bale(b.Frontispiece.Title),
		slog.Int("pages", len(b.pages)),
		slog.Int("assets", len(b.assets)),
		slog.Int("nested", len(b.nested)))

	return b, nil
}

func newFrontispiece(dir string, index *Page, footer string) Frontispiece {
	title := slug.PrettifyDir(dir)
	if index != nil {
		title = index.Title
	}
	return Frontispiece{
		Title:  title,
		Slug:   slug.SlugifyPath(dir),
		Index:  index,
		Footer: template.HTML(footer), // #nosec G203 -- rendered from trusted source markdown
	}
}

// HasContent reports whether the bale would be navigable: it has an index or
// at least one page.
func (b *UnopenedBale) HasContent() bool {
	return b.Frontispiece.Index != nil || len(b.pages) > 0
}

// BreakOpen resolves the bale's pages, scans its nested directories and
// orders the result. Nested directories without any markdown content are
// demoted to assets and copied whole.
func (b *UnopenedBale) BreakOpen() (*Bale, error) {
	return b.BreakOpenContext(context.Background())
}

// BreakOpenContext is BreakOpen with cancellation between entries.
func (b *UnopenedBale) BreakOpenContext(ctx context.Context) (*Bale, error) {
	type keyed struct {
		key  string
		item Item
	}

	opened := &Bale{Frontispiece: b.Frontispiece}
	for _, path := range b.assets {
		opened.Assets = append(opened.Assets, asset.Disk{Path: path})
	}

	items := make([]keyed, 0, len(b.pages)+len(b.nested))
	for _, path := range b.pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := b.loader.OpenPage(path)
		if err != nil {
			return nil, err
		}
		items = append(items, keyed{key: filepath.Base(path), item: PageItem{Page: page}})
	}

	for _, path := range b.nested {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		nested, err := b.loader.Scan(path)
		if err != nil {
			return nil, err
		}
		if !nested.HasContent() {
			slog.Debug("Demoting directory to asset", logfields.Path(path))
			opened.Assets = append(opened.Assets, asset.Disk{Path: path})
			continue
		}
		items = append(items, keyed{key: filepath.Base(path), item: BaleItem{Bale: nested}})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return naturalLess(items[i].key, items[j].key)
	})

	opened.Items = make([]Item, len(items))
	for i, k := range items {
		opened.Items[i] = k.item
	}
	return opened, nil
}

func isMarkdownExt(ext string) bool {
	switch ext {
	case "md", "markdown", "mdown":
		return true
	}
	return false
}

// entryIsDir resolves symlinks so that linked directories are scanned as
// bales.
func entryIsDir(path string, entry fs.DirEntry) (bool, error) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, ioError("stat", path, err)
	}
	return info.IsDir(), nil
}
