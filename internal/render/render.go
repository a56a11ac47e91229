package render

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docket/internal/asset"
	"git.home.luguber.info/inful/docket/internal/doctree"
	"git.home.luguber.info/inful/docket/internal/logfields"
	"git.home.luguber.info/inful/docket/internal/metrics"
)

// ErrNoLayout is returned when a render is started without a layout.
var ErrNoLayout = errors.New("render context has no layout")

// IndexFile is the file name every page is written to.
const IndexFile = "index.html"

// Render writes the tree rooted at root into rc.Output. The first failure
// aborts the walk; output written before it is left in place.
func Render(ctx context.Context, rc *Context, root *doctree.UnopenedBale) error {
	if rc.Layout == nil {
		return ErrNoLayout
	}
	rec := rc.recorder()

	if err := copyGlobalAssets(rc); err != nil {
		return err
	}

	bale, err := root.BreakOpenContext(ctx)
	if err != nil {
		return err
	}
	rec.IncBalesOpened()

	st := NewRootState(rc, &bale.Frontispiece, navsForItems(bale.Items))
	return renderBale(ctx, st, bale)
}

func copyGlobalAssets(rc *Context) error {
	if err := mkdir(rc.Output); err != nil {
		return err
	}
	assets := rc.Layout.Assets()
	if err := asset.CopyAll(rc.Output, assets); err != nil {
		return fmt.Errorf("%w: %w", doctree.ErrIo, err)
	}
	rc.recorder().AddAssetsCopied(len(assets))
	return nil
}

func renderBale(ctx context.Context, st *State, bale *doctree.Bale) error {
	slog.Debug("Rendering bale",
		logfields.Bale(bale.Frontispiece.Title),
		logfields.Output(st.OutputPath()))

	if err := mkdir(st.OutputPath()); err != nil {
		return err
	}

	if index := bale.Frontispiece.Index; index != nil {
		if err := renderPage(st, IndexPage, index); err != nil {
			return err
		}
	}

	if err := asset.CopyAll(st.OutputPath(), bale.Assets); err != nil {
		return fmt.Errorf("%w: %w", doctree.ErrIo, err)
	}
	st.ctx.recorder().AddAssetsCopied(len(bale.Assets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(st.ctx.concurrency())

	var pageErr error
	for _, item := range bale.Items {
		if pageErr = gctx.Err(); pageErr != nil {
			break
		}
		switch it := item.(type) {
		case doctree.PageItem:
			pageErr = renderPage(st, NestedPage(it.Page.Slug), it.Page)
		case doctree.BaleItem:
			nested := it.Bale
			g.Go(func() error {
				opened, err := nested.BreakOpenContext(gctx)
				if err != nil {
					return err
				}
				st.ctx.recorder().IncBalesOpened()
				child := st.Child(&opened.Frontispiece, navsForItems(opened.Items))
				return renderBale(gctx, child, opened)
			})
		}
		if pageErr != nil {
			break
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return pageErr
}

func renderPage(st *State, kind PageKind, page *doctree.Page) (err error) {
	dir := st.OutputPath()
	if !kind.IsIndex() {
		dir = filepath.Join(dir, kind.Slug())
		if err := mkdir(dir); err != nil {
			return err
		}
	}
	out := filepath.Join(dir, IndexFile)

	f, err := os.Create(out) // #nosec G304 -- output path is built from the configured target
	if err != nil {
		return ioError("create", out, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = ioError("close", out, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	if err := st.ctx.Layout.Render(w, st, kind, page); err != nil {
		return fmt.Errorf("render %s: %w", page.Source, err)
	}
	if err := w.Flush(); err != nil {
		return ioError("write", out, err)
	}

	if idx := st.ctx.Search; idx != nil {
		if err := idx.AddPage(page.Title, st.SitePath(kind), page.Content); err != nil {
			return err
		}
	}

	label := metrics.PageNested
	if kind.IsIndex() {
		label = metrics.PageIndex
	}
	st.ctx.recorder().IncPagesRendered(label)

	slog.Debug("Rendered page", logfields.Page(page.Title), logfields.Output(out))
	return nil
}

// mkdir creates dir and any parents. An existing directory is not an error.
func mkdir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return ioError("mkdir", dir, err)
	}
	return nil
}

func ioError(op, path string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", doctree.ErrIo, op, path, err)
}
