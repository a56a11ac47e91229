package markdown

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/docket/internal/highlight"
)

// Renderer converts runs of events back into HTML. It reuses goldmark's node
// renderers one event at a time, so any contiguous slice of a document's
// events can be rendered independently.
type Renderer struct {
	funcs funcTable
	hl    highlight.Highlighter
}

type funcTable map[gmast.NodeKind]renderer.NodeRendererFunc

// Register implements renderer.NodeRendererFuncRegisterer.
func (t funcTable) Register(kind gmast.NodeKind, fn renderer.NodeRendererFunc) {
	t[kind] = fn
}

// NewRenderer creates an event renderer. Code blocks are handed to hl; a nil
// highlighter emits plain <pre><code> blocks.
func NewRenderer(hl highlight.Highlighter) *Renderer {
	if hl == nil {
		hl = highlight.Plain{}
	}
	funcs := funcTable{}
	for _, nr := range []renderer.NodeRenderer{
		html.NewRenderer(html.WithUnsafe()),
		extension.NewTableHTMLRenderer(),
		extension.NewStrikethroughHTMLRenderer(),
		extension.NewTaskCheckBoxHTMLRenderer(),
	} {
		nr.RegisterFuncs(funcs)
	}
	r := &Renderer{funcs: funcs, hl: hl}
	funcs.Register(gmast.KindFencedCodeBlock, r.renderCodeBlock)
	funcs.Register(gmast.KindCodeBlock, r.renderCodeBlock)
	return r
}

// Highlighter returns the strategy used for code blocks.
func (r *Renderer) Highlighter() highlight.Highlighter { return r.hl }

// Render writes the HTML for events to w.
func (r *Renderer) Render(w io.Writer, source []byte, events []Event) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < len(events); i++ {
		ev := events[i]
		fn, ok := r.funcs[ev.Node.Kind()]
		if !ok {
			return fmt.Errorf("no renderer for markdown node %s", ev.Node.Kind())
		}
		status, err := fn(bw, source, ev.Node, ev.Entering())
		if err != nil {
			return err
		}
		// Renderers such as code spans write their children themselves.
		if status == gmast.WalkSkipChildren && ev.Entering() && ev.Node.HasChildren() {
			for i+1 < len(events) && events[i+1].Node != ev.Node {
				i++
			}
		}
	}
	return bw.Flush()
}

// RenderString renders events to a string.
func (r *Renderer) RenderString(source []byte, events []Event) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, source, events); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderDocument renders a whole document.
func (r *Renderer) RenderDocument(doc *Document) (string, error) {
	return r.RenderString(doc.Source, doc.Events)
}

func (r *Renderer) renderCodeBlock(w util.BufWriter, source []byte, n gmast.Node, entering bool) (gmast.WalkStatus, error) {
	if !entering {
		return gmast.WalkContinue, nil
	}
	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}
	lang := ""
	if fenced, ok := n.(*gmast.FencedCodeBlock); ok {
		if l := fenced.Language(source); l != nil {
			lang = string(l)
		}
	}
	if err := r.hl.Highlight(w, lang, code.String()); err != nil {
		return gmast.WalkStop, err
	}
	return gmast.WalkContinue, nil
}
