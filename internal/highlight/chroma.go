package highlight

import (
	"io"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultChromaStyle is the style used when none is configured.
const DefaultChromaStyle = "github"

// Chroma highlights code at build time. Output uses inline styles so pages
// need no extra stylesheet.
type Chroma struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewChroma creates a build time highlighter using the named chroma style.
// Unknown styles fall back to chroma's default.
func NewChroma(style string) *Chroma {
	return &Chroma{
		style:     styles.Get(style),
		formatter: chromahtml.New(chromahtml.WithClasses(false), chromahtml.TabWidth(4)),
	}
}

func (c *Chroma) Name() string { return NameChroma }

func (c *Chroma) Highlight(w io.Writer, lang, code string) error {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return writePlain(w, lang, code)
	}
	return c.formatter.Format(w, c.style, iterator)
}

func (c *Chroma) WriteHeader(io.Writer) error { return nil }
