package highlight

import (
	"fmt"
	"io"
)

const highlightJSVersion = "11.9.0"

// JS leaves highlighting to highlight.js in the browser. Code blocks are
// emitted with a language class and the page header loads the library.
type JS struct{}

func (JS) Name() string { return NameJS }

func (JS) Highlight(w io.Writer, lang, code string) error {
	return writePlain(w, lang, code)
}

func (JS) WriteHeader(w io.Writer) error {
	_, err := fmt.Fprintf(w, `
    <link rel="stylesheet" href="//cdnjs.cloudflare.com/ajax/libs/highlight.js/%[1]s/styles/default.min.css">
    <script src="//cdnjs.cloudflare.com/ajax/libs/highlight.js/%[1]s/highlight.min.js"></script>
    <script>hljs.highlightAll();</script>`, highlightJSVersion)
	return err
}
