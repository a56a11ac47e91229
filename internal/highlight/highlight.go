// Package highlight provides the code block highlighting strategies used when
// rendering pages. A single Highlighter is selected at startup and handed to
// the markdown renderer and the page layout.
package highlight

import (
	"fmt"
	"html"
	"io"
	"os"
	"strings"
)

// EnvHighlighter overrides the configured highlighter when set.
const EnvHighlighter = "DOCKET_HIGHLIGHTER"

// Highlighter renders fenced and indented code blocks.
type Highlighter interface {
	// Name identifies the strategy in logs and configuration.
	Name() string

	// Highlight writes the HTML for one code block. lang is empty for
	// indented blocks and fences without an info string.
	Highlight(w io.Writer, lang, code string) error

	// WriteHeader writes any markup a page needs in its <head> for the
	// highlighted output to display correctly.
	WriteHeader(w io.Writer) error
}

const (
	NameJS     = "js"
	NameChroma = "chroma"
	NameNone   = "none"
)

// New selects a highlighter by name. The EnvHighlighter variable, when set,
// takes precedence over name. An empty name selects the client side strategy.
func New(name string) (Highlighter, error) {
	if env := strings.TrimSpace(os.Getenv(EnvHighlighter)); env != "" {
		name = env
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameJS, "highlightjs":
		return JS{}, nil
	case NameChroma, "syntect":
		return NewChroma(DefaultChromaStyle), nil
	case NameNone, "plain":
		return Plain{}, nil
	default:
		return nil, fmt.Errorf("unknown highlighter %q", name)
	}
}

// Plain emits code blocks as escaped <pre><code> without any highlighting.
type Plain struct{}

func (Plain) Name() string { return NameNone }

func (Plain) Highlight(w io.Writer, lang, code string) error {
	return writePlain(w, lang, code)
}

func (Plain) WriteHeader(io.Writer) error { return nil }

func writePlain(w io.Writer, lang, code string) error {
	if lang != "" {
		_, err := fmt.Fprintf(w, "<pre><code class=\"language-%s\">%s</code></pre>\n",
			html.EscapeString(lang), html.EscapeString(code))
		return err
	}
	_, err := fmt.Fprintf(w, "<pre><code>%s</code></pre>\n", html.EscapeString(code))
	return err
}
