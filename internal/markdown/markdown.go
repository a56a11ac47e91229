// Package markdown turns markdown source into a flat stream of parse events and
// renders runs of those events back to HTML.
//
// Parsing is done by goldmark. The resulting AST is flattened with ast.Walk so
// that consumers such as the TOC builder can treat a document as a sequence of
// start/end markers and text tokens.
package markdown

import (
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Document is one parsed markdown source. Events reference nodes whose text
// segments point into Source, so the two always travel together.
type Document struct {
	Source []byte
	Events []Event
}

// Parser produces event streams from markdown text.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a parser with the GFM extensions enabled and support for
// explicit heading ids (`# Title {#custom-id}`).
func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
			extension.Linkify,
		),
		goldmark.WithParserOptions(parser.WithAttribute()),
	)
	return &Parser{md: md}
}

// ParseBody parses a markdown body into a goldmark AST.
func (p *Parser) ParseBody(body []byte) gmast.Node {
	return p.md.Parser().Parse(text.NewReader(body))
}

// Parse parses source and flattens it into an event stream.
func (p *Parser) Parse(source []byte) *Document {
	root := p.ParseBody(source)
	return &Document{Source: source, Events: Flatten(root, source)}
}

// Flatten walks a goldmark AST and returns the equivalent event stream. The
// document node itself contributes no events.
func Flatten(root gmast.Node, source []byte) []Event {
	events := make([]Event, 0, 64)
	codeSpans := 0

	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		switch node := n.(type) {
		case *gmast.Document:
			return gmast.WalkContinue, nil

		case *gmast.Heading:
			ev := Event{Kind: KindHeadingEnd, Node: n, Level: node.Level}
			if entering {
				ev.Kind = KindHeadingStart
			}
			ev.ID = headingID(node)
			events = append(events, ev)

		case *gmast.Paragraph:
			if entering {
				events = append(events, Event{Kind: KindParagraphStart, Node: n})
			} else {
				events = append(events, Event{Kind: KindParagraphEnd, Node: n})
			}

		case *gmast.FencedCodeBlock:
			ev := Event{Kind: KindCodeBlockEnd, Node: n}
			if entering {
				ev.Kind = KindCodeBlockStart
			}
			if lang := node.Language(source); lang != nil {
				ev.Lang = string(lang)
			}
			events = append(events, ev)

		case *gmast.CodeBlock:
			if entering {
				events = append(events, Event{Kind: KindCodeBlockStart, Node: n})
			} else {
				events = append(events, Event{Kind: KindCodeBlockEnd, Node: n})
			}

		case *gmast.CodeSpan:
			if entering {
				codeSpans++
				events = append(events, Event{Kind: KindStart, Node: n})
			} else {
				codeSpans--
				events = append(events, Event{Kind: KindEnd, Node: n})
			}

		case *gmast.Text, *gmast.String:
			// leaf renderers only act on entry
			if entering {
				kind := KindText
				if codeSpans > 0 {
					kind = KindCode
				}
				events = append(events, Event{Kind: kind, Node: n})
			}

		case *gmast.RawHTML:
			if entering {
				events = append(events, Event{Kind: KindHTML, Node: n})
			}
			return gmast.WalkSkipChildren, nil

		case *gmast.Image:
			// the image renderer writes its alt text itself
			if entering {
				events = append(events, Event{Kind: KindStart, Node: n})
				return gmast.WalkSkipChildren, nil
			}
			events = append(events, Event{Kind: KindEnd, Node: n})

		default:
			if entering {
				events = append(events, Event{Kind: KindStart, Node: n})
			} else {
				events = append(events, Event{Kind: KindEnd, Node: n})
			}
		}
		return gmast.WalkContinue, nil
	})

	return events
}

func headingID(h *gmast.Heading) string {
	v, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	}
	return ""
}
