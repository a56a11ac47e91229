package markdown

import (
	"strings"

	gmast "github.com/yuin/goldmark/ast"
)

// Kind classifies an Event.
type Kind int

const (
	// KindStart and KindEnd bracket any container node without a more
	// specific kind (lists, emphasis, links, tables, block quotes, ...).
	KindStart Kind = iota
	KindEnd
	// KindText is a run of plain text.
	KindText
	// KindCode is text inside an inline code span.
	KindCode
	// KindHTML is inline raw HTML.
	KindHTML
	KindHeadingStart
	KindHeadingEnd
	KindParagraphStart
	KindParagraphEnd
	KindCodeBlockStart
	KindCodeBlockEnd
)

var kindNames = [...]string{
	KindStart:          "start",
	KindEnd:            "end",
	KindText:           "text",
	KindCode:           "code",
	KindHTML:           "html",
	KindHeadingStart:   "heading-start",
	KindHeadingEnd:     "heading-end",
	KindParagraphStart: "paragraph-start",
	KindParagraphEnd:   "paragraph-end",
	KindCodeBlockStart: "codeblock-start",
	KindCodeBlockEnd:   "codeblock-end",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Event is one item of a flattened markdown document.
type Event struct {
	Kind Kind
	Node gmast.Node

	// Level is the heading level (1-6) for heading events.
	Level int
	// ID is the explicit fragment id of a heading, if the source gave one.
	ID string
	// Lang is the info string language of a fenced code block.
	Lang string
}

// Entering reports whether the event opens (or is) a node rather than
// closing one.
func (e Event) Entering() bool {
	switch e.Kind {
	case KindEnd, KindHeadingEnd, KindParagraphEnd, KindCodeBlockEnd:
		return false
	}
	return true
}

// IsHeading reports whether the event is a heading start or end.
func (e Event) IsHeading() bool {
	return e.Kind == KindHeadingStart || e.Kind == KindHeadingEnd
}

// Literal returns the source text carried by text, code and html events.
// Other kinds carry no literal text.
func (e Event) Literal(source []byte) string {
	switch n := e.Node.(type) {
	case *gmast.Text:
		return string(n.Segment.Value(source))
	case *gmast.String:
		return string(n.Value)
	case *gmast.RawHTML:
		var sb strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			sb.Write(seg.Value(source))
		}
		return sb.String()
	}
	return ""
}

// PlainText concatenates the literal text of the text, code and inline html
// events in events. It is used to derive heading slugs and page titles.
func PlainText(source []byte, events []Event) string {
	var sb strings.Builder
	for _, ev := range events {
		switch ev.Kind {
		case KindText, KindCode, KindHTML:
			sb.WriteString(ev.Literal(source))
		}
	}
	return sb.String()
}
