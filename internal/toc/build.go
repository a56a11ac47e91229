package toc

import (
	"errors"
	"fmt"
	"html/template"
	"strings"

	"git.home.luguber.info/inful/docket/internal/markdown"
	"git.home.luguber.info/inful/docket/internal/slug"
)

// ErrInconsistentHeadingStream indicates the event stream broke the parser's
// contract: a heading end without a matching start, or a heading opened while
// another is still open. It is an internal error, not a content error.
var ErrInconsistentHeadingStream = errors.New("inconsistent heading stream")

// Marker is the paragraph text replaced by the page outline.
const Marker = "[TOC]"

// Build constructs the tree of contents for the events parsed from source.
// Content not owned by a heading is rendered with r as it is flushed.
func Build(source []byte, events []markdown.Event, r *markdown.Renderer) (*Toc, error) {
	b := &builder{source: source, events: events, renderer: r}
	elements, err := b.parseAt(0)
	if err != nil {
		return nil, err
	}
	if b.pos != len(b.events) {
		return nil, fmt.Errorf("%w: stopped at event %d of %d", ErrInconsistentHeadingStream, b.pos, len(b.events))
	}
	return &Toc{Elements: elements}, nil
}

type builder struct {
	source   []byte
	events   []markdown.Event
	pos      int
	renderer *markdown.Renderer
}

func (b *builder) peek() (markdown.Event, bool) {
	if b.pos >= len(b.events) {
		return markdown.Event{}, false
	}
	return b.events[b.pos], true
}

type pendingHeading struct {
	start  markdown.Event
	inline []markdown.Event
}

// parseAt collects elements until the stream is exhausted or a heading at or
// above floor is next. A floor of 0 accepts every heading level.
func (b *builder) parseAt(floor int) ([]Element, error) {
	var (
		elements []Element
		buffer   []markdown.Event
		heading  *pendingHeading
		inCode   int
	)

	flush := func() error {
		if len(buffer) == 0 {
			return nil
		}
		html, err := b.renderer.RenderString(b.source, buffer)
		if err != nil {
			return err
		}
		elements = append(elements, RenderedBlock(html))
		buffer = nil
		return nil
	}

	for {
		ev, ok := b.peek()
		if !ok {
			break
		}
		if ev.Kind == markdown.KindHeadingStart && inCode == 0 && heading == nil &&
			floor > 0 && ev.Level <= floor {
			break
		}
		b.pos++

		switch {
		case ev.Kind == markdown.KindCodeBlockStart:
			inCode++
			buffer = append(buffer, ev)

		case ev.Kind == markdown.KindCodeBlockEnd:
			inCode--
			buffer = append(buffer, ev)

		case inCode > 0:
			buffer = append(buffer, ev)

		case ev.Kind == markdown.KindHeadingStart:
			if heading != nil {
				return nil, fmt.Errorf("%w: h%d opened inside h%d", ErrInconsistentHeadingStream, ev.Level, heading.start.Level)
			}
			if err := flush(); err != nil {
				return nil, err
			}
			heading = &pendingHeading{start: ev}

		case ev.Kind == markdown.KindHeadingEnd:
			if heading == nil {
				return nil, fmt.Errorf("%w: unmatched end of h%d", ErrInconsistentHeadingStream, ev.Level)
			}
			if heading.start.Level != ev.Level {
				return nil, fmt.Errorf("%w: h%d closed as h%d", ErrInconsistentHeadingStream, heading.start.Level, ev.Level)
			}
			h, err := b.finishHeading(heading, ev)
			if err != nil {
				return nil, err
			}
			heading = nil
			children, err := b.parseAt(h.Level)
			if err != nil {
				return nil, err
			}
			elements = append(elements, &Node{Heading: h, Children: children})

		case heading != nil:
			heading.inline = append(heading.inline, ev)

		case ev.Kind == markdown.KindParagraphEnd:
			if start, ok := b.markerParagraph(buffer); ok {
				buffer = buffer[:start]
				if err := flush(); err != nil {
					return nil, err
				}
				elements = append(elements, TocReference{})
				continue
			}
			buffer = append(buffer, ev)

		default:
			buffer = append(buffer, ev)
		}
	}

	if heading != nil {
		return nil, fmt.Errorf("%w: h%d never closed", ErrInconsistentHeadingStream, heading.start.Level)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return elements, nil
}

func (b *builder) finishHeading(p *pendingHeading, end markdown.Event) (Heading, error) {
	content, err := b.renderer.RenderString(b.source, p.inline)
	if err != nil {
		return Heading{}, err
	}
	text := strings.TrimSpace(markdown.PlainText(b.source, p.inline))
	id := p.start.ID
	if id == "" {
		id = end.ID
	}
	if id == "" {
		id = slug.Slugify(text)
	}
	return Heading{Level: end.Level, Content: template.HTML(content), Text: text, Slug: id}, nil
}

// markerParagraph reports whether the tail of buffer is a paragraph start
// followed only by text tokens spelling the marker. It returns the index of
// the paragraph start.
func (b *builder) markerParagraph(buffer []markdown.Event) (int, bool) {
	var text strings.Builder
	for i := len(buffer) - 1; i >= 0; i-- {
		switch buffer[i].Kind {
		case markdown.KindParagraphStart:
			return i, strings.TrimSpace(text.String()) == Marker
		case markdown.KindText:
			// walking backwards, so prepend
			lit := buffer[i].Literal(b.source)
			rest := text.String()
			text.Reset()
			text.WriteString(lit)
			text.WriteString(rest)
			if text.Len() > len(Marker)+2 {
				return 0, false
			}
		default:
			return 0, false
		}
	}
	return 0, false
}
