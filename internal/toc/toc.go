// Package toc builds a tree of contents from a markdown event stream.
//
// A document becomes an ordered list of elements: pre-rendered blocks of
// markup, placeholders for the in-page outline, and heading nodes which own
// the elements that follow them up to the next heading of the same or a
// shallower level.
package toc

import "html/template"

// Heading is a single heading in the tree. It is immutable once built.
type Heading struct {
	// Level is the heading level, 1 through 6.
	Level int
	// Content is the rendered markup of the heading's inline content.
	Content template.HTML
	// Text is the plain text of the heading, used for titles.
	Text string
	// Slug is the fragment id used to link to the heading.
	Slug string
}

// Element is one entry in a Toc. It is one of RenderedBlock, TocReference or
// *Node.
type Element interface {
	isElement()
}

// RenderedBlock is a run of document content rendered to markup.
type RenderedBlock string

// TocReference marks where the rendered outline of the page should go.
type TocReference struct{}

// Node is a heading along with the elements nested beneath it.
type Node struct {
	Heading  Heading
	Children []Element
}

func (RenderedBlock) isElement() {}
func (TocReference) isElement()  {}
func (*Node) isElement()         {}

// Nodes returns the heading nodes directly beneath n.
func (n *Node) Nodes() []*Node {
	return nodesOf(n.Children)
}

// Toc is the top level sequence of elements of one document.
type Toc struct {
	Elements []Element
}

// PrimaryHeading returns the first heading in the document. Pages use it to
// infer their title. It returns nil when the document has no headings.
func (t *Toc) PrimaryHeading() *Heading {
	for _, el := range t.Elements {
		if n, ok := el.(*Node); ok {
			return &n.Heading
		}
	}
	return nil
}

// Nodes returns the top level heading nodes.
func (t *Toc) Nodes() []*Node {
	return nodesOf(t.Elements)
}

// Walk visits every element in pre-order: each node is visited before its
// children. Walking stops at the first error fn returns.
func (t *Toc) Walk(fn func(Element) error) error {
	return walk(t.Elements, fn)
}

func walk(elements []Element, fn func(Element) error) error {
	for _, el := range elements {
		if err := fn(el); err != nil {
			return err
		}
		if n, ok := el.(*Node); ok {
			if err := walk(n.Children, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func nodesOf(elements []Element) []*Node {
	var nodes []*Node
	for _, el := range elements {
		if n, ok := el.(*Node); ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}
