// Package search builds the client side search index of a rendered site.
package search

import (
	"strings"
	"unicode"
)

// TermFrequencies maps each lower-cased term of a page to the fraction of the
// page's terms it accounts for.
type TermFrequencies map[string]float64

// Builder counts terms as text is added to it.
type Builder struct {
	total int
	terms map[string]int
}

// NewBuilder creates an empty term builder.
func NewBuilder() *Builder {
	return &Builder{terms: make(map[string]int)}
}

// AddTerms splits text into terms and counts them. Terms are separated by
// whitespace, angle brackets and ASCII punctuation.
func (b *Builder) AddTerms(text string) *Builder {
	for _, term := range strings.FieldsFunc(text, isSeparator) {
		b.total++
		b.terms[strings.ToLower(term)]++
	}
	return b
}

// Finalise converts the counts into frequencies.
func (b *Builder) Finalise() TermFrequencies {
	freqs := make(TermFrequencies, len(b.terms))
	if b.total == 0 {
		return freqs
	}
	total := float64(b.total)
	for term, count := range b.terms {
		freqs[term] = float64(count) / total
	}
	return freqs
}

func isSeparator(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	return r < unicode.MaxASCII && unicode.IsPunct(r) || r == '<' || r == '>' || isASCIISymbol(r)
}

// isASCIISymbol covers the ASCII punctuation characters that unicode
// classifies as symbols rather than punctuation.
func isASCIISymbol(r rune) bool {
	switch r {
	case '$', '+', '^', '`', '|', '~', '=':
		return true
	}
	return false
}
