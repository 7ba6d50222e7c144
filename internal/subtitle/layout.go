package subtitle

import (
	"strings"

	"scriptsync/internal/document"
	"scriptsync/internal/textnorm"
)

// Span is the inclusive source-rune range of one paragraph in the canonical
// source text. Every paragraph after the first starts with the joiner that
// separates it from its predecessor.
type Span struct {
	Paragraph int
	Kind      document.Kind
	First     int
	Last      int
}

// Empty reports whether the paragraph contributed no canonical text.
func (s Span) Empty() bool { return s.Last < s.First }

// Layout is the canonical source text together with each paragraph's span.
type Layout struct {
	Source *document.Document
	Text   string
	Spans  []Span
}

// NewLayout canonicalizes every paragraph of doc and joins them with the
// normalizer's joiner. The resulting Text is the source handed to alignment.
func NewLayout(doc *document.Document, n *textnorm.Normalizer) *Layout {
	var b strings.Builder
	spans := make([]Span, 0, len(doc.Paragraphs))
	pos := 0
	for i, p := range doc.Paragraphs {
		content := n.Canonicalize(p.Content)
		if i > 0 {
			content = n.Joiner() + content
		}
		length := textnorm.RuneLen(content)
		spans = append(spans, Span{Paragraph: p.Index, Kind: p.Kind, First: pos, Last: pos + length - 1})
		b.WriteString(content)
		pos += length
	}
	return &Layout{Source: doc, Text: b.String(), Spans: spans}
}

// Len returns the canonical source length in runes.
func (l *Layout) Len() int { return textnorm.RuneLen(l.Text) }
