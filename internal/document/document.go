package document

import (
	"fmt"
	"strings"
)

// Kind distinguishes spoken text from structural markers.
type Kind int

const (
	// KindText paragraphs become subtitle entries.
	KindText Kind = iota
	// KindSectionEnd paragraphs take part in alignment but emit no entry.
	KindSectionEnd
)

func (k Kind) String() string {
	if k == KindSectionEnd {
		return "section-end"
	}
	return "text"
}

// Paragraph is one caller-delimited unit of a script. Index is 1-based.
type Paragraph struct {
	Index   int
	Kind    Kind
	Content string
}

// Document is an ordered paragraph sequence in one language. Source and
// translation documents of the same script are index-aligned.
type Document struct {
	Name       string
	Language   string
	Paragraphs []Paragraph
}

// New builds a Document and assigns paragraph indices.
func New(name, language string, paragraphs []Paragraph) *Document {
	doc := &Document{Name: name, Language: language, Paragraphs: make([]Paragraph, 0, len(paragraphs))}
	for _, p := range paragraphs {
		doc.Append(p.Kind, p.Content)
	}
	return doc
}

// Append adds a paragraph unless its content is blank.
func (d *Document) Append(kind Kind, content string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}
	d.Paragraphs = append(d.Paragraphs, Paragraph{Index: len(d.Paragraphs) + 1, Kind: kind, Content: content})
}

// Len returns the paragraph count.
func (d *Document) Len() int { return len(d.Paragraphs) }

// TextCount returns the number of Text paragraphs.
func (d *Document) TextCount() int {
	n := 0
	for _, p := range d.Paragraphs {
		if p.Kind == KindText {
			n++
		}
	}
	return n
}

// Contents returns the paragraph contents in order.
func (d *Document) Contents() []string {
	out := make([]string, len(d.Paragraphs))
	for i, p := range d.Paragraphs {
		out[i] = p.Content
	}
	return out
}

// Paragraph returns the paragraph with the given 1-based index.
func (d *Document) Paragraph(index int) (Paragraph, error) {
	if index < 1 || index > len(d.Paragraphs) {
		return Paragraph{}, fmt.Errorf("paragraph %d out of range (document has %d)", index, len(d.Paragraphs))
	}
	return d.Paragraphs[index-1], nil
}
