// Package richtext implements the rich text editing model for the Rumbo
// CMS: an HTML-backed document of blocks and styled inline spans, a set of
// formatting commands applied to selections, and an editor that keeps the
// document, its HTML serialization, and the selection in sync.
package richtext

import (
	"strings"
)

// BlockKind identifies the kind of a top-level document block.
type BlockKind string

// Supported block kinds.
const (
	BlockParagraph  BlockKind = "paragraph"
	BlockHeading    BlockKind = "heading"
	BlockQuote      BlockKind = "blockquote"
	BlockBulletList BlockKind = "bullet_list"
	BlockNumberList BlockKind = "number_list"
)

// Alignment is the horizontal text alignment of a block. The empty value
// means the default (left) and serializes without a style attribute.
type Alignment string

// Supported alignments.
const (
	AlignDefault Alignment = ""
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
)

// Span is a run of text with a uniform style.
type Span struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	// Href, when non-empty, wraps the span in a link.
	Href string
}

// plain reports whether the span carries no styling at all.
func (s Span) plain() bool {
	return !s.Bold && !s.Italic && !s.Underline && s.Href == ""
}

// sameStyle reports whether two spans carry identical styling and can be
// merged.
func (s Span) sameStyle(o Span) bool {
	return s.Bold == o.Bold && s.Italic == o.Italic && s.Underline == o.Underline && s.Href == o.Href
}

// Block is a top-level document block. List blocks hold one Item per list
// entry; all other kinds use the Spans directly.
type Block struct {
	Kind  BlockKind
	Align Alignment
	// Level is the heading level (1-6) for heading blocks.
	Level int
	Spans []Span
	// Items holds the list entries for bullet_list and number_list blocks.
	Items [][]Span
}

// Document is a parsed rich text value. The zero value is an empty
// document that serializes to the empty string.
type Document struct {
	Blocks []Block
}

// Empty reports whether the document contains no text at all.
func (d *Document) Empty() bool {
	return d.textLength() == 0
}

// textLength returns the total rune count of the document text, counting
// one separator rune between blocks and list items so selections can span
// them unambiguously.
func (d *Document) textLength() int {
	n := 0
	first := true
	d.eachRun(func(spans []Span) {
		if !first {
			n++ // separator
		}
		first = false
		for _, s := range spans {
			n += len([]rune(s.Text))
		}
	})
	return n
}

// PlainText returns the document text with all formatting removed. Blocks
// and list items are joined with single newlines.
func (d *Document) PlainText() string {
	var b strings.Builder
	first := true
	d.eachRun(func(spans []Span) {
		if !first {
			b.WriteByte('\n')
		}
		first = false
		for _, s := range spans {
			b.WriteString(s.Text)
		}
	})
	return b.String()
}

// eachRun calls fn for every span run in document order: once per
// non-list block and once per list item.
func (d *Document) eachRun(fn func(spans []Span)) {
	for i := range d.Blocks {
		b := &d.Blocks[i]
		switch b.Kind {
		case BlockBulletList, BlockNumberList:
			for _, item := range b.Items {
				fn(item)
			}
		default:
			fn(b.Spans)
		}
	}
}

// mutateRuns calls fn for every span run, replacing the run with fn's
// return value. offset passed to fn is the rune offset of the run start
// within the whole document (separators included).
func (d *Document) mutateRuns(fn func(offset int, spans []Span) []Span) {
	offset := 0
	first := true
	advance := func(spans []Span) int {
		n := 0
		for _, s := range spans {
			n += len([]rune(s.Text))
		}
		return n
	}

	for i := range d.Blocks {
		b := &d.Blocks[i]
		switch b.Kind {
		case BlockBulletList, BlockNumberList:
			for j := range b.Items {
				if !first {
					offset++
				}
				first = false
				b.Items[j] = fn(offset, b.Items[j])
				offset += advance(b.Items[j])
			}
		default:
			if !first {
				offset++
			}
			first = false
			b.Spans = fn(offset, b.Spans)
			offset += advance(b.Spans)
		}
	}
}

// normalize merges adjacent spans with identical styling and drops empty
// spans, keeping serialization canonical so that equal documents produce
// byte-equal HTML.
func (d *Document) normalize() {
	d.mutateRuns(func(_ int, spans []Span) []Span {
		var out []Span
		for _, s := range spans {
			if s.Text == "" {
				continue
			}
			if len(out) > 0 && out[len(out)-1].sameStyle(s) {
				out[len(out)-1].Text += s.Text
				continue
			}
			out = append(out, s)
		}
		return out
	})
}
