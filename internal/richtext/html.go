package richtext

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse converts an HTML fragment into a Document. Parsing is lenient by
// design: unknown elements are descended into transparently, stray text
// becomes a paragraph, and malformed markup yields whatever the HTML5
// parsing algorithm recovers. Parse never fails on any input; the worst
// outcome for garbage input is an empty document.
func Parse(fragment string) *Document {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		// ParseFragment only fails on reader errors, which a strings.Reader
		// never produces. Treat it as empty input regardless.
		return &Document{}
	}

	doc := &Document{}
	for _, n := range nodes {
		parseBlockNode(doc, n)
	}
	doc.normalize()
	return doc
}

// parseBlockNode appends the blocks represented by n to the document.
func parseBlockNode(doc *Document, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return
		}
		doc.appendInline(Span{Text: n.Data})

	case html.ElementNode:
		switch n.DataAtom {
		case atom.P, atom.Div:
			doc.Blocks = append(doc.Blocks, Block{
				Kind:  BlockParagraph,
				Align: parseAlign(n),
				Spans: parseInlineChildren(n, Span{}),
			})
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			doc.Blocks = append(doc.Blocks, Block{
				Kind:  BlockHeading,
				Align: parseAlign(n),
				Level: int(n.Data[1] - '0'),
				Spans: parseInlineChildren(n, Span{}),
			})
		case atom.Blockquote:
			doc.Blocks = append(doc.Blocks, Block{
				Kind:  BlockQuote,
				Align: parseAlign(n),
				Spans: parseInlineChildren(n, Span{}),
			})
		case atom.Ul, atom.Ol:
			kind := BlockBulletList
			if n.DataAtom == atom.Ol {
				kind = BlockNumberList
			}
			block := Block{Kind: kind, Align: parseAlign(n)}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && c.DataAtom == atom.Li {
					block.Items = append(block.Items, parseInlineChildren(c, Span{}))
				}
			}
			doc.Blocks = append(doc.Blocks, block)
		case atom.Br:
			// A bare <br> between inline content starts a fresh paragraph.
			doc.Blocks = append(doc.Blocks, Block{Kind: BlockParagraph})
		case atom.Script, atom.Style:
			// Executable and styling content never enters the document.
		default:
			// Inline element at the top level: accumulate into the current
			// trailing paragraph.
			for _, s := range parseInlineNode(n, Span{}) {
				doc.appendInline(s)
			}
		}

	default:
		// Comments, doctypes: ignored.
	}
}

// appendInline adds a span to the last paragraph block, creating one if the
// document doesn't end with a paragraph.
func (d *Document) appendInline(s Span) {
	if len(d.Blocks) == 0 || d.Blocks[len(d.Blocks)-1].Kind != BlockParagraph {
		d.Blocks = append(d.Blocks, Block{Kind: BlockParagraph})
	}
	last := &d.Blocks[len(d.Blocks)-1]
	last.Spans = append(last.Spans, s)
}

// parseInlineChildren parses the children of n with the inherited style.
func parseInlineChildren(n *html.Node, style Span) []Span {
	var spans []Span
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		spans = append(spans, parseInlineNode(c, style)...)
	}
	return spans
}

// parseInlineNode parses one inline node, layering its styling over the
// inherited style. Unknown elements contribute their children unchanged.
func parseInlineNode(n *html.Node, style Span) []Span {
	switch n.Type {
	case html.TextNode:
		s := style
		s.Text = n.Data
		return []Span{s}

	case html.ElementNode:
		switch n.DataAtom {
		case atom.B, atom.Strong:
			style.Bold = true
		case atom.I, atom.Em:
			style.Italic = true
		case atom.U:
			style.Underline = true
		case atom.A:
			style.Href = attrValue(n, "href")
		case atom.Br:
			s := style
			s.Text = "\n"
			return []Span{s}
		case atom.Script, atom.Style:
			return nil
		}
		return parseInlineChildren(n, style)

	default:
		return nil
	}
}

// parseAlign extracts a text-align value from a style attribute.
func parseAlign(n *html.Node) Alignment {
	style := attrValue(n, "style")
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok || strings.TrimSpace(name) != "text-align" {
			continue
		}
		switch strings.TrimSpace(value) {
		case "left":
			return AlignLeft
		case "center":
			return AlignCenter
		case "right":
			return AlignRight
		}
	}
	return AlignDefault
}

// attrValue returns the value of the named attribute, or "".
func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// HTML serializes the document to its canonical HTML string. An empty
// document serializes to "".
func (d *Document) HTML() string {
	var b strings.Builder
	for i := range d.Blocks {
		writeBlock(&b, &d.Blocks[i])
	}
	return b.String()
}

// writeBlock serializes one block.
func writeBlock(b *strings.Builder, block *Block) {
	switch block.Kind {
	case BlockHeading:
		level := block.Level
		if level < 1 || level > 6 {
			level = 2
		}
		tag := fmt.Sprintf("h%d", level)
		writeTag(b, tag, block.Align, block.Spans)
	case BlockQuote:
		writeTag(b, "blockquote", block.Align, block.Spans)
	case BlockBulletList, BlockNumberList:
		tag := "ul"
		if block.Kind == BlockNumberList {
			tag = "ol"
		}
		b.WriteString(openTag(tag, block.Align))
		for _, item := range block.Items {
			b.WriteString("<li>")
			writeSpans(b, item)
			b.WriteString("</li>")
		}
		fmt.Fprintf(b, "</%s>", tag)
	default:
		writeTag(b, "p", block.Align, block.Spans)
	}
}

// writeTag serializes a simple block element with its spans.
func writeTag(b *strings.Builder, tag string, align Alignment, spans []Span) {
	b.WriteString(openTag(tag, align))
	writeSpans(b, spans)
	fmt.Fprintf(b, "</%s>", tag)
}

// openTag builds an opening tag with an optional text-align style.
func openTag(tag string, align Alignment) string {
	if align == AlignDefault {
		return "<" + tag + ">"
	}
	return fmt.Sprintf(`<%s style="text-align: %s">`, tag, align)
}

// writeSpans serializes a span run, nesting style tags in a fixed order
// (link, bold, italic, underline) so serialization is canonical.
func writeSpans(b *strings.Builder, spans []Span) {
	for _, s := range spans {
		var closers []string
		if s.Href != "" {
			fmt.Fprintf(b, `<a href="%s">`, html.EscapeString(s.Href))
			closers = append(closers, "</a>")
		}
		if s.Bold {
			b.WriteString("<strong>")
			closers = append(closers, "</strong>")
		}
		if s.Italic {
			b.WriteString("<em>")
			closers = append(closers, "</em>")
		}
		if s.Underline {
			b.WriteString("<u>")
			closers = append(closers, "</u>")
		}

		b.WriteString(html.EscapeString(s.Text))

		for i := len(closers) - 1; i >= 0; i-- {
			b.WriteString(closers[i])
		}
	}
}

// PlainText strips all markup from an HTML fragment, returning only its
// text content. It is the display layer's tool for truncated previews.
func PlainText(fragment string) string {
	return Parse(fragment).PlainText()
}
