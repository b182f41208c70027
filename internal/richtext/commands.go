package richtext

// CommandKind identifies a formatting command.
type CommandKind string

// Supported formatting commands. Inline commands toggle styling over the
// selected text; block commands retag or realign every block the selection
// touches.
const (
	CmdBold            CommandKind = "bold"
	CmdItalic          CommandKind = "italic"
	CmdUnderline       CommandKind = "underline"
	CmdBulletList      CommandKind = "bullet_list"
	CmdNumberList      CommandKind = "number_list"
	CmdBlockquote      CommandKind = "blockquote"
	CmdAlignLeft       CommandKind = "align_left"
	CmdAlignCenter     CommandKind = "align_center"
	CmdAlignRight      CommandKind = "align_right"
	CmdLink            CommandKind = "link"
	CmdClearFormatting CommandKind = "clear_formatting"
)

// Command is one formatting operation. Href is only meaningful for CmdLink;
// an empty Href removes the link from the selection.
type Command struct {
	Kind CommandKind
	Href string
}

// Selection is a half-open range of rune offsets over the document text,
// with one separator rune counted between blocks and list items. Start ==
// End represents a caret.
type Selection struct {
	Start int
	End   int
}

// clamp bounds the selection to the document and orders its endpoints.
func (sel Selection) clamp(d *Document) Selection {
	n := d.textLength()
	if sel.Start > sel.End {
		sel.Start, sel.End = sel.End, sel.Start
	}
	if sel.Start < 0 {
		sel.Start = 0
	}
	if sel.End > n {
		sel.End = n
	}
	return sel
}

// Apply executes a formatting command against the selection and normalizes
// the document. Unknown command kinds are ignored: dispatch is total, and
// a stale client can never crash the editor.
func (d *Document) Apply(cmd Command, sel Selection) {
	sel = sel.clamp(d)

	switch cmd.Kind {
	case CmdBold:
		d.toggleInline(sel, func(s Span) bool { return s.Bold }, func(s *Span, on bool) { s.Bold = on })
	case CmdItalic:
		d.toggleInline(sel, func(s Span) bool { return s.Italic }, func(s *Span, on bool) { s.Italic = on })
	case CmdUnderline:
		d.toggleInline(sel, func(s Span) bool { return s.Underline }, func(s *Span, on bool) { s.Underline = on })
	case CmdLink:
		href := cmd.Href
		d.styleRange(sel, func(s *Span) { s.Href = href })
	case CmdClearFormatting:
		d.styleRange(sel, func(s *Span) {
			s.Bold, s.Italic, s.Underline, s.Href = false, false, false, ""
		})
	case CmdBulletList:
		d.toggleListKind(sel, BlockBulletList)
	case CmdNumberList:
		d.toggleListKind(sel, BlockNumberList)
	case CmdBlockquote:
		d.toggleQuote(sel)
	case CmdAlignLeft:
		d.setAlign(sel, AlignLeft)
	case CmdAlignCenter:
		d.setAlign(sel, AlignCenter)
	case CmdAlignRight:
		d.setAlign(sel, AlignRight)
	}

	d.normalize()
}

// toggleInline applies a boolean style to the selection: if every selected
// rune already carries the style, it is removed, otherwise it is applied
// everywhere in the selection.
func (d *Document) toggleInline(sel Selection, has func(Span) bool, set func(*Span, bool)) {
	if sel.Start == sel.End {
		return
	}
	on := !d.rangeAll(sel, has)
	d.styleRange(sel, func(s *Span) { set(s, on) })
}

// rangeAll reports whether pred holds for every span overlapping the
// selection. An empty selection reports true.
func (d *Document) rangeAll(sel Selection, pred func(Span) bool) bool {
	all := true
	d.mutateRuns(func(offset int, spans []Span) []Span {
		pos := offset
		for _, s := range spans {
			runes := len([]rune(s.Text))
			if pos < sel.End && pos+runes > sel.Start && !pred(s) {
				all = false
			}
			pos += runes
		}
		return spans
	})
	return all
}

// styleRange applies fn to exactly the selected text, splitting spans at
// the selection boundaries so styling outside the selection is untouched.
func (d *Document) styleRange(sel Selection, fn func(*Span)) {
	if sel.Start == sel.End {
		return
	}
	d.mutateRuns(func(offset int, spans []Span) []Span {
		var out []Span
		pos := offset
		for _, s := range spans {
			runes := []rune(s.Text)
			spanStart, spanEnd := pos, pos+len(runes)
			pos = spanEnd

			// No overlap with the selection.
			if spanEnd <= sel.Start || spanStart >= sel.End {
				out = append(out, s)
				continue
			}

			cutStart := max(sel.Start, spanStart) - spanStart
			cutEnd := min(sel.End, spanEnd) - spanStart

			if cutStart > 0 {
				before := s
				before.Text = string(runes[:cutStart])
				out = append(out, before)
			}

			middle := s
			middle.Text = string(runes[cutStart:cutEnd])
			fn(&middle)
			out = append(out, middle)

			if cutEnd < len(runes) {
				after := s
				after.Text = string(runes[cutEnd:])
				out = append(out, after)
			}
		}
		return out
	})
}

// blockRange returns the indexes [first, last] of the blocks the selection
// touches. A caret selects the block containing it.
func (d *Document) blockRange(sel Selection) (int, int) {
	first, last := -1, -1
	offset := 0
	firstRun := true

	for i := range d.Blocks {
		b := &d.Blocks[i]
		start := offset

		count := func(spans []Span) {
			if !firstRun {
				offset++
			}
			firstRun = false
			for _, s := range spans {
				offset += len([]rune(s.Text))
			}
		}
		switch b.Kind {
		case BlockBulletList, BlockNumberList:
			for _, item := range b.Items {
				count(item)
			}
		default:
			count(b.Spans)
		}

		// The block occupies [start, offset]; a caret at either edge
		// belongs to it.
		if sel.Start <= offset && sel.End >= start {
			if first == -1 {
				first = i
			}
			last = i
		}
	}

	if first == -1 && len(d.Blocks) > 0 {
		first, last = 0, 0
	}
	return first, last
}

// toggleListKind converts the selected blocks into one list of the given
// kind, or unwraps them back into paragraphs when the selection is already
// entirely that list kind.
func (d *Document) toggleListKind(sel Selection, kind BlockKind) {
	first, last := d.blockRange(sel)
	if first == -1 {
		return
	}

	allKind := true
	for i := first; i <= last; i++ {
		if d.Blocks[i].Kind != kind {
			allKind = false
			break
		}
	}

	if allKind {
		// Unwrap: each list item becomes a paragraph.
		var replacement []Block
		for i := first; i <= last; i++ {
			for _, item := range d.Blocks[i].Items {
				replacement = append(replacement, Block{Kind: BlockParagraph, Spans: item})
			}
		}
		d.replaceBlocks(first, last, replacement)
		return
	}

	// Wrap: every selected run becomes one item of a single list.
	list := Block{Kind: kind}
	for i := first; i <= last; i++ {
		b := &d.Blocks[i]
		switch b.Kind {
		case BlockBulletList, BlockNumberList:
			list.Items = append(list.Items, b.Items...)
		default:
			list.Items = append(list.Items, b.Spans)
		}
	}
	d.replaceBlocks(first, last, []Block{list})
}

// toggleQuote converts the selected blocks to blockquotes, or back to
// paragraphs when they already all are. List blocks are left as lists.
func (d *Document) toggleQuote(sel Selection) {
	first, last := d.blockRange(sel)
	if first == -1 {
		return
	}

	allQuoted := true
	for i := first; i <= last; i++ {
		if d.Blocks[i].Kind != BlockQuote {
			allQuoted = false
			break
		}
	}

	for i := first; i <= last; i++ {
		b := &d.Blocks[i]
		switch b.Kind {
		case BlockBulletList, BlockNumberList:
			continue
		case BlockQuote:
			if allQuoted {
				b.Kind = BlockParagraph
			}
		default:
			if !allQuoted {
				b.Kind = BlockQuote
			}
		}
	}
}

// setAlign sets the alignment of every selected block.
func (d *Document) setAlign(sel Selection, align Alignment) {
	first, last := d.blockRange(sel)
	if first == -1 {
		return
	}
	for i := first; i <= last; i++ {
		d.Blocks[i].Align = align
	}
}

// replaceBlocks substitutes blocks [first, last] with the replacement.
func (d *Document) replaceBlocks(first, last int, replacement []Block) {
	tail := append([]Block{}, d.Blocks[last+1:]...)
	d.Blocks = append(d.Blocks[:first], append(replacement, tail...)...)
}
