package richtext

import "testing"

func TestApply_BoldToggle(t *testing.T) {
	t.Run("applies to unstyled selection", func(t *testing.T) {
		d := Parse("<p>hello world</p>")
		d.Apply(Command{Kind: CmdBold}, Selection{Start: 0, End: 5})
		want := "<p><strong>hello</strong> world</p>"
		if got := d.HTML(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("removes when fully styled", func(t *testing.T) {
		d := Parse("<p><strong>hello</strong> world</p>")
		d.Apply(Command{Kind: CmdBold}, Selection{Start: 0, End: 5})
		want := "<p>hello world</p>"
		if got := d.HTML(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("partially styled selection becomes fully styled", func(t *testing.T) {
		d := Parse("<p><strong>hel</strong>lo world</p>")
		d.Apply(Command{Kind: CmdBold}, Selection{Start: 0, End: 5})
		want := "<p><strong>hello</strong> world</p>"
		if got := d.HTML(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("caret is a no-op", func(t *testing.T) {
		d := Parse("<p>hello</p>")
		d.Apply(Command{Kind: CmdBold}, Selection{Start: 2, End: 2})
		if got := d.HTML(); got != "<p>hello</p>" {
			t.Errorf("got %q", got)
		}
	})
}

func TestApply_SplitsSpansAtBoundaries(t *testing.T) {
	d := Parse("<p>abcdef</p>")
	d.Apply(Command{Kind: CmdItalic}, Selection{Start: 2, End: 4})
	want := "<p>ab<em>cd</em>ef</p>"
	if got := d.HTML(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestApply_Link(t *testing.T) {
	d := Parse("<p>visit here</p>")
	d.Apply(Command{Kind: CmdLink, Href: "https://example.com"}, Selection{Start: 6, End: 10})
	want := `<p>visit <a href="https://example.com">here</a></p>`
	if got := d.HTML(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Empty href removes the link.
	d.Apply(Command{Kind: CmdLink}, Selection{Start: 6, End: 10})
	if got := d.HTML(); got != "<p>visit here</p>" {
		t.Errorf("got %q", got)
	}
}

func TestApply_ClearFormatting(t *testing.T) {
	d := Parse(`<p><strong><em>styled</em></strong> plain</p>`)
	d.Apply(Command{Kind: CmdClearFormatting}, Selection{Start: 0, End: 12})
	if got := d.HTML(); got != "<p>styled plain</p>" {
		t.Errorf("got %q", got)
	}
}

func TestApply_ListToggle(t *testing.T) {
	t.Run("wraps paragraphs into one list", func(t *testing.T) {
		d := Parse("<p>one</p><p>two</p>")
		d.Apply(Command{Kind: CmdBulletList}, Selection{Start: 0, End: 7})
		want := "<ul><li>one</li><li>two</li></ul>"
		if got := d.HTML(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("unwraps back to paragraphs", func(t *testing.T) {
		d := Parse("<ul><li>one</li><li>two</li></ul>")
		d.Apply(Command{Kind: CmdBulletList}, Selection{Start: 0, End: 7})
		want := "<p>one</p><p>two</p>"
		if got := d.HTML(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("switches list kind", func(t *testing.T) {
		d := Parse("<ul><li>one</li></ul>")
		d.Apply(Command{Kind: CmdNumberList}, Selection{Start: 0, End: 3})
		want := "<ol><li>one</li></ol>"
		if got := d.HTML(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

func TestApply_BlockquoteToggle(t *testing.T) {
	d := Parse("<p>wise words</p>")
	d.Apply(Command{Kind: CmdBlockquote}, Selection{Start: 0, End: 4})
	if got := d.HTML(); got != "<blockquote>wise words</blockquote>" {
		t.Errorf("got %q", got)
	}

	d.Apply(Command{Kind: CmdBlockquote}, Selection{Start: 0, End: 4})
	if got := d.HTML(); got != "<p>wise words</p>" {
		t.Errorf("got %q", got)
	}
}

func TestApply_Alignment(t *testing.T) {
	d := Parse("<p>x</p>")
	d.Apply(Command{Kind: CmdAlignCenter}, Selection{Start: 0, End: 1})
	if got := d.HTML(); got != `<p style="text-align: center">x</p>` {
		t.Errorf("got %q", got)
	}
}

func TestApply_UnknownCommandIgnored(t *testing.T) {
	d := Parse("<p>hello</p>")
	d.Apply(Command{Kind: "sparkle"}, Selection{Start: 0, End: 5})
	if got := d.HTML(); got != "<p>hello</p>" {
		t.Errorf("unknown command changed the document: %q", got)
	}
}

func TestApply_SelectionClamped(t *testing.T) {
	d := Parse("<p>hi</p>")
	// Reversed and out-of-bounds selections are normalized, not errors.
	d.Apply(Command{Kind: CmdBold}, Selection{Start: 100, End: -5})
	if got := d.HTML(); got != "<p><strong>hi</strong></p>" {
		t.Errorf("got %q", got)
	}
}

func TestApply_MultiByteText(t *testing.T) {
	d := Parse("<p>héllo wörld</p>")
	d.Apply(Command{Kind: CmdBold}, Selection{Start: 0, End: 5})
	want := "<p><strong>héllo</strong> wörld</p>"
	if got := d.HTML(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
