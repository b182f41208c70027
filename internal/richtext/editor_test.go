package richtext

import "testing"

func TestShortcutCommand(t *testing.T) {
	tests := []struct {
		combo string
		want  CommandKind
		ok    bool
	}{
		{"ctrl+b", CmdBold, true},
		{"Ctrl+B", CmdBold, true},
		{"cmd+b", CmdBold, true},
		{"meta+i", CmdItalic, true},
		{"ctrl+u", CmdUnderline, true},
		{"ctrl+k", CmdLink, true},
		{"ctrl+shift+8", CmdBulletList, true},
		{"CMD+SHIFT+7", CmdNumberList, true},
		{"ctrl+shift+9", CmdBlockquote, true},
		{`ctrl+\`, CmdClearFormatting, true},
		{"  ctrl+b  ", CmdBold, true},
		{"ctrl+q", "", false},
		{"alt+b", "", false},
		{"b", "", false},
		{"", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.combo, func(t *testing.T) {
			kind, ok := ShortcutCommand(tc.combo)
			if ok != tc.ok || kind != tc.want {
				t.Errorf("ShortcutCommand(%q) = (%q, %v), want (%q, %v)", tc.combo, kind, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestEditor_ExecReserializes(t *testing.T) {
	e := NewEditor("<p>hello world</p>")
	e.Select(Selection{Start: 0, End: 5})
	e.Exec(Command{Kind: CmdBold})

	want := "<p><strong>hello</strong> world</p>"
	if got := e.HTML(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEditor_SetHTMLNoOpPreservesSelection(t *testing.T) {
	e := NewEditor("<P>hello</P>")
	e.Select(Selection{Start: 2, End: 4})

	// Echoing the editor's own serialization back must not disturb the
	// selection, even though the original input was not canonical.
	e.SetHTML(e.HTML())

	if got := e.Selection(); got != (Selection{Start: 2, End: 4}) {
		t.Errorf("selection moved to %+v", got)
	}
	if got := e.HTML(); got != "<p>hello</p>" {
		t.Errorf("got %q", got)
	}
}

func TestEditor_SetHTMLReparsesNewContent(t *testing.T) {
	e := NewEditor("<p>hello</p>")
	e.Select(Selection{Start: 0, End: 5})

	e.SetHTML("<p>hi</p>")

	if got := e.HTML(); got != "<p>hi</p>" {
		t.Errorf("got %q", got)
	}
	// The old selection no longer fits and is clamped to the new text.
	if got := e.Selection(); got != (Selection{Start: 0, End: 2}) {
		t.Errorf("selection is %+v, want clamped to new bounds", got)
	}
}

func TestEditor_SelectClamps(t *testing.T) {
	e := NewEditor("<p>abc</p>")
	e.Select(Selection{Start: -2, End: 50})
	if got := e.Selection(); got != (Selection{Start: 0, End: 3}) {
		t.Errorf("got %+v", got)
	}
}

func TestEditor_ExecShortcut(t *testing.T) {
	e := NewEditor("<p>hello</p>")
	e.Select(Selection{Start: 0, End: 5})

	if !e.ExecShortcut("cmd+b") {
		t.Fatal("cmd+b not recognized")
	}
	if got := e.HTML(); got != "<p><strong>hello</strong></p>" {
		t.Errorf("got %q", got)
	}

	if e.ExecShortcut("ctrl+z") {
		t.Error("unrecognized combo reported as handled")
	}
	if got := e.HTML(); got != "<p><strong>hello</strong></p>" {
		t.Errorf("unrecognized combo changed the document: %q", got)
	}
}

func TestEditor_ShortcutLinkRemovesHref(t *testing.T) {
	e := NewEditor(`<p><a href="https://example.com">here</a></p>`)
	e.Select(Selection{Start: 0, End: 4})

	e.ExecShortcut("ctrl+k")

	if got := e.HTML(); got != "<p>here</p>" {
		t.Errorf("got %q", got)
	}
}

func TestEditor_PlainText(t *testing.T) {
	e := NewEditor("<p><strong>bold</strong> and plain</p>")
	if got := e.PlainText(); got != "bold and plain" {
		t.Errorf("got %q", got)
	}
}
