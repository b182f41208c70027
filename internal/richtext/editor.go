package richtext

import "strings"

// shortcuts maps normalized keyboard combos to formatting commands. The
// combos mirror the toolbar: every shortcut has a button doing the same
// thing.
var shortcuts = map[string]CommandKind{
	"ctrl+b":       CmdBold,
	"ctrl+i":       CmdItalic,
	"ctrl+u":       CmdUnderline,
	"ctrl+k":       CmdLink,
	"ctrl+shift+8": CmdBulletList,
	"ctrl+shift+7": CmdNumberList,
	"ctrl+shift+9": CmdBlockquote,
	"ctrl+\\":      CmdClearFormatting,
}

// ShortcutCommand resolves a keyboard combo (e.g. "ctrl+b", "Ctrl+Shift+8")
// to its command kind. Combos are matched case-insensitively; "cmd" and
// "meta" are treated as "ctrl" so macOS clients need no special casing.
func ShortcutCommand(combo string) (CommandKind, bool) {
	normalized := strings.ToLower(strings.TrimSpace(combo))
	normalized = strings.ReplaceAll(normalized, "cmd+", "ctrl+")
	normalized = strings.ReplaceAll(normalized, "meta+", "ctrl+")
	kind, ok := shortcuts[normalized]
	return kind, ok
}

// Editor wraps a rich text document with the state an editing session
// needs: the current selection and the cached canonical serialization.
type Editor struct {
	doc       *Document
	html      string
	selection Selection
}

// NewEditor creates an editor from an HTML value. Any input is accepted;
// malformed markup degrades to whatever the HTML parser recovers.
func NewEditor(fragment string) *Editor {
	doc := Parse(fragment)
	return &Editor{
		doc:  doc,
		html: doc.HTML(),
	}
}

// HTML returns the canonical serialization of the current document. It is
// recomputed on every edit, so reading it is free.
func (e *Editor) HTML() string {
	return e.html
}

// PlainText returns the document text with formatting stripped.
func (e *Editor) PlainText() string {
	return e.doc.PlainText()
}

// Selection returns the current selection.
func (e *Editor) Selection() Selection {
	return e.selection
}

// Select sets the selection, clamped to the document bounds.
func (e *Editor) Select(sel Selection) {
	e.selection = sel.clamp(e.doc)
}

// SetHTML synchronizes the editor with an external canonical value. The
// document is re-parsed only when the incoming value differs from the
// current serialization; otherwise the call is a no-op and the selection
// survives untouched. This is what keeps the caret stable when the caller
// echoes the editor's own output back at it.
func (e *Editor) SetHTML(fragment string) {
	if fragment == e.html {
		return
	}
	e.doc = Parse(fragment)
	e.html = e.doc.HTML()
	e.selection = e.selection.clamp(e.doc)
}

// Exec applies a formatting command to the current selection and
// reserializes. Unknown commands are no-ops.
func (e *Editor) Exec(cmd Command) {
	e.doc.Apply(cmd, e.selection)
	e.html = e.doc.HTML()
	e.selection = e.selection.clamp(e.doc)
}

// ExecShortcut resolves a keyboard combo and applies its command. It
// reports whether the combo was recognized. Link shortcuts need an href,
// so ctrl+k resolves to a link command with an empty target, which removes
// any link in the selection; setting a target goes through Exec directly.
func (e *Editor) ExecShortcut(combo string) bool {
	kind, ok := ShortcutCommand(combo)
	if !ok {
		return false
	}
	e.Exec(Command{Kind: kind})
	return true
}
