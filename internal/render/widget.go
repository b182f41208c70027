// Package render selects and configures editing widgets for content
// fields. Given a field descriptor and the current value it produces a
// widget specification the admin UI materializes, and it normalizes raw
// widget changes back into value-map entries. Dispatch on the field type
// is total: unknown types degrade to the plain text widget instead of
// erroring.
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rumbo-cms/rumbo/internal/contenttype"
	"github.com/rumbo-cms/rumbo/internal/richtext"
)

// WidgetKind identifies the editing widget materialized for a field.
type WidgetKind string

// Supported widget kinds.
const (
	WidgetInput    WidgetKind = "input"
	WidgetRichText WidgetKind = "richtext"
	WidgetNumber   WidgetKind = "number"
	WidgetToggle   WidgetKind = "toggle"
	WidgetDateTime WidgetKind = "datetime"
	WidgetMediaURL WidgetKind = "media_url"
)

// Widget is the specification of one editing widget: which control to
// render, the field it edits, and its current value. Value is always
// defined; the defaults layer guarantees no widget ever starts undefined.
type Widget struct {
	Kind          WidgetKind     `json:"kind"`
	APIIdentifier string         `json:"api_identifier"`
	Label         string         `json:"label"`
	Required      bool           `json:"required"`
	Value         any            `json:"value"`
	// Commands lists the formatting commands available on a rich text
	// widget; empty for every other kind.
	Commands []richtext.CommandKind `json:"commands,omitempty"`
}

// richTextCommands is the toolbar command set offered on rich text widgets.
var richTextCommands = []richtext.CommandKind{
	richtext.CmdBold,
	richtext.CmdItalic,
	richtext.CmdUnderline,
	richtext.CmdBulletList,
	richtext.CmdNumberList,
	richtext.CmdAlignLeft,
	richtext.CmdAlignCenter,
	richtext.CmdAlignRight,
	richtext.CmdBlockquote,
	richtext.CmdLink,
	richtext.CmdClearFormatting,
}

// RenderField selects and configures the widget for a field. Unknown field
// types fall back to the plain text input.
func RenderField(f contenttype.Field, value any) Widget {
	w := Widget{
		APIIdentifier: f.APIIdentifier,
		Label:         f.Label,
		Required:      f.Required,
		Value:         value,
	}

	switch f.Type {
	case contenttype.FieldTypeRichText:
		w.Kind = WidgetRichText
		w.Commands = richTextCommands
	case contenttype.FieldTypeNumber:
		w.Kind = WidgetNumber
	case contenttype.FieldTypeBoolean:
		w.Kind = WidgetToggle
	case contenttype.FieldTypeDate:
		w.Kind = WidgetDateTime
	case contenttype.FieldTypeMedia:
		w.Kind = WidgetMediaURL
	default:
		w.Kind = WidgetInput
	}

	return w
}

// Normalize coerces a raw widget change into the value stored in the map.
// Number changes parse to a float and default to 0 when unparseable; NaN
// and infinities never reach the value map. Boolean changes become literal
// true/false. Everything else stores the raw string.
func Normalize(f contenttype.Field, raw any) any {
	switch f.Type {
	case contenttype.FieldTypeNumber:
		return normalizeNumber(raw)
	case contenttype.FieldTypeBoolean:
		return normalizeBool(raw)
	default:
		return normalizeString(raw)
	}
}

// normalizeNumber coerces raw input to a finite float64, defaulting to 0.
func normalizeNumber(raw any) float64 {
	var n float64
	switch v := raw.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// normalizeBool coerces raw input to a literal true/false.
func normalizeBool(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && b
	default:
		return false
	}
}

// normalizeString coerces raw input to its string form.
func normalizeString(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
