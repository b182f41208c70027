package display

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rumbo-cms/rumbo/internal/contenttype"
	"github.com/rumbo-cms/rumbo/internal/richtext"
)

const (
	// richTextLimit is the rune budget for rich text previews in list views.
	richTextLimit = 100
	// scalarLimit is the rune budget for all other stringified scalars.
	scalarLimit = 50
)

// Fixed glyphs for list-view cells.
const (
	mediaGlyph  = "🖼"
	trueGlyph   = "✓"
	falseGlyph  = "✗"
	absentValue = "-"
)

// dateDisplayFormats are the layouts tried when parsing a stored date
// value for display.
var dateDisplayFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

// FormatValue renders one stored value as a short display string for list
// and table views, dispatching on the originating field's type. Malformed
// values degrade to a generic rendering; this function never fails.
func FormatValue(f contenttype.Field, v any) string {
	if v == nil {
		return absentValue
	}

	switch f.Type {
	case contenttype.FieldTypeRichText:
		if s, ok := v.(string); ok {
			return truncate(richtext.PlainText(s), richTextLimit)
		}

	case contenttype.FieldTypeMedia:
		if s, ok := v.(string); ok {
			if s == "" {
				return absentValue
			}
			return mediaGlyph
		}

	case contenttype.FieldTypeBoolean:
		if b, ok := v.(bool); ok {
			if b {
				return trueGlyph
			}
			return falseGlyph
		}

	case contenttype.FieldTypeDate:
		if s, ok := v.(string); ok {
			if s == "" {
				return absentValue
			}
			return formatDate(s)
		}
	}

	// Everything else, including values whose stored shape no longer
	// matches the field type, gets the generic rendering.
	return formatGeneric(v)
}

// formatDate renders a stored date string for display, falling back to the
// raw string when it doesn't parse.
func formatDate(s string) string {
	for _, layout := range dateDisplayFormats {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Hour() == 0 && t.Minute() == 0 {
				return t.Format("Jan 2, 2006")
			}
			return t.Format("Jan 2, 2006 15:04")
		}
	}
	return s
}

// formatGeneric renders a value with no usable type information: arrays as
// an item count, objects via their label keys, scalars stringified and
// truncated.
func formatGeneric(v any) string {
	switch val := v.(type) {
	case []any:
		return fmt.Sprintf("%d items", len(val))
	case map[string]any:
		if s := stringValue(val); s != "" {
			return truncate(s, scalarLimit)
		}
		return "[Object]"
	case string:
		return truncate(val, scalarLimit)
	case bool:
		if val {
			return trueGlyph
		}
		return falseGlyph
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return truncate(fmt.Sprintf("%v", val), scalarLimit)
	}
}

// Fields renders the per-field display strings for an entry's list-view
// row, keyed by api identifier. Keys in data without a descriptor are
// skipped: orphaned values display as nothing rather than erroring.
func Fields(ct contenttype.ContentType, data map[string]any) map[string]string {
	out := make(map[string]string, len(ct.Fields))
	for _, f := range ct.Fields {
		out[f.APIIdentifier] = FormatValue(f, data[f.APIIdentifier])
	}
	return out
}

// Excerpt returns a plain-text preview of the entry's rich text body.
func Excerpt(ct contenttype.ContentType, data map[string]any) string {
	return truncate(richtext.PlainText(Body(ct, data)), richTextLimit)
}

// truncate shortens s to at most limit runes, appending an ellipsis when
// anything was cut.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}
