package render

import (
	"math"
	"testing"

	"github.com/rumbo-cms/rumbo/internal/contenttype"
)

func TestRenderField_Dispatch(t *testing.T) {
	tests := []struct {
		fieldType contenttype.FieldType
		want      WidgetKind
	}{
		{contenttype.FieldTypeText, WidgetInput},
		{contenttype.FieldTypeRichText, WidgetRichText},
		{contenttype.FieldTypeNumber, WidgetNumber},
		{contenttype.FieldTypeBoolean, WidgetToggle},
		{contenttype.FieldTypeDate, WidgetDateTime},
		{contenttype.FieldTypeMedia, WidgetMediaURL},
		{"hologram", WidgetInput},
		{"", WidgetInput},
	}

	for _, tt := range tests {
		t.Run(string(tt.fieldType), func(t *testing.T) {
			f := contenttype.Field{APIIdentifier: "f", Label: "F", Type: tt.fieldType}
			w := RenderField(f, "x")
			if w.Kind != tt.want {
				t.Errorf("type %q: kind = %q, want %q", tt.fieldType, w.Kind, tt.want)
			}
		})
	}
}

func TestRenderField_RichTextCommands(t *testing.T) {
	f := contenttype.Field{APIIdentifier: "body", Type: contenttype.FieldTypeRichText}
	w := RenderField(f, "")
	if len(w.Commands) == 0 {
		t.Fatal("rich text widget should expose formatting commands")
	}

	plain := RenderField(contenttype.Field{APIIdentifier: "t", Type: contenttype.FieldTypeText}, "")
	if len(plain.Commands) != 0 {
		t.Errorf("text widget should expose no commands, got %v", plain.Commands)
	}
}

func TestNormalize_NumberNeverNaN(t *testing.T) {
	f := contenttype.Field{APIIdentifier: "n", Type: contenttype.FieldTypeNumber}

	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{"float", 3.5, 3.5},
		{"int", 7, 7},
		{"numeric string", "12.25", 12.25},
		{"padded string", "  4 ", 4},
		{"garbage string", "abc", 0},
		{"empty string", "", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
		{"nan input", math.NaN(), 0},
		{"inf input", math.Inf(1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(f, tt.raw).(float64)
			if !ok {
				t.Fatalf("normalized number is not a float64: %T", Normalize(f, tt.raw))
			}
			if math.IsNaN(got) {
				t.Fatal("NaN leaked into the value map")
			}
			if got != tt.want {
				t.Errorf("Normalize(%v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalize_Boolean(t *testing.T) {
	f := contenttype.Field{APIIdentifier: "b", Type: contenttype.FieldTypeBoolean}

	tests := []struct {
		raw  any
		want bool
	}{
		{true, true},
		{false, false},
		{"true", true},
		{"false", false},
		{"yes", false},
		{nil, false},
		{1.0, false},
	}

	for _, tt := range tests {
		if got := Normalize(f, tt.raw); got != tt.want {
			t.Errorf("Normalize(%v) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestNormalize_StringFallback(t *testing.T) {
	f := contenttype.Field{APIIdentifier: "t", Type: contenttype.FieldTypeText}

	if got := Normalize(f, "hello"); got != "hello" {
		t.Errorf("string value changed: %v", got)
	}
	if got := Normalize(f, nil); got != "" {
		t.Errorf("nil should normalize to empty string, got %v", got)
	}
	if got := Normalize(f, 42.0); got != "42" {
		t.Errorf("non-string should stringify, got %v", got)
	}
}
