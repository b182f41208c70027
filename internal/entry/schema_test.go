package entry

import (
	"encoding/json"
	"testing"

	"github.com/rumbo-cms/rumbo/internal/contenttype"
)

func textField(id string, required bool) contenttype.Field {
	return contenttype.Field{APIIdentifier: id, Label: id, Type: contenttype.FieldTypeText, Required: required}
}

func TestValidate_RequiredFields(t *testing.T) {
	fields := []contenttype.Field{
		{APIIdentifier: "title", Label: "Title", Type: contenttype.FieldTypeText, Required: true},
		{APIIdentifier: "body", Label: "Body", Type: contenttype.FieldTypeRichText},
	}
	schema := GenerateSchema(fields)

	t.Run("missing required field", func(t *testing.T) {
		errs := schema.Validate(ValueMap{"body": "<p>hi</p>"})
		if len(errs) != 1 {
			t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
		}
		if errs[0].Field != "title" || errs[0].Message != "Title is required" {
			t.Errorf("unexpected error: %+v", errs[0])
		}
	})

	t.Run("nil required field", func(t *testing.T) {
		errs := schema.Validate(ValueMap{"title": nil, "body": ""})
		if len(errs) != 1 {
			t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
		}
	})

	t.Run("empty string required field", func(t *testing.T) {
		errs := schema.Validate(ValueMap{"title": ""})
		if len(errs) != 1 {
			t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
		}
	})

	t.Run("all fields present", func(t *testing.T) {
		errs := schema.Validate(ValueMap{"title": "Hello", "body": "<p>x</p>"})
		if len(errs) != 0 {
			t.Fatalf("expected 0 errors, got %d: %v", len(errs), errs)
		}
	})
}

func TestValidate_RequiredBooleanFalsePasses(t *testing.T) {
	fields := []contenttype.Field{
		{APIIdentifier: "featured", Label: "Featured", Type: contenttype.FieldTypeBoolean, Required: true},
	}
	schema := GenerateSchema(fields)

	t.Run("false is valid", func(t *testing.T) {
		if errs := schema.Validate(ValueMap{"featured": false}); len(errs) != 0 {
			t.Fatalf("expected 0 errors for false, got %v", errs)
		}
	})

	t.Run("missing is valid", func(t *testing.T) {
		if errs := schema.Validate(ValueMap{}); len(errs) != 0 {
			t.Fatalf("expected 0 errors for missing boolean, got %v", errs)
		}
	})

	t.Run("non-boolean rejected", func(t *testing.T) {
		if errs := schema.Validate(ValueMap{"featured": "yes"}); len(errs) != 1 {
			t.Fatalf("expected 1 error for string value, got %v", errs)
		}
	})
}

func TestValidate_RequiredNumberMeansNonNegative(t *testing.T) {
	fields := []contenttype.Field{
		{APIIdentifier: "price", Label: "Price", Type: contenttype.FieldTypeNumber, Required: true},
	}
	schema := GenerateSchema(fields)

	tests := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{"zero passes", 0.0, false},
		{"positive passes", 19.95, false},
		{"negative fails", -1.0, true},
		{"int value passes", 42, false},
		{"int64 value passes", int64(7), false},
		{"json number passes", json.Number("3.5"), false},
		{"string fails", "12", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := schema.Validate(ValueMap{"price": tt.value})
			if gotErr := len(errs) > 0; gotErr != tt.wantErr {
				t.Errorf("value %v: got errors %v, wantErr %v", tt.value, errs, tt.wantErr)
			}
		})
	}
}

func TestValidate_OptionalNumberAllowsNegative(t *testing.T) {
	fields := []contenttype.Field{
		{APIIdentifier: "delta", Label: "Delta", Type: contenttype.FieldTypeNumber},
	}
	schema := GenerateSchema(fields)

	if errs := schema.Validate(ValueMap{"delta": -42.0}); len(errs) != 0 {
		t.Fatalf("expected 0 errors for optional negative number, got %v", errs)
	}
}

func TestValidate_DateFormats(t *testing.T) {
	fields := []contenttype.Field{
		{APIIdentifier: "when", Label: "When", Type: contenttype.FieldTypeDate},
	}
	schema := GenerateSchema(fields)

	tests := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{"plain date", "2026-03-15", false},
		{"datetime local", "2026-03-15T09:30", false},
		{"rfc3339", "2026-03-15T09:30:00Z", false},
		{"empty optional", "", false},
		{"garbage", "not-a-date", true},
		{"number value", 20260315.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := schema.Validate(ValueMap{"when": tt.value})
			if gotErr := len(errs) > 0; gotErr != tt.wantErr {
				t.Errorf("value %v: got errors %v, wantErr %v", tt.value, errs, tt.wantErr)
			}
		})
	}
}

func TestValidate_UnknownKeysIgnored(t *testing.T) {
	schema := GenerateSchema([]contenttype.Field{textField("title", true)})

	errs := schema.Validate(ValueMap{"title": "Hi", "legacy_field": 123})
	if len(errs) != 0 {
		t.Fatalf("expected orphaned keys to be ignored, got %v", errs)
	}
}

func TestValidate_UnknownFieldTypeFallsBackToText(t *testing.T) {
	fields := []contenttype.Field{
		{APIIdentifier: "widget", Label: "Widget", Type: "hologram", Required: true},
	}
	schema := GenerateSchema(fields)

	t.Run("string accepted", func(t *testing.T) {
		if errs := schema.Validate(ValueMap{"widget": "spinning"}); len(errs) != 0 {
			t.Fatalf("expected unknown type to validate as text, got %v", errs)
		}
	})

	t.Run("empty required rejected", func(t *testing.T) {
		if errs := schema.Validate(ValueMap{"widget": ""}); len(errs) != 1 {
			t.Fatalf("expected 1 error, got %v", errs)
		}
	})
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	fields := []contenttype.Field{
		textField("a", true),
		textField("b", true),
		{APIIdentifier: "c", Label: "c", Type: contenttype.FieldTypeNumber, Required: true},
	}
	schema := GenerateSchema(fields)

	errs := schema.Validate(ValueMap{"c": -5.0})
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
}

func TestGenerateSchema_Deterministic(t *testing.T) {
	fields := []contenttype.Field{
		textField("title", true),
		{APIIdentifier: "price", Label: "Price", Type: contenttype.FieldTypeNumber, Required: true},
	}
	data := ValueMap{"title": "x", "price": -1.0}

	first := GenerateSchema(fields).Validate(data)
	second := GenerateSchema(fields).Validate(data)

	if len(first) != len(second) {
		t.Fatalf("same descriptors gave different results: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("error %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
