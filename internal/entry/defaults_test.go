package entry

import (
	"testing"

	"github.com/rumbo-cms/rumbo/internal/contenttype"
)

func TestDefaults_EveryFieldDefined(t *testing.T) {
	fields := []contenttype.Field{
		{APIIdentifier: "title", Type: contenttype.FieldTypeText},
		{APIIdentifier: "body", Type: contenttype.FieldTypeRichText},
		{APIIdentifier: "price", Type: contenttype.FieldTypeNumber},
		{APIIdentifier: "featured", Type: contenttype.FieldTypeBoolean},
		{APIIdentifier: "when", Type: contenttype.FieldTypeDate},
		{APIIdentifier: "photo", Type: contenttype.FieldTypeMedia},
		{APIIdentifier: "mystery", Type: "hologram"},
	}

	out := Defaults(fields, nil)

	want := map[string]any{
		"title":    "",
		"body":     "",
		"price":    0.0,
		"featured": false,
		"when":     "",
		"photo":    "",
		"mystery":  "",
	}
	for k, v := range want {
		got, ok := out[k]
		if !ok {
			t.Errorf("key %q missing from defaults", k)
			continue
		}
		if got != v {
			t.Errorf("key %q = %v (%T), want %v (%T)", k, got, got, v, v)
		}
	}
}

func TestDefaults_ExistingValuesCarriedVerbatim(t *testing.T) {
	fields := []contenttype.Field{
		{APIIdentifier: "price", Type: contenttype.FieldTypeNumber},
	}

	// Wrong-type stored value is carried as-is, not coerced.
	out := Defaults(fields, ValueMap{"price": "not a number"})
	if out["price"] != "not a number" {
		t.Errorf("existing value was not carried verbatim: %v", out["price"])
	}
}

func TestDefaults_NilTreatedAsMissing(t *testing.T) {
	fields := []contenttype.Field{
		{APIIdentifier: "featured", Type: contenttype.FieldTypeBoolean},
	}

	out := Defaults(fields, ValueMap{"featured": nil})
	if out["featured"] != false {
		t.Errorf("nil existing value should fall back to the type default, got %v", out["featured"])
	}
}

func TestDefaults_OrphansPreserved(t *testing.T) {
	fields := []contenttype.Field{
		{APIIdentifier: "title", Type: contenttype.FieldTypeText},
	}

	out := Defaults(fields, ValueMap{"removed_field": 3.5})
	if out["removed_field"] != 3.5 {
		t.Errorf("orphaned key should be preserved, got %v", out["removed_field"])
	}
	if out["title"] != "" {
		t.Errorf("declared field should still get its default, got %v", out["title"])
	}
}
