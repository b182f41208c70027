package render

import (
	"testing"

	"github.com/rumbo-cms/rumbo/internal/contenttype"
	"github.com/rumbo-cms/rumbo/internal/entry"
)

func planType() contenttype.ContentType {
	return contenttype.ContentType{
		APIIdentifier: "plan",
		DisplayName:   "Plan",
		Fields: []contenttype.Field{
			{APIIdentifier: "title", Label: "Title", Type: contenttype.FieldTypeText, Required: true},
			{APIIdentifier: "price", Label: "Price", Type: contenttype.FieldTypeNumber},
			{APIIdentifier: "featured", Label: "Featured", Type: contenttype.FieldTypeBoolean},
		},
	}
}

func TestBuildForm_FreshEntry(t *testing.T) {
	form := BuildForm(planType(), nil)

	if form.ContentType != "plan" {
		t.Errorf("content type = %q", form.ContentType)
	}
	if len(form.Widgets) != 3 {
		t.Fatalf("expected 3 widgets, got %d", len(form.Widgets))
	}

	// Every widget starts with a defined, type-appropriate value.
	wantValues := []any{"", 0.0, false}
	for i, w := range form.Widgets {
		if w.Value != wantValues[i] {
			t.Errorf("widget %s value = %v (%T), want %v", w.APIIdentifier, w.Value, w.Value, wantValues[i])
		}
	}
}

func TestBuildForm_ExistingEntry(t *testing.T) {
	form := BuildForm(planType(), entry.ValueMap{"title": "Surf trip", "price": 99.0})

	if form.Widgets[0].Value != "Surf trip" {
		t.Errorf("title widget value = %v", form.Widgets[0].Value)
	}
	if form.Widgets[1].Value != 99.0 {
		t.Errorf("price widget value = %v", form.Widgets[1].Value)
	}
	// Missing boolean still gets its default.
	if form.Widgets[2].Value != false {
		t.Errorf("featured widget value = %v", form.Widgets[2].Value)
	}
}

func TestFormState_SetNormalizes(t *testing.T) {
	s := NewFormState(planType().Fields, nil)

	s.Set("price", "19.5")
	s.Set("featured", "true")
	s.Set("title", "Beach day")

	v := s.Values()
	if v["price"] != 19.5 {
		t.Errorf("price = %v", v["price"])
	}
	if v["featured"] != true {
		t.Errorf("featured = %v", v["featured"])
	}
	if v["title"] != "Beach day" {
		t.Errorf("title = %v", v["title"])
	}
}

func TestFormState_SetUnknownIdentifier(t *testing.T) {
	s := NewFormState(planType().Fields, nil)

	s.Set("ghost", 12.0)
	if s.Values()["ghost"] != "12" {
		t.Errorf("unknown identifier should store the raw string form, got %v", s.Values()["ghost"])
	}
}
