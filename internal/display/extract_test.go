package display

import (
	"reflect"
	"testing"

	"github.com/rumbo-cms/rumbo/internal/contenttype"
)

func articleType() contenttype.ContentType {
	return contenttype.ContentType{
		APIIdentifier: "article",
		DisplayName:   "Article",
		Fields: []contenttype.Field{
			{APIIdentifier: "headline_text", Label: "Headline", Type: contenttype.FieldTypeText},
			{APIIdentifier: "body", Label: "Body", Type: contenttype.FieldTypeRichText},
			{APIIdentifier: "hero", Label: "Hero", Type: contenttype.FieldTypeMedia},
		},
	}
}

func TestTitle(t *testing.T) {
	ct := articleType()

	tests := []struct {
		name string
		data map[string]any
		want string
	}{
		{
			name: "well-known key wins",
			data: map[string]any{"title": "Hello", "headline_text": "ignored"},
			want: "Hello",
		},
		{
			name: "spanish key",
			data: map[string]any{"titulo": "Hola"},
			want: "Hola",
		},
		{
			name: "nested object label",
			data: map[string]any{"name": map[string]any{"label": "Nested"}},
			want: "Nested",
		},
		{
			name: "whitespace-only key skipped",
			data: map[string]any{"title": "   ", "headline_text": "Fallback"},
			want: "Fallback",
		},
		{
			name: "title-like field descriptor",
			data: map[string]any{"headline_text": "From Field"},
			want: "From Field",
		},
		{
			name: "placeholder from display name",
			data: map[string]any{},
			want: "Untitled Article",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Title(ct, tc.data, "id-123456"); got != tc.want {
				t.Errorf("Title() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTitle_IDFallback(t *testing.T) {
	ct := contenttype.ContentType{APIIdentifier: "thing"}

	if got := Title(ct, nil, "f7c2a9e4-1b3d-4e5f-8a9b-0c1d2e3fabcd"); got != "Entry #3fabcd" {
		t.Errorf("got %q", got)
	}
	if got := Title(ct, nil, "abc"); got != "Entry #abc" {
		t.Errorf("short id: got %q", got)
	}
	if got := Title(ct, nil, ""); got != "Untitled" {
		t.Errorf("empty id: got %q", got)
	}
}

func TestImageURL(t *testing.T) {
	ct := articleType()

	tests := []struct {
		name  string
		data  map[string]any
		want  string
		found bool
	}{
		{
			name:  "plain string",
			data:  map[string]any{"mainImage": "/media/a.jpg"},
			want:  "/media/a.jpg",
			found: true,
		},
		{
			name:  "object with url key",
			data:  map[string]any{"image": map[string]any{"url": "/media/b.jpg"}},
			want:  "/media/b.jpg",
			found: true,
		},
		{
			name:  "array takes first usable element",
			data:  map[string]any{"cover": []any{"", "/media/c.jpg"}},
			want:  "/media/c.jpg",
			found: true,
		},
		{
			name:  "falls back to media field",
			data:  map[string]any{"hero": "/media/d.jpg"},
			want:  "/media/d.jpg",
			found: true,
		},
		{
			name:  "nothing found",
			data:  map[string]any{"hero": 42.0},
			found: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ImageURL(ct, tc.data)
			if got != tc.want || ok != tc.found {
				t.Errorf("ImageURL() = (%q, %v), want (%q, %v)", got, ok, tc.want, tc.found)
			}
		})
	}
}

func TestBody(t *testing.T) {
	ct := articleType()

	t.Run("richtext field wins", func(t *testing.T) {
		data := map[string]any{"body": "<p>stored</p>", "content": "<p>other</p>"}
		if got := Body(ct, data); got != "<p>stored</p>" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("falls back to content key", func(t *testing.T) {
		data := map[string]any{"content": "<p>loose</p>"}
		if got := Body(ct, data); got != "<p>loose</p>" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("spanish fallback key", func(t *testing.T) {
		data := map[string]any{"contenido": "<p>hola</p>"}
		if got := Body(ct, data); got != "<p>hola</p>" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("empty when nothing matches", func(t *testing.T) {
		if got := Body(ct, map[string]any{"body": 3.0}); got != "" {
			t.Errorf("got %q", got)
		}
	})
}

func TestMediaURLs(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{
			name: "deduplicates preserving first occurrence",
			in: []any{
				"a.jpg",
				map[string]any{"url": "a.jpg"},
				[]any{"b.jpg"},
			},
			want: []string{"a.jpg", "b.jpg"},
		},
		{
			name: "object url then nested containers",
			in: map[string]any{
				"url":      "top.jpg",
				"children": []any{"kid.jpg"},
			},
			want: []string{"top.jpg", "kid.jpg"},
		},
		{
			name: "empty strings skipped",
			in:   []any{"", "x.jpg", ""},
			want: []string{"x.jpg"},
		},
		{
			name: "scalar garbage yields nothing",
			in:   42.0,
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MediaURLs(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("MediaURLs() = %v, want %v", got, tc.want)
			}
		})
	}
}
