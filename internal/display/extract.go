// Package display derives presentation values from schema-less entry data:
// a display title, a primary image, a rich text body, gallery URLs, and
// per-field formatted strings for list views. Entry data has no enforced
// shape at rest, so every extraction here is a best-effort heuristic with
// a total fallback. Nothing in this package returns an error or panics,
// whatever the stored value looks like.
package display

import (
	"sort"
	"strings"

	"github.com/rumbo-cms/rumbo/internal/contenttype"
)

// titleKeys are the value-map keys tried first when extracting a display
// title, in priority order. This is configuration, not law: deployments
// with other naming conventions extend the list.
var titleKeys = []string{"title", "name", "titulo", "headline", "heading", "postTitle"}

// imageKeys are the value-map keys tried first when extracting a primary
// image, before falling back to media-typed fields.
var imageKeys = []string{"mainImage", "featuredImage", "image", "cover", "thumbnail", "photo", "imagen"}

// nestedLabelKeys are the keys probed inside object values when looking
// for a usable display string.
var nestedLabelKeys = []string{"title", "name", "label"}

// bodyKeys are the fallback keys for the rich text body when no richtext
// field exists.
var bodyKeys = []string{"content", "contenido"}

// Title extracts a display title for an entry. It tries the well-known
// title keys, then the most title-like field descriptor, then synthesizes
// a placeholder from the content type name or the entry ID.
func Title(ct contenttype.ContentType, data map[string]any, entryID string) string {
	for _, key := range titleKeys {
		if s := stringValue(data[key]); s != "" {
			return s
		}
	}

	if f, ok := titleField(ct.Fields); ok {
		if s := stringValue(data[f.APIIdentifier]); s != "" {
			return s
		}
	}

	if ct.DisplayName != "" {
		return "Untitled " + ct.DisplayName
	}
	if n := len(entryID); n > 0 {
		tail := entryID
		if n > 6 {
			tail = entryID[n-6:]
		}
		return "Entry #" + tail
	}
	return "Untitled"
}

// titleField picks the most title-like field descriptor: the first whose
// api identifier contains "title" or "name" (case-insensitive), else the
// first text field, else the first field in schema order.
func titleField(fields []contenttype.Field) (contenttype.Field, bool) {
	for _, f := range fields {
		lower := strings.ToLower(f.APIIdentifier)
		if strings.Contains(lower, "title") || strings.Contains(lower, "name") {
			return f, true
		}
	}
	for _, f := range fields {
		if f.Type == contenttype.FieldTypeText {
			return f, true
		}
	}
	if len(fields) > 0 {
		return fields[0], true
	}
	return contenttype.Field{}, false
}

// stringValue coerces a candidate title value to a usable string: strings
// pass through trimmed, objects are probed for nested label keys, and
// everything else yields "".
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case map[string]any:
		for _, key := range nestedLabelKeys {
			if s, ok := val[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// ImageURL extracts the primary image URL for an entry. It checks the
// well-known image keys, then every media-typed field in schema order,
// taking the first value that yields a URL. Absence is not an error: the
// second return value reports whether anything was found.
func ImageURL(ct contenttype.ContentType, data map[string]any) (string, bool) {
	for _, key := range imageKeys {
		if url, ok := firstURL(data[key]); ok {
			return url, true
		}
	}
	for _, f := range ct.Fields {
		if f.Type != contenttype.FieldTypeMedia {
			continue
		}
		if url, ok := firstURL(data[f.APIIdentifier]); ok {
			return url, true
		}
	}
	return "", false
}

// firstURL digs the first URL string out of an arbitrary value: strings
// are taken directly, objects contribute their "url" key, and arrays are
// recursed into element by element.
func firstURL(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		if strings.TrimSpace(val) != "" {
			return val, true
		}
	case map[string]any:
		if s, ok := val["url"].(string); ok && strings.TrimSpace(s) != "" {
			return s, true
		}
	case []any:
		for _, item := range val {
			if url, ok := firstURL(item); ok {
				return url, true
			}
		}
	}
	return "", false
}

// Body extracts the primary rich text body: the value of the first
// richtext field, falling back to the well-known body keys, defaulting to
// the empty string (which renders nothing).
func Body(ct contenttype.ContentType, data map[string]any) string {
	for _, f := range ct.Fields {
		if f.Type != contenttype.FieldTypeRichText {
			continue
		}
		if s, ok := data[f.APIIdentifier].(string); ok && s != "" {
			return s
		}
	}
	for _, key := range bodyKeys {
		if s, ok := data[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// MediaURLs recursively collects every URL reachable inside a value, for
// gallery-style fields. Strings are collected as-is, arrays are flattened,
// and objects contribute their own "url" string and are then recursed into
// for nested URLs. The result is ordered by first occurrence and
// de-duplicated.
func MediaURLs(v any) []string {
	var urls []string
	seen := make(map[string]bool)
	collectURLs(v, &urls, seen)
	return urls
}

// collectURLs is the recursive worker for MediaURLs.
func collectURLs(v any, urls *[]string, seen map[string]bool) {
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		*urls = append(*urls, s)
	}

	switch val := v.(type) {
	case string:
		add(val)
	case []any:
		for _, item := range val {
			collectURLs(item, urls, seen)
		}
	case map[string]any:
		if s, ok := val["url"].(string); ok {
			add(s)
		}
		// Recurse into nested containers in key order so the result is
		// stable across runs despite map iteration being randomized.
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			switch val[k].(type) {
			case []any, map[string]any:
				collectURLs(val[k], urls, seen)
			}
		}
	}
}
