// Package entry implements content entry storage and the dynamic-typing
// bridge of the Rumbo CMS: validation schemas generated from field
// descriptors, type-appropriate default values, and CRUD over a schema-less
// JSONB value map. Data is schema-full only at the moment of editing;
// at rest it is opaque JSON that every read path must tolerate.
package entry

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rumbo-cms/rumbo/internal/contenttype"
	"github.com/rumbo-cms/rumbo/internal/server"
)

// ValueMap is the JSON object mapping field api identifiers to stored
// values for one entry.
type ValueMap map[string]any

// dateFormats are the accepted layouts for date field values, tried in
// order. The first covers plain dates, the rest datetime-local and full
// timestamp strings produced by editing widgets.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	time.RFC3339,
}

// Schema is a runtime validation schema generated from an ordered field
// descriptor list. Generating a schema twice from the same descriptors
// yields identical pass/fail behavior.
type Schema struct {
	rules []fieldRule
}

// fieldRule is the per-field validator. Kind is the field's type normalized
// so that unknown type tags validate as text: dispatch is total and never
// rejects a definition at validation time.
type fieldRule struct {
	field contenttype.Field
	kind  contenttype.FieldType
}

// GenerateSchema maps an ordered list of field descriptors to a validation
// schema with one rule per field.
func GenerateSchema(fields []contenttype.Field) Schema {
	rules := make([]fieldRule, len(fields))
	for i, f := range fields {
		kind := f.Type
		if !kind.Known() {
			kind = contenttype.FieldTypeText
		}
		rules[i] = fieldRule{field: f, kind: kind}
	}
	return Schema{rules: rules}
}

// Validate checks a value map against the schema, returning one error per
// offending field. All errors are collected rather than short-circuiting on
// the first. Keys in data without a matching field descriptor are ignored:
// orphaned values from removed fields are tolerated, never rejected.
func (s Schema) Validate(data ValueMap) []server.FieldError {
	var errs []server.FieldError

	for _, r := range s.rules {
		val, present := data[r.field.APIIdentifier]
		if !present || val == nil {
			if r.field.Required && r.kind != contenttype.FieldTypeBoolean {
				errs = append(errs, requiredError(r.field))
			}
			continue
		}
		errs = append(errs, r.validate(val)...)
	}

	return errs
}

// validate checks a single present, non-nil value against the rule.
func (r fieldRule) validate(val any) []server.FieldError {
	f := r.field

	switch r.kind {
	case contenttype.FieldTypeNumber:
		n, ok := toFloat64(val)
		if !ok {
			return []server.FieldError{fieldError(f, "%s must be a number")}
		}
		// A required number means "must be at least 0". Whether "required"
		// should instead mean "any numeric value, including negative" is an
		// open product question; this matches the shipped behavior.
		if f.Required && n < 0 {
			return []server.FieldError{fieldError(f, "%s must be at least 0")}
		}

	case contenttype.FieldTypeBoolean:
		if _, ok := val.(bool); !ok {
			return []server.FieldError{fieldError(f, "%s must be a boolean")}
		}
		// false is a valid value; required never blocks it.

	case contenttype.FieldTypeDate:
		s, ok := val.(string)
		if !ok {
			return []server.FieldError{fieldError(f, "%s must be a date string")}
		}
		if s == "" {
			if f.Required {
				return []server.FieldError{requiredError(f)}
			}
			return nil
		}
		if !parsesAsDate(s) {
			return []server.FieldError{fieldError(f, "%s must be a valid date")}
		}

	default:
		// text, richtext, media, and unknown types all validate as strings.
		s, ok := val.(string)
		if !ok {
			return []server.FieldError{fieldError(f, "%s must be a string")}
		}
		if f.Required && s == "" {
			return []server.FieldError{requiredError(f)}
		}
	}

	return nil
}

// parsesAsDate reports whether s matches any accepted date layout.
func parsesAsDate(s string) bool {
	for _, layout := range dateFormats {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// fieldError builds a FieldError whose message references the field's
// human-readable label.
func fieldError(f contenttype.Field, format string) server.FieldError {
	return server.FieldError{
		Field:   f.APIIdentifier,
		Message: fmt.Sprintf(format, f.Label),
	}
}

// requiredError is the error for a missing or empty required field.
func requiredError(f contenttype.Field) server.FieldError {
	return fieldError(f, "%s is required")
}

// toFloat64 converts a value to float64, handling the number types JSON
// decoding can produce.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
