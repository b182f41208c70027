package render

import (
	"github.com/rumbo-cms/rumbo/internal/contenttype"
	"github.com/rumbo-cms/rumbo/internal/entry"
)

// Form is the full editing form specification for one entry: one widget
// per field descriptor, in schema order, each with a defined value.
type Form struct {
	ContentType string   `json:"content_type"`
	Widgets     []Widget `json:"widgets"`
}

// BuildForm produces the form specification for editing an entry of the
// given content type. existing may be nil (a fresh entry); either way the
// defaults layer guarantees every widget carries a defined value.
func BuildForm(ct contenttype.ContentType, existing entry.ValueMap) Form {
	values := entry.Defaults(ct.Fields, existing)

	widgets := make([]Widget, len(ct.Fields))
	for i, f := range ct.Fields {
		widgets[i] = RenderField(f, values[f.APIIdentifier])
	}

	return Form{
		ContentType: ct.APIIdentifier,
		Widgets:     widgets,
	}
}

// FormState is the in-memory editing model behind a form: the field
// descriptors and the evolving value map. Widget change handlers call Set
// synchronously; there is no debouncing at this layer.
type FormState struct {
	fields []contenttype.Field
	values entry.ValueMap
}

// NewFormState creates an editing state with defaults filled in.
func NewFormState(fields []contenttype.Field, existing entry.ValueMap) *FormState {
	return &FormState{
		fields: fields,
		values: entry.Defaults(fields, existing),
	}
}

// Set applies one widget change: the raw input is normalized for the
// field's type and stored under its api identifier. Changes for unknown
// identifiers are stored as raw strings, mirroring the text-widget
// fallback for unknown field types.
func (s *FormState) Set(apiID string, raw any) {
	for _, f := range s.fields {
		if f.APIIdentifier == apiID {
			s.values[apiID] = Normalize(f, raw)
			return
		}
	}
	s.values[apiID] = normalizeString(raw)
}

// Values returns the current value map.
func (s *FormState) Values() entry.ValueMap {
	return s.values
}
