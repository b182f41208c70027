package entry

import "github.com/rumbo-cms/rumbo/internal/contenttype"

// Defaults produces an initial value map for the given field descriptors.
// Values already present in existing are carried over verbatim, with no
// type coercion: prior storage is trusted. Every other field receives a
// type-appropriate empty value, so the result always has a defined value
// for every descriptor and the editing layer never sees a missing key.
//
// Keys in existing without a matching descriptor (orphans from removed
// fields) are preserved untouched.
func Defaults(fields []contenttype.Field, existing ValueMap) ValueMap {
	out := make(ValueMap, len(fields)+len(existing))

	for k, v := range existing {
		if v != nil {
			out[k] = v
		}
	}

	for _, f := range fields {
		if _, ok := out[f.APIIdentifier]; ok {
			continue
		}
		out[f.APIIdentifier] = emptyValue(f.Type)
	}

	return out
}

// emptyValue returns the zero value appropriate for a field type. Unknown
// types default to the empty string, matching their text fallback
// everywhere else.
func emptyValue(t contenttype.FieldType) any {
	switch t {
	case contenttype.FieldTypeNumber:
		return 0.0
	case contenttype.FieldTypeBoolean:
		return false
	default:
		return ""
	}
}
