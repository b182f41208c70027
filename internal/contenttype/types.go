// Package contenttype defines user-managed content type schemas for the
// Rumbo CMS: named, ordered lists of typed field descriptors that drive
// validation, form rendering, and display extraction for content entries.
package contenttype

import "time"

// FieldType represents the type of a content field.
type FieldType string

// Supported field types. Unknown type tags are never rejected at read time;
// every consumer falls back to text behavior so that stored definitions from
// older versions keep working.
const (
	FieldTypeText     FieldType = "text"
	FieldTypeRichText FieldType = "richtext"
	FieldTypeNumber   FieldType = "number"
	FieldTypeBoolean  FieldType = "boolean"
	FieldTypeDate     FieldType = "date"
	FieldTypeMedia    FieldType = "media"
)

// validFieldTypes is the set of all supported field types, used when
// validating definitions at write time.
var validFieldTypes = map[FieldType]bool{
	FieldTypeText:     true,
	FieldTypeRichText: true,
	FieldTypeNumber:   true,
	FieldTypeBoolean:  true,
	FieldTypeDate:     true,
	FieldTypeMedia:    true,
}

// Known reports whether t is one of the supported field types.
func (t FieldType) Known() bool {
	return validFieldTypes[t]
}

// Field describes a single user-defined field within a content type.
type Field struct {
	// ID is the opaque field identifier, immutable once created.
	ID string `yaml:"-" json:"id"`

	// APIIdentifier is the key used inside an entry's value map. It is
	// unique within a content type and stable: renaming it orphans the
	// values already stored under the old key.
	APIIdentifier string `yaml:"api_identifier" json:"api_identifier"`

	// Label is the human-readable display name shown in the admin UI.
	Label string `yaml:"label" json:"label"`

	// Type determines validation rules, the editing widget, and display
	// formatting. Immutable once the content type has entries.
	Type FieldType `yaml:"type" json:"type"`

	// Required indicates the field must carry a value at write time. It is
	// never enforced retroactively against existing entries.
	Required bool `yaml:"required" json:"required"`

	// Position is the zero-based order of the field within its content
	// type. Order matters: the title heuristic prefers earlier fields.
	Position int `yaml:"-" json:"position"`
}

// ContentType represents a user-defined content type with its ordered fields.
type ContentType struct {
	// ID is the opaque content type identifier.
	ID string `yaml:"-" json:"id"`

	// APIIdentifier is the routing and namespace key (URL segment).
	APIIdentifier string `yaml:"api_identifier" json:"api_identifier"`

	// DisplayName is the human-readable name shown in the admin UI and
	// used for the "Untitled <name>" placeholder.
	DisplayName string `yaml:"display_name" json:"display_name"`

	// PublicRead indicates whether published entries are visible on the
	// public API and site routes.
	PublicRead bool `yaml:"public_read" json:"public_read"`

	// Fields is the ordered list of field descriptors.
	Fields []Field `yaml:"fields" json:"fields"`

	CreatedAt time.Time `yaml:"-" json:"created_at"`
	UpdatedAt time.Time `yaml:"-" json:"updated_at"`
}

// FieldByIdentifier returns the field with the given api identifier, if any.
func (ct ContentType) FieldByIdentifier(apiID string) (Field, bool) {
	for _, f := range ct.Fields {
		if f.APIIdentifier == apiID {
			return f, true
		}
	}
	return Field{}, false
}
