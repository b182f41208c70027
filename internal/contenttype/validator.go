package contenttype

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// identifierPattern matches valid api identifiers: a letter followed by
// letters, digits, or underscores. Both snake_case and camelCase are
// accepted because entry data keys face the JSON API, not SQL columns.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// reservedIdentifiers are value-map keys that collide with the system
// columns every entry response carries. User-defined fields must not
// shadow them.
var reservedIdentifiers = map[string]bool{
	"id":           true,
	"status":       true,
	"created_at":   true,
	"updated_at":   true,
	"published_at": true,
	"created_by":   true,
	"updated_by":   true,
}

// maxFieldsPerType bounds the number of fields a single content type may
// declare, keeping form rendering and validation cheap.
const maxFieldsPerType = 100

// ValidateDefinition validates a content type definition before it is
// persisted. It returns a multi-error listing ALL problems found, or nil
// if the definition is valid.
func ValidateDefinition(ct ContentType) error {
	var errs []error

	if ct.APIIdentifier == "" {
		errs = append(errs, errors.New("content type: api_identifier is required"))
	} else if !identifierPattern.MatchString(ct.APIIdentifier) {
		errs = append(errs, fmt.Errorf("content type %q: api_identifier must start with a letter and contain only letters, digits, and underscores", ct.APIIdentifier))
	}

	if ct.DisplayName == "" {
		errs = append(errs, fmt.Errorf("content type %q: display_name is required", ct.APIIdentifier))
	}

	if len(ct.Fields) > maxFieldsPerType {
		errs = append(errs, fmt.Errorf("content type %q: at most %d fields allowed, got %d", ct.APIIdentifier, maxFieldsPerType, len(ct.Fields)))
	}

	seen := make(map[string]bool, len(ct.Fields))
	for i, f := range ct.Fields {
		errs = append(errs, validateFieldDefinition(ct.APIIdentifier, i, f)...)

		key := strings.ToLower(f.APIIdentifier)
		if seen[key] {
			errs = append(errs, fmt.Errorf("content type %q: duplicate field api_identifier %q", ct.APIIdentifier, f.APIIdentifier))
		}
		seen[key] = true
	}

	return errors.Join(errs...)
}

// validateFieldDefinition validates a single field descriptor.
func validateFieldDefinition(ctName string, index int, f Field) []error {
	var errs []error

	where := fmt.Sprintf("content type %q, field %d", ctName, index)

	if f.APIIdentifier == "" {
		errs = append(errs, fmt.Errorf("%s: api_identifier is required", where))
	} else {
		if !identifierPattern.MatchString(f.APIIdentifier) {
			errs = append(errs, fmt.Errorf("%s: api_identifier %q must start with a letter and contain only letters, digits, and underscores", where, f.APIIdentifier))
		}
		if reservedIdentifiers[strings.ToLower(f.APIIdentifier)] {
			errs = append(errs, fmt.Errorf("%s: api_identifier %q is reserved", where, f.APIIdentifier))
		}
	}

	if f.Label == "" {
		errs = append(errs, fmt.Errorf("%s: label is required", where))
	}

	if !f.Type.Known() {
		errs = append(errs, fmt.Errorf("%s: unknown field type %q", where, f.Type))
	}

	return errs
}
