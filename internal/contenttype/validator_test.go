package contenttype

import (
	"strings"
	"testing"
)

func validDefinition() ContentType {
	return ContentType{
		APIIdentifier: "plan",
		DisplayName:   "Plan",
		Fields: []Field{
			{APIIdentifier: "title", Label: "Title", Type: FieldTypeText, Required: true},
			{APIIdentifier: "price", Label: "Price", Type: FieldTypeNumber},
		},
	}
}

func TestValidateDefinition_Valid(t *testing.T) {
	if err := ValidateDefinition(validDefinition()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateDefinition(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ContentType)
		wantMsg string
	}{
		{
			name:    "missing api identifier",
			mutate:  func(ct *ContentType) { ct.APIIdentifier = "" },
			wantMsg: "api_identifier is required",
		},
		{
			name:    "identifier starting with digit",
			mutate:  func(ct *ContentType) { ct.APIIdentifier = "7plan" },
			wantMsg: "must start with a letter",
		},
		{
			name:    "identifier with dash",
			mutate:  func(ct *ContentType) { ct.APIIdentifier = "travel-plan" },
			wantMsg: "must start with a letter",
		},
		{
			name:    "missing display name",
			mutate:  func(ct *ContentType) { ct.DisplayName = "" },
			wantMsg: "display_name is required",
		},
		{
			name: "reserved field identifier",
			mutate: func(ct *ContentType) {
				ct.Fields[0].APIIdentifier = "created_at"
			},
			wantMsg: "is reserved",
		},
		{
			name: "reserved check is case-insensitive",
			mutate: func(ct *ContentType) {
				ct.Fields[0].APIIdentifier = "Status"
			},
			wantMsg: "is reserved",
		},
		{
			name: "duplicate field identifiers",
			mutate: func(ct *ContentType) {
				ct.Fields[1].APIIdentifier = "Title"
			},
			wantMsg: "duplicate field api_identifier",
		},
		{
			name: "unknown field type",
			mutate: func(ct *ContentType) {
				ct.Fields[0].Type = "hologram"
			},
			wantMsg: `unknown field type "hologram"`,
		},
		{
			name: "missing field label",
			mutate: func(ct *ContentType) {
				ct.Fields[0].Label = ""
			},
			wantMsg: "label is required",
		},
		{
			name: "too many fields",
			mutate: func(ct *ContentType) {
				for i := 0; i <= maxFieldsPerType; i++ {
					ct.Fields = append(ct.Fields, Field{
						APIIdentifier: "extra" + strings.Repeat("x", i%5) + string(rune('a'+i%26)),
						Label:         "Extra",
						Type:          FieldTypeText,
					})
				}
			},
			wantMsg: "at most 100 fields",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ct := validDefinition()
			tc.mutate(&ct)

			err := ValidateDefinition(ct)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("error %q does not contain %q", err, tc.wantMsg)
			}
		})
	}
}

func TestValidateDefinition_CollectsAllErrors(t *testing.T) {
	ct := ContentType{
		Fields: []Field{
			{APIIdentifier: "id", Type: "mystery"},
		},
	}

	err := ValidateDefinition(ct)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	for _, want := range []string{
		"api_identifier is required",
		"display_name is required",
		"is reserved",
		"label is required",
		"unknown field type",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("joined error missing %q:\n%v", want, err)
		}
	}
}
