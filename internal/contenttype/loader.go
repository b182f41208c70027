package contenttype

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// LoadTemplates reads all *.yaml and *.yml files from the given directory
// and parses each into a ContentType definition. Templates are the shipped
// starting-point schemas (travel plans, experiences); the service seeds any
// that are missing from the database at startup.
//
// An empty directory returns an empty slice with no error. A missing
// directory returns an error.
func LoadTemplates(dir string) ([]ContentType, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading template directory %q: %w", dir, err)
	}

	var templates []ContentType

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		ct, err := loadTemplateFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading template file %q: %w", entry.Name(), err)
		}

		if err := ValidateDefinition(ct); err != nil {
			return nil, fmt.Errorf("invalid template %q: %w", entry.Name(), err)
		}

		templates = append(templates, ct)
	}

	sort.Slice(templates, func(i, j int) bool {
		return templates[i].APIIdentifier < templates[j].APIIdentifier
	})

	return templates, nil
}

// loadTemplateFile reads a single YAML file and parses it into a ContentType.
// The decoder uses KnownFields(true) so that misspelled keys (e.g. "requred"
// instead of "required") cause a parse error instead of being silently
// ignored.
func loadTemplateFile(path string) (ContentType, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ContentType{}, fmt.Errorf("reading file: %w", err)
	}

	var ct ContentType
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ct); err != nil {
		return ContentType{}, fmt.Errorf("parsing YAML: %w", err)
	}

	for i := range ct.Fields {
		ct.Fields[i].Position = i
	}

	return ct, nil
}
