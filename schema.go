package bunlist

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/kartikbazzad/bunlist/storage"
)

// Schema describes the element type of a list: a name, an optional compiled
// JSON Schema used to validate values converted into objects, and the
// declared property names used to validate sort specifications.
type Schema struct {
	name       string
	raw        string
	compiled   *gojsonschema.Schema
	properties map[string]bool
}

func newSchema(name, raw string) (*Schema, error) {
	s := &Schema{name: name, raw: raw}
	if raw == "" {
		return s, nil
	}

	loader := gojsonschema.NewStringLoader(raw)
	compiled, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, fmt.Errorf("invalid json schema for %s: %w", name, err)
	}
	s.compiled = compiled
	s.properties = declaredProperties(raw)

	return s, nil
}

// declaredProperties collects the top-level property names of a JSON Schema
// document. A schema that declares none imposes no sort-property check.
func declaredProperties(raw string) map[string]bool {
	var doc struct {
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil || len(doc.Properties) == 0 {
		return nil
	}

	props := make(map[string]bool, len(doc.Properties))
	for p := range doc.Properties {
		props[p] = true
	}
	return props
}

// Name returns the schema name.
func (s *Schema) Name() string {
	return s.name
}

// HasProperty reports whether the schema declares the given property.
// Schemas without declared properties accept any name.
func (s *Schema) HasProperty(property string) bool {
	if s.properties == nil {
		return true
	}
	return s.properties[property] || property == storage.IDField
}

// validate checks an object against the schema.
func (s *Schema) validate(obj storage.Object) error {
	if s.compiled == nil {
		return nil
	}

	result, err := s.compiled.Validate(gojsonschema.NewGoLoader(obj))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return fmt.Errorf("value invalid against schema %s: %s", s.name, strings.Join(errs, "; "))
	}

	return nil
}
