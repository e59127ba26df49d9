package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed settings.schema.json
var schemaJSON []byte

const schemaURL = "settings.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft7
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// ValidateDocument checks doc against the embedded settings schema.
func ValidateDocument(doc Document) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("settings schema: %w", err)
	}
	// The validator wants plain JSON values, so round-trip through encoding/json.
	raw, err := json.Marshal(map[string]any(doc))
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}
