package generation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const itemSchemaSource = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "section": {"type": ["string", "null"]},
    "name": {"type": ["string", "null"]},
    "display_name": {"type": ["string", "null"]},
    "reference": {"type": ["string", "null"]},
    "type": {"type": ["string", "null"]},
    "value": {"type": ["string", "number", "boolean", "null"]}
  },
  "required": ["value"],
  "anyOf": [
    {"required": ["name"], "properties": {"name": {"type": "string", "minLength": 1}}},
    {"required": ["reference"], "properties": {"reference": {"type": "string", "minLength": 1}}}
  ]
}`

var (
	itemSchemaOnce sync.Once
	itemSchema     *jsonschema.Schema
	itemSchemaErr  error
)

func compiledItemSchema() (*jsonschema.Schema, error) {
	itemSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("generation-item.json", strings.NewReader(itemSchemaSource)); err != nil {
			itemSchemaErr = err
			return
		}
		itemSchema, itemSchemaErr = compiler.Compile("generation-item.json")
	})
	return itemSchema, itemSchemaErr
}

// validateItem checks one raw result item against the item schema.
func validateItem(raw any) error {
	schema, err := compiledItemSchema()
	if err != nil {
		return fmt.Errorf("generation: compile item schema: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		if verr, ok := err.(*jsonschema.ValidationError); ok {
			return fmt.Errorf("invalid item at %s: %s", firstLocation(verr), verr.Message)
		}
		return err
	}
	return nil
}

func firstLocation(err *jsonschema.ValidationError) string {
	for err != nil && len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	if err == nil || err.InstanceLocation == "" {
		return "/"
	}
	return err.InstanceLocation
}
