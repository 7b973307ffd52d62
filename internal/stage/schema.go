// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package stage

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// SchemaID is the $id of the scenario schema, for editor integration.
const SchemaID = "https://hearth.dev/schemas/scenario.schema.json"

var compiledSchema = sync.OnceValues(func() (*jschema.Schema, error) {
	schemaBytes, err := GenerateSchema()
	if err != nil {
		return nil, err
	}

	var schemaData any
	if err := json.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, oops.Wrapf(err, "parse scenario schema")
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("scenario.json", schemaData); err != nil {
		return nil, oops.Wrapf(err, "add scenario schema resource")
	}
	sch, err := c.Compile("scenario.json")
	if err != nil {
		return nil, oops.Wrapf(err, "compile scenario schema")
	}
	return sch, nil
})

// GenerateSchema generates the JSON Schema of a scenario file.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := r.Reflect(&Scenario{})

	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "Hearth Scenario"
	schema.Description = "Schema for scenario files: bounds, locations and actors"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.Wrapf(err, "marshal scenario schema")
	}
	return data, nil
}

// ValidateSchema validates YAML data against the scenario schema.
func ValidateSchema(data []byte) error {
	if len(data) == 0 {
		return ErrInvalid("scenario data is empty")
	}

	var yamlData any
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return ErrInvalid("invalid YAML: " + err.Error())
	}

	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(convertToJSONTypes(yamlData)); err != nil {
		return ErrInvalid("schema validation failed: " + FormatSchemaError(err))
	}
	return nil
}

// convertToJSONTypes converts YAML-parsed data to the types the validator
// understands. yaml.v3 decodes integers as int and timestamps as time.Time.
func convertToJSONTypes(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[k] = convertToJSONTypes(v)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v := range val {
			result[i] = convertToJSONTypes(v)
		}
		return result
	case string, int, int64, float64, bool, nil:
		return val
	default:
		if b, err := json.Marshal(val); err == nil {
			var result any
			if err := json.Unmarshal(b, &result); err == nil {
				return result
			}
		}
		return val
	}
}

// FormatSchemaError flattens a validation error to one line.
func FormatSchemaError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	msg = strings.TrimPrefix(msg, "schema validation failed: ")
	return strings.Join(strings.Fields(msg), " ")
}
