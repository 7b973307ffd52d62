// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearth Contributors

package decision

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaBaseID prefixes the $id of the generated payload schemas.
const SchemaBaseID = "https://hearth.dev/schemas/decision/"

type schemaFunc func() (*jschema.Schema, error)

var (
	thinkSchema       = sync.OnceValues(func() (*jschema.Schema, error) { return compileSchema("think", &thinkResponse{}) })
	interactionSchema = sync.OnceValues(func() (*jschema.Schema, error) { return compileSchema("interaction", &interactionResponse{}) })
)

// generateSchema reflects v into a JSON schema. Unknown properties are
// allowed: the service adds fields the engine does not use.
func generateSchema(name string, v any) ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: true,
	}
	schema := r.Reflect(v)
	schema.ID = jsonschema.ID(SchemaBaseID + name + ".schema.json")

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}

// ThinkResponseSchema returns the JSON schema decision replies must satisfy.
func ThinkResponseSchema() ([]byte, error) {
	return generateSchema("think", &thinkResponse{})
}

// InteractionResponseSchema returns the JSON schema dialogue replies must satisfy.
func InteractionResponseSchema() ([]byte, error) {
	return generateSchema("interaction", &interactionResponse{})
}

func compileSchema(name string, v any) (*jschema.Schema, error) {
	schemaBytes, err := generateSchema(name, v)
	if err != nil {
		return nil, err
	}

	var schemaData any
	if err := json.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}

	url := SchemaBaseID + name + ".schema.json"
	c := jschema.NewCompiler()
	if err := c.AddResource(url, schemaData); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return sch, nil
}

// validatePayload checks body against the compiled schema and decodes it into out.
func validatePayload(sch schemaFunc, body []byte, out any) error {
	compiled, err := sch()
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := compiled.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
