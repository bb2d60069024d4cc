// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PanicPal Contributors

package catalog

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/gen-schema -o ../../schemas/catalog.schema.json

// SchemaID is the $id of the catalog file schema.
const SchemaID = "https://panicpal.dev/schemas/catalog.schema.json"

var (
	schemaOnce sync.Once
	schemaErr  error
	compiled   *jschema.Schema
)

// GenerateSchema generates a JSON Schema from the File struct.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := r.Reflect(&File{})

	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "PanicPal Resource Catalog"
	schema.Description = "Schema for catalog.yaml resource files"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.Wrapf(err, "marshal schema")
	}
	return data, nil
}

// ValidateSchema validates YAML data against the catalog JSON Schema.
func ValidateSchema(data []byte) error {
	if len(data) == 0 {
		return oops.Code(CodeInvalid).Errorf("catalog data is empty")
	}

	var yamlData any
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return oops.Code(CodeInvalid).Wrapf(err, "invalid YAML")
	}

	sch, err := compiledSchema()
	if err != nil {
		return oops.Wrapf(err, "compile schema")
	}

	if err := sch.Validate(convertToJSONTypes(yamlData)); err != nil {
		return oops.Code(CodeInvalid).Wrapf(err, "schema validation failed")
	}
	return nil
}

func compiledSchema() (*jschema.Schema, error) {
	schemaOnce.Do(func() {
		compiled, schemaErr = compileSchema()
	})
	return compiled, schemaErr
}

func compileSchema() (*jschema.Schema, error) {
	schemaBytes, err := GenerateSchema()
	if err != nil {
		return nil, err
	}

	var schemaData any
	if err := json.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, oops.Wrapf(err, "parse schema JSON")
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("catalog.schema.json", schemaData); err != nil {
		return nil, oops.Wrapf(err, "add schema resource")
	}
	sch, err := c.Compile("catalog.schema.json")
	if err != nil {
		return nil, oops.Wrapf(err, "compile schema")
	}
	return sch, nil
}

// convertToJSONTypes converts YAML-decoded values into the types the
// validator expects. Scalars that JSON cannot hold are round-tripped.
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

// FormatSchemaError returns the message of a validation error without
// its wrapping prefix.
func FormatSchemaError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.Index(msg, "schema validation failed: "); i >= 0 {
		msg = msg[i+len("schema validation failed: "):]
	}
	return msg
}
