package config

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// Schema is the JSON schema a config file must satisfy.
var Schema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"base_premium": map[string]any{
			"type":             "number",
			"exclusiveMinimum": 0,
		},
		"drop_rate": map[string]any{
			"type":    "number",
			"minimum": 0,
			"maximum": 1,
		},
		"pace": map[string]any{
			"type":    "string",
			"pattern": `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`,
		},
		"cluster_seed": map[string]any{
			"type":    "integer",
			"minimum": 0,
		},
		"drop_seed": map[string]any{
			"type":    "integer",
			"minimum": 0,
		},
		"log_level": map[string]any{
			"type": "string",
			"enum": []any{"debug", "info", "warn", "error"},
		},
		"redact_identity": map[string]any{
			"type": "boolean",
		},
	},
}

const schemaURL = "schema://driverisk-config.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants plain decoded JSON values.
		def, err := toJSONValue(Schema)
		if err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// validateDocument checks raw YAML against Schema. An empty document is valid.
func validateDocument(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if doc == nil {
		return nil
	}
	v, err := toJSONValue(doc)
	if err != nil {
		return fmt.Errorf("convert yaml: %w", err)
	}

	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
