package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.yaml.in/yaml/v3"
)

//go:embed lookup-model.v1.schema.json
var embeddedSchema string

const embeddedSchemaURL = "lookup-model.v1.schema.json"

// Load returns the configuration at path, or the defaults when path is empty.
// Environment overrides are applied in both cases.
func Load(path, schemaPath string) (*Config, error) {
	var (
		cfg *Config
		err error
	)

	if path == "" {
		cfg = Default()
	} else {
		cfg, err = LoadAndValidate(path, schemaPath)
		if err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// LoadAndValidate loads and validates the configuration.
// An empty schemaPath validates against the embedded schema.
func LoadAndValidate(path, schemaPath string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read config: %w", err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: invalid YAML: %w", err)
	}

	schema, err := compileSchema(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("config: failed to compile schema: %w", err)
	}

	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal into Config struct: %w", err)
	}
	config.ApplyDefaults()

	return &config, nil
}

// compileSchema compiles the schema file at schemaPath, or the embedded one.
func compileSchema(schemaPath string) (*jsonschema.Schema, error) {
	if schemaPath != "" {
		return jsonschema.Compile(schemaPath)
	}

	return jsonschema.CompileString(embeddedSchemaURL, embeddedSchema)
}
