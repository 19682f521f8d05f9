package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema/config.schema.json
var configSchemaJSON string

const configSchemaURL = "https://argolint.dev/schemas/config.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func configSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(configSchemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("failed to parse config schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(configSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("failed to add config schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(configSchemaURL)
	})
	return compiledSchema, compileErr
}

// schemaView is the JSON shape the schema describes. Durations are expressed
// in seconds.
type schemaView struct {
	Cache struct {
		Dir string `json:"dir"`
	} `json:"cache"`
	Tools struct {
		Git            string  `json:"git"`
		Helm           string  `json:"helm"`
		Kubectl        string  `json:"kubectl"`
		TimeoutSeconds float64 `json:"timeoutSeconds"`
	} `json:"tools"`
	DryRun struct {
		Mode    string `json:"mode"`
		Context string `json:"context"`
	} `json:"dryrun"`
	Output struct {
		Format string `json:"format"`
	} `json:"output"`
	Jobs int `json:"jobs"`
}

// Validate checks cfg against the embedded config schema.
func Validate(cfg *Config) error {
	schema, err := configSchema()
	if err != nil {
		return err
	}

	var view schemaView
	view.Cache.Dir = cfg.Cache.Dir
	view.Tools.Git = cfg.Tools.Git
	view.Tools.Helm = cfg.Tools.Helm
	view.Tools.Kubectl = cfg.Tools.Kubectl
	view.Tools.TimeoutSeconds = cfg.Tools.Timeout.Seconds()
	view.DryRun.Mode = cfg.DryRun.Mode
	view.DryRun.Context = cfg.DryRun.Context
	view.Output.Format = cfg.Output.Format
	view.Jobs = cfg.Jobs

	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to encode config for validation: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode config for validation: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		log.Printf("Config failed schema validation: %v", err)
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
