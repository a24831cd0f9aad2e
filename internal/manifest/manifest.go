// Package manifest loads a declarative YAML document naming which
// registered step constructors to assemble into a workflow run. It is a
// thin convenience loader for the CLI and MCP server, and is deliberately
// not a step-composition DSL: branching, conditions and per-step
// on_success/on_failure wiring stay out of scope, matching the fluent
// builder this package stands in for at the edges of the repo.
package manifest

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"txinstall/internal/workflow"
)

// Manifest is the parsed form of a manifest YAML document.
type Manifest struct {
	Name    string
	Options workflow.WorkflowOptions
	Steps   []workflow.ConfiguredStep
}

// rawManifest mirrors the YAML shape with string durations, parsed into
// time.Duration fields once unmarshalled.
type rawManifest struct {
	Name    string            `yaml:"name"`
	Options rawOptions        `yaml:"options"`
	Steps   []rawStep         `yaml:"steps"`
}

type rawOptions struct {
	RollbackOnFailure    *bool  `yaml:"rollbackOnFailure"`
	ValidateFirst        *bool  `yaml:"validateFirst"`
	Deadline             string `yaml:"deadline"`
	RequireAdministrator *bool  `yaml:"requireAdministrator"`
}

type rawStep struct {
	Type            string         `yaml:"type"`
	Name            string         `yaml:"name"`
	ContinueOnError bool           `yaml:"continueOnError"`
	Timeout         string         `yaml:"timeout"`
	Retries         int            `yaml:"retries"`
	Params          map[string]any `yaml:"params"`
}

// LoadFile reads and parses a manifest from path, resolving each step
// against registry. base, if given, seeds the options a manifest's own
// options section may then override; omitted, workflow.DefaultWorkflowOptions
// is the seed.
func LoadFile(path string, registry *Registry, base ...workflow.WorkflowOptions) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Load(data, registry, base...)
}

// Load parses manifest YAML bytes, resolving each step against registry.
// base, if given, seeds the options a manifest's own options section may
// then override; this is how operator-level config (internal/config)
// supplies defaults without a manifest author needing to repeat them.
func Load(data []byte, registry *Registry, base ...workflow.WorkflowOptions) (*Manifest, error) {
	var raw rawManifest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse manifest YAML: %w", err)
	}

	options := workflow.DefaultWorkflowOptions()
	if len(base) > 0 {
		options = base[0]
	}
	if raw.Options.RollbackOnFailure != nil {
		options.RollbackOnFailure = *raw.Options.RollbackOnFailure
	}
	if raw.Options.ValidateFirst != nil {
		options.ValidateFirst = *raw.Options.ValidateFirst
	}
	if raw.Options.Deadline != "" {
		d, err := time.ParseDuration(raw.Options.Deadline)
		if err != nil {
			return nil, fmt.Errorf("parse options.deadline: %w", err)
		}
		options.Deadline = d
	}
	if raw.Options.RequireAdministrator != nil {
		options.RequireAdministrator = *raw.Options.RequireAdministrator
	}

	if len(raw.Steps) == 0 {
		return nil, fmt.Errorf("manifest %q defines no steps", raw.Name)
	}

	steps := make([]workflow.ConfiguredStep, 0, len(raw.Steps))
	for i, rs := range raw.Steps {
		if rs.Type == "" {
			return nil, fmt.Errorf("step %d: missing type", i)
		}
		ctor, err := registry.Get(rs.Type)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		step, err := ctor(rs.Params)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, rs.Type, err)
		}

		policy := workflow.DefaultPolicy()
		policy.NameOverride = rs.Name
		policy.ContinueOnError = rs.ContinueOnError
		policy.Retries = rs.Retries
		if rs.Timeout != "" {
			d, err := time.ParseDuration(rs.Timeout)
			if err != nil {
				return nil, fmt.Errorf("step %d: parse timeout: %w", i, err)
			}
			policy.Timeout = d
		}
		steps = append(steps, workflow.NewConfiguredStep(step, policy))
	}

	return &Manifest{Name: raw.Name, Options: options, Steps: steps}, nil
}
