package statehandler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefinitionKind is the value of the optional "kind" key in a YAML definition.
const DefinitionKind = "statehandler"

// Definition is the handler-free, serializable part of a Config:
//
//	kind: statehandler
//	initialState: idle
//	states: [idle, eating, stopped]
//	transitions:
//	  - {name: rumble, from: idle, to: eating}
//	  - {name: stop, from: eating, to: stopped}
type Definition struct {
	Kind         string       `json:"kind,omitempty" yaml:"kind,omitempty"`
	InitialState string       `json:"initialState"   yaml:"initialState"`
	States       []string     `json:"states"         yaml:"states"`
	Transitions  []Transition `json:"transitions"    yaml:"transitions"`
}

// ParseDefinition decodes and validates a YAML definition. Unknown keys are rejected.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&def); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if def.Kind != "" && def.Kind != DefinitionKind {
		return nil, fmt.Errorf("%w: kind %q", ErrWrongDefinitionKind, def.Kind)
	}

	if err := def.Config(nil).Validate(); err != nil {
		return nil, err
	}

	return &def, nil
}

// LoadDefinition reads and parses the YAML definition at path.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Intentional path-based loading
	if err != nil {
		return nil, fmt.Errorf("failed to read definition %q: %w", path, err)
	}

	return ParseDefinition(data)
}

// LoadDefinitionFS reads and parses a YAML definition from fsys, such as an embed.FS.
func LoadDefinitionFS(fsys fs.FS, path string) (*Definition, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition %q from FS: %w", path, err)
	}

	return ParseDefinition(data)
}

// Config binds handlers, keyed by state name, to the definition.
func (d *Definition) Config(handlers map[string]Handler) Config {
	return Config{
		InitialState: d.InitialState,
		States:       d.States,
		Transitions:  d.Transitions,
		Handlers:     handlers,
	}
}

// Build binds handlers and constructs the machine.
func (d *Definition) Build(handlers map[string]Handler, opts ...Option) (*Machine, error) {
	return New(d.Config(handlers), opts...)
}
