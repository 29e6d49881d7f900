package eventdispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"

	shafterrors "github.com/amp-labs/stateshaft/errors"
	"gopkg.in/yaml.v3"
)

// DefinitionKind is the required value of the "kind" key in a YAML definition.
const DefinitionKind = "eventdispatch"

// Definition is the serializable form of a Config. Events name handlers
// that are looked up in a registry when the definition is bound:
//
//	kind: eventdispatch
//	initialState: start
//	states:
//	  - name: start
//	    events: {capture: startCapture, submit: startSubmit}
//	  - name: capturing
//	    events: {submit: submitCapture}
type Definition struct {
	Kind         string            `json:"kind"         yaml:"kind"`
	InitialState string            `json:"initialState" yaml:"initialState"`
	States       []StateDefinition `json:"states"       yaml:"states"`
}

// StateDefinition maps the events of one state to handler names.
type StateDefinition struct {
	Name   string            `json:"name"   yaml:"name"`
	Events map[string]string `json:"events" yaml:"events"`
}

// ParseDefinition decodes and structurally validates a YAML definition.
// Handler names are checked later, by Config.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&def); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if def.Kind != DefinitionKind {
		return nil, fmt.Errorf("%w: kind %q", ErrWrongDefinitionKind, def.Kind)
	}

	if err := def.skeleton().Validate(); err != nil {
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

// Config resolves every handler name through registry. All missing names
// are reported together.
func (d *Definition) Config(registry map[string]Handler) (Config, error) {
	var errs shafterrors.Collection

	cfg := Config{
		InitialState: d.InitialState,
		States:       make([]StateSpec, 0, len(d.States)),
	}

	for _, state := range d.States {
		table := make(EventTable, len(state.Events))

		for event, handlerName := range state.Events {
			handler, ok := registry[handlerName]
			if !ok || handler == nil {
				errs.Addf("state %q, event %q: %w: %q", state.Name, event, ErrHandlerNotFound, handlerName)

				continue
			}

			table[event] = handler
		}

		cfg.States = append(cfg.States, StateSpec{Name: state.Name, Handlers: table})
	}

	if err := errs.Err(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Build resolves handlers through registry and constructs the machine.
func (d *Definition) Build(registry map[string]Handler, opts ...Option) (*Machine, error) {
	cfg, err := d.Config(registry)
	if err != nil {
		return nil, err
	}

	return New(cfg, opts...)
}

// HandlerNames returns every handler name the definition refers to, once
// each, sorted.
func (d *Definition) HandlerNames() []string {
	seen := make(map[string]bool)

	var names []string

	for _, state := range d.States {
		for _, name := range state.Events {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	slices.Sort(names)

	return names
}

// skeleton is the definition as a Config whose handlers are placeholders,
// so structural problems can be found before a registry is available.
func (d *Definition) skeleton() Config {
	placeholder := func(context.Context) error { return nil }

	cfg := Config{InitialState: d.InitialState}

	for _, state := range d.States {
		table := make(EventTable, len(state.Events))
		for event := range state.Events {
			table[event] = placeholder
		}

		cfg.States = append(cfg.States, StateSpec{Name: state.Name, Handlers: table})
	}

	return cfg
}
