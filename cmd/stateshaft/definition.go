package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/amp-labs/stateshaft/eventdispatch"
	"github.com/amp-labs/stateshaft/statehandler"
	"gopkg.in/yaml.v3"
)

var errWalkNeedsStateHandler = errors.New("walk only supports statehandler definitions")

// definition holds exactly one of the two definition kinds.
type definition struct {
	stateHandler  *statehandler.Definition
	eventDispatch *eventdispatch.Definition
}

func loadDefinition(path string) (*definition, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read definition %q: %w", path, err)
	}

	return parseDefinition(data)
}

func parseDefinition(data []byte) (*definition, error) {
	var header struct {
		Kind string `yaml:"kind"`
	}

	if err := yaml.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if header.Kind == eventdispatch.DefinitionKind {
		def, err := eventdispatch.ParseDefinition(data)
		if err != nil {
			return nil, err
		}

		return &definition{eventDispatch: def}, nil
	}

	def, err := statehandler.ParseDefinition(data)
	if err != nil {
		return nil, err
	}

	return &definition{stateHandler: def}, nil
}

func (d *definition) kind() string {
	if d.eventDispatch != nil {
		return eventdispatch.DefinitionKind
	}

	return statehandler.DefinitionKind
}

func (d *definition) describe(out io.Writer) error {
	if d.eventDispatch != nil {
		return describeEventDispatch(out, d.eventDispatch)
	}

	return describeStateHandler(out, d.stateHandler)
}

func describeStateHandler(out io.Writer, def *statehandler.Definition) error {
	m, err := def.Build(nil)
	if err != nil {
		return err
	}

	var b strings.Builder

	fmt.Fprintf(&b, "kind: %s\n", statehandler.DefinitionKind)
	fmt.Fprintf(&b, "initial state: %s\n", def.InitialState)
	b.WriteString("states:\n")

	for _, state := range m.States() {
		fmt.Fprintf(&b, "  %s\n", state)
	}

	b.WriteString("transitions:\n")

	for _, t := range m.Transitions() {
		fmt.Fprintf(&b, "  %s: %s -> %s\n", t.Name, t.From, t.To)
	}

	_, err = io.WriteString(out, b.String())

	return err
}

func describeEventDispatch(out io.Writer, def *eventdispatch.Definition) error {
	registry := make(map[string]eventdispatch.Handler)
	for _, name := range def.HandlerNames() {
		registry[name] = func(context.Context) error { return nil }
	}

	m, err := def.Build(registry)
	if err != nil {
		return err
	}

	handlerNames := make(map[string]map[string]string, len(def.States))
	for _, s := range def.States {
		handlerNames[s.Name] = s.Events
	}

	var b strings.Builder

	fmt.Fprintf(&b, "kind: %s\n", eventdispatch.DefinitionKind)
	fmt.Fprintf(&b, "initial state: %s\n", def.InitialState)
	b.WriteString("states:\n")

	for _, state := range m.States() {
		fmt.Fprintf(&b, "  %s\n", state)

		for _, event := range m.Events(state) {
			fmt.Fprintf(&b, "    %s -> %s\n", event, handlerNames[state][event])
		}
	}

	_, err = io.WriteString(out, b.String())

	return err
}
