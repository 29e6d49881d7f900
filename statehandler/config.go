package statehandler

import (
	"maps"
	"slices"
	"unicode"
	"unicode/utf8"

	shafterrors "github.com/amp-labs/stateshaft/errors"
)

// Config declares a machine for New.
type Config struct {
	// InitialState is registered with Handlers[InitialState] and made
	// current by Reset. It does not become current on construction.
	InitialState string
	// States lists states that are valid transition endpoints even when
	// they have no handler.
	States []string
	// Transitions are registered in order; names must be unique.
	Transitions []Transition
	// Handlers maps state names to their handlers. Every entry is registered.
	Handlers map[string]Handler
}

// Validate reports every problem in c at once. The returned error wraps
// errors.ErrInvalidConfig from this module's errors package and each
// individual sentinel.
func (c Config) Validate() error {
	var errs shafterrors.Collection

	if c.InitialState == "" {
		errs.Add(ErrInitialStateRequired)
	}

	seenStates := make(map[string]bool, len(c.States))

	for i, name := range c.States {
		if name == "" {
			errs.Addf("state %d: %w", i, ErrStateNameRequired)

			continue
		}

		if seenStates[name] {
			errs.Addf("state %d: %w: %s", i, ErrDuplicateState, name)
		}

		seenStates[name] = true
	}

	if _, ok := c.Handlers[""]; ok {
		errs.Addf("handlers: %w", ErrStateNameRequired)
	}

	known := c.knownStates()
	seenTransitions := make(map[string]bool, len(c.Transitions))

	for i, t := range c.Transitions {
		if t.Name == "" {
			errs.Addf("transition %d: %w", i, ErrTransitionNameRequired)
		} else if seenTransitions[t.Name] {
			errs.Addf("transition %d: %w: %s", i, ErrDuplicateTransition, t.Name)
		}

		seenTransitions[t.Name] = true

		if !known[t.From] {
			errs.Addf("transition %d (%s): %w: %q", i, t.Name, ErrTransitionFromNotFound, t.From)
		}

		if !known[t.To] {
			errs.Addf("transition %d (%s): %w: %q", i, t.Name, ErrTransitionToNotFound, t.To)
		}
	}

	return errs.Err()
}

// knownStates is the initial state, the listed states and every state with a handler.
func (c Config) knownStates() map[string]bool {
	known := make(map[string]bool, len(c.States)+len(c.Handlers)+1)

	if c.InitialState != "" {
		known[c.InitialState] = true
	}

	for _, name := range c.States {
		if name != "" {
			known[name] = true
		}
	}

	for name := range c.Handlers {
		if name != "" {
			known[name] = true
		}
	}

	return known
}

// New validates cfg and builds a machine from it. The initial state, every
// state in cfg.States and every state in cfg.Handlers is registered; states
// without a handler fail Run with ErrUndefinedStateHandler. No state is
// current until SetCurrentState, Reset or Fire.
func New(cfg Config, opts ...Option) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := NewMachine(opts...)
	m.initial = cfg.InitialState

	m.AddState(cfg.InitialState, cfg.Handlers[cfg.InitialState])

	for _, name := range cfg.States {
		m.AddState(name, cfg.Handlers[name])
	}

	names := slices.Collect(maps.Keys(cfg.Handlers))
	slices.Sort(names)

	for _, name := range names {
		m.AddState(name, cfg.Handlers[name])
	}

	for _, t := range cfg.Transitions {
		m.DefineTransition(t.Name, t.From, t.To)
	}

	return m, nil
}

// HandlerKey returns the method-style key for state: "on" followed by the
// state name with its first letter upper-cased ("idle" becomes "onIdle").
func HandlerKey(state string) string {
	r, size := utf8.DecodeRuneInString(state)
	if size == 0 {
		return "on"
	}

	return "on" + string(unicode.ToUpper(r)) + state[size:]
}

// HandlersFromMethods converts a map keyed by HandlerKey into a map keyed by
// state name, for each of states that has a method.
func HandlersFromMethods(methods map[string]Handler, states ...string) map[string]Handler {
	handlers := make(map[string]Handler, len(states))

	for _, state := range states {
		if h, ok := methods[HandlerKey(state)]; ok {
			handlers[state] = h
		}
	}

	return handlers
}
