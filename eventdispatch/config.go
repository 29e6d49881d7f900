package eventdispatch

import (
	shafterrors "github.com/amp-labs/stateshaft/errors"
)

// StateSpec declares one state and its event table.
type StateSpec struct {
	Name     string
	Handlers EventTable
}

// Config declares a machine for New.
type Config struct {
	// InitialState becomes current once every state is registered.
	InitialState string
	States       []StateSpec
}

// Validate reports every problem in c at once. The returned error wraps
// errors.ErrInvalidConfig from this module's errors package and each
// individual sentinel.
func (c Config) Validate() error {
	var errs shafterrors.Collection

	if c.InitialState == "" {
		errs.Add(ErrInitialStateRequired)
	}

	seen := make(map[string]bool, len(c.States))

	for i, spec := range c.States {
		if spec.Name == "" {
			errs.Addf("state %d: %w", i, ErrStateNameRequired)
		} else if seen[spec.Name] {
			errs.Addf("state %d: %w: %s", i, ErrDuplicateState, spec.Name)
		}

		seen[spec.Name] = true

		for event, handler := range spec.Handlers {
			if event == "" {
				errs.Addf("state %q: %w", spec.Name, ErrEventNameRequired)
			}

			if handler == nil {
				errs.Addf("state %q, event %q: %w", spec.Name, event, ErrNilHandler)
			}
		}
	}

	if c.InitialState != "" && !seen[c.InitialState] {
		errs.Add(&StateError{State: c.InitialState, Err: ErrUnknownState})
	}

	return errs.Err()
}

// New validates cfg, registers every state and makes cfg.InitialState current.
func New(cfg Config, opts ...Option) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := NewMachine(opts...)

	for _, spec := range cfg.States {
		m.AddState(spec.Name, spec.Handlers)
	}

	if err := m.SetCurrentState(cfg.InitialState); err != nil {
		return nil, err
	}

	return m, nil
}
