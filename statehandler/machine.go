package statehandler

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"facette.io/natsort"
	"github.com/amp-labs/stateshaft/observe"
)

const (
	opRun  = "run"
	opFire = "fire"
)

// Handler runs while the machine is in its state. Run forwards its
// arguments positionally.
type Handler func(ctx context.Context, args ...any) error

// Transition is a named, directed edge between two states.
type Transition struct {
	Name string `json:"name" yaml:"name"`
	From string `json:"from" yaml:"from"`
	To   string `json:"to"   yaml:"to"`
}

// Machine is a state-indexed finite state machine.
type Machine struct {
	id          string
	states      map[string]Handler
	transitions map[string]Transition
	initial     string
	current     string
	hasCurrent  bool
	recorder    *observe.Recorder
}

// NewMachine returns an empty machine with no states, no transitions and
// no current state.
func NewMachine(opts ...Option) *Machine {
	o := applyOptions(opts)

	return &Machine{
		id:          o.id,
		states:      make(map[string]Handler),
		transitions: make(map[string]Transition),
		recorder:    observe.NewRecorder(observe.KindStateHandler, o.id, o.logger),
	}
}

// ID returns the machine id used in spans, metrics and logs.
func (m *Machine) ID() string {
	return m.id
}

// AddState registers the handler for name, replacing any previous one.
// A nil handler registers the state without a handler; running it fails
// with ErrUndefinedStateHandler.
func (m *Machine) AddState(name string, handler Handler) {
	m.states[name] = handler
}

// DefineTransition registers the transition name, replacing any previous
// one. Neither from nor to has to be a registered state.
func (m *Machine) DefineTransition(name, from, to string) {
	m.transitions[name] = Transition{
		Name: name,
		From: from,
		To:   to,
	}
}

// SetCurrentState makes name the current state. The name is not checked
// against the registered states.
func (m *Machine) SetCurrentState(name string) {
	m.SetCurrentStateContext(context.Background(), name)
}

// SetCurrentStateContext is SetCurrentState with a context for tracing and
// logging. Handlers should pass the context they were given, so the change
// is recorded on the span of the Run that made it.
func (m *Machine) SetCurrentStateContext(ctx context.Context, name string) {
	from, hadPrevious := m.current, m.hasCurrent

	m.current = name
	m.hasCurrent = true

	m.recorder.StateChanged(ctx, from, hadPrevious, name)
}

// CurrentState returns the current state. ok is false until a state is set.
func (m *Machine) CurrentState() (name string, ok bool) {
	return m.current, m.hasCurrent
}

// InitialState returns the initial state given to New, or "" for machines
// built with NewMachine.
func (m *Machine) InitialState() string {
	return m.initial
}

// Reset makes the initial state current. It is a no-op for machines without
// an initial state.
func (m *Machine) Reset() {
	if m.initial == "" {
		return
	}

	m.SetCurrentState(m.initial)
}

// NextState returns the destination of the transition name. It does not
// change the current state.
func (m *Machine) NextState(name string) (string, error) {
	t, ok := m.transitions[name]
	if !ok {
		return "", &TransitionError{Name: name, Err: ErrUnknownTransition}
	}

	return t.To, nil
}

// Fire applies the transition name: the current state must equal the
// transition's From, and becomes its To. No handler runs.
func (m *Machine) Fire(ctx context.Context, name string) (err error) {
	t, known := m.transitions[name]

	ctx, dispatch := m.recorder.Begin(ctx, opFire, m.current, "")
	defer func() { finish(dispatch, err, recover()) }()

	switch {
	case !known:
		return &TransitionError{Name: name, Err: ErrUnknownTransition}
	case !m.hasCurrent:
		return &TransitionError{Name: name, From: t.From, To: t.To, Err: ErrNotInitialized}
	case m.current != t.From:
		return &TransitionError{Name: name, From: t.From, To: t.To, Current: m.current, Err: ErrInvalidTransition}
	}

	m.SetCurrentStateContext(ctx, t.To)

	return nil
}

// Run invokes the current state's handler with args and returns its error
// wrapped in a *StateError.
func (m *Machine) Run(ctx context.Context, args ...any) (err error) {
	state := m.current

	ctx, dispatch := m.recorder.Begin(ctx, opRun, state, "")
	defer func() { finish(dispatch, err, recover()) }()

	if !m.hasCurrent {
		return ErrNotInitialized
	}

	handler := m.states[state]
	if handler == nil {
		return WrapStateError(state, ErrUndefinedStateHandler)
	}

	return WrapStateError(state, handler(ctx, args...))
}

// finish ends a dispatch. A recovered handler panic is recorded as a failure
// and then re-raised.
func finish(dispatch *observe.Dispatch, err error, recovered any) {
	if recovered != nil {
		dispatch.Done(fmt.Errorf("%w: %v", ErrHandlerPanicked, recovered))
		panic(recovered)
	}

	dispatch.Done(err)
}

// States returns the registered state names in natural order.
func (m *Machine) States() []string {
	names := slices.Collect(maps.Keys(m.states))
	natsort.Sort(names)

	return names
}

// HasState reports whether name is registered, with or without a handler.
func (m *Machine) HasState(name string) bool {
	_, ok := m.states[name]

	return ok
}

// Transitions returns the registered transitions ordered naturally by name.
func (m *Machine) Transitions() []Transition {
	names := slices.Collect(maps.Keys(m.transitions))
	natsort.Sort(names)

	out := make([]Transition, 0, len(names))
	for _, name := range names {
		out = append(out, m.transitions[name])
	}

	return out
}

// TransitionsFrom returns the transitions whose From is state, ordered
// naturally by name.
func (m *Machine) TransitionsFrom(state string) []Transition {
	var out []Transition

	for _, t := range m.Transitions() {
		if t.From == state {
			out = append(out, t)
		}
	}

	return out
}
