package eventdispatch

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"facette.io/natsort"
	"github.com/amp-labs/stateshaft/observe"
)

const (
	opProcessEvent = "process_event"
	opSetState     = "set_state"
)

// Handler handles one event in one state.
type Handler func(ctx context.Context) error

// EventTable maps event names to handlers.
type EventTable map[string]Handler

// Machine is an event-indexed finite state machine.
type Machine struct {
	id         string
	states     map[string]EventTable
	current    string
	hasCurrent bool
	recorder   *observe.Recorder
}

// NewMachine returns a machine with no states and no current state.
func NewMachine(opts ...Option) *Machine {
	o := applyOptions(opts)

	return &Machine{
		id:       o.id,
		states:   make(map[string]EventTable),
		recorder: observe.NewRecorder(observe.KindEventDispatch, o.id, o.logger),
	}
}

// ID returns the machine id used in spans, metrics and logs.
func (m *Machine) ID() string {
	return m.id
}

// AddState registers a copy of table as the event table of name, replacing
// any previous table. A nil table registers a state that handles no events.
func (m *Machine) AddState(name string, table EventTable) {
	cloned := maps.Clone(table)
	if cloned == nil {
		cloned = EventTable{}
	}

	m.states[name] = cloned
}

// SetCurrentState makes name the current state. It fails with
// ErrUnknownState, leaving the current state unchanged, when name is not
// registered.
func (m *Machine) SetCurrentState(name string) error {
	return m.SetCurrentStateContext(context.Background(), name)
}

// SetCurrentStateContext is SetCurrentState with a context for logging.
// Handlers should pass the context they were given.
func (m *Machine) SetCurrentStateContext(ctx context.Context, name string) error {
	if _, ok := m.states[name]; !ok {
		err := &StateError{State: name, Err: ErrUnknownState}
		m.recorder.Rejected(ctx, opSetState, err)

		return err
	}

	from, hadPrevious := m.current, m.hasCurrent

	m.current = name
	m.hasCurrent = true

	m.recorder.StateChanged(ctx, from, hadPrevious, name)

	return nil
}

// CurrentState returns the current state. ok is false until a state is set.
func (m *Machine) CurrentState() (name string, ok bool) {
	return m.current, m.hasCurrent
}

// ProcessEvent runs the current state's handler for event. A handler error
// is returned wrapped in an *EventError.
func (m *Machine) ProcessEvent(ctx context.Context, event string) (err error) {
	state := m.current

	ctx, dispatch := m.recorder.Begin(ctx, opProcessEvent, state, event)
	defer func() {
		if r := recover(); r != nil {
			dispatch.Done(fmt.Errorf("%w: %v", ErrHandlerPanicked, r))
			panic(r)
		}

		dispatch.Done(err)
	}()

	if !m.hasCurrent {
		return ErrNotInitialized
	}

	handler := m.states[state][event]
	if handler == nil {
		return &EventError{Event: event, State: state, Err: ErrUndefinedEvent}
	}

	if handlerErr := handler(ctx); handlerErr != nil {
		return &EventError{Event: event, State: state, Err: handlerErr}
	}

	return nil
}

// Can reports whether the current state handles event.
func (m *Machine) Can(event string) bool {
	if !m.hasCurrent {
		return false
	}

	return m.states[m.current][event] != nil
}

// HasState reports whether name is registered.
func (m *Machine) HasState(name string) bool {
	_, ok := m.states[name]

	return ok
}

// States returns the registered state names in natural order.
func (m *Machine) States() []string {
	names := slices.Collect(maps.Keys(m.states))
	natsort.Sort(names)

	return names
}

// Events returns the events handled in state, in natural order. It returns
// nil for an unknown state.
func (m *Machine) Events(state string) []string {
	table, ok := m.states[state]
	if !ok {
		return nil
	}

	names := make([]string, 0, len(table))

	for name, h := range table {
		if h != nil {
			names = append(names, name)
		}
	}

	natsort.Sort(names)

	return names
}
