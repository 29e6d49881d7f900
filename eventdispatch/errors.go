package eventdispatch

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned by ProcessEvent before any current state is set.
	ErrNotInitialized = errors.New("no current state set")
	// ErrUnknownState is returned when a state name is not registered.
	ErrUnknownState = errors.New("state does not exist")
	// ErrUndefinedEvent is returned when the current state has no handler for an event.
	ErrUndefinedEvent = errors.New("event not defined")
	// ErrHandlerPanicked is recorded on spans and metrics when a handler panics.
	// The panic itself is re-raised to the caller.
	ErrHandlerPanicked = errors.New("handler panicked")

	// ErrInitialStateRequired indicates that a Config has no initial state.
	ErrInitialStateRequired = errors.New("initial state is required")
	// ErrStateNameRequired indicates a state without a name.
	ErrStateNameRequired = errors.New("state name is required")
	// ErrDuplicateState indicates two states sharing a name.
	ErrDuplicateState = errors.New("duplicate state name")
	// ErrEventNameRequired indicates an empty event name in an event table.
	ErrEventNameRequired = errors.New("event name is required")
	// ErrNilHandler indicates an event mapped to a nil handler.
	ErrNilHandler = errors.New("event handler is nil")
	// ErrHandlerNotFound indicates a definition naming a handler missing from the registry.
	ErrHandlerNotFound = errors.New("handler not found in registry")
	// ErrWrongDefinitionKind indicates a YAML definition written for another machine kind.
	ErrWrongDefinitionKind = errors.New("definition is not an eventdispatch definition")
)

// StateError wraps an error with the state it concerns.
type StateError struct {
	State string
	Err   error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state %q: %v", e.State, e.Err)
}

func (e *StateError) Unwrap() error {
	return e.Err
}

// EventError wraps an error with the event and the state it was processed in.
type EventError struct {
	Event string
	State string
	Err   error
}

func (e *EventError) Error() string {
	if errors.Is(e.Err, ErrUndefinedEvent) {
		return fmt.Sprintf("event %q is not defined in state %q", e.Event, e.State)
	}

	return fmt.Sprintf("event %q in state %q: %v", e.Event, e.State, e.Err)
}

func (e *EventError) Unwrap() error {
	return e.Err
}

// IsNotInitialized reports whether err stems from a machine with no current state.
func IsNotInitialized(err error) bool {
	return errors.Is(err, ErrNotInitialized)
}

// IsUnknownState reports whether err stems from an unregistered state name.
func IsUnknownState(err error) bool {
	return errors.Is(err, ErrUnknownState)
}

// IsUndefinedEvent reports whether err stems from an event the current state does not handle.
func IsUndefinedEvent(err error) bool {
	return errors.Is(err, ErrUndefinedEvent)
}
