package statehandler

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned by Run and Fire before any current state is set.
	ErrNotInitialized = errors.New("no current state set")
	// ErrUndefinedStateHandler is returned by Run when the current state has no handler.
	ErrUndefinedStateHandler = errors.New("state handler not defined")
	// ErrUnknownTransition is returned when a transition name was never registered.
	ErrUnknownTransition = errors.New("unknown transition")
	// ErrInvalidTransition is returned by Fire when the current state is not the transition's From.
	ErrInvalidTransition = errors.New("transition not allowed from current state")
	// ErrHandlerPanicked is recorded on spans and metrics when a handler panics.
	// The panic itself is re-raised to the caller.
	ErrHandlerPanicked = errors.New("handler panicked")

	// ErrInitialStateRequired indicates that a Config has no initial state.
	ErrInitialStateRequired = errors.New("initial state is required")
	// ErrStateNameRequired indicates an empty name in Config.States.
	ErrStateNameRequired = errors.New("state name is required")
	// ErrDuplicateState indicates a state listed twice in Config.States.
	ErrDuplicateState = errors.New("duplicate state name")
	// ErrTransitionNameRequired indicates a transition without a name.
	ErrTransitionNameRequired = errors.New("transition name is required")
	// ErrDuplicateTransition indicates two transitions sharing a name.
	ErrDuplicateTransition = errors.New("duplicate transition name")
	// ErrTransitionFromNotFound indicates a transition leaving an unknown state.
	ErrTransitionFromNotFound = errors.New("transition from state does not exist")
	// ErrTransitionToNotFound indicates a transition entering an unknown state.
	ErrTransitionToNotFound = errors.New("transition to state does not exist")
	// ErrWrongDefinitionKind indicates a YAML definition written for another machine kind.
	ErrWrongDefinitionKind = errors.New("definition is not a statehandler definition")
)

// StateError wraps an error with the state it happened in.
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

// TransitionError wraps an error with the transition it concerns. From and
// To are empty when the transition is unknown.
type TransitionError struct {
	Name    string
	From    string
	To      string
	Current string
	Err     error
}

func (e *TransitionError) Error() string {
	switch {
	case e.From == "" && e.To == "":
		return fmt.Sprintf("transition %q: %v", e.Name, e.Err)
	case e.Current == "":
		return fmt.Sprintf("transition %q (%s -> %s): %v", e.Name, e.From, e.To, e.Err)
	default:
		return fmt.Sprintf("transition %q (%s -> %s) in state %q: %v", e.Name, e.From, e.To, e.Current, e.Err)
	}
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// WrapStateError wraps err with state context. It returns nil for a nil err.
func WrapStateError(state string, err error) error {
	if err == nil {
		return nil
	}

	return &StateError{
		State: state,
		Err:   err,
	}
}

// IsNotInitialized reports whether err stems from a machine with no current state.
func IsNotInitialized(err error) bool {
	return errors.Is(err, ErrNotInitialized)
}

// IsUndefinedStateHandler reports whether err stems from running a state without a handler.
func IsUndefinedStateHandler(err error) bool {
	return errors.Is(err, ErrUndefinedStateHandler)
}

// IsUnknownTransition reports whether err stems from an unregistered transition name.
func IsUnknownTransition(err error) bool {
	return errors.Is(err, ErrUnknownTransition)
}
