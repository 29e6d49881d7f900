// Package errors accumulates the problems found while checking a machine
// definition so they can be reported together.
package errors

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped around every non-nil error returned by Collection.Err.
var ErrInvalidConfig = errors.New("invalid configuration")

// Collection is a thread-unsafe accumulator of validation errors.
// The zero value is ready to use.
type Collection struct {
	errors []error
}

// Add appends an error to the collection. Nil errors are ignored.
func (c *Collection) Add(err error) {
	if err != nil {
		c.errors = append(c.errors, err)
	}
}

// Addf formats an error with fmt.Errorf and appends it, so %w verbs keep
// the wrapped sentinel reachable through errors.Is.
func (c *Collection) Addf(format string, args ...any) {
	c.errors = append(c.errors, fmt.Errorf(format, args...)) //nolint:err113
}

// Clear removes all collected errors.
func (c *Collection) Clear() {
	c.errors = nil
}

// HasError reports whether at least one error was collected.
func (c *Collection) HasError() bool {
	return len(c.errors) > 0
}

// Len returns the number of collected errors.
func (c *Collection) Len() int {
	return len(c.errors)
}

// Errors returns a copy of the collected errors in insertion order.
func (c *Collection) Errors() []error {
	if len(c.errors) == 0 {
		return nil
	}

	out := make([]error, len(c.errors))
	copy(out, c.errors)

	return out
}

// Err returns nil for an empty collection. Otherwise every collected error
// is joined and wrapped in ErrInvalidConfig.
func (c *Collection) Err() error {
	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("%w: %w", ErrInvalidConfig, c.errors[0])
	default:
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(c.errors...))
	}
}
