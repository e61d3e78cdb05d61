// Package errors accumulates independent failures so a validation pass can
// report every problem at once instead of stopping at the first one.
package errors

import (
	"errors"
	"fmt"
)

// Collection gathers errors. It is not safe for concurrent use.
type Collection struct {
	errors []error
}

// Add appends err. Nil errors are ignored.
func (c *Collection) Add(err error) {
	if err != nil {
		c.errors = append(c.errors, err)
	}
}

// Addf appends an error built with fmt.Errorf, so %w verbs keep their chains.
func (c *Collection) Addf(format string, args ...any) {
	c.errors = append(c.errors, fmt.Errorf(format, args...)) //nolint:err113
}

// Clear empties the collection.
func (c *Collection) Clear() {
	c.errors = nil
}

// HasError reports whether anything was collected.
func (c *Collection) HasError() bool {
	return len(c.errors) > 0
}

// Len returns the number of collected errors.
func (c *Collection) Len() int {
	return len(c.errors)
}

// GetError returns nil, the single error, or an errors.Join of all of them.
func (c *Collection) GetError() error {
	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return c.errors[0]
	default:
		return errors.Join(c.errors...)
	}
}

// WrapWith returns nil when empty, otherwise the collected errors prefixed by
// sentinel. Both sentinel and every collected error satisfy errors.Is.
func (c *Collection) WrapWith(sentinel error) error {
	err := c.GetError()
	if err == nil {
		return nil
	}

	return fmt.Errorf("%w: %w", sentinel, err)
}
