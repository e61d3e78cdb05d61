// Package optional models a value that may be absent. The fsm package uses it
// to tell "the state had no handler for this event" apart from "the handler ran
// and returned the zero value".
package optional

import "fmt"

// Value holds zero or one T.
type Value[T any] struct {
	value T
	isSet bool
}

// Some wraps a present value.
func Some[T any](value T) Value[T] {
	return Value[T]{value: value, isSet: true}
}

// None returns an empty Value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// NonEmpty reports whether a value is present.
func (o Value[T]) NonEmpty() bool {
	return o.isSet
}

// Empty reports whether the value is absent.
func (o Value[T]) Empty() bool {
	return !o.isSet
}

// Get returns the value and whether it was present.
func (o Value[T]) Get() (T, bool) {
	return o.value, o.isSet
}

// GetOrElse returns the value, or dfl when absent.
func (o Value[T]) GetOrElse(dfl T) T {
	if o.isSet {
		return o.value
	}

	return dfl
}

// ForEach calls f with the value when one is present.
func (o Value[T]) ForEach(f func(T)) {
	if o.isSet {
		f(o.value)
	}
}

// String renders "Some(v)" or "None".
func (o Value[T]) String() string {
	if o.isSet {
		return fmt.Sprintf("Some(%v)", o.value)
	}

	return "None"
}

// Map applies f to a present value.
func Map[T any, U any](o Value[T], f func(T) U) Value[U] {
	if !o.isSet {
		return None[U]()
	}

	return Some(f(o.value))
}
