package envutil

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrEmptyValue   = errors.New("value is empty")
	ErrUnknownValue = errors.New("value is not one of the allowed values")
)

// Option adjusts a Reader: defaults, missing errors and validation.
type Option[T any] func(Reader[T]) Reader[T]

// Default supplies a value to use when the variable is unset.
func Default[T any](dfl T) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		return rdr.WithDefault(dfl)
	}
}

// IfMissing supplies the error to report when the variable is unset.
func IfMissing[T any](err error) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		return rdr.WithErrorIfMissing(err)
	}
}

// Validate runs f against a present value and records its error.
func Validate[T any](f func(T) error) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		return Map(rdr, func(val T) (T, error) {
			return val, f(val)
		})
	}
}

// NonEmpty rejects blank strings.
func NonEmpty() Option[string] {
	return Validate(func(val string) error {
		if strings.TrimSpace(val) == "" {
			return ErrEmptyValue
		}

		return nil
	})
}

// OneOf rejects strings outside allowed.
func OneOf(allowed ...string) Option[string] {
	return Validate(func(val string) error {
		if !slices.Contains(allowed, val) {
			return fmt.Errorf("%w: %q not in %v", ErrUnknownValue, val, allowed)
		}

		return nil
	})
}
