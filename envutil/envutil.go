// Package envutil reads typed configuration from environment variables.
//
//	dir := envutil.String("FSM_STATE_DIR", envutil.Default(".")).ValueOrFatal()
//	timeout, err := envutil.Duration("FSM_REDIS_TIMEOUT", envutil.Default(5*time.Second)).Value()
package envutil

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

func get(key string) Reader[string] {
	val, ok := os.LookupEnv(key)

	return Reader[string]{
		key:     key,
		present: ok,
		value:   val,
	}
}

func apply[T any](rdr Reader[T], opts []Option[T]) Reader[T] {
	for _, opt := range opts {
		rdr = opt(rdr)
	}

	return rdr
}

// String reads a raw string.
func String(key string, opts ...Option[string]) Reader[string] {
	return apply(get(key), opts)
}

// Bool reads a boolean in any form strconv.ParseBool accepts.
func Bool(key string, opts ...Option[bool]) Reader[bool] {
	return apply(Map(get(key), func(s string) (bool, error) {
		return strconv.ParseBool(strings.TrimSpace(s))
	}), opts)
}

// Int reads a base-10 integer.
func Int(key string, opts ...Option[int]) Reader[int] {
	return apply(Map(get(key), func(s string) (int, error) {
		return strconv.Atoi(strings.TrimSpace(s))
	}), opts)
}

// Float reads a 64-bit floating point number.
func Float(key string, opts ...Option[float64]) Reader[float64] {
	return apply(Map(get(key), func(s string) (float64, error) {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}), opts)
}

// Duration reads a time.ParseDuration string such as "5s".
func Duration(key string, opts ...Option[time.Duration]) Reader[time.Duration] {
	return apply(Map(get(key), func(s string) (time.Duration, error) {
		return time.ParseDuration(strings.TrimSpace(s))
	}), opts)
}

// SlogLevel reads a level name (debug, info, warn, error) or an offset such as "info+2".
func SlogLevel(key string, opts ...Option[slog.Level]) Reader[slog.Level] {
	return apply(Map(get(key), parseSlogLevel), opts)
}

func parseSlogLevel(s string) (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return level, fmt.Errorf("invalid log level %q: %w", s, err)
	}

	return level, nil
}
