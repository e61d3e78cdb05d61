package fsm

import (
	"context"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

const (
	operationSave   = "save_state"
	operationReload = "reload_state"
)

// Sink stores whole byte blobs under an identifier. WriteAll replaces any
// previous content; ReadAll returns everything stored.
type Sink interface {
	WriteAll(ctx context.Context, id string, data []byte) error
	ReadAll(ctx context.Context, id string) ([]byte, error)
}

// SaveState writes the machine's current state name to sink as raw UTF-8,
// with no framing or trailing newline. It reads the current state without
// waiting for an in-flight Handle.
func SaveState[R any](ctx context.Context, m *Machine[R], sink Sink, id string) (err error) {
	ctx, span := startPersistenceSpan(ctx, operationSave, m.name, id)
	defer func() {
		persistenceOperationsTotal.WithLabelValues(m.name, operationSave, outcomeLabel(err)).Inc()
		finishSpan(span, err)
	}()

	if sink == nil {
		return fmt.Errorf("fsm: save state %q: %w", id, ErrNilSink)
	}

	if err := sink.WriteAll(ctx, id, []byte(m.CurrentStateName())); err != nil {
		return fmt.Errorf("fsm: save state %q: %w", id, err)
	}

	return nil
}

// ReloadState reads a state name from sink and assigns it to the machine.
// The stored bytes are used as-is when they name a known state. Otherwise a
// leading UTF-8 byte order mark is dropped; nothing else is trimmed.
// Invalid UTF-8 fails with ErrInvalidEncoding, and a name the machine does
// not know fails with an *UnknownStateError. Either way the machine keeps
// its current state.
func ReloadState[R any](ctx context.Context, m *Machine[R], sink Sink, id string) (err error) {
	ctx, span := startPersistenceSpan(ctx, operationReload, m.name, id)
	defer func() {
		persistenceOperationsTotal.WithLabelValues(m.name, operationReload, outcomeLabel(err)).Inc()
		finishSpan(span, err)
	}()

	if sink == nil {
		return fmt.Errorf("fsm: reload state %q: %w", id, ErrNilSink)
	}

	data, err := sink.ReadAll(ctx, id)
	if err != nil {
		return fmt.Errorf("fsm: reload state %q: %w", id, err)
	}

	name, err := resolveStateName(m, data)
	if err != nil {
		return fmt.Errorf("fsm: reload state %q: %w", id, err)
	}

	if err := m.SetCurrentStateName(ctx, name); err != nil {
		return fmt.Errorf("fsm: reload state %q: %w", id, err)
	}

	return nil
}

// resolveStateName prefers the raw name so that a state whose name begins
// with U+FEFF survives a save/reload round trip.
func resolveStateName[R any](m *Machine[R], data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrInvalidEncoding
	}

	raw := string(data)
	if m.HasState(raw) {
		return raw, nil
	}

	decoded, err := DecodeStateName(data)
	if err != nil {
		return "", err
	}

	if m.HasState(decoded) {
		return decoded, nil
	}

	return raw, nil
}

// DecodeStateName turns persisted bytes into a state name, dropping a
// leading byte order mark.
func DecodeStateName(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", ErrInvalidEncoding
	}

	decoded, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
	}

	return string(decoded), nil
}
