package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/amp-labs/amp-fsm/fsm"
	"github.com/amp-labs/amp-fsm/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ fsm.Sink = (*store.File)(nil)
	_ fsm.Sink = (*store.Memory)(nil)
	_ fsm.Sink = (*store.Redis)(nil)
	_ fsm.Sink = (*store.S3)(nil)
)

func TestFileSink(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	dir := t.TempDir()
	sink := store.NewFileSink(dir)

	_, err := sink.ReadAll(ctx, "machine")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, sink.WriteAll(ctx, "nested/machine", []byte("S10")))
	require.NoError(t, sink.WriteAll(ctx, "nested/machine", []byte("S2")))

	data, err := sink.ReadAll(ctx, "nested/machine")
	require.NoError(t, err)
	assert.Equal(t, []byte("S2"), data)

	onDisk, err := os.ReadFile(filepath.Join(dir, "nested", "machine"))
	require.NoError(t, err)
	assert.Equal(t, []byte("S2"), onDisk)

	require.ErrorIs(t, sink.WriteAll(ctx, "", nil), store.ErrEmptyID)
	require.ErrorIs(t, sink.WriteAll(ctx, "../escape", nil), store.ErrInvalidID)
}

func TestFileSinkWithoutBaseDir(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "state.txt")
	sink := store.NewFileSink("")

	require.NoError(t, sink.WriteAll(ctx, path, []byte("S1")))

	data, err := sink.ReadAll(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, []byte("S1"), data)
}

func TestFileSinkCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	sink := store.NewFileSink(t.TempDir())
	require.ErrorIs(t, sink.WriteAll(ctx, "x", []byte("S0")), context.Canceled)

	_, err := sink.ReadAll(ctx, "x")
	require.ErrorIs(t, err, context.Canceled)
}

func TestMemorySink(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	sink := store.NewMemorySink()

	_, err := sink.ReadAll(ctx, "a")
	require.ErrorIs(t, err, store.ErrNotFound)

	buf := []byte("S1")
	require.NoError(t, sink.WriteAll(ctx, "a", buf))

	buf[0] = 'X'

	data, err := sink.ReadAll(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("S1"), data)

	data[0] = 'Y'

	again, err := sink.ReadAll(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("S1"), again)

	sink.Delete("a")

	_, err = sink.ReadAll(ctx, "a")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, sink.WriteAll(ctx, "", nil), store.ErrEmptyID)
}

func TestMachineRoundTripThroughFileSink(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	sink := store.NewFileSink(t.TempDir())

	build := func() *fsm.Machine[string] {
		m, err := fsm.NewBuilder[string]().
			AddStates(fsm.NewState[string]("S0", nil), fsm.NewState[string]("S1", nil)).
			AddTransition("S0", "e1", "S1").
			WithInitialState("S0").
			WithOptions(fsm.WithLogger(nil)).
			Build()
		require.NoError(t, err)

		return m
	}

	first := build()
	_, err := first.Handle(ctx, fsm.NewEvent("e1"))
	require.NoError(t, err)
	require.NoError(t, fsm.SaveState(ctx, first, sink, "m"))

	second := build()
	require.NoError(t, fsm.ReloadState(ctx, second, sink, "m"))
	assert.Equal(t, "S1", second.CurrentStateName())

	err = fsm.ReloadState(ctx, build(), sink, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}
