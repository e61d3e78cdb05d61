package shutdown

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobals() {
	mut.Lock()
	defer mut.Unlock()

	hooks = nil
}

//nolint:paralleltest // Test modifies package-level hooks
func TestRunHooks(t *testing.T) {
	resetGlobals()

	var order []int

	BeforeShutdown(func(context.Context) { order = append(order, 1) })
	BeforeShutdown(func(context.Context) { order = append(order, 2) })

	RunHooks(t.Context())
	assert.Equal(t, []int{1, 2}, order)

	RunHooks(t.Context())
	assert.Equal(t, []int{1, 2}, order, "hooks run only once")
}

//nolint:paralleltest // Test modifies package-level hooks
func TestShutdownRunsHooksBeforeCancel(t *testing.T) {
	resetGlobals()

	ctx, cancel := SetupHandler(t.Context())
	defer cancel()

	var aliveDuringHook atomic.Bool

	BeforeShutdown(func(hookCtx context.Context) {
		aliveDuringHook.Store(hookCtx.Err() == nil)
	})

	select {
	case <-ctx.Done():
		t.Fatal("context should not be canceled initially")
	default:
	}

	Shutdown()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled after shutdown")
	}

	assert.True(t, aliveDuringHook.Load())
}

//nolint:paralleltest // Test modifies package-level hooks
func TestCancelSkipsHooks(t *testing.T) {
	resetGlobals()

	var called atomic.Bool

	BeforeShutdown(func(context.Context) { called.Store(true) })

	ctx, cancel := SetupHandler(t.Context())
	cancel()

	<-ctx.Done()
	assert.False(t, called.Load())

	resetGlobals()
	require.NotPanics(t, Shutdown)
}
