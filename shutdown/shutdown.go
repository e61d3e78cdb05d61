// Package shutdown turns SIGINT and SIGTERM into context cancellation, after
// running hooks that still need a live context (saving machine state,
// flushing spans).
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/amp-labs/amp-fsm/logger"
)

var (
	mut     sync.Mutex              //nolint:gochecknoglobals
	hooks   []func(context.Context) //nolint:gochecknoglobals
	trigger chan os.Signal          //nolint:gochecknoglobals
)

// BeforeShutdown registers a hook. Hooks run once, in registration order,
// before the handler's context is canceled.
func BeforeShutdown(h func(ctx context.Context)) {
	mut.Lock()
	defer mut.Unlock()

	hooks = append(hooks, h)
}

// Shutdown starts the shutdown process as if a signal had arrived. It does
// nothing when no handler is installed.
func Shutdown() {
	mut.Lock()
	ch := trigger
	mut.Unlock()

	if ch == nil {
		return
	}

	select {
	case ch <- os.Interrupt:
	default:
	}
}

// SetupHandler returns a child of parent that is canceled after the first
// SIGINT or SIGTERM, once every hook has run. The returned cancel function
// releases the signal subscription without running hooks.
func SetupHandler(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	mut.Lock()
	trigger = signals
	mut.Unlock()

	go func() {
		defer release(signals)

		select {
		case sig := <-signals:
			logger.Get(ctx).Warn("Received " + sig.String() + ", shutting down...")
			RunHooks(ctx)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

func release(signals chan os.Signal) {
	signal.Stop(signals)

	mut.Lock()
	defer mut.Unlock()

	if trigger == signals {
		trigger = nil
	}
}

// RunHooks runs and clears the registered hooks.
func RunHooks(ctx context.Context) {
	mut.Lock()
	pending := hooks
	hooks = nil
	mut.Unlock()

	for _, h := range pending {
		h(ctx)
	}
}
