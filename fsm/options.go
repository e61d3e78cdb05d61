package fsm

const defaultMachineName = "unnamed"

type options struct {
	name   string
	logger Logger
	hooks  []TransitionHook
}

// Option configures a Machine.
type Option func(*options)

// WithName labels the machine in logs, metrics and spans.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger replaces the default slog-backed Logger. Passing nil disables
// dispatch logging.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTransitionHook registers a hook called after each transition, in
// registration order, while the dispatch slot is still held.
func WithTransitionHook(hook TransitionHook) Option {
	return func(o *options) {
		if hook != nil {
			o.hooks = append(o.hooks, hook)
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		name:   defaultMachineName,
		logger: NewDefaultLogger(),
	}

	for _, opt := range opts {
		opt(&o)
	}

	if o.name == "" {
		o.name = defaultMachineName
	}

	return o
}
