package fsm

import (
	"fmt"
	"io/fs"
	"os"
	"slices"

	amperrors "github.com/amp-labs/amp-fsm/errors"
	"gopkg.in/yaml.v3"
)

// Config describes a machine topology in YAML.
type Config struct {
	Name         string        `json:"name"         yaml:"name"`
	InitialState string        `json:"initialState" yaml:"initialState"`
	States       []StateConfig `json:"states"       yaml:"states"`
	Transitions  []Transition  `json:"transitions"  yaml:"transitions"`
}

// StateConfig describes one state and its handlers.
type StateConfig struct {
	Name     string          `json:"name"     yaml:"name"`
	Handlers []HandlerConfig `json:"handlers" yaml:"handlers"`
}

// HandlerConfig binds an event to a handler built by a HandlerFactory.
type HandlerConfig struct {
	Event      string         `json:"event"      yaml:"event"`
	Type       string         `json:"type"       yaml:"type"`
	Parameters map[string]any `json:"parameters" yaml:"parameters"`
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Intentional path-based loading
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	return ParseConfig(data)
}

// LoadConfigFromFS loads a configuration from a filesystem such as embed.FS.
func LoadConfigFromFS(fsys fs.FS, path string) (*Config, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from FS: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes and validates YAML bytes.
func ParseConfig(data []byte) (*Config, error) {
	var config Config

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the configuration's shape. State references are checked
// later, when the machine is built.
func (c *Config) Validate() error {
	var problems amperrors.Collection

	if c.InitialState == "" {
		problems.Add(ErrInitialStateRequired)
	}

	if len(c.States) == 0 {
		problems.Add(ErrNoStates)
	}

	for i, state := range c.States {
		if state.Name == "" {
			problems.Addf("state %d: %w", i, ErrStateNameRequired)
		}

		seen := make(map[string]bool, len(state.Handlers))

		for j, handler := range state.Handlers {
			if handler.Event == "" {
				problems.Addf("state %q, handler %d: %w", state.Name, j, ErrHandlerEventRequired)
			} else if seen[handler.Event] {
				problems.Addf("state %q: %w %q", state.Name, ErrDuplicateHandler, handler.Event)
			}

			seen[handler.Event] = true

			if handler.Type == "" {
				problems.Addf("state %q, handler %d: %w", state.Name, j, ErrHandlerTypeRequired)
			}
		}
	}

	for i, t := range c.Transitions {
		if t.From == "" || t.Event == "" || t.To == "" {
			problems.Addf("transition %d (%s): %w", i, t, ErrTransitionFieldRequired)
		}
	}

	return problems.WrapWith(ErrInvalidConfig)
}

// NewBuilderFromConfig returns a builder populated from cfg, with handlers
// created by factory. A nil factory means NewHandlerFactory[R]().
func NewBuilderFromConfig[R any](cfg *Config, factory *HandlerFactory[R]) (*Builder[R], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if factory == nil {
		factory = NewHandlerFactory[R]()
	}

	builder := NewBuilder[R]().
		WithInitialState(cfg.InitialState).
		AddTransitions(cfg.Transitions...)

	if cfg.Name != "" {
		builder.WithOptions(WithName(cfg.Name))
	}

	for _, sc := range cfg.States {
		handlers := make(Handlers[R], len(sc.Handlers))

		for _, hc := range sc.Handlers {
			handler, err := factory.Create(sc.Name, hc)
			if err != nil {
				return nil, fmt.Errorf("state %q, event %q: %w", sc.Name, hc.Event, err)
			}

			handlers[hc.Event] = handler
		}

		builder.AddStates(NewState(sc.Name, handlers))
	}

	return builder, nil
}

// Topology returns the snapshot a machine built from c would report, without
// building it. States keep configuration order.
func (c *Config) Topology() Topology {
	states := make([]StateInfo, 0, len(c.States))

	for _, sc := range c.States {
		info := StateInfo{Name: sc.Name}

		for _, hc := range sc.Handlers {
			info.Events = append(info.Events, hc.Event)
		}

		slices.Sort(info.Events)
		states = append(states, info)
	}

	return Topology{
		Name:         c.Name,
		InitialState: c.InitialState,
		States:       states,
		Transitions:  NewTransitionTable(c.Transitions...).Transitions(),
	}
}
