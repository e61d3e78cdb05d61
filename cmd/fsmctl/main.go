// Command fsmctl drives a machine described by a YAML topology. It restores
// the current state from a sink, dispatches each argument as an event (or
// prompts for events when there are none) and saves the state after every
// event.
//
// Configuration comes from the environment:
//
//	FSM_CONFIG       path to the topology YAML (required)
//	FSM_STATE_SINK   file, redis or s3 (default file)
//	FSM_STATE_ID     sink id for the saved state (default: the machine name,
//	                 or fsm-state when the config has no name)
//	FSM_STATE_DIR    base directory for the file sink (default .)
//	FSM_DIAGRAM      print a Mermaid diagram before dispatching
//	FSM_LINT         print topology findings before dispatching
//
// The redis sink reads FSM_REDIS_*; the s3 sink reads FSM_S3_*.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/amp-labs/amp-fsm/cli"
	"github.com/amp-labs/amp-fsm/envutil"
	"github.com/amp-labs/amp-fsm/fsm"
	"github.com/amp-labs/amp-fsm/fsm/validator"
	"github.com/amp-labs/amp-fsm/fsm/visualizer"
	"github.com/amp-labs/amp-fsm/logger"
	"github.com/amp-labs/amp-fsm/shutdown"
	"github.com/amp-labs/amp-fsm/store"
	"github.com/amp-labs/amp-fsm/telemetry"
)

const (
	appName = "fsmctl"

	sinkFile  = "file"
	sinkRedis = "redis"
	sinkS3    = "s3"

	defaultStateID = "fsm-state"
)

const usage = `usage: fsmctl [event...]

Dispatches each event to the machine described by $FSM_CONFIG, saving the
current state after every event. With no events, prompts interactively.

The state is saved under $FSM_STATE_ID, which defaults to the machine name,
or to fsm-state when the config has no name.
`

func main() {
	ctx, cancel := shutdown.SetupHandler(context.Background())

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	cancel()

	if err != nil {
		logger.Get(ctx).Error("fsmctl failed", "error", err)
		os.Exit(1)
	}
}

type settings struct {
	configPath string
	sinkKind   string
	stateID    string
	stateDir   string
	diagram    bool
	lint       bool
}

func loadSettings() (settings, error) {
	configPath, err := envutil.String("FSM_CONFIG", envutil.NonEmpty()).Value()
	if err != nil {
		return settings{}, err
	}

	sinkKind, err := envutil.String("FSM_STATE_SINK",
		envutil.Default(sinkFile),
		envutil.OneOf(sinkFile, sinkRedis, sinkS3)).
		Value()
	if err != nil {
		return settings{}, err
	}

	diagram, err := envutil.Bool("FSM_DIAGRAM", envutil.Default(false)).Value()
	if err != nil {
		return settings{}, err
	}

	lint, err := envutil.Bool("FSM_LINT", envutil.Default(false)).Value()
	if err != nil {
		return settings{}, err
	}

	return settings{
		configPath: configPath,
		sinkKind:   sinkKind,
		stateID:    envutil.String("FSM_STATE_ID").ValueOrElse(""),
		stateDir:   envutil.String("FSM_STATE_DIR", envutil.Default(".")).ValueOrElse("."),
		diagram:    diagram,
		lint:       lint,
	}, nil
}

func run(ctx context.Context, args []string, out, logOut io.Writer) error {
	if len(args) > 0 && (args[0] == "-h" || args[0] == "--help") {
		_, err := fmt.Fprint(out, usage)

		return err
	}

	if _, err := logger.ConfigureLogging(appName, logger.WithOutput(logOut)); err != nil {
		return err
	}

	ctx = logger.WithSubsystem(ctx, appName)

	if err := startTelemetry(ctx); err != nil {
		return err
	}

	defer flushTelemetry(ctx, telemetry.Shutdown)

	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	session, err := openSession(ctx, cfg, out)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		for _, name := range args {
			if err := session.dispatch(ctx, name); err != nil {
				return err
			}
		}

		return nil
	}

	return session.interactive(ctx)
}

func startTelemetry(ctx context.Context) error {
	env := envutil.String("FSM_ENVIRONMENT", envutil.Default("local")).ValueOrElse("local")

	config, err := telemetry.LoadConfigFromEnv(ctx, env)
	if err != nil {
		return err
	}

	return telemetry.Initialize(ctx, config)
}

// flushTelemetry runs stop once run returns, which also covers signal
// shutdown since the signal cancels ctx and unwinds run.
func flushTelemetry(ctx context.Context, stop func(context.Context) error) {
	if err := stop(context.WithoutCancel(ctx)); err != nil {
		logger.Get(ctx).Warn("telemetry shutdown failed", "error", err)
	}
}

type session struct {
	machine *fsm.Machine[string]
	sink    fsm.Sink
	stateID string
	out     io.Writer
}

func openSession(ctx context.Context, cfg settings, out io.Writer) (*session, error) {
	config, err := fsm.LoadConfig(cfg.configPath)
	if err != nil {
		return nil, err
	}

	if cfg.lint {
		fmt.Fprintln(out, validator.Validate(config.Topology()).String())
	}

	builder, err := fsm.NewBuilderFromConfig[string](config, nil)
	if err != nil {
		return nil, err
	}

	machine, err := builder.Build()
	if err != nil {
		return nil, err
	}

	sink, err := openSink(ctx, cfg)
	if err != nil {
		return nil, err
	}

	stateID := cfg.stateID
	if stateID == "" {
		stateID = config.Name
	}

	if stateID == "" {
		stateID = defaultStateID
	}

	if err := fsm.ReloadState(ctx, machine, sink, stateID); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}

		logger.Get(ctx).Info("No saved state, starting at the initial state",
			"id", stateID, "state", machine.InitialStateName())
	}

	if cfg.diagram {
		diagram, err := visualizer.GenerateMermaid(machine.Topology())
		if err != nil {
			return nil, err
		}

		fmt.Fprint(out, diagram)
	}

	return &session{machine: machine, sink: sink, stateID: stateID, out: out}, nil
}

func openSink(ctx context.Context, cfg settings) (fsm.Sink, error) {
	switch cfg.sinkKind {
	case sinkRedis:
		redisConfig, err := store.LoadRedisConfigFromEnv()
		if err != nil {
			return nil, err
		}

		client, err := store.ConnectRedis(ctx, redisConfig)
		if err != nil {
			return nil, err
		}

		shutdown.BeforeShutdown(func(context.Context) {
			_ = client.Close()
		})

		return store.NewRedisSink(client, store.WithKeyPrefix(redisConfig.KeyPrefix)), nil
	case sinkS3:
		s3Config, err := store.LoadS3ConfigFromEnv()
		if err != nil {
			return nil, err
		}

		return store.NewS3Sink(ctx, s3Config)
	default:
		return store.NewFileSink(cfg.stateDir), nil
	}
}

// dispatch handles one event and saves the resulting state. Handler
// failures are reported and the session continues.
func (s *session) dispatch(ctx context.Context, name string) error {
	from := s.machine.CurrentStateName()

	result, err := s.machine.Handle(ctx, fsm.NewEvent(name))
	if err != nil {
		var handlerErr *fsm.HandlerError
		if !errors.As(err, &handlerErr) {
			return err
		}

		fmt.Fprintf(s.out, "%s --%s--> %s: error: %v\n", from, name, from, handlerErr.Err)

		return nil
	}

	fmt.Fprintf(s.out, "%s --%s--> %s: %s\n", from, name, s.machine.CurrentStateName(),
		result.GetOrElse("(no result)"))

	return fsm.SaveState(ctx, s.machine, s.sink, s.stateID)
}

func (s *session) interactive(ctx context.Context) error {
	events := eventNames(s.machine.Topology())

	for {
		label := fmt.Sprintf("Event for %s (state %s)", s.machine.Name(), s.machine.CurrentStateName())

		name, quit, err := cli.SelectEvent(label, events)
		if err != nil {
			return err
		}

		if quit {
			return nil
		}

		if err := s.dispatch(ctx, name); err != nil {
			return err
		}
	}
}

func eventNames(topology fsm.Topology) []string {
	var names []string

	for _, t := range topology.Transitions {
		names = append(names, t.Event)
	}

	for _, state := range topology.States {
		names = append(names, state.Events...)
	}

	return names
}
