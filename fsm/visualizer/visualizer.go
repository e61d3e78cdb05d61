// Package visualizer renders machine topologies as Mermaid state diagrams.
package visualizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amp-labs/amp-fsm/fsm"
)

// ErrNoInitialState is returned for a topology without an initial state.
var ErrNoInitialState = errors.New("topology must have an initial state")

// GenerateMermaid renders topology with DefaultOptions.
func GenerateMermaid(topology fsm.Topology) (string, error) {
	return GenerateMermaidWithOptions(topology, DefaultOptions())
}

// GenerateMermaidFromFile loads a YAML config and renders its topology.
func GenerateMermaidFromFile(path string) (string, error) {
	config, err := fsm.LoadConfig(path)
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}

	return GenerateMermaid(config.Topology())
}

// GenerateMermaidWithOptions renders topology as a fenced stateDiagram-v2 block.
func GenerateMermaidWithOptions(topology fsm.Topology, opts Options) (string, error) {
	if topology.InitialState == "" {
		return "", ErrNoInitialState
	}

	var sb strings.Builder

	sb.WriteString("```mermaid\n")
	sb.WriteString("stateDiagram-v2\n")

	if opts.Direction != "" {
		fmt.Fprintf(&sb, "    direction %s\n", opts.Direction)
	}

	fmt.Fprintf(&sb, "    [*] --> %s\n", stateID(topology.InitialState))

	highlightMap := make(map[string]bool)
	for _, state := range opts.HighlightPath {
		highlightMap[state] = true
	}

	for _, state := range topology.States {
		id := stateID(state.Name)

		if id != state.Name {
			fmt.Fprintf(&sb, "    %s: %s\n", id, state.Name)
		}

		switch {
		case opts.HighlightCurrent && state.Name == topology.CurrentState:
			fmt.Fprintf(&sb, "    class %s currentState\n", id)
		case highlightMap[state.Name]:
			fmt.Fprintf(&sb, "    class %s highlighted\n", id)
		case len(state.Events) > 0:
			fmt.Fprintf(&sb, "    class %s handlerState\n", id)
		}

		if opts.ShowHandlers && len(state.Events) > 0 {
			fmt.Fprintf(&sb, "    note right of %s: handles %s\n", id, strings.Join(state.Events, ", "))
		}

		for _, transition := range topology.Outgoing(state.Name) {
			label := ""
			if opts.ShowEvents {
				label = ": " + transition.Event
			}

			fmt.Fprintf(&sb, "    %s --> %s%s\n", id, stateID(transition.To), label)
		}
	}

	sb.WriteString("\n")
	sb.WriteString("    classDef handlerState fill:#e1f5ff,stroke:#01579b,stroke-width:2px\n")
	sb.WriteString("    classDef currentState fill:#c8e6c9,stroke:#2e7d32,stroke-width:3px\n")
	sb.WriteString("    classDef highlighted fill:#fff9c4,stroke:#f57f17,stroke-width:3px\n")

	sb.WriteString("```\n")

	return sb.String(), nil
}

// stateID maps a state name onto Mermaid's identifier alphabet. Names that
// need no change are used as is.
func stateID(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
