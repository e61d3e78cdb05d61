package visualizer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amp-labs/amp-fsm/fsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioTopology() fsm.Topology {
	return fsm.Topology{
		Name:         "scenario",
		InitialState: "S0",
		CurrentState: "S1",
		States: []fsm.StateInfo{
			{Name: "S0"},
			{Name: "S1"},
			{Name: "S2", Events: []string{"e1"}},
		},
		Transitions: []fsm.Transition{
			{From: "S0", Event: "e1", To: "S1"},
			{From: "S1", Event: "e1", To: "S2"},
			{From: "S1", Event: "e2", To: "S0"},
			{From: "S2", Event: "e1", To: "S2"},
			{From: "S2", Event: "e2", To: "S0"},
		},
	}
}

func TestGenerateMermaid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		topology       fsm.Topology
		opts           Options
		wantErr        error
		wantContain    []string
		wantNotContain []string
	}{
		{
			name:     "defaults",
			topology: scenarioTopology(),
			opts:     DefaultOptions(),
			wantContain: []string{
				"```mermaid",
				"stateDiagram-v2",
				"direction TB",
				"[*] --> S0",
				"S0 --> S1: e1",
				"S1 --> S0: e2",
				"S2 --> S2: e1",
				"class S1 currentState",
				"class S2 handlerState",
				"note right of S2: handles e1",
			},
		},
		{
			name:     "bare edges",
			topology: scenarioTopology(),
			opts: DefaultOptions().
				WithShowEvents(false).
				WithShowHandlers(false).
				WithHighlightCurrent(false).
				WithDirection("LR"),
			wantContain:    []string{"direction LR", "S0 --> S1\n"},
			wantNotContain: []string{"currentState\n    ", "note right of", ": e1"},
		},
		{
			name:        "highlight path",
			topology:    scenarioTopology(),
			opts:        DefaultOptions().WithHighlightCurrent(false).WithHighlightPath([]string{"S0"}),
			wantContain: []string{"class S0 highlighted"},
		},
		{
			name: "names outside the mermaid alphabet",
			topology: fsm.Topology{
				InitialState: "waiting room",
				States:       []fsm.StateInfo{{Name: "waiting room"}, {Name: "done"}},
				Transitions:  []fsm.Transition{{From: "waiting room", Event: "go", To: "done"}},
			},
			opts:        DefaultOptions(),
			wantContain: []string{"[*] --> waiting_room", "waiting_room: waiting room", "waiting_room --> done: go"},
		},
		{
			name:     "missing initial state",
			topology: fsm.Topology{States: []fsm.StateInfo{{Name: "A"}}},
			opts:     DefaultOptions(),
			wantErr:  ErrNoInitialState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := GenerateMermaidWithOptions(tt.topology, tt.opts)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)

			for _, want := range tt.wantContain {
				assert.Contains(t, result, want)
			}

			for _, unwanted := range tt.wantNotContain {
				assert.NotContains(t, result, unwanted)
			}

			assert.True(t, strings.HasSuffix(result, "```\n"))
		})
	}
}

func TestGenerateMermaidFromMachine(t *testing.T) {
	t.Parallel()

	m, err := fsm.NewBuilder[string]().
		AddStates(fsm.NewState[string]("idle", nil), fsm.NewState[string]("busy", nil)).
		AddTransition("idle", "start", "busy").
		AddTransition("busy", "stop", "idle").
		WithInitialState("idle").
		WithOptions(fsm.WithLogger(nil)).
		Build()
	require.NoError(t, err)

	result, err := GenerateMermaid(m.Topology())
	require.NoError(t, err)
	assert.Contains(t, result, "idle --> busy: start")
	assert.Contains(t, result, "busy --> idle: stop")
	assert.Contains(t, result, "class idle currentState")
}

func TestGenerateMermaidFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "machine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
initialState: A
states:
  - name: A
  - name: B
transitions:
  - {from: A, event: next, to: B}
`), 0o600))

	result, err := GenerateMermaidFromFile(path)
	require.NoError(t, err)
	assert.Contains(t, result, "A --> B: next")

	_, err = GenerateMermaidFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
