package fsm

import "slices"

// Topology is a read-only snapshot of a machine's structure, used by the
// visualizer and validator packages.
type Topology struct {
	Name         string       `json:"name"                   yaml:"name"`
	InitialState string       `json:"initialState"           yaml:"initialState"`
	CurrentState string       `json:"currentState,omitempty" yaml:"currentState,omitempty"`
	States       []StateInfo  `json:"states"                 yaml:"states"`
	Transitions  []Transition `json:"transitions"            yaml:"transitions"`
}

// StateInfo describes one state. Events is nil when the state cannot list
// the events it handles.
type StateInfo struct {
	Name   string   `json:"name"             yaml:"name"`
	Events []string `json:"events,omitempty" yaml:"events,omitempty"`
}

// StateNames returns the state names in snapshot order.
func (t Topology) StateNames() []string {
	names := make([]string, len(t.States))

	for i, s := range t.States {
		names[i] = s.Name
	}

	return names
}

// HasState reports whether the snapshot contains name.
func (t Topology) HasState(name string) bool {
	return slices.ContainsFunc(t.States, func(s StateInfo) bool {
		return s.Name == name
	})
}

// Outgoing returns the transitions leaving name.
func (t Topology) Outgoing(name string) []Transition {
	var out []Transition

	for _, tr := range t.Transitions {
		if tr.From == name {
			out = append(out, tr)
		}
	}

	return out
}

// Topology snapshots the machine, including its current state.
func (m *Machine[R]) Topology() Topology {
	states := make([]StateInfo, 0, len(m.names))

	for _, name := range m.names {
		info := StateInfo{Name: name}

		if lister, ok := m.states[name].(EventLister); ok {
			info.Events = lister.Events()
		}

		states = append(states, info)
	}

	return Topology{
		Name:         m.name,
		InitialState: m.initial,
		CurrentState: m.current.Load(),
		States:       states,
		Transitions:  m.transitions.Transitions(),
	}
}
