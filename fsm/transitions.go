package fsm

import (
	"maps"
	"slices"
)

// TransitionTable maps a state name and an event name to the next state name.
// The zero value is ready for reads; use NewTransitionTable or Set on a
// non-nil table for writes.
type TransitionTable map[string]map[string]string

// NewTransitionTable builds a table from edges. Later edges for the same
// (from, event) pair replace earlier ones.
func NewTransitionTable(transitions ...Transition) TransitionTable {
	table := make(TransitionTable)

	for _, t := range transitions {
		table.Set(t.From, t.Event, t.To)
	}

	return table
}

// Set records from --event--> to, replacing any previous target.
func (t TransitionTable) Set(from, event, to string) {
	row, ok := t[from]
	if !ok {
		row = make(map[string]string)
		t[from] = row
	}

	row[event] = to
}

// Next returns the target for (from, event), if any.
func (t TransitionTable) Next(from, event string) (string, bool) {
	to, ok := t[from][event]

	return to, ok
}

// Clone returns a deep copy.
func (t TransitionTable) Clone() TransitionTable {
	out := make(TransitionTable, len(t))

	for from, row := range t {
		out[from] = maps.Clone(row)
	}

	return out
}

// Len returns the number of edges.
func (t TransitionTable) Len() int {
	n := 0

	for _, row := range t {
		n += len(row)
	}

	return n
}

// Transitions lists every edge ordered by source state, then event name.
func (t TransitionTable) Transitions() []Transition {
	out := make([]Transition, 0, t.Len())

	for _, from := range slices.Sorted(maps.Keys(t)) {
		row := t[from]

		for _, event := range slices.Sorted(maps.Keys(row)) {
			out = append(out, Transition{From: from, Event: event, To: row[event]})
		}
	}

	return out
}
