// Package fsmtest provides testing utilities for fsm machines.
package fsmtest

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/amp-labs/amp-fsm/fsm"
	"github.com/stretchr/testify/assert"
)

// TraceEntry records a single dispatch.
type TraceEntry struct {
	Timestamp time.Time
	State     string
	Event     string
	Outcome   fsm.Outcome
	Duration  time.Duration
	Error     error
}

// Assignment records a SetCurrentStateName call, including rejected ones.
type Assignment struct {
	From  string
	To    string
	Error error
}

// Recorder is an fsm.Logger that keeps everything it is told. Install it
// with fsm.WithLogger. It is safe for concurrent use.
type Recorder struct {
	mu          sync.Mutex
	trace       []TraceEntry
	transitions []fsm.Transition
	assignments []Assignment
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

var _ fsm.Logger = (*Recorder)(nil)

func (r *Recorder) EventDispatched(
	_ context.Context, _ string, state string, event fsm.Event, outcome fsm.Outcome, duration time.Duration, err error,
) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.trace = append(r.trace, TraceEntry{
		Timestamp: time.Now(),
		State:     state,
		Event:     event.Name(),
		Outcome:   outcome,
		Duration:  duration,
		Error:     err,
	})
}

func (r *Recorder) TransitionExecuted(_ context.Context, _ string, transition fsm.Transition, _ fsm.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transitions = append(r.transitions, transition)
}

func (r *Recorder) StateAssigned(_ context.Context, _ string, from, to string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.assignments = append(r.assignments, Assignment{From: from, To: to, Error: err})
}

// Trace returns a copy of the dispatch trace.
func (r *Recorder) Trace() []TraceEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.trace)
}

// Transitions returns a copy of the transitions taken.
func (r *Recorder) Transitions() []fsm.Transition {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.transitions)
}

// Assignments returns a copy of the recorded assignments.
func (r *Recorder) Assignments() []Assignment {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.assignments)
}

// VisitedStates returns the state of each dispatch followed by the target of
// the final transition, without consecutive duplicates.
func (r *Recorder) VisitedStates() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	states := make([]string, 0, len(r.trace)+1)

	for _, entry := range r.trace {
		states = append(states, entry.State)
	}

	if n := len(r.transitions); n > 0 {
		states = append(states, r.transitions[n-1].To)
	}

	return slices.Compact(states)
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.trace = nil
	r.transitions = nil
	r.assignments = nil
}

// AssertStateVisited checks that some dispatch happened in stateName.
func (r *Recorder) AssertStateVisited(t *testing.T, stateName string) bool {
	t.Helper()

	return assert.Contains(t, r.VisitedStates(), stateName, "state '%s' should be visited", stateName)
}

// AssertTransitionTaken checks that from --event--> to was taken.
func (r *Recorder) AssertTransitionTaken(t *testing.T, from, event, to string) bool {
	t.Helper()

	want := fsm.Transition{From: from, Event: event, To: to}

	return assert.Contains(t, r.Transitions(), want, "transition %s should be taken", want)
}

// AssertNoErrors checks that no dispatch failed.
func (r *Recorder) AssertNoErrors(t *testing.T) bool {
	t.Helper()

	ok := true

	for _, entry := range r.Trace() {
		ok = assert.NoError(t, entry.Error, "dispatch of %s in %s", entry.Event, entry.State) && ok
	}

	return ok
}
