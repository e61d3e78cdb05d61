package fsm

import (
	"fmt"

	"github.com/google/uuid"
)

// Event is one occurrence delivered to a Machine. Name is the dispatch key;
// ID identifies the occurrence for tracing and never affects control flow.
type Event struct {
	id   uuid.UUID
	name string
}

// NewEvent creates an event with a fresh random ID.
func NewEvent(name string) Event {
	return Event{id: uuid.New(), name: name}
}

// NewEventWithID creates an event with a caller supplied ID, e.g. when
// replaying events recorded elsewhere.
func NewEventWithID(id uuid.UUID, name string) Event {
	return Event{id: id, name: name}
}

// ID returns the occurrence identifier.
func (e Event) ID() uuid.UUID {
	return e.id
}

// Name returns the dispatch key.
func (e Event) Name() string {
	return e.name
}

func (e Event) String() string {
	return fmt.Sprintf("%s(%s)", e.name, e.id)
}
