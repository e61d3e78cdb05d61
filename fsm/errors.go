package fsm

import (
	"errors"
	"fmt"
	"strings"
)

// Predefined error types.
var (
	// ErrInvalidTopology wraps every construction-time failure.
	ErrInvalidTopology = errors.New("invalid state machine topology")
	// ErrNoStates indicates that a machine was given no states.
	ErrNoStates = errors.New("at least one state is required")
	// ErrNilState indicates that a nil State was supplied.
	ErrNilState = errors.New("state is nil")
	// ErrStateNameRequired indicates that a state reported an empty name.
	ErrStateNameRequired = errors.New("state name is required")
	// ErrDuplicateStateName indicates that two states share a name.
	ErrDuplicateStateName = errors.New("duplicate state name")
	// ErrUnknownState indicates a reference to a state name the machine does not have.
	ErrUnknownState = errors.New("unknown state")
	// ErrInvalidEncoding indicates persisted state bytes that are not valid UTF-8.
	ErrInvalidEncoding = errors.New("persisted state name is not valid UTF-8")
	// ErrNilSink indicates that persistence was attempted without a sink.
	ErrNilSink = errors.New("sink is nil")

	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrInitialStateRequired indicates that a configuration names no initial state.
	ErrInitialStateRequired = errors.New("initial state is required")
	// ErrHandlerEventRequired indicates a handler entry without an event name.
	ErrHandlerEventRequired = errors.New("handler event is required")
	// ErrHandlerTypeRequired indicates a handler entry without a type.
	ErrHandlerTypeRequired = errors.New("handler type is required")
	// ErrDuplicateHandler indicates two handlers for the same event in one state.
	ErrDuplicateHandler = errors.New("duplicate handler for event")
	// ErrTransitionFieldRequired indicates a transition entry missing from, event or to.
	ErrTransitionFieldRequired = errors.New("transition requires from, event and to")
	// ErrUnknownHandlerType indicates a handler type with no registered builder.
	ErrUnknownHandlerType = errors.New("unknown handler type")
	// ErrReplyMessageRequired indicates a reply handler without a message parameter.
	ErrReplyMessageRequired = errors.New("reply handler requires a message parameter")
	// ErrReplyMessageType indicates a reply message that is not the machine's result type.
	ErrReplyMessageType = errors.New("reply message has the wrong type")
)

// Role describes where an unknown state name was referenced.
type Role string

const (
	RoleInitialState     Role = "initial state"
	RoleTransitionSource Role = "transition source"
	RoleTransitionTarget Role = "transition target"
	RoleAssignment       Role = "assignment"
)

// UnknownStateError names the offending identifier and the names that would
// have been accepted.
type UnknownStateError struct {
	Name       string
	Role       Role
	Transition *Transition // set for transition sources and targets
	Valid      []string
}

func (e *UnknownStateError) Error() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s: %q used as %s", ErrUnknownState, e.Name, e.Role)

	if e.Transition != nil {
		fmt.Fprintf(&sb, " (%s)", e.Transition)
	}

	fmt.Fprintf(&sb, "; valid states are [%s]", strings.Join(e.Valid, ", "))

	return sb.String()
}

func (e *UnknownStateError) Unwrap() error {
	return ErrUnknownState
}

// HandlerError wraps an error returned by a state's handler. The machine does
// not transition when it returns one.
type HandlerError struct {
	State string
	Event Event
	Err   error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("state %s: handling event %s: %v", e.State, e.Event.Name(), e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}
