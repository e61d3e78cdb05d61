package validator

import (
	"fmt"

	"github.com/amp-labs/amp-fsm/fsm"
)

// Severity defines the severity level of a finding.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Rule checks a topology for one kind of issue.
type Rule interface {
	Name() string
	Check(topology fsm.Topology) []Finding
}

// DefaultRules returns the standard set of rules.
func DefaultRules() []Rule {
	return []Rule{
		&unknownReferenceRule{},
		&unreachableStateRule{},
		&absorbingStateRule{},
		&inertStateRule{},
	}
}

// unknownReferenceRule reports names that are not states. Building such a
// topology fails, so these are errors.
type unknownReferenceRule struct{}

func (r *unknownReferenceRule) Name() string {
	return "UnknownReference"
}

func (r *unknownReferenceRule) Check(topology fsm.Topology) []Finding {
	var findings []Finding

	if !topology.HasState(topology.InitialState) {
		findings = append(findings, Finding{
			Code:     "UNKNOWN_STATE_REFERENCE",
			Severity: SeverityError,
			Message:  fmt.Sprintf("Initial state '%s' is not defined", topology.InitialState),
		})
	}

	for _, t := range topology.Transitions {
		for _, name := range []string{t.From, t.To} {
			if !topology.HasState(name) {
				findings = append(findings, Finding{
					Code:     "UNKNOWN_STATE_REFERENCE",
					Severity: SeverityError,
					Message:  fmt.Sprintf("Transition %s references undefined state '%s'", t, name),
					State:    name,
				})
			}
		}
	}

	return findings
}

// unreachableStateRule reports states no chain of transitions leads to.
type unreachableStateRule struct{}

func (r *unreachableStateRule) Name() string {
	return "UnreachableState"
}

func (r *unreachableStateRule) Check(topology fsm.Topology) []Finding {
	reachable := map[string]bool{topology.InitialState: true}

	queue := []string{topology.InitialState}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, t := range topology.Outgoing(current) {
			if !reachable[t.To] {
				reachable[t.To] = true
				queue = append(queue, t.To)
			}
		}
	}

	var findings []Finding

	for _, state := range topology.States {
		if !reachable[state.Name] {
			findings = append(findings, Finding{
				Code:     "UNREACHABLE_STATE",
				Severity: SeverityWarning,
				Message: fmt.Sprintf("State '%s' cannot be reached from initial state '%s' except by assignment",
					state.Name, topology.InitialState),
				State: state.Name,
			})
		}
	}

	return findings
}

// absorbingStateRule reports states with no edge to another state. Self-loops
// do not count as a way out.
type absorbingStateRule struct{}

func (r *absorbingStateRule) Name() string {
	return "AbsorbingState"
}

func (r *absorbingStateRule) Check(topology fsm.Topology) []Finding {
	var findings []Finding

	for _, state := range topology.States {
		leaves := false

		for _, t := range topology.Outgoing(state.Name) {
			if t.To != state.Name {
				leaves = true

				break
			}
		}

		if !leaves {
			findings = append(findings, Finding{
				Code:     "ABSORBING_STATE",
				Severity: SeverityInfo,
				Message:  fmt.Sprintf("No transition leaves state '%s'", state.Name),
				State:    state.Name,
			})
		}
	}

	return findings
}

// inertStateRule reports states with neither handlers nor outgoing edges.
// Every event delivered there is a no-op.
type inertStateRule struct{}

func (r *inertStateRule) Name() string {
	return "InertState"
}

func (r *inertStateRule) Check(topology fsm.Topology) []Finding {
	var findings []Finding

	for _, state := range topology.States {
		if len(state.Events) == 0 && len(topology.Outgoing(state.Name)) == 0 {
			findings = append(findings, Finding{
				Code:     "INERT_STATE",
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("State '%s' has no handlers and no outgoing transitions", state.Name),
				State:    state.Name,
			})
		}
	}

	return findings
}
