// Package validator lints machine topologies. Findings are advisory: a
// topology with findings may still build and run.
package validator

import (
	"fmt"
	"strings"

	"github.com/amp-labs/amp-fsm/fsm"
)

// Result holds every finding from one Validate run.
type Result struct {
	Findings []Finding
}

// Finding is one issue reported by a rule.
type Finding struct {
	Code     string   // Finding code like "UNREACHABLE_STATE"
	Severity Severity // How serious the finding is
	Message  string   // Human-readable message
	State    string   // State name if applicable
}

// Validate runs DefaultRules against topology.
func Validate(topology fsm.Topology) Result {
	return ValidateWithRules(topology, DefaultRules())
}

// ValidateFile loads a YAML config and validates its topology.
func ValidateFile(path string) (Result, error) {
	config, err := fsm.LoadConfig(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load config: %w", err)
	}

	return Validate(config.Topology()), nil
}

// ValidateWithRules runs rules in order and concatenates their findings.
func ValidateWithRules(topology fsm.Topology, rules []Rule) Result {
	var result Result

	for _, rule := range rules {
		result.Findings = append(result.Findings, rule.Check(topology)...)
	}

	return result
}

// HasErrors returns true if any finding has SeverityError.
func (r Result) HasErrors() bool {
	return r.count(SeverityError) > 0
}

// HasWarnings returns true if any finding has SeverityWarning.
func (r Result) HasWarnings() bool {
	return r.count(SeverityWarning) > 0
}

// Codes lists finding codes in order, mostly for tests.
func (r Result) Codes() []string {
	codes := make([]string, len(r.Findings))

	for i, f := range r.Findings {
		codes[i] = f.Code
	}

	return codes
}

func (r Result) count(severity Severity) int {
	n := 0

	for _, f := range r.Findings {
		if f.Severity == severity {
			n++
		}
	}

	return n
}

// String returns a human-readable summary.
func (r Result) String() string {
	if len(r.Findings) == 0 {
		return "Topology has no findings"
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "Topology has %d finding(s)\n", len(r.Findings))

	for _, f := range r.Findings {
		fmt.Fprintf(&sb, "  %s [%s] %s", f.Severity, f.Code, f.Message)

		if f.State != "" {
			fmt.Fprintf(&sb, " (state: %s)", f.State)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}
