package entrypoint

import "fmt"

// FailurePolicy decides what a failed startup run does to the entrypoint.
// Operators disagree on whether a broken startup run should prevent
// scheduling from ever starting, so this is configuration, not a branch.
type FailurePolicy string

const (
	// PolicyContinue logs a warning and proceeds to the scheduler handoff
	PolicyContinue FailurePolicy = "continue"
	// PolicyAbort fails the entrypoint, stopping the container
	PolicyAbort FailurePolicy = "abort"
)

// ParsePolicy parses a startup failure policy value
func ParsePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(s) {
	case PolicyContinue, PolicyAbort:
		return FailurePolicy(s), nil
	case "":
		return PolicyContinue, nil
	default:
		return "", fmt.Errorf("invalid startup policy %q (expected %q or %q)", s, PolicyContinue, PolicyAbort)
	}
}
