package types

import "fmt"

// EvalStatus represents the outcome of a single gate, criterion or
// threshold evaluation.
type EvalStatus string

const (
	EvalStatusPassed EvalStatus = "passed"
	EvalStatusFailed EvalStatus = "failed"
	EvalStatusError  EvalStatus = "error"
)

// AllEvalStatuses returns all valid evaluation statuses
func AllEvalStatuses() []EvalStatus {
	return []EvalStatus{
		EvalStatusPassed,
		EvalStatusFailed,
		EvalStatusError,
	}
}

// IsValid checks if the evaluation status is valid
func (s EvalStatus) IsValid() bool {
	switch s {
	case EvalStatusPassed,
		EvalStatusFailed,
		EvalStatusError:
		return true
	default:
		return false
	}
}

// String returns the string representation of the evaluation status
func (s EvalStatus) String() string {
	return string(s)
}

// ParseEvalStatus parses a string into an EvalStatus
func ParseEvalStatus(s string) (EvalStatus, error) {
	status := EvalStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid evaluation status: %s", s)
	}
	return status, nil
}
