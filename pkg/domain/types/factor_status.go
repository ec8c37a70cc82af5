package types

import "fmt"

// FactorStatus represents the lifecycle state of a persisted risk factor
type FactorStatus string

const (
	FactorStatusActive    FactorStatus = "active"
	FactorStatusMitigated FactorStatus = "mitigated"
)

// AllFactorStatuses returns all valid factor statuses
func AllFactorStatuses() []FactorStatus {
	return []FactorStatus{
		FactorStatusActive,
		FactorStatusMitigated,
	}
}

// IsValid checks if the factor status is valid
func (s FactorStatus) IsValid() bool {
	switch s {
	case FactorStatusActive,
		FactorStatusMitigated:
		return true
	default:
		return false
	}
}

// String returns the string representation of the factor status
func (s FactorStatus) String() string {
	return string(s)
}

// ParseFactorStatus parses a string into a FactorStatus
func ParseFactorStatus(s string) (FactorStatus, error) {
	status := FactorStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid factor status: %s", s)
	}
	return status, nil
}
