package types

import "fmt"

// MilestoneStatus represents the delivery status of a milestone
type MilestoneStatus string

const (
	MilestoneStatusNotStarted MilestoneStatus = "not_started"
	MilestoneStatusInProgress MilestoneStatus = "in_progress"
	MilestoneStatusInReview   MilestoneStatus = "in_review"
	MilestoneStatusBlocked    MilestoneStatus = "blocked"
	MilestoneStatusCompleted  MilestoneStatus = "completed"
)

// AllMilestoneStatuses returns all valid milestone statuses
func AllMilestoneStatuses() []MilestoneStatus {
	return []MilestoneStatus{
		MilestoneStatusNotStarted,
		MilestoneStatusInProgress,
		MilestoneStatusInReview,
		MilestoneStatusBlocked,
		MilestoneStatusCompleted,
	}
}

// IsValid checks if the milestone status is valid
func (s MilestoneStatus) IsValid() bool {
	switch s {
	case MilestoneStatusNotStarted,
		MilestoneStatusInProgress,
		MilestoneStatusInReview,
		MilestoneStatusBlocked,
		MilestoneStatusCompleted:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as MilestoneStatusNotStarted for backward compatibility.
func (s MilestoneStatus) Normalize() MilestoneStatus {
	if s == "" {
		return MilestoneStatusNotStarted
	}
	return s
}

// String returns the string representation of the milestone status
func (s MilestoneStatus) String() string {
	return string(s)
}

// ParseMilestoneStatus parses a string into a MilestoneStatus
func ParseMilestoneStatus(s string) (MilestoneStatus, error) {
	status := MilestoneStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid milestone status: %s", s)
	}
	return status, nil
}
