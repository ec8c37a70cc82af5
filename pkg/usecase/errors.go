package usecase

import "errors"

// Sentinel errors for use case layer
var (
	ErrMilestoneNotFound = errors.New("milestone not found")

	// ErrAssessmentInFlight is returned when a risk assessment is
	// requested for a milestone that already has one running.
	ErrAssessmentInFlight = errors.New("assessment already in flight")
)
