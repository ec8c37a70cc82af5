package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// MilestoneID represents a unique identifier for a milestone
type MilestoneID string

var idPattern = regexp.MustCompile(`^[a-z0-9]+([-_][a-z0-9]+)*$`)

// Validate checks if the MilestoneID is valid
func (m MilestoneID) Validate() error {
	if m == "" {
		return goerr.New("milestone ID cannot be empty")
	}
	if !idPattern.MatchString(string(m)) {
		return goerr.New("milestone ID must be lowercase alphanumeric with hyphens or underscores", goerr.V("id", m))
	}
	return nil
}

// String returns the string representation of MilestoneID
func (m MilestoneID) String() string {
	return string(m)
}
