package model

import (
	"time"

	"github.com/secmon-lab/gyges/pkg/domain/types"
)

// AssessmentScope filters the milestones included in a portfolio risk
// assessment. Empty fields match everything.
type AssessmentScope struct {
	StreamTypes []types.StreamType
	Statuses    []types.MilestoneStatus
}

// Matches reports whether a milestone falls inside the scope.
func (s AssessmentScope) Matches(m *Milestone) bool {
	if len(s.StreamTypes) > 0 {
		found := false
		for _, st := range s.StreamTypes {
			if m.StreamType == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(s.Statuses) > 0 {
		found := false
		for _, st := range s.Statuses {
			if m.Status.Normalize() == st {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// PortfolioAssessment is the outcome of a risk assessment across all
// milestones in scope.
type PortfolioAssessment struct {
	ID                string
	Timestamp         time.Time
	TotalMilestones   int
	RiskSummary       map[types.RiskLevel]int
	CategoryBreakdown map[types.RiskCategory]int
	Recommendations   []string
	Escalations       []EscalationEvent
	MitigationPlans   []*MitigationPlan
}
