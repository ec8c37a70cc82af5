package model

import (
	"fmt"
	"time"

	"github.com/secmon-lab/gyges/pkg/domain/model/config"
	"github.com/secmon-lab/gyges/pkg/domain/types"
)

// EscalationStatus values for emitted events.
const (
	EscalationPending      = "pending"
	EscalationAcknowledged = "acknowledged"
)

// Immediate review is requested when the composite risk score exceeds
// this value regardless of the derived level.
const immediateReviewScore = 10.0

// EscalationEvent is a request for escalation. The engine only emits
// events; dispatch is a collaborator's responsibility.
type EscalationEvent struct {
	ID            string
	MilestoneID   types.MilestoneID
	Reason        string
	RequiredTiers []types.EscalationTier
	Status        string
	CreatedAt     time.Time
}

// EscalationEngine matches risk level and ad-hoc triggers against the
// escalation matrix.
type EscalationEngine struct {
	matrix *config.EscalationMatrix
}

// NewEscalationEngine creates a new EscalationEngine
func NewEscalationEngine(matrix *config.EscalationMatrix) *EscalationEngine {
	return &EscalationEngine{matrix: matrix}
}

// Evaluate emits the escalation events for a milestone and its
// assessment: one level event with the matrix's tiers for the assessed
// level, plus independent trigger events.
func (e *EscalationEngine) Evaluate(m *Milestone, assessment *RiskAssessment, now time.Time) []EscalationEvent {
	events := []EscalationEvent{{
		MilestoneID:   m.ID,
		Reason:        fmt.Sprintf("risk level %s", assessment.Level),
		RequiredTiers: e.matrix.TiersFor(assessment.Level),
		Status:        EscalationPending,
		CreatedAt:     now,
	}}

	if assessment.RiskScore > immediateReviewScore {
		events = append(events, EscalationEvent{
			MilestoneID:   m.ID,
			Reason:        fmt.Sprintf("immediate review: risk score %.1f above %.0f", assessment.RiskScore, immediateReviewScore),
			RequiredTiers: e.matrix.TiersFor(types.RiskLevelHigh),
			Status:        EscalationPending,
			CreatedAt:     now,
		})
	}

	if m.Status == types.MilestoneStatusBlocked && assessment.Level == types.RiskLevelCritical {
		events = append(events, EscalationEvent{
			MilestoneID:   m.ID,
			Reason:        "emergency response: milestone blocked at critical risk",
			RequiredTiers: e.matrix.TiersFor(types.RiskLevelCritical),
			Status:        EscalationPending,
			CreatedAt:     now,
		})
	}

	if assessment.HasCriticalImpact() {
		events = append(events, EscalationEvent{
			MilestoneID:   m.ID,
			Reason:        "executive awareness: a risk carries critical impact",
			RequiredTiers: []types.EscalationTier{types.TierExecutive},
			Status:        EscalationPending,
			CreatedAt:     now,
		})
	}

	return events
}
