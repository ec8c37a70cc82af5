package model

import (
	"time"

	"github.com/secmon-lab/gyges/pkg/domain/types"
)

// GateResult is the outcome of evaluating one quality gate.
type GateResult struct {
	Name   string
	Status types.EvalStatus
	Score  float64
	Detail string
}

// CriterionResult is the outcome of evaluating one success criterion.
type CriterionResult struct {
	Name   string
	Status types.EvalStatus
	Score  float64
	Detail string
}

// ThresholdResult is the outcome of comparing one live metric against its
// configured performance threshold.
type ThresholdResult struct {
	Metric    string
	Status    types.EvalStatus
	Value     float64
	Target    float64
	Direction types.Direction
}

// Blocker describes a condition preventing milestone validation. Blockers
// are informational to the caller; the engine does not enforce them.
type Blocker struct {
	Severity    types.RiskLevel
	Source      string
	Description string
}

// ValidationResult is the full outcome of validating a milestone against
// its rule set.
type ValidationResult struct {
	MilestoneID      types.MilestoneID
	Timestamp        time.Time
	GateResults      []GateResult
	CriteriaResults  []CriterionResult
	ThresholdResults []ThresholdResult
	OverallScore     float64
	IsValidated      bool
	Blockers         []Blocker
}

// Clone returns a deep copy of the validation result.
func (r *ValidationResult) Clone() *ValidationResult {
	if r == nil {
		return nil
	}

	c := *r
	if r.GateResults != nil {
		c.GateResults = make([]GateResult, len(r.GateResults))
		copy(c.GateResults, r.GateResults)
	}
	if r.CriteriaResults != nil {
		c.CriteriaResults = make([]CriterionResult, len(r.CriteriaResults))
		copy(c.CriteriaResults, r.CriteriaResults)
	}
	if r.ThresholdResults != nil {
		c.ThresholdResults = make([]ThresholdResult, len(r.ThresholdResults))
		copy(c.ThresholdResults, r.ThresholdResults)
	}
	if r.Blockers != nil {
		c.Blockers = make([]Blocker, len(r.Blockers))
		copy(c.Blockers, r.Blockers)
	}
	return &c
}
