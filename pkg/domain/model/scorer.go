package model

import (
	"fmt"
	"time"

	"github.com/secmon-lab/gyges/pkg/domain/types"
)

// Composite score weights. Gate and criterion pass rates dominate;
// performance thresholds contribute the remainder.
const (
	gateWeight      = 0.4
	criteriaWeight  = 0.4
	thresholdWeight = 0.2

	validationScoreFloor = 80.0
)

// ValidationScorer combines gate, criterion and threshold results into a
// composite score, a validated flag and a blocker list.
type ValidationScorer struct{}

// NewValidationScorer creates a new ValidationScorer
func NewValidationScorer() *ValidationScorer {
	return &ValidationScorer{}
}

// Score builds the full ValidationResult for a milestone from its
// evaluation results.
func (s *ValidationScorer) Score(m *Milestone, gates []GateResult, criteria []CriterionResult, thresholds []ThresholdResult, now time.Time) *ValidationResult {
	overall := s.overallScore(gates, criteria, thresholds)

	return &ValidationResult{
		MilestoneID:      m.ID,
		Timestamp:        now,
		GateResults:      gates,
		CriteriaResults:  criteria,
		ThresholdResults: thresholds,
		OverallScore:     overall,
		IsValidated:      s.isValidated(m, gates, criteria, overall),
		Blockers:         s.identifyBlockers(m, gates, criteria),
	}
}

// overallScore computes the weighted composite score on [0, 100]. An
// empty rule list counts as a full pass for its component.
func (s *ValidationScorer) overallScore(gates []GateResult, criteria []CriterionResult, thresholds []ThresholdResult) float64 {
	gateRate := passRate(len(gates), countGatesPassed(gates))
	criteriaRate := passRate(len(criteria), countCriteriaPassed(criteria))
	thresholdRate := passRate(len(thresholds), countThresholdsPassed(thresholds))

	return gateWeight*gateRate*100 + criteriaWeight*criteriaRate*100 + thresholdWeight*thresholdRate*100
}

// isValidated reports whether the milestone satisfies its quality gates
// and success criteria: all gates passed, all criteria passed, composite
// score at or above the floor, and no active critical risk factor.
func (s *ValidationScorer) isValidated(m *Milestone, gates []GateResult, criteria []CriterionResult, overall float64) bool {
	if countGatesPassed(gates) != len(gates) {
		return false
	}
	if countCriteriaPassed(criteria) != len(criteria) {
		return false
	}
	if overall < validationScoreFloor {
		return false
	}
	return !m.HasActiveCriticalRisk()
}

// identifyBlockers lists the conditions preventing validation: failed
// gates at high severity, failed or erroring criteria at critical
// severity, and active critical risk factors at critical severity.
func (s *ValidationScorer) identifyBlockers(m *Milestone, gates []GateResult, criteria []CriterionResult) []Blocker {
	blockers := []Blocker{}

	for _, g := range gates {
		if g.Status != types.EvalStatusPassed {
			blockers = append(blockers, Blocker{
				Severity:    types.RiskLevelHigh,
				Source:      "quality_gate",
				Description: fmt.Sprintf("quality gate %q did not pass (%s)", g.Name, g.Status),
			})
		}
	}

	for _, c := range criteria {
		if c.Status != types.EvalStatusPassed {
			blockers = append(blockers, Blocker{
				Severity:    types.RiskLevelCritical,
				Source:      "success_criterion",
				Description: fmt.Sprintf("success criterion %q did not pass (%s)", c.Name, c.Status),
			})
		}
	}

	for _, f := range m.RiskFactors {
		if f.Status == types.FactorStatusActive && f.Level == types.RiskLevelCritical {
			blockers = append(blockers, Blocker{
				Severity:    types.RiskLevelCritical,
				Source:      "risk_factor",
				Description: fmt.Sprintf("active critical risk: %s", f.Description),
			})
		}
	}

	return blockers
}

func passRate(total, passed int) float64 {
	if total == 0 {
		return 1.0
	}
	return float64(passed) / float64(total)
}

func countGatesPassed(gates []GateResult) int {
	n := 0
	for _, g := range gates {
		if g.Status == types.EvalStatusPassed {
			n++
		}
	}
	return n
}

func countCriteriaPassed(criteria []CriterionResult) int {
	n := 0
	for _, c := range criteria {
		if c.Status == types.EvalStatusPassed {
			n++
		}
	}
	return n
}

func countThresholdsPassed(thresholds []ThresholdResult) int {
	n := 0
	for _, t := range thresholds {
		if t.Status == types.EvalStatusPassed {
			n++
		}
	}
	return n
}
