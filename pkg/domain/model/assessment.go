package model

import (
	"time"

	"github.com/secmon-lab/gyges/pkg/domain/types"
)

// IdentifiedRisk is one risk detected by a category analyzer.
type IdentifiedRisk struct {
	Category    types.RiskCategory
	Factor      string
	Description string
	Probability types.RiskLevel
	Impact      types.RiskLevel
	Indicators  []string
}

// RiskAssessment is the aggregate risk picture for one milestone.
// RiskScore is the product of the mean probability and mean impact on
// the 1-4 scale, so it ranges over [0, 16].
type RiskAssessment struct {
	ID              string
	MilestoneID     types.MilestoneID
	Timestamp       time.Time
	IdentifiedRisks []IdentifiedRisk
	Probability     float64
	Impact          float64
	RiskScore       float64
	Level           types.RiskLevel
}

// HasCriticalImpact reports whether any identified risk carries a
// critical impact rating.
func (a *RiskAssessment) HasCriticalImpact() bool {
	for _, r := range a.IdentifiedRisks {
		if r.Impact == types.RiskLevelCritical {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the assessment.
func (a *RiskAssessment) Clone() *RiskAssessment {
	if a == nil {
		return nil
	}

	c := *a
	if a.IdentifiedRisks != nil {
		c.IdentifiedRisks = make([]IdentifiedRisk, len(a.IdentifiedRisks))
		copy(c.IdentifiedRisks, a.IdentifiedRisks)
		for i, r := range a.IdentifiedRisks {
			if r.Indicators != nil {
				ind := make([]string, len(r.Indicators))
				copy(ind, r.Indicators)
				c.IdentifiedRisks[i].Indicators = ind
			}
		}
	}
	return &c
}

// RiskScorer aggregates identified risks into a composite score and a
// discrete risk level.
type RiskScorer struct{}

// NewRiskScorer creates a new RiskScorer
func NewRiskScorer() *RiskScorer {
	return &RiskScorer{}
}

// Score maps every identified risk's probability and impact to the 1-4
// scale, averages across all risks, and multiplies the means to derive
// the composite risk score and level. With no identified risks the level
// is low and both means are zero.
func (s *RiskScorer) Score(milestoneID types.MilestoneID, risks []IdentifiedRisk, now time.Time) *RiskAssessment {
	assessment := &RiskAssessment{
		MilestoneID:     milestoneID,
		Timestamp:       now,
		IdentifiedRisks: risks,
		Level:           types.RiskLevelLow,
	}
	if len(risks) == 0 {
		return assessment
	}

	var probSum, impactSum int
	for _, r := range risks {
		probSum += r.Probability.Score()
		impactSum += r.Impact.Score()
	}

	assessment.Probability = float64(probSum) / float64(len(risks))
	assessment.Impact = float64(impactSum) / float64(len(risks))
	assessment.RiskScore = assessment.Probability * assessment.Impact
	assessment.Level = types.RiskLevelFromScore(assessment.RiskScore)

	return assessment
}
