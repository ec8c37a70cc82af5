package model_test

import (
	"math"
	"testing"
	"time"

	"github.com/secmon-lab/gyges/pkg/domain/model"
	"github.com/secmon-lab/gyges/pkg/domain/types"
)

func TestRiskScorer_NoRisks(t *testing.T) {
	s := model.NewRiskScorer()

	a := s.Score("m-1", nil, time.Now())

	if a.Level != types.RiskLevelLow {
		t.Errorf("expected low level for no risks, got %s", a.Level)
	}
	if a.Probability != 0 || a.Impact != 0 || a.RiskScore != 0 {
		t.Errorf("expected zero scores for no risks, got p=%v i=%v s=%v", a.Probability, a.Impact, a.RiskScore)
	}
}

func TestRiskScorer_ExactArithmetic(t *testing.T) {
	s := model.NewRiskScorer()

	risks := []model.IdentifiedRisk{
		{Probability: types.RiskLevelHigh, Impact: types.RiskLevelCritical},   // 3, 4
		{Probability: types.RiskLevelLow, Impact: types.RiskLevelMedium},      // 1, 2
		{Probability: types.RiskLevelMedium, Impact: types.RiskLevelCritical}, // 2, 4
	}

	a := s.Score("m-1", risks, time.Now())

	wantProb := (3.0 + 1.0 + 2.0) / 3.0
	wantImpact := (4.0 + 2.0 + 4.0) / 3.0
	wantScore := wantProb * wantImpact

	if math.Abs(a.Probability-wantProb) > 1e-12 {
		t.Errorf("Probability = %v, want %v", a.Probability, wantProb)
	}
	if math.Abs(a.Impact-wantImpact) > 1e-12 {
		t.Errorf("Impact = %v, want %v", a.Impact, wantImpact)
	}
	if math.Abs(a.RiskScore-wantScore) > 1e-12 {
		t.Errorf("RiskScore = %v, want %v", a.RiskScore, wantScore)
	}
}

func TestRiskScorer_SingleHighCriticalRisk(t *testing.T) {
	// probability high (3) x impact critical (4) = 12 => critical level
	s := model.NewRiskScorer()

	a := s.Score("m-1", []model.IdentifiedRisk{{
		Category:    types.RiskCategoryTechnical,
		Probability: types.RiskLevelHigh,
		Impact:      types.RiskLevelCritical,
	}}, time.Now())

	if a.RiskScore != 12 {
		t.Errorf("expected risk score 12, got %v", a.RiskScore)
	}
	if a.Level != types.RiskLevelCritical {
		t.Errorf("expected critical level, got %s", a.Level)
	}
	if !a.HasCriticalImpact() {
		t.Error("expected critical impact flag")
	}
}

func TestRiskScorer_LevelBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		risks []model.IdentifiedRisk
		want  types.RiskLevel
	}{
		{
			"2x2 is medium",
			[]model.IdentifiedRisk{{Probability: types.RiskLevelMedium, Impact: types.RiskLevelMedium}},
			types.RiskLevelMedium,
		},
		{
			"1x3 is low",
			[]model.IdentifiedRisk{{Probability: types.RiskLevelLow, Impact: types.RiskLevelHigh}},
			types.RiskLevelLow,
		},
		{
			"2x4 is high",
			[]model.IdentifiedRisk{{Probability: types.RiskLevelMedium, Impact: types.RiskLevelCritical}},
			types.RiskLevelHigh,
		},
		{
			"4x4 is critical",
			[]model.IdentifiedRisk{{Probability: types.RiskLevelCritical, Impact: types.RiskLevelCritical}},
			types.RiskLevelCritical,
		},
	}

	s := model.NewRiskScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := s.Score("m-1", tt.risks, time.Now())
			if a.Level != tt.want {
				t.Errorf("Level = %s (score %v), want %s", a.Level, a.RiskScore, tt.want)
			}
		})
	}
}
