package model_test

import (
	"strings"
	"testing"
	"time"

	"github.com/secmon-lab/gyges/pkg/domain/model"
	"github.com/secmon-lab/gyges/pkg/domain/types"
)

func baseMilestone() *model.Milestone {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return &model.Milestone{
		ID:             "apply-indexes",
		Title:          "Apply new indexes",
		Description:    strings.Repeat("a detailed description of the milestone ", 3),
		StreamType:     types.StreamIntegrationTesting,
		Status:         types.MilestoneStatusInProgress,
		EstimatedStart: start,
		EstimatedEnd:   start.AddDate(0, 2, 0),
		Metrics:        map[string]float64{"suite_pass_rate": 99},
	}
}

func findRisk(risks []model.IdentifiedRisk, factor string) (model.IdentifiedRisk, bool) {
	for _, r := range risks {
		if r.Factor == factor {
			return r, true
		}
	}
	return model.IdentifiedRisk{}, false
}

func TestRiskAnalyzer_QuietMilestoneHasNoFindings(t *testing.T) {
	a := model.NewRiskAnalyzer()

	risks := a.Analyze(baseMilestone(), model.AnalyzerContext{ActiveMilestones: 2})

	if len(risks) != 0 {
		t.Errorf("expected no risks for a quiet milestone, got %d: %+v", len(risks), risks)
	}
}

func TestRiskAnalyzer_Technical(t *testing.T) {
	a := model.NewRiskAnalyzer()

	m := baseMilestone()
	m.StreamType = types.StreamDataMigration
	m.Description = "short"

	risks := a.Analyze(m, model.AnalyzerContext{})

	if _, ok := findRisk(risks, "complex_domain"); !ok {
		t.Error("expected complex_domain risk for data_migration")
	}
	if r, ok := findRisk(risks, "unclear_requirements"); !ok {
		t.Error("expected unclear_requirements risk for a short description")
	} else if r.Probability != types.RiskLevelHigh || r.Impact != types.RiskLevelMedium {
		t.Errorf("unexpected rating for unclear_requirements: p=%s i=%s", r.Probability, r.Impact)
	}
}

func TestRiskAnalyzer_Resource(t *testing.T) {
	a := model.NewRiskAnalyzer()

	m := baseMilestone()
	risks := a.Analyze(m, model.AnalyzerContext{ActiveMilestones: 4})
	if _, ok := findRisk(risks, "team_capacity"); !ok {
		t.Error("expected team_capacity risk with 4 active milestones")
	}

	risks = a.Analyze(m, model.AnalyzerContext{ActiveMilestones: 3})
	if _, ok := findRisk(risks, "team_capacity"); ok {
		t.Error("did not expect team_capacity risk with 3 active milestones")
	}

	m.StreamType = types.StreamPerformanceOptimization
	risks = a.Analyze(m, model.AnalyzerContext{})
	if _, ok := findRisk(risks, "specialist_dependency"); !ok {
		t.Error("expected specialist_dependency risk for performance_optimization")
	}
}

func TestRiskAnalyzer_Schedule(t *testing.T) {
	a := model.NewRiskAnalyzer()

	m := baseMilestone()
	m.EstimatedEnd = m.EstimatedStart.AddDate(0, 0, 14)
	m.Dependencies = []types.MilestoneID{"a", "b", "c"}
	m.Status = types.MilestoneStatusBlocked

	risks := a.Analyze(m, model.AnalyzerContext{})

	for _, factor := range []string{"aggressive_timeline", "dependency_chain", "blocked"} {
		if _, ok := findRisk(risks, factor); !ok {
			t.Errorf("expected %s risk", factor)
		}
	}

	// 15-day timeline is no longer aggressive.
	m.EstimatedEnd = m.EstimatedStart.AddDate(0, 0, 15)
	risks = a.Analyze(m, model.AnalyzerContext{})
	if _, ok := findRisk(risks, "aggressive_timeline"); ok {
		t.Error("did not expect aggressive_timeline risk for a 15-day plan")
	}
}

func TestRiskAnalyzer_Quality(t *testing.T) {
	a := model.NewRiskAnalyzer()

	m := baseMilestone()
	m.Metrics = nil
	risks := a.Analyze(m, model.AnalyzerContext{})
	if _, ok := findRisk(risks, "no_quality_signal"); !ok {
		t.Error("expected no_quality_signal risk for empty metrics")
	}

	m = baseMilestone()
	m.EstimatedEnd = m.EstimatedStart.AddDate(0, 0, 10)
	risks = a.Analyze(m, model.AnalyzerContext{})
	if _, ok := findRisk(risks, "compressed_verification"); !ok {
		t.Error("expected compressed_verification risk for a 10-day plan")
	}
}

func TestRiskAnalyzer_External(t *testing.T) {
	a := model.NewRiskAnalyzer()

	m := baseMilestone()
	m.StreamType = types.StreamFrontendAuthMigration
	risks := a.Analyze(m, model.AnalyzerContext{})
	if r, ok := findRisk(risks, "identity_provider"); !ok {
		t.Error("expected identity_provider risk for frontend_auth_migration")
	} else if r.Category != types.RiskCategoryExternal {
		t.Errorf("expected external category, got %s", r.Category)
	}

	m.StreamType = types.StreamRealtimeFeatures
	risks = a.Analyze(m, model.AnalyzerContext{})
	if _, ok := findRisk(risks, "infrastructure_provider"); !ok {
		t.Error("expected infrastructure_provider risk for realtime_features")
	}
}

func TestRiskAnalyzer_AllFindingsCarryValidRatings(t *testing.T) {
	a := model.NewRiskAnalyzer()

	m := baseMilestone()
	m.StreamType = types.StreamSecurityRemediation
	m.Description = "x"
	m.Status = types.MilestoneStatusBlocked
	m.Dependencies = []types.MilestoneID{"a", "b", "c", "d"}
	m.EstimatedEnd = m.EstimatedStart.AddDate(0, 0, 7)
	m.Metrics = nil

	risks := a.Analyze(m, model.AnalyzerContext{ActiveMilestones: 10})
	if len(risks) == 0 {
		t.Fatal("expected findings for a maximally risky milestone")
	}
	for _, r := range risks {
		if !r.Category.IsValid() {
			t.Errorf("invalid category: %s", r.Category)
		}
		if !r.Probability.IsValid() || !r.Impact.IsValid() {
			t.Errorf("invalid rating on %s: p=%s i=%s", r.Factor, r.Probability, r.Impact)
		}
		if len(r.Indicators) == 0 {
			t.Errorf("risk %s has no indicators", r.Factor)
		}
	}
}
