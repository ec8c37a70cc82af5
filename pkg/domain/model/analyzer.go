package model

import (
	"fmt"
	"time"

	"github.com/secmon-lab/gyges/pkg/domain/types"
)

// Heuristic detection thresholds.
const (
	// A milestone description shorter than this is treated as a
	// requirements-clarity risk.
	minClearDescriptionLen = 50

	// Timelines at or below this duration count as aggressive.
	aggressiveTimeline = 14 * 24 * time.Hour

	// More dependencies than this signals a fragile dependency chain.
	maxComfortableDependencies = 2

	// More concurrently active milestones than this signals a team
	// capacity risk.
	maxComfortableActiveMilestones = 3
)

// AnalyzerContext carries the system-wide signals the analyzers consult
// beyond the milestone itself.
type AnalyzerContext struct {
	// ActiveMilestones is the current count of in-flight milestones
	// across the whole system, used as a capacity proxy.
	ActiveMilestones int
}

// RiskAnalyzer runs five independent category analyzers over a milestone
// snapshot. Each analyzer is a set of stateless rules that may emit zero
// or more identified risks; analyzer order does not affect the result.
type RiskAnalyzer struct{}

// NewRiskAnalyzer creates a new RiskAnalyzer
func NewRiskAnalyzer() *RiskAnalyzer {
	return &RiskAnalyzer{}
}

// Analyze returns the concatenated findings of all category analyzers.
func (a *RiskAnalyzer) Analyze(m *Milestone, actx AnalyzerContext) []IdentifiedRisk {
	var risks []IdentifiedRisk
	risks = append(risks, a.analyzeTechnical(m)...)
	risks = append(risks, a.analyzeResource(m, actx)...)
	risks = append(risks, a.analyzeSchedule(m)...)
	risks = append(risks, a.analyzeQuality(m)...)
	risks = append(risks, a.analyzeExternal(m)...)
	return risks
}

func (a *RiskAnalyzer) analyzeTechnical(m *Milestone) []IdentifiedRisk {
	var risks []IdentifiedRisk

	switch m.StreamType {
	case types.StreamSecurityRemediation, types.StreamDataMigration, types.StreamRealtimeFeatures:
		risks = append(risks, IdentifiedRisk{
			Category:    types.RiskCategoryTechnical,
			Factor:      "complex_domain",
			Description: fmt.Sprintf("%s work carries inherent technical complexity", m.StreamType),
			Probability: types.RiskLevelMedium,
			Impact:      types.RiskLevelHigh,
			Indicators:  []string{"stream type is in the high-complexity group"},
		})
	}

	if len(m.Description) < minClearDescriptionLen {
		risks = append(risks, IdentifiedRisk{
			Category:    types.RiskCategoryTechnical,
			Factor:      "unclear_requirements",
			Description: "milestone description is too short to establish clear requirements",
			Probability: types.RiskLevelHigh,
			Impact:      types.RiskLevelMedium,
			Indicators:  []string{fmt.Sprintf("description length %d below %d", len(m.Description), minClearDescriptionLen)},
		})
	}

	return risks
}

func (a *RiskAnalyzer) analyzeResource(m *Milestone, actx AnalyzerContext) []IdentifiedRisk {
	var risks []IdentifiedRisk

	if actx.ActiveMilestones > maxComfortableActiveMilestones {
		risks = append(risks, IdentifiedRisk{
			Category:    types.RiskCategoryResource,
			Factor:      "team_capacity",
			Description: "team is spread across too many concurrent milestones",
			Probability: types.RiskLevelHigh,
			Impact:      types.RiskLevelMedium,
			Indicators:  []string{fmt.Sprintf("%d active milestones above %d", actx.ActiveMilestones, maxComfortableActiveMilestones)},
		})
	}

	switch m.StreamType {
	case types.StreamSecurityRemediation, types.StreamPerformanceOptimization:
		risks = append(risks, IdentifiedRisk{
			Category:    types.RiskCategoryResource,
			Factor:      "specialist_dependency",
			Description: fmt.Sprintf("%s work depends on specialist skills with limited coverage", m.StreamType),
			Probability: types.RiskLevelMedium,
			Impact:      types.RiskLevelMedium,
			Indicators:  []string{"stream type requires specialist skills"},
		})
	}

	return risks
}

func (a *RiskAnalyzer) analyzeSchedule(m *Milestone) []IdentifiedRisk {
	var risks []IdentifiedRisk

	if d := m.EstimatedDuration(); d > 0 && d <= aggressiveTimeline {
		risks = append(risks, IdentifiedRisk{
			Category:    types.RiskCategorySchedule,
			Factor:      "aggressive_timeline",
			Description: "planned duration leaves no slack for setbacks",
			Probability: types.RiskLevelHigh,
			Impact:      types.RiskLevelHigh,
			Indicators:  []string{fmt.Sprintf("planned duration %s at or below 14 days", d)},
		})
	}

	if len(m.Dependencies) > maxComfortableDependencies {
		risks = append(risks, IdentifiedRisk{
			Category:    types.RiskCategorySchedule,
			Factor:      "dependency_chain",
			Description: "milestone depends on several other milestones; upstream slips cascade",
			Probability: types.RiskLevelMedium,
			Impact:      types.RiskLevelHigh,
			Indicators:  []string{fmt.Sprintf("%d dependencies above %d", len(m.Dependencies), maxComfortableDependencies)},
		})
	}

	if m.Status == types.MilestoneStatusBlocked {
		risks = append(risks, IdentifiedRisk{
			Category:    types.RiskCategorySchedule,
			Factor:      "blocked",
			Description: "milestone is currently blocked and making no progress",
			Probability: types.RiskLevelHigh,
			Impact:      types.RiskLevelHigh,
			Indicators:  []string{"status is blocked"},
		})
	}

	return risks
}

func (a *RiskAnalyzer) analyzeQuality(m *Milestone) []IdentifiedRisk {
	var risks []IdentifiedRisk

	if d := m.EstimatedDuration(); d > 0 && d <= aggressiveTimeline {
		risks = append(risks, IdentifiedRisk{
			Category:    types.RiskCategoryQuality,
			Factor:      "compressed_verification",
			Description: "aggressive timeline leaves little room for verification work",
			Probability: types.RiskLevelMedium,
			Impact:      types.RiskLevelHigh,
			Indicators:  []string{"planned duration at or below 14 days"},
		})
	}

	if len(m.Metrics) == 0 {
		risks = append(risks, IdentifiedRisk{
			Category:    types.RiskCategoryQuality,
			Factor:      "no_quality_signal",
			Description: "milestone reports no metrics; quality cannot be observed",
			Probability: types.RiskLevelMedium,
			Impact:      types.RiskLevelMedium,
			Indicators:  []string{"metrics map is empty"},
		})
	}

	return risks
}

func (a *RiskAnalyzer) analyzeExternal(m *Milestone) []IdentifiedRisk {
	var risks []IdentifiedRisk

	switch m.StreamType {
	case types.StreamFrontendAuthMigration:
		risks = append(risks, IdentifiedRisk{
			Category:    types.RiskCategoryExternal,
			Factor:      "identity_provider",
			Description: "auth migration depends on an external identity provider",
			Probability: types.RiskLevelMedium,
			Impact:      types.RiskLevelHigh,
			Indicators:  []string{"stream type depends on a third-party identity provider"},
		})
	case types.StreamRealtimeFeatures:
		risks = append(risks, IdentifiedRisk{
			Category:    types.RiskCategoryExternal,
			Factor:      "infrastructure_provider",
			Description: "realtime delivery depends on external infrastructure capacity",
			Probability: types.RiskLevelLow,
			Impact:      types.RiskLevelHigh,
			Indicators:  []string{"stream type depends on provider infrastructure"},
		})
	}

	return risks
}
