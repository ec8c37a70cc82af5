package model

import (
	"time"

	"github.com/secmon-lab/gyges/pkg/domain/model/config"
	"github.com/secmon-lab/gyges/pkg/domain/types"
)

// RiskMitigation pairs one identified risk with its selected strategy
// and the concrete actions taken from the catalog template.
type RiskMitigation struct {
	Risk     IdentifiedRisk
	Strategy types.Strategy
	Actions  []string
}

// TimelinePhase groups one mitigation's actions into a sequential
// weekly phase.
type TimelinePhase struct {
	Week    int
	Actions []string
}

// Contingency records a fallback for when a mitigation does not work.
type Contingency struct {
	Trigger  string
	Fallback string
}

// MitigationPlan is the action/timeline/contingency plan built for a
// milestone whose risk level is high or critical.
type MitigationPlan struct {
	MilestoneID     types.MilestoneID
	CreatedAt       time.Time
	Mitigations     []RiskMitigation
	Timeline        []TimelinePhase
	Resources       []string
	SuccessCriteria []string
	Contingencies   []Contingency
}

// MitigationPlanner selects a strategy per identified risk and builds a
// plan from the catalog's action templates.
type MitigationPlanner struct {
	catalog *config.MitigationCatalog
}

// NewMitigationPlanner creates a new MitigationPlanner
func NewMitigationPlanner(catalog *config.MitigationCatalog) *MitigationPlanner {
	return &MitigationPlanner{catalog: catalog}
}

// Plan builds a mitigation plan for the assessment. It returns nil
// unless the assessment level is high or critical.
func (p *MitigationPlanner) Plan(assessment *RiskAssessment, now time.Time) *MitigationPlan {
	if !assessment.Level.AtLeast(types.RiskLevelHigh) {
		return nil
	}

	plan := &MitigationPlan{
		MilestoneID: assessment.MilestoneID,
		CreatedAt:   now,
		SuccessCriteria: []string{
			"milestone risk level reduced below high",
			"no active critical risk factors remain",
		},
	}

	resources := map[string]bool{}
	for i, risk := range assessment.IdentifiedRisks {
		strategy := SelectStrategy(risk)
		actions := p.catalog.Actions(strategy)

		plan.Mitigations = append(plan.Mitigations, RiskMitigation{
			Risk:     risk,
			Strategy: strategy,
			Actions:  actions,
		})
		// Action groups are placed in sequential weekly phases.
		plan.Timeline = append(plan.Timeline, TimelinePhase{
			Week:    i + 1,
			Actions: actions,
		})
		plan.Contingencies = append(plan.Contingencies, Contingency{
			Trigger:  "mitigation fails: " + risk.Factor,
			Fallback: fallbackFor(strategy),
		})
		for _, res := range p.catalog.Resources(strategy) {
			if !resources[res] {
				resources[res] = true
				plan.Resources = append(plan.Resources, res)
			}
		}
	}

	return plan
}

// SelectStrategy applies the strategy selection rules to one risk:
// critical-impact technical risks are avoided, low-probability resource
// risks are accepted, external risks are transferred, everything else is
// mitigated.
func SelectStrategy(risk IdentifiedRisk) types.Strategy {
	switch {
	case risk.Impact == types.RiskLevelCritical && risk.Category == types.RiskCategoryTechnical:
		return types.StrategyAvoid
	case risk.Probability == types.RiskLevelLow && risk.Category == types.RiskCategoryResource:
		return types.StrategyAccept
	case risk.Category == types.RiskCategoryExternal:
		return types.StrategyTransfer
	default:
		return types.StrategyMitigate
	}
}

func fallbackFor(strategy types.Strategy) string {
	switch strategy {
	case types.StrategyAvoid:
		return "halt the affected work and re-plan the milestone scope"
	case types.StrategyTransfer:
		return "bring the capability back in-house with a reduced scope"
	case types.StrategyAccept:
		return "promote the risk to active mitigation"
	default:
		return "escalate to management and re-plan the mitigation"
	}
}
