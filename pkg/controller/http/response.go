package http

import (
	"time"

	"github.com/secmon-lab/gyges/pkg/domain/model"
)

// Response bodies are controller-local so the domain models stay free of
// serialization concerns.

type gateResultResponse struct {
	Name   string  `json:"name"`
	Status string  `json:"status"`
	Score  float64 `json:"score"`
	Detail string  `json:"detail,omitempty"`
}

type thresholdResultResponse struct {
	Metric    string  `json:"metric"`
	Status    string  `json:"status"`
	Value     float64 `json:"value"`
	Target    float64 `json:"target"`
	Direction string  `json:"direction"`
}

type blockerResponse struct {
	Severity    string `json:"severity"`
	Source      string `json:"source"`
	Description string `json:"description"`
}

type validationResultResponse struct {
	MilestoneID      string                    `json:"milestone_id"`
	Timestamp        time.Time                 `json:"timestamp"`
	GateResults      []gateResultResponse      `json:"gate_results"`
	CriteriaResults  []gateResultResponse      `json:"criteria_results"`
	ThresholdResults []thresholdResultResponse `json:"threshold_results"`
	OverallScore     float64                   `json:"overall_score"`
	IsValidated      bool                      `json:"is_validated"`
	Blockers         []blockerResponse         `json:"blockers"`
}

func toValidationResultResponse(result *model.ValidationResult) *validationResultResponse {
	resp := &validationResultResponse{
		MilestoneID:      string(result.MilestoneID),
		Timestamp:        result.Timestamp,
		GateResults:      make([]gateResultResponse, len(result.GateResults)),
		CriteriaResults:  make([]gateResultResponse, len(result.CriteriaResults)),
		ThresholdResults: make([]thresholdResultResponse, len(result.ThresholdResults)),
		OverallScore:     result.OverallScore,
		IsValidated:      result.IsValidated,
		Blockers:         make([]blockerResponse, len(result.Blockers)),
	}

	for i, g := range result.GateResults {
		resp.GateResults[i] = gateResultResponse{
			Name:   g.Name,
			Status: string(g.Status),
			Score:  g.Score,
			Detail: g.Detail,
		}
	}
	for i, c := range result.CriteriaResults {
		resp.CriteriaResults[i] = gateResultResponse{
			Name:   c.Name,
			Status: string(c.Status),
			Score:  c.Score,
			Detail: c.Detail,
		}
	}
	for i, t := range result.ThresholdResults {
		resp.ThresholdResults[i] = thresholdResultResponse{
			Metric:    t.Metric,
			Status:    string(t.Status),
			Value:     t.Value,
			Target:    t.Target,
			Direction: string(t.Direction),
		}
	}
	for i, b := range result.Blockers {
		resp.Blockers[i] = blockerResponse{
			Severity:    string(b.Severity),
			Source:      b.Source,
			Description: b.Description,
		}
	}

	return resp
}

type escalationResponse struct {
	ID            string    `json:"id"`
	MilestoneID   string    `json:"milestone_id"`
	Reason        string    `json:"reason"`
	RequiredTiers []string  `json:"required_tiers"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type identifiedRiskResponse struct {
	Category    string   `json:"category"`
	Factor      string   `json:"factor"`
	Description string   `json:"description"`
	Probability string   `json:"probability"`
	Impact      string   `json:"impact"`
	Indicators  []string `json:"indicators,omitempty"`
}

type mitigationResponse struct {
	Risk     identifiedRiskResponse `json:"risk"`
	Strategy string                 `json:"strategy"`
	Actions  []string               `json:"actions"`
}

type timelinePhaseResponse struct {
	Week    int      `json:"week"`
	Actions []string `json:"actions"`
}

type contingencyResponse struct {
	Trigger  string `json:"trigger"`
	Fallback string `json:"fallback"`
}

type mitigationPlanResponse struct {
	MilestoneID     string                  `json:"milestone_id"`
	CreatedAt       time.Time               `json:"created_at"`
	Mitigations     []mitigationResponse    `json:"mitigations"`
	Timeline        []timelinePhaseResponse `json:"timeline"`
	Resources       []string                `json:"resources"`
	SuccessCriteria []string                `json:"success_criteria"`
	Contingencies   []contingencyResponse   `json:"contingencies"`
}

type portfolioResponse struct {
	ID                string                    `json:"id"`
	Timestamp         time.Time                 `json:"timestamp"`
	TotalMilestones   int                       `json:"total_milestones"`
	RiskSummary       map[string]int            `json:"risk_summary"`
	CategoryBreakdown map[string]int            `json:"category_breakdown"`
	Recommendations   []string                  `json:"recommendations"`
	Escalations       []escalationResponse      `json:"escalations"`
	MitigationPlans   []*mitigationPlanResponse `json:"mitigation_plans"`
}

func toIdentifiedRiskResponse(r model.IdentifiedRisk) identifiedRiskResponse {
	return identifiedRiskResponse{
		Category:    string(r.Category),
		Factor:      r.Factor,
		Description: r.Description,
		Probability: string(r.Probability),
		Impact:      string(r.Impact),
		Indicators:  r.Indicators,
	}
}

func toEscalationResponse(e model.EscalationEvent) escalationResponse {
	tiers := make([]string, len(e.RequiredTiers))
	for i, tier := range e.RequiredTiers {
		tiers[i] = string(tier)
	}
	return escalationResponse{
		ID:            e.ID,
		MilestoneID:   string(e.MilestoneID),
		Reason:        e.Reason,
		RequiredTiers: tiers,
		Status:        e.Status,
		CreatedAt:     e.CreatedAt,
	}
}

func toMitigationPlanResponse(p *model.MitigationPlan) *mitigationPlanResponse {
	resp := &mitigationPlanResponse{
		MilestoneID:     string(p.MilestoneID),
		CreatedAt:       p.CreatedAt,
		Mitigations:     make([]mitigationResponse, len(p.Mitigations)),
		Timeline:        make([]timelinePhaseResponse, len(p.Timeline)),
		Resources:       p.Resources,
		SuccessCriteria: p.SuccessCriteria,
		Contingencies:   make([]contingencyResponse, len(p.Contingencies)),
	}
	for i, m := range p.Mitigations {
		resp.Mitigations[i] = mitigationResponse{
			Risk:     toIdentifiedRiskResponse(m.Risk),
			Strategy: string(m.Strategy),
			Actions:  m.Actions,
		}
	}
	for i, phase := range p.Timeline {
		resp.Timeline[i] = timelinePhaseResponse{Week: phase.Week, Actions: phase.Actions}
	}
	for i, c := range p.Contingencies {
		resp.Contingencies[i] = contingencyResponse{Trigger: c.Trigger, Fallback: c.Fallback}
	}
	return resp
}

func toPortfolioResponse(p *model.PortfolioAssessment) *portfolioResponse {
	resp := &portfolioResponse{
		ID:                p.ID,
		Timestamp:         p.Timestamp,
		TotalMilestones:   p.TotalMilestones,
		RiskSummary:       make(map[string]int, len(p.RiskSummary)),
		CategoryBreakdown: make(map[string]int, len(p.CategoryBreakdown)),
		Recommendations:   p.Recommendations,
		Escalations:       make([]escalationResponse, len(p.Escalations)),
		MitigationPlans:   make([]*mitigationPlanResponse, len(p.MitigationPlans)),
	}
	for level, n := range p.RiskSummary {
		resp.RiskSummary[string(level)] = n
	}
	for category, n := range p.CategoryBreakdown {
		resp.CategoryBreakdown[string(category)] = n
	}
	for i, e := range p.Escalations {
		resp.Escalations[i] = toEscalationResponse(e)
	}
	for i, plan := range p.MitigationPlans {
		resp.MitigationPlans[i] = toMitigationPlanResponse(plan)
	}
	return resp
}
