package model

import (
	"fmt"

	"github.com/secmon-lab/gyges/pkg/domain/model/config"
	"github.com/secmon-lab/gyges/pkg/domain/types"
)

// Gate and criterion checks read completion signals from the merged
// metrics map. A value of checkSatisfied or above marks the named check
// as satisfied.
const checkSatisfied = 1.0

// Evaluator evaluates quality gates, success criteria and performance
// thresholds for one milestone against its rule set. A panic inside a
// single evaluation is recovered into a status=error result and never
// aborts sibling evaluations.
type Evaluator struct {
	rules config.RuleSet
}

// NewEvaluator creates a new Evaluator for the given rule set
func NewEvaluator(rules config.RuleSet) *Evaluator {
	return &Evaluator{rules: rules}
}

// MergeMetrics overlays live metrics on top of the milestone's recorded
// metrics. Live values win.
func MergeMetrics(m *Milestone, live map[string]float64) map[string]float64 {
	merged := make(map[string]float64, len(m.Metrics)+len(live))
	for k, v := range m.Metrics {
		merged[k] = v
	}
	for k, v := range live {
		merged[k] = v
	}
	return merged
}

// EvaluateGate evaluates one named quality gate.
func (e *Evaluator) EvaluateGate(name string, m *Milestone, metrics map[string]float64) (result GateResult) {
	defer func() {
		if r := recover(); r != nil {
			result = GateResult{
				Name:   name,
				Status: types.EvalStatusError,
				Score:  0,
				Detail: fmt.Sprintf("gate evaluation panicked: %v", r),
			}
		}
	}()

	value, ok := metrics[name]
	if !ok {
		return GateResult{
			Name:   name,
			Status: types.EvalStatusFailed,
			Score:  0,
			Detail: "no completion signal recorded for gate",
		}
	}
	if value >= checkSatisfied {
		return GateResult{Name: name, Status: types.EvalStatusPassed, Score: 100}
	}
	return GateResult{
		Name:   name,
		Status: types.EvalStatusFailed,
		Score:  0,
		Detail: fmt.Sprintf("gate signal %.2f below completion", value),
	}
}

// EvaluateCriterion evaluates one named success criterion.
func (e *Evaluator) EvaluateCriterion(name string, m *Milestone, metrics map[string]float64) (result CriterionResult) {
	defer func() {
		if r := recover(); r != nil {
			result = CriterionResult{
				Name:   name,
				Status: types.EvalStatusError,
				Score:  0,
				Detail: fmt.Sprintf("criterion evaluation panicked: %v", r),
			}
		}
	}()

	value, ok := metrics[name]
	if !ok {
		return CriterionResult{
			Name:   name,
			Status: types.EvalStatusFailed,
			Score:  0,
			Detail: "no completion signal recorded for criterion",
		}
	}
	if value >= checkSatisfied {
		return CriterionResult{Name: name, Status: types.EvalStatusPassed, Score: 100}
	}
	return CriterionResult{
		Name:   name,
		Status: types.EvalStatusFailed,
		Score:  0,
		Detail: fmt.Sprintf("criterion signal %.2f below completion", value),
	}
}

// EvaluateThreshold compares a live metric value against its configured
// threshold using the metric's directionality. Metrics without a
// configured direction default to higher-is-better. A metric with no
// reported value fails so missing data reads as worst case; for
// lower-is-better metrics a zero default would silently pass.
func (e *Evaluator) EvaluateThreshold(th config.Threshold, metrics map[string]float64) (result ThresholdResult) {
	defer func() {
		if r := recover(); r != nil {
			result = ThresholdResult{
				Metric:    th.Metric,
				Status:    types.EvalStatusError,
				Target:    th.Target,
				Direction: th.Direction.Normalize(),
			}
		}
	}()

	direction := th.Direction.Normalize()
	value, ok := metrics[th.Metric]
	if !ok {
		return ThresholdResult{
			Metric:    th.Metric,
			Status:    types.EvalStatusFailed,
			Value:     0,
			Target:    th.Target,
			Direction: direction,
		}
	}

	passed := false
	switch direction {
	case types.DirectionLowerIsBetter:
		passed = value <= th.Target
	default:
		passed = value >= th.Target
	}

	status := types.EvalStatusFailed
	if passed {
		status = types.EvalStatusPassed
	}
	return ThresholdResult{
		Metric:    th.Metric,
		Status:    status,
		Value:     value,
		Target:    th.Target,
		Direction: direction,
	}
}

// EvaluateAll runs every gate, criterion and threshold of the rule set
// against the milestone. Individual failures and errors are recorded in
// the results; no evaluation aborts its siblings.
func (e *Evaluator) EvaluateAll(m *Milestone, live map[string]float64) ([]GateResult, []CriterionResult, []ThresholdResult) {
	metrics := MergeMetrics(m, live)

	gates := make([]GateResult, 0, len(e.rules.QualityGates))
	for _, name := range e.rules.QualityGates {
		gates = append(gates, e.EvaluateGate(name, m, metrics))
	}

	criteria := make([]CriterionResult, 0, len(e.rules.SuccessCriteria))
	for _, name := range e.rules.SuccessCriteria {
		criteria = append(criteria, e.EvaluateCriterion(name, m, metrics))
	}

	thresholds := make([]ThresholdResult, 0, len(e.rules.Thresholds))
	for _, th := range e.rules.Thresholds {
		thresholds = append(thresholds, e.EvaluateThreshold(th, metrics))
	}

	return gates, criteria, thresholds
}
