package model_test

import (
	"testing"

	"github.com/secmon-lab/gyges/pkg/domain/model"
	"github.com/secmon-lab/gyges/pkg/domain/model/config"
	"github.com/secmon-lab/gyges/pkg/domain/types"
)

func securityRuleSet(t *testing.T) config.RuleSet {
	t.Helper()
	rs, ok := config.DefaultRuleCatalog().RuleSet(types.StreamSecurityRemediation)
	if !ok {
		t.Fatal("expected built-in rule set for security_remediation")
	}
	return rs
}

func TestEvaluator_EvaluateGate(t *testing.T) {
	e := model.NewEvaluator(securityRuleSet(t))
	m := &model.Milestone{ID: "sec-1", StreamType: types.StreamSecurityRemediation}

	tests := []struct {
		name    string
		metrics map[string]float64
		want    types.EvalStatus
	}{
		{"satisfied signal passes", map[string]float64{"security_scan": 1}, types.EvalStatusPassed},
		{"partial signal fails", map[string]float64{"security_scan": 0.5}, types.EvalStatusFailed},
		{"missing signal fails", map[string]float64{}, types.EvalStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.EvaluateGate("security_scan", m, tt.metrics)
			if got.Status != tt.want {
				t.Errorf("EvaluateGate() status = %s, want %s", got.Status, tt.want)
			}
			if got.Status == types.EvalStatusPassed && got.Score != 100 {
				t.Errorf("expected score 100 on pass, got %v", got.Score)
			}
			if got.Status != types.EvalStatusPassed && got.Score != 0 {
				t.Errorf("expected score 0 on non-pass, got %v", got.Score)
			}
		})
	}
}

func TestEvaluator_EvaluateThreshold(t *testing.T) {
	e := model.NewEvaluator(securityRuleSet(t))

	tests := []struct {
		name      string
		threshold config.Threshold
		metrics   map[string]float64
		want      types.EvalStatus
	}{
		{
			"higher is better passes at target",
			config.Threshold{Metric: "scan_coverage", Target: 95, Direction: types.DirectionHigherIsBetter},
			map[string]float64{"scan_coverage": 95},
			types.EvalStatusPassed,
		},
		{
			"higher is better fails below target",
			config.Threshold{Metric: "scan_coverage", Target: 95, Direction: types.DirectionHigherIsBetter},
			map[string]float64{"scan_coverage": 94.9},
			types.EvalStatusFailed,
		},
		{
			"lower is better passes at target",
			config.Threshold{Metric: "auth_latency_ms", Target: 300, Direction: types.DirectionLowerIsBetter},
			map[string]float64{"auth_latency_ms": 300},
			types.EvalStatusPassed,
		},
		{
			"lower is better fails above target",
			config.Threshold{Metric: "auth_latency_ms", Target: 300, Direction: types.DirectionLowerIsBetter},
			map[string]float64{"auth_latency_ms": 301},
			types.EvalStatusFailed,
		},
		{
			"unknown direction defaults to higher is better",
			config.Threshold{Metric: "throughput", Target: 10},
			map[string]float64{"throughput": 11},
			types.EvalStatusPassed,
		},
		{
			"missing lower-is-better metric fails rather than passing on zero",
			config.Threshold{Metric: "error_rate", Target: 1, Direction: types.DirectionLowerIsBetter},
			map[string]float64{},
			types.EvalStatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.EvaluateThreshold(tt.threshold, tt.metrics)
			if got.Status != tt.want {
				t.Errorf("EvaluateThreshold() status = %s, want %s", got.Status, tt.want)
			}
		})
	}
}

func TestEvaluator_EvaluateAll(t *testing.T) {
	rs := securityRuleSet(t)
	e := model.NewEvaluator(rs)
	m := &model.Milestone{
		ID:         "sec-1",
		StreamType: types.StreamSecurityRemediation,
		Metrics:    map[string]float64{"security_scan": 1},
	}
	live := map[string]float64{
		"security_scan": 0, // live value overrides the recorded one
		"scan_coverage": 97,
	}

	gates, criteria, thresholds := e.EvaluateAll(m, live)

	if len(gates) != len(rs.QualityGates) {
		t.Errorf("expected %d gate results, got %d", len(rs.QualityGates), len(gates))
	}
	if len(criteria) != len(rs.SuccessCriteria) {
		t.Errorf("expected %d criteria results, got %d", len(rs.SuccessCriteria), len(criteria))
	}
	if len(thresholds) != len(rs.Thresholds) {
		t.Errorf("expected %d threshold results, got %d", len(rs.Thresholds), len(thresholds))
	}

	// Live metrics take precedence over stored milestone metrics.
	if gates[0].Name != "security_scan" {
		t.Fatalf("unexpected gate order: %s", gates[0].Name)
	}
	if gates[0].Status != types.EvalStatusFailed {
		t.Errorf("expected live override to fail security_scan, got %s", gates[0].Status)
	}
}
