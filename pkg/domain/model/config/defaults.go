package config

import (
	"github.com/secmon-lab/gyges/pkg/domain/types"
)

// DefaultRuleCatalog returns the built-in rule sets for the six known
// stream types. File-based configuration can override individual stream
// types via RuleCatalog.Merge.
func DefaultRuleCatalog() *RuleCatalog {
	catalog, err := NewRuleCatalog(
		RuleSet{
			StreamType:      types.StreamSecurityRemediation,
			QualityGates:    []string{"security_scan", "dependency_audit", "penetration_test"},
			SuccessCriteria: []string{"vulnerabilities_resolved", "access_controls_verified", "audit_logging_enabled"},
			Thresholds: []Threshold{
				{Metric: "critical_vulnerabilities", Target: 0, Direction: types.DirectionLowerIsBetter},
				{Metric: "scan_coverage", Target: 95, Direction: types.DirectionHigherIsBetter},
				{Metric: "mean_remediation_hours", Target: 72, Direction: types.DirectionLowerIsBetter},
			},
		},
		RuleSet{
			StreamType:      types.StreamFrontendAuthMigration,
			QualityGates:    []string{"session_compatibility", "token_rotation", "logout_flow"},
			SuccessCriteria: []string{"legacy_sessions_migrated", "sso_verified"},
			Thresholds: []Threshold{
				{Metric: "login_success_rate", Target: 99.5, Direction: types.DirectionHigherIsBetter},
				{Metric: "auth_latency_ms", Target: 300, Direction: types.DirectionLowerIsBetter},
			},
		},
		RuleSet{
			StreamType:      types.StreamDataMigration,
			QualityGates:    []string{"schema_validation", "dry_run_complete", "rollback_tested"},
			SuccessCriteria: []string{"row_counts_match", "checksums_verified"},
			Thresholds: []Threshold{
				{Metric: "data_loss_rows", Target: 0, Direction: types.DirectionLowerIsBetter},
				{Metric: "migration_throughput_rows", Target: 1000, Direction: types.DirectionHigherIsBetter},
			},
		},
		RuleSet{
			StreamType:      types.StreamRealtimeFeatures,
			QualityGates:    []string{"load_test", "failover_drill"},
			SuccessCriteria: []string{"reconnect_verified", "ordering_guaranteed"},
			Thresholds: []Threshold{
				{Metric: "p99_latency_ms", Target: 250, Direction: types.DirectionLowerIsBetter},
				{Metric: "concurrent_connections", Target: 10000, Direction: types.DirectionHigherIsBetter},
				{Metric: "message_drop_rate", Target: 0.1, Direction: types.DirectionLowerIsBetter},
			},
		},
		RuleSet{
			StreamType:      types.StreamIntegrationTesting,
			QualityGates:    []string{"contract_tests", "smoke_suite", "regression_suite"},
			SuccessCriteria: []string{"environments_provisioned", "test_data_seeded"},
			Thresholds: []Threshold{
				{Metric: "suite_pass_rate", Target: 98, Direction: types.DirectionHigherIsBetter},
				{Metric: "flake_rate", Target: 2, Direction: types.DirectionLowerIsBetter},
			},
		},
		RuleSet{
			StreamType:      types.StreamPerformanceOptimization,
			QualityGates:    []string{"benchmark_baseline", "profiling_review"},
			SuccessCriteria: []string{"no_regressions", "capacity_plan_updated"},
			Thresholds: []Threshold{
				{Metric: "p95_latency_ms", Target: 500, Direction: types.DirectionLowerIsBetter},
				{Metric: "throughput_rps", Target: 500, Direction: types.DirectionHigherIsBetter},
				{Metric: "cpu_utilization", Target: 70, Direction: types.DirectionLowerIsBetter},
			},
		},
	)
	if err != nil {
		// The built-in rule sets are fixed data; a construction failure
		// is a programming error.
		panic(err)
	}
	return catalog
}

// DefaultEscalationMatrix returns the built-in escalation matrix.
func DefaultEscalationMatrix() *EscalationMatrix {
	matrix, err := NewEscalationMatrix("builtin-v1", map[types.RiskLevel][]types.EscalationTier{
		types.RiskLevelLow:      {types.TierTeam},
		types.RiskLevelMedium:   {types.TierTeam, types.TierManager},
		types.RiskLevelHigh:     {types.TierTeam, types.TierManager, types.TierDirector},
		types.RiskLevelCritical: {types.TierTeam, types.TierManager, types.TierDirector, types.TierExecutive},
	})
	if err != nil {
		panic(err)
	}
	return matrix
}

// DefaultMitigationCatalog returns the built-in mitigation action and
// resource templates.
func DefaultMitigationCatalog() *MitigationCatalog {
	catalog, err := NewMitigationCatalog("builtin-v1",
		map[types.Strategy][]string{
			types.StrategyAvoid: {
				"Redesign the component to remove the risk source",
				"Simplify the milestone scope",
				"Change the technology approach",
			},
			types.StrategyMitigate: {
				"Add targeted automated testing",
				"Add monitoring and alerting for early detection",
				"Schedule focused team training",
			},
			types.StrategyTransfer: {
				"Adopt a third-party provider for the risky capability",
				"Move the workload to a managed service",
			},
			types.StrategyAccept: {
				"Document the accepted risk and its rationale",
				"Prepare a response runbook",
				"Monitor the risk for changes",
			},
		},
		map[types.Strategy][]string{
			types.StrategyAvoid:    {"senior engineering", "architecture review"},
			types.StrategyMitigate: {"engineering", "qa"},
			types.StrategyTransfer: {"vendor management", "budget approval"},
			types.StrategyAccept:   {"team lead"},
		},
	)
	if err != nil {
		panic(err)
	}
	return catalog
}
