package types_test

import (
	"testing"

	"github.com/secmon-lab/gyges/pkg/domain/types"
)

func TestMilestoneID_Validate(t *testing.T) {
	tests := []struct {
		name    string
		id      types.MilestoneID
		wantErr bool
	}{
		{"valid lowercase", "auth-rollout", false},
		{"valid with underscores", "phase_1_cutover", false},
		{"valid single word", "cutover", false},
		{"valid with numbers", "ms-123", false},
		{"empty", "", true},
		{"uppercase", "Auth-Rollout", true},
		{"spaces", "auth rollout", true},
		{"starting with hyphen", "-auth", true},
		{"ending with underscore", "auth_", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("MilestoneID.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStreamType_IsValid(t *testing.T) {
	for _, st := range types.AllStreamTypes() {
		if !st.IsValid() {
			t.Errorf("expected %s to be valid", st)
		}
	}
	if types.StreamType("backend_rewrite").IsValid() {
		t.Error("expected unknown stream type to be invalid")
	}
	if _, err := types.ParseStreamType("security_remediation"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := types.ParseStreamType("SECURITY_REMEDIATION"); err == nil {
		t.Error("expected error for uppercase stream type")
	}
}

func TestMilestoneStatus_Normalize(t *testing.T) {
	if got := types.MilestoneStatus("").Normalize(); got != types.MilestoneStatusNotStarted {
		t.Errorf("expected empty status to normalize to not_started, got %s", got)
	}
	if got := types.MilestoneStatusBlocked.Normalize(); got != types.MilestoneStatusBlocked {
		t.Errorf("expected blocked to stay blocked, got %s", got)
	}
}

func TestRiskLevel_Score(t *testing.T) {
	tests := []struct {
		level types.RiskLevel
		want  int
	}{
		{types.RiskLevelLow, 1},
		{types.RiskLevelMedium, 2},
		{types.RiskLevelHigh, 3},
		{types.RiskLevelCritical, 4},
		{types.RiskLevel("unknown"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := tt.level.Score(); got != tt.want {
				t.Errorf("RiskLevel.Score() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRiskLevelFromScore(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  types.RiskLevel
	}{
		{"zero", 0, types.RiskLevelLow},
		{"below medium", 3.9, types.RiskLevelLow},
		{"medium boundary", 4.0, types.RiskLevelMedium},
		{"above medium", 4.1, types.RiskLevelMedium},
		{"below high", 7.9, types.RiskLevelMedium},
		{"high boundary", 8.0, types.RiskLevelHigh},
		{"above high", 8.1, types.RiskLevelHigh},
		{"below critical", 11.9, types.RiskLevelHigh},
		{"critical boundary", 12.0, types.RiskLevelCritical},
		{"above critical", 12.1, types.RiskLevelCritical},
		{"maximum", 16, types.RiskLevelCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := types.RiskLevelFromScore(tt.score); got != tt.want {
				t.Errorf("RiskLevelFromScore(%v) = %s, want %s", tt.score, got, tt.want)
			}
		})
	}
}

func TestRiskLevel_Next(t *testing.T) {
	tests := []struct {
		level types.RiskLevel
		want  types.RiskLevel
	}{
		{types.RiskLevelLow, types.RiskLevelMedium},
		{types.RiskLevelMedium, types.RiskLevelHigh},
		{types.RiskLevelHigh, types.RiskLevelCritical},
		{types.RiskLevelCritical, types.RiskLevelCritical},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := tt.level.Next(); got != tt.want {
				t.Errorf("RiskLevel.Next() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEscalationTier_Rank(t *testing.T) {
	prev := 0
	for _, tier := range types.AllEscalationTiers() {
		if tier.Rank() <= prev {
			t.Errorf("expected tiers to have strictly increasing ranks, got %s=%d after %d", tier, tier.Rank(), prev)
		}
		prev = tier.Rank()
	}
}

func TestDirection_Normalize(t *testing.T) {
	if got := types.Direction("").Normalize(); got != types.DirectionHigherIsBetter {
		t.Errorf("expected empty direction to normalize to higher_is_better, got %s", got)
	}
	if got := types.DirectionLowerIsBetter.Normalize(); got != types.DirectionLowerIsBetter {
		t.Errorf("expected lower_is_better to stay, got %s", got)
	}
}

func TestParseHelpers(t *testing.T) {
	if _, err := types.ParseRiskCategory("technical"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := types.ParseRiskCategory("financial"); err == nil {
		t.Error("expected error for unknown category")
	}
	if _, err := types.ParseStrategy("transfer"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := types.ParseEvalStatus("passed"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := types.ParseFactorStatus("retired"); err == nil {
		t.Error("expected error for unknown factor status")
	}
}
