package model

import (
	"time"

	"github.com/secmon-lab/gyges/pkg/domain/types"
)

// An active risk factor older than this escalates the milestone's risk
// level by one tier on the next assessment.
const unmitigatedEscalationAge = 7 * 24 * time.Hour

// AdjustRiskLevel applies the time-based level rules on top of the
// freshly scored level: a milestone whose factors are all mitigated
// decays to low, and a milestone with an active factor unmitigated for
// more than seven days escalates exactly one tier, capped at critical.
// The returned reason is empty when no adjustment applied.
func AdjustRiskLevel(m *Milestone, scored types.RiskLevel, now time.Time) (types.RiskLevel, string) {
	active := m.ActiveRiskFactors()

	if len(m.RiskFactors) > 0 && len(active) == 0 {
		return types.RiskLevelLow, "all risk factors mitigated"
	}

	for _, f := range active {
		if !f.CreatedAt.IsZero() && now.Sub(f.CreatedAt) > unmitigatedEscalationAge {
			return scored.Next(), "active risk factor unmitigated for more than 7 days"
		}
	}

	return scored, ""
}
