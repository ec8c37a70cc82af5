package types

import "fmt"

// EscalationTier represents a recipient tier for escalation events
type EscalationTier string

const (
	TierTeam      EscalationTier = "team"
	TierManager   EscalationTier = "manager"
	TierDirector  EscalationTier = "director"
	TierExecutive EscalationTier = "executive"
)

// AllEscalationTiers returns all valid escalation tiers in ascending order
func AllEscalationTiers() []EscalationTier {
	return []EscalationTier{
		TierTeam,
		TierManager,
		TierDirector,
		TierExecutive,
	}
}

// IsValid checks if the escalation tier is valid
func (t EscalationTier) IsValid() bool {
	switch t {
	case TierTeam,
		TierManager,
		TierDirector,
		TierExecutive:
		return true
	default:
		return false
	}
}

// Rank returns the position of the tier in the escalation order,
// starting at 1 for team. Invalid tiers rank 0.
func (t EscalationTier) Rank() int {
	switch t {
	case TierTeam:
		return 1
	case TierManager:
		return 2
	case TierDirector:
		return 3
	case TierExecutive:
		return 4
	default:
		return 0
	}
}

// String returns the string representation of the escalation tier
func (t EscalationTier) String() string {
	return string(t)
}

// ParseEscalationTier parses a string into an EscalationTier
func ParseEscalationTier(s string) (EscalationTier, error) {
	tier := EscalationTier(s)
	if !tier.IsValid() {
		return "", fmt.Errorf("invalid escalation tier: %s", s)
	}
	return tier, nil
}
