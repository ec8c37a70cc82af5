package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gyges/pkg/domain/types"
)

// EscalationMatrix maps a risk level to the recipient tiers that must be
// notified. The tier sets are monotonically increasing with level.
type EscalationMatrix struct {
	version string
	tiers   map[types.RiskLevel][]types.EscalationTier
}

// NewEscalationMatrix builds a matrix from the given tier sets. Every
// risk level must be present and each level's tier set must contain all
// tiers of the level below it.
func NewEscalationMatrix(version string, tiers map[types.RiskLevel][]types.EscalationTier) (*EscalationMatrix, error) {
	if version == "" {
		return nil, goerr.New("escalation matrix version is required")
	}

	prev := map[types.EscalationTier]bool{}
	for _, level := range types.AllRiskLevels() {
		set, ok := tiers[level]
		if !ok || len(set) == 0 {
			return nil, goerr.New("escalation matrix is missing a risk level", goerr.V("level", level))
		}

		current := map[types.EscalationTier]bool{}
		for _, t := range set {
			if !t.IsValid() {
				return nil, goerr.New("invalid escalation tier", goerr.V("level", level), goerr.V("tier", t))
			}
			if current[t] {
				return nil, goerr.New("duplicate escalation tier", goerr.V("level", level), goerr.V("tier", t))
			}
			current[t] = true
		}
		for t := range prev {
			if !current[t] {
				return nil, goerr.New("escalation matrix must be monotone across levels",
					goerr.V("level", level), goerr.V("missing_tier", t))
			}
		}
		prev = current
	}

	copied := make(map[types.RiskLevel][]types.EscalationTier, len(tiers))
	for level, set := range tiers {
		s := make([]types.EscalationTier, len(set))
		copy(s, set)
		copied[level] = s
	}

	return &EscalationMatrix{version: version, tiers: copied}, nil
}

// Version returns the configuration version of the matrix.
func (m *EscalationMatrix) Version() string {
	return m.version
}

// TiersFor returns the recipient tiers required for a risk level.
func (m *EscalationMatrix) TiersFor(level types.RiskLevel) []types.EscalationTier {
	set := m.tiers[level]
	out := make([]types.EscalationTier, len(set))
	copy(out, set)
	return out
}
