package types

import "fmt"

// RiskLevel represents a discrete risk level for a milestone or an
// identified risk's probability/impact rating.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// Composite risk score thresholds for deriving a level. A score is the
// product of mean probability and mean impact on the 1-4 scale, so it
// ranges over [0, 16].
const (
	scoreCritical = 12.0
	scoreHigh     = 8.0
	scoreMedium   = 4.0
)

// AllRiskLevels returns all valid risk levels in ascending severity order
func AllRiskLevels() []RiskLevel {
	return []RiskLevel{
		RiskLevelLow,
		RiskLevelMedium,
		RiskLevelHigh,
		RiskLevelCritical,
	}
}

// IsValid checks if the risk level is valid
func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskLevelLow,
		RiskLevelMedium,
		RiskLevelHigh,
		RiskLevelCritical:
		return true
	default:
		return false
	}
}

// Score maps the level to its numeric 1-4 scale value. Invalid levels
// score 0 so that they never contribute to a composite score.
func (l RiskLevel) Score() int {
	switch l {
	case RiskLevelLow:
		return 1
	case RiskLevelMedium:
		return 2
	case RiskLevelHigh:
		return 3
	case RiskLevelCritical:
		return 4
	default:
		return 0
	}
}

// RiskLevelFromScore derives a discrete level from a composite risk score.
func RiskLevelFromScore(score float64) RiskLevel {
	switch {
	case score >= scoreCritical:
		return RiskLevelCritical
	case score >= scoreHigh:
		return RiskLevelHigh
	case score >= scoreMedium:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// Next returns the level one tier above, capped at critical.
func (l RiskLevel) Next() RiskLevel {
	switch l {
	case RiskLevelLow:
		return RiskLevelMedium
	case RiskLevelMedium:
		return RiskLevelHigh
	case RiskLevelHigh, RiskLevelCritical:
		return RiskLevelCritical
	default:
		return l
	}
}

// AtLeast reports whether the level is equal to or more severe than other.
func (l RiskLevel) AtLeast(other RiskLevel) bool {
	return l.Score() >= other.Score()
}

// String returns the string representation of the risk level
func (l RiskLevel) String() string {
	return string(l)
}

// ParseRiskLevel parses a string into a RiskLevel
func ParseRiskLevel(s string) (RiskLevel, error) {
	level := RiskLevel(s)
	if !level.IsValid() {
		return "", fmt.Errorf("invalid risk level: %s", s)
	}
	return level, nil
}
