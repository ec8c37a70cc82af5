package types

import "fmt"

// Strategy represents a mitigation strategy for an identified risk
type Strategy string

const (
	StrategyAvoid    Strategy = "avoid"
	StrategyMitigate Strategy = "mitigate"
	StrategyTransfer Strategy = "transfer"
	StrategyAccept   Strategy = "accept"
)

// AllStrategies returns all valid mitigation strategies
func AllStrategies() []Strategy {
	return []Strategy{
		StrategyAvoid,
		StrategyMitigate,
		StrategyTransfer,
		StrategyAccept,
	}
}

// IsValid checks if the strategy is valid
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyAvoid,
		StrategyMitigate,
		StrategyTransfer,
		StrategyAccept:
		return true
	default:
		return false
	}
}

// String returns the string representation of the strategy
func (s Strategy) String() string {
	return string(s)
}

// ParseStrategy parses a string into a Strategy
func ParseStrategy(s string) (Strategy, error) {
	strategy := Strategy(s)
	if !strategy.IsValid() {
		return "", fmt.Errorf("invalid mitigation strategy: %s", s)
	}
	return strategy, nil
}
