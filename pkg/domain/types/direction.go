package types

import "fmt"

// Direction represents the directionality of a performance threshold:
// whether larger or smaller metric values are better.
type Direction string

const (
	DirectionHigherIsBetter Direction = "higher_is_better"
	DirectionLowerIsBetter  Direction = "lower_is_better"
)

// IsValid checks if the direction is valid
func (d Direction) IsValid() bool {
	switch d {
	case DirectionHigherIsBetter, DirectionLowerIsBetter:
		return true
	default:
		return false
	}
}

// Normalize returns the direction, treating empty as higher-is-better.
func (d Direction) Normalize() Direction {
	if d == "" {
		return DirectionHigherIsBetter
	}
	return d
}

// String returns the string representation of the direction
func (d Direction) String() string {
	return string(d)
}

// ParseDirection parses a string into a Direction
func ParseDirection(s string) (Direction, error) {
	d := Direction(s)
	if !d.IsValid() {
		return "", fmt.Errorf("invalid threshold direction: %s", s)
	}
	return d, nil
}
