package game

import (
	"fmt"
	"strings"
)

// Decision is the move a strategy commits to in a round.
type Decision uint8

const (
	Cooperate Decision = iota
	Defect
)

// String returns the single character code of the decision.
func (d Decision) String() string {
	if d == Defect {
		return "D"
	}
	return "C"
}

// ParseDecision reads a single case-insensitive 'C' or 'D' code.
func ParseDecision(code string) (Decision, error) {
	switch strings.ToUpper(code) {
	case "C":
		return Cooperate, nil
	case "D":
		return Defect, nil
	default:
		return Cooperate, fmt.Errorf("invalid decision code %q", code)
	}
}

// index maps a decision onto its matrix axis
func (d Decision) index() int {
	if d == Defect {
		return 1
	}
	return 0
}
