package agent

import (
	"strings"

	"dilemma/game"

	"golang.org/x/exp/rand"
)

// TitForTat answers the majority of its opponents' last moves and
// occasionally forgives a defection.
type TitForTat struct {
	name                   string
	firstMove              game.Decision
	useForgiveness         bool
	forgivenessProbability float64
	rng                    *rand.Rand
}

func NewTitForTat() *TitForTat {
	return &TitForTat{
		name:                   "TitForTat",
		firstMove:              game.Cooperate,
		useForgiveness:         true,
		forgivenessProbability: 0.1,
		rng:                    newRand(),
	}
}

func (s *TitForTat) Seed(seed uint64) {
	s.rng = seededRand(seed)
}

func (s *TitForTat) Configure(cfg Config) {
	s.name = cfg.String("name", s.name)
	if strings.EqualFold(cfg.String("first_move", "C"), "C") {
		s.firstMove = game.Cooperate
	} else {
		s.firstMove = game.Defect
	}
	s.useForgiveness = cfg.Bool("use_forgiveness", s.useForgiveness)
	s.forgivenessProbability = clamp(cfg.Float("forgiveness_probability", s.forgivenessProbability), 0, 1)
}

func (s *TitForTat) Decide(own []game.Decision, opponents game.Opponents) game.Decision {
	if len(own) == 0 {
		return s.firstMove
	}
	response := majorityResponse(opponents)
	if s.useForgiveness && s.rng.Float64() < s.forgivenessProbability {
		return game.Cooperate
	}
	return response
}

func (s *TitForTat) Name() string { return s.name }

// majorityResponse defects when more than half of the opponents that have
// played defected last round.
func majorityResponse(opponents game.Opponents) game.Decision {
	played, defected := 0, 0
	for _, history := range opponents {
		if len(history) == 0 {
			continue
		}
		played++
		if history[len(history)-1] == game.Defect {
			defected++
		}
	}
	if played > 0 && defected > played/2 {
		return game.Defect
	}
	return game.Cooperate
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
