package agent

import (
	"dilemma/game"

	"golang.org/x/exp/rand"
)

// Adaptive tracks how cooperative its opponents have been recently and drifts
// its own cooperation level toward it.
type Adaptive struct {
	name             string
	cooperationLevel float64
	learningRate     float64
	explorationRate  float64
	memorySize       int
	rng              *rand.Rand
}

func NewAdaptive() *Adaptive {
	return &Adaptive{
		name:             "AdaptiveStrategy",
		cooperationLevel: 0.7,
		learningRate:     0.1,
		explorationRate:  0.05,
		memorySize:       10,
		rng:              newRand(),
	}
}

func (s *Adaptive) Seed(seed uint64) {
	s.rng = seededRand(seed)
}

func (s *Adaptive) Configure(cfg Config) {
	s.name = cfg.String("name", s.name)
	s.cooperationLevel = clamp(cfg.Float("initial_cooperation", s.cooperationLevel), 0, 1)
	s.learningRate = clamp(cfg.Float("learning_rate", s.learningRate), 0, 1)
	s.explorationRate = clamp(cfg.Float("exploration_rate", s.explorationRate), 0, 1)
	s.memorySize = max(1, cfg.Int("memory_size", s.memorySize))
}

func (s *Adaptive) Decide(own []game.Decision, opponents game.Opponents) game.Decision {
	if len(own) == 0 {
		return coinFlip(s.rng, s.cooperationLevel)
	}

	rate := cooperationRate(opponents, s.memorySize)
	s.cooperationLevel = clamp(s.cooperationLevel*(1-s.learningRate)+rate*s.learningRate, 0.1, 0.9)

	decision := s.decide(opponents)
	if s.rng.Float64() < s.explorationRate {
		return coinFlip(s.rng, 0.5)
	}
	return decision
}

func (s *Adaptive) decide(opponents game.Opponents) game.Decision {
	defectRate := defectionRate(opponents)
	switch {
	case defectRate > 0.7:
		return game.Defect
	case defectRate < 0.3:
		return game.Cooperate
	default:
		return coinFlip(s.rng, s.cooperationLevel)
	}
}

func (s *Adaptive) Name() string { return s.name }

// CooperationLevel is the current probability used when the opponents' record
// is mixed.
func (s *Adaptive) CooperationLevel() float64 { return s.cooperationLevel }

// cooperationRate is the share of cooperations over the last window moves of
// each opponent, 0.5 when nothing has been played.
func cooperationRate(opponents game.Opponents, window int) float64 {
	total, cooperated := 0, 0
	for _, history := range opponents {
		if len(history) > window {
			history = history[len(history)-window:]
		}
		for _, d := range history {
			total++
			if d == game.Cooperate {
				cooperated++
			}
		}
	}
	if total == 0 {
		return 0.5
	}
	return float64(cooperated) / float64(total)
}

func defectionRate(opponents game.Opponents) float64 {
	total, defected := 0, 0
	for _, history := range opponents {
		for _, d := range history {
			total++
			if d == game.Defect {
				defected++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(defected) / float64(total)
}
