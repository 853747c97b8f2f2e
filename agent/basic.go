package agent

import (
	"time"

	"dilemma/game"

	"golang.org/x/exp/rand"
)

type alwaysCooperate struct{}

func NewAlwaysCooperate() game.Strategy {
	return alwaysCooperate{}
}

func (alwaysCooperate) Decide([]game.Decision, game.Opponents) game.Decision {
	return game.Cooperate
}

func (alwaysCooperate) Name() string { return "AlwaysCooperate" }

type alwaysDefect struct{}

func NewAlwaysDefect() game.Strategy {
	return alwaysDefect{}
}

func (alwaysDefect) Decide([]game.Decision, game.Opponents) game.Decision {
	return game.Defect
}

func (alwaysDefect) Name() string { return "AlwaysDefect" }

// Random cooperates or defects with equal probability.
type Random struct {
	rng *rand.Rand
}

func NewRandom() *Random {
	return &Random{rng: newRand()}
}

func (s *Random) Seed(seed uint64) {
	s.rng = seededRand(seed)
}

func (s *Random) Decide([]game.Decision, game.Opponents) game.Decision {
	return coinFlip(s.rng, 0.5)
}

func (s *Random) Name() string { return "RandomStrategy" }

func newRand() *rand.Rand {
	return seededRand(uint64(time.Now().UnixNano()))
}

func seededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// coinFlip cooperates with probability p.
func coinFlip(rng *rand.Rand, p float64) game.Decision {
	if rng.Float64() < p {
		return game.Cooperate
	}
	return game.Defect
}
