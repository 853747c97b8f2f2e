package agent

import "dilemma/game"

// FiftyFifty opens with a fixed move and then alternates its own last move.
type FiftyFifty struct {
	name      string
	firstMove game.Decision
}

func NewFiftyFifty() *FiftyFifty {
	return &FiftyFifty{name: "FiftyFifty", firstMove: game.Cooperate}
}

func (s *FiftyFifty) Configure(cfg Config) {
	s.name = cfg.String("name", s.name)
	if move := cfg.String("first_move", ""); move != "" {
		if d, err := game.ParseDecision(move[:1]); err == nil {
			s.firstMove = d
		} else {
			s.firstMove = game.Defect
		}
	}
}

func (s *FiftyFifty) Decide(own []game.Decision, _ game.Opponents) game.Decision {
	if len(own) == 0 {
		return s.firstMove
	}
	if own[len(own)-1] == game.Cooperate {
		return game.Defect
	}
	return game.Cooperate
}

func (s *FiftyFifty) Name() string { return s.name }
