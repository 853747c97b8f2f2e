package engine

import (
	"errors"

	"dilemma/game"
)

// NumPlayers is the fixed number of participants in a game.
const NumPlayers = 3

var ErrPlayersFull = errors.New("game already has three players")

// Players holds the three participants of a game: their strategies, move
// histories and running scores. Decisions for a round are collected first and
// committed afterwards, so no strategy sees another's move of the same round.
type Players struct {
	strategies []game.Strategy
	history    [NumPlayers][]game.Decision
	scores     [NumPlayers]int
	current    game.Round
	collected  bool
}

func NewPlayers() *Players {
	return &Players{}
}

// Add appends a strategy. It never replaces one once three are held.
func (p *Players) Add(strategy game.Strategy) error {
	if len(p.strategies) >= NumPlayers {
		return ErrPlayersFull
	}
	p.strategies = append(p.strategies, strategy)
	return nil
}

func (p *Players) IsComplete() bool {
	return len(p.strategies) == NumPlayers
}

func (p *Players) Count() int {
	return len(p.strategies)
}

// Collect asks every strategy for its move, given only the histories of
// previous rounds. The moves are buffered until Commit.
func (p *Players) Collect() game.Round {
	for i, strategy := range p.strategies {
		p.current[i] = strategy.Decide(p.History(i), p.Opponents(i))
	}
	p.collected = true
	return p.current
}

// Commit appends the collected moves to the histories and adds the payoff to
// the running scores. It is a no-op without a preceding Collect.
func (p *Players) Commit(payoff game.Payoff) {
	if !p.collected {
		return
	}
	for i := range p.strategies {
		p.history[i] = append(p.history[i], p.current[i])
		p.scores[i] += payoff[i]
	}
	p.collected = false
}

// History returns participant i's moves so far. The slice is capped so a
// strategy appending to it cannot corrupt the game's record.
func (p *Players) History(i int) []game.Decision {
	h := p.history[i]
	return h[:len(h):len(h)]
}

// Opponents returns the histories of the two other participants in ascending
// index order.
func (p *Players) Opponents(i int) game.Opponents {
	var opponents game.Opponents
	j := 0
	for k := 0; k < NumPlayers; k++ {
		if k == i {
			continue
		}
		opponents[j] = p.History(k)
		j++
	}
	return opponents
}

func (p *Players) Scores() [NumPlayers]int {
	return p.scores
}

func (p *Players) Names() [NumPlayers]string {
	var names [NumPlayers]string
	for i, strategy := range p.strategies {
		names[i] = strategy.Name()
	}
	return names
}

// Reset clears histories and scores and keeps the strategies.
func (p *Players) Reset() {
	p.history = [NumPlayers][]game.Decision{}
	p.scores = [NumPlayers]int{}
	p.current = game.Round{}
	p.collected = false
}

// Clear discards the strategies as well.
func (p *Players) Clear() {
	p.Reset()
	p.strategies = nil
}
