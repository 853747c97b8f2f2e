package engine

import (
	"dilemma/experiments/metrics"
	"dilemma/game"

	"github.com/rs/zerolog/log"
)

type State int

const (
	NotStarted State = iota
	InProgress
	Complete
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case InProgress:
		return "in progress"
	default:
		return "complete"
	}
}

type Option func(g *Game)

func WithMatrix(matrix game.Matrix) Option {
	return func(g *Game) {
		g.matrix = matrix
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(g *Game) {
		if collector != nil {
			g.metrics = collector
		}
	}
}

// Game plays a fixed number of simultaneous rounds between three strategies.
type Game struct {
	matrix  game.Matrix
	players *Players
	round   int
	rounds  int
	last    metrics.RoundMetric
	metrics metrics.Collector
}

// NewGame creates a game of the given length. A game of zero rounds is
// complete from the start. It panics on a negative length.
func NewGame(rounds int, options ...Option) *Game {
	if rounds < 0 {
		panic("number of rounds cannot be negative")
	}
	g := &Game{ // Default values
		matrix:  game.NewMatrix(),
		players: NewPlayers(),
		rounds:  rounds,
		metrics: metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(g)
	}
	return g
}

// AddPlayer seats a strategy at the next free position.
func (g *Game) AddPlayer(strategy game.Strategy) error {
	return g.players.Add(strategy)
}

// Ready reports whether exactly three strategies are seated.
func (g *Game) Ready() bool {
	return g.players.IsComplete()
}

func (g *Game) State() State {
	switch {
	case g.round >= g.rounds:
		return Complete
	case g.round == 0:
		return NotStarted
	default:
		return InProgress
	}
}

// PlayRound plays a single round and reports whether one was played. It does
// nothing when the game is not ready or already complete.
func (g *Game) PlayRound() bool {
	if !g.Ready() {
		log.Warn().Msgf("game is not ready, need exactly %d players, have %d", NumPlayers, g.players.Count())
		return false
	}
	if g.round >= g.rounds {
		return false
	}
	if g.round == 0 {
		g.metrics.Start(g.players.Names())
	}

	decisions := g.players.Collect()
	payoff := g.matrix.Score(decisions)
	g.players.Commit(payoff)
	g.round++

	g.last = metrics.RoundMetric{
		Round:     g.round,
		Decisions: decisions,
		Payoff:    payoff,
		Totals:    g.players.Scores(),
	}
	g.metrics.AddRound(g.last)
	return true
}

// Run plays the remaining rounds and returns the result. Calling it on a
// complete game plays nothing.
func (g *Game) Run() (metrics.GameMetric, []metrics.RoundMetric) {
	if !g.Ready() {
		log.Warn().Msgf("game is not ready, need exactly %d players, have %d", NumPlayers, g.players.Count())
		return metrics.GameMetric{}, nil
	}

	if g.State() != Complete {
		names := g.players.Names()
		log.Debug().Msgf("playing %d rounds: %s vs %s vs %s", g.rounds-g.round, names[0], names[1], names[2])
	}
	for g.PlayRound() {
	}
	return g.Result()
}

// Result reports the game as played so far.
func (g *Game) Result() (metrics.GameMetric, []metrics.RoundMetric) {
	if g.round == 0 {
		g.metrics.Start(g.players.Names())
	}
	return g.metrics.Complete(g.players.Scores())
}

// Reset returns the game to its initial state and discards the strategies;
// the round count and matrix are kept. Fresh strategies must be added again.
func (g *Game) Reset() {
	g.players.Clear()
	g.round = 0
	g.last = metrics.RoundMetric{}
}

// LastRound is the most recently played round, zero before the first.
func (g *Game) LastRound() metrics.RoundMetric {
	return g.last
}

func (g *Game) Round() int {
	return g.round
}

func (g *Game) Rounds() int {
	return g.rounds
}

func (g *Game) Scores() [NumPlayers]int {
	return g.players.Scores()
}

func (g *Game) Names() [NumPlayers]string {
	return g.players.Names()
}

func (g *Game) History(i int) []game.Decision {
	return g.players.History(i)
}

func (g *Game) Matrix() game.Matrix {
	return g.matrix
}
