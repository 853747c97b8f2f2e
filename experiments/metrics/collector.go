package metrics

import (
	"dilemma/game"
	"dilemma/utils"
	"time"
)

type RoundMetric struct {
	Round     int // 1-based
	Decisions game.Round
	Payoff    game.Payoff
	Totals    [3]int
}

type GameMetric struct {
	Players   [3]string
	Scores    [3]int
	Rounds    int
	Winner    string // first highest scorer
	WinnerIdx int    // position of Winner, names may repeat
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Total is the sum of all three participants' scores.
func (g GameMetric) Total() int {
	return utils.Sum(g.Scores[:]...)
}

type Collector interface {
	Start(players [3]string)
	AddRound(round RoundMetric)
	Complete(scores [3]int) (GameMetric, []RoundMetric)
}

type collector struct {
	players   [3]string
	startTime time.Time
	rounds    []RoundMetric
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(players [3]string) {
	m.players = players
	m.startTime = time.Now()
	m.rounds = nil
}

func (m *collector) AddRound(round RoundMetric) {
	m.rounds = append(m.rounds, round)
}

func (m *collector) Complete(scores [3]int) (GameMetric, []RoundMetric) {
	end := time.Now()
	return GameMetric{
		Players:   m.players,
		Scores:    scores,
		Rounds:    len(m.rounds),
		Winner:    Winner(m.players, scores),
		WinnerIdx: WinnerIndex(scores),
		StartTime: m.startTime,
		EndTime:   end,
		Duration:  end.Sub(m.startTime),
	}, m.rounds
}

// Winner returns the player with the strictly greatest score, the first one
// on ties.
func Winner(players [3]string, scores [3]int) string {
	return players[WinnerIndex(scores)]
}

// WinnerIndex returns the position of the strictly greatest score, the first
// one on ties.
func WinnerIndex(scores [3]int) int {
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return best
}

// dummyCollector only keeps what a GameMetric needs.
type dummyCollector struct {
	players [3]string
	rounds  int
}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(players [3]string) {
	m.players = players
	m.rounds = 0
}

func (m *dummyCollector) AddRound(RoundMetric) { m.rounds++ }

func (m *dummyCollector) Complete(scores [3]int) (GameMetric, []RoundMetric) {
	return GameMetric{
		Players:   m.players,
		Scores:    scores,
		Rounds:    m.rounds,
		Winner:    Winner(m.players, scores),
		WinnerIdx: WinnerIndex(scores),
	}, nil
}
