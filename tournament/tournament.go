package tournament

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"dilemma/agent"
	"dilemma/engine"
	"dilemma/experiments/metrics"
	"dilemma/game"
	"dilemma/meta"
	"dilemma/utils"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Result is one played triplet.
type Result struct {
	Triplet [3]int    // positions in the candidate list
	Names   [3]string // candidate names as given
	Game    metrics.GameMetric
	Rounds  []metrics.RoundMetric // nil unless round metrics are collected
}

type Option func(t *Tournament)

// WithRounds sets the length of every game. Zero rounds plays empty games.
func WithRounds(rounds int) Option {
	return func(t *Tournament) {
		t.rounds = rounds
	}
}

func WithMatrix(matrix game.Matrix) Option {
	return func(t *Tournament) {
		t.matrix = matrix
	}
}

// WithConfigDir sets the directory strategy configuration files are read from.
func WithConfigDir(dir string) Option {
	return func(t *Tournament) {
		t.configDir = dir
	}
}

// WithWorkers sets how many games are played at once.
func WithWorkers(workers int) Option {
	return func(t *Tournament) {
		t.workers = max(workers, 1)
	}
}

// WithMetrics makes every game record its rounds into a collector made by
// newCollector.
func WithMetrics(newCollector func() metrics.Collector) Option {
	return func(t *Tournament) {
		if newCollector != nil {
			t.newCollector = newCollector
		}
	}
}

// Tournament plays one game for every unique triplet of candidate strategies
// and accumulates each candidate's score over all its games.
type Tournament struct {
	names        []string
	registry     *agent.Registry
	rounds       int
	matrix       game.Matrix
	configDir    string
	workers      int
	newCollector func() metrics.Collector

	scores  map[string]int
	games   map[string]int
	results []Result
	skipped [][3]string
}

func New(names []string, registry *agent.Registry, options ...Option) *Tournament {
	t := &Tournament{ // Default values
		names:        slices.Clone(names),
		registry:     registry,
		rounds:       meta.DefaultRounds,
		matrix:       game.NewMatrix(),
		workers:      meta.DefaultWorkers,
		newCollector: metrics.NewDummyCollector,
	}
	for _, option := range options {
		option(t)
	}
	t.reset()
	return t
}

// Triplets returns every combination of three positions in names, skipping a
// combination whose sorted names repeat an earlier one. Positions within a
// triplet are ascending.
func Triplets(names []string) [][3]int {
	seen := make(map[[3]string]bool)
	triplets := make([][3]int, 0, utils.Binomial(len(names), engine.NumPlayers))
	for _, combo := range utils.Combinations(len(names), engine.NumPlayers) {
		key := [3]string{names[combo[0]], names[combo[1]], names[combo[2]]}
		slices.Sort(key[:])
		if seen[key] {
			continue
		}
		seen[key] = true
		triplets = append(triplets, [3]int{combo[0], combo[1], combo[2]})
	}
	return triplets
}

// Run plays every triplet. A triplet with a strategy the registry cannot build
// is skipped. Cancelling ctx stops new games from starting; games already
// started run to completion and are counted.
func (t *Tournament) Run(ctx context.Context) error {
	t.reset()
	triplets := Triplets(t.names)
	log.Info().Msgf("starting tournament with %d strategies, %d triplets, %d rounds per game",
		len(t.names), len(triplets), t.rounds)

	played := make([]*Result, len(triplets))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(t.workers)

	for i, triplet := range triplets {
		if groupCtx.Err() != nil {
			break
		}
		names := t.tripletNames(triplet)
		g, err := t.setup(names)
		if err != nil {
			log.Warn().Err(err).Msgf("skipping game %d/%d: %s", i+1, len(triplets), strings.Join(names[:], " vs "))
			t.skipped = append(t.skipped, names)
			continue
		}

		i, triplet := i, triplet // per-iteration copies (go 1.21 loop semantics)
		group.Go(func() error {
			log.Debug().Msgf("game %d/%d: %s", i+1, len(triplets), strings.Join(names[:], " vs "))
			gameMetric, rounds := g.Run()
			played[i] = &Result{Triplet: triplet, Names: names, Game: gameMetric, Rounds: rounds}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	for _, result := range played {
		if result != nil {
			t.fold(*result)
		}
	}
	log.Info().Msgf("tournament finished: %d games played, %d skipped", len(t.results), len(t.skipped))

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("tournament interrupted after %d games: %w", len(t.results), err)
	}
	return nil
}

// setup builds a game with fresh strategy instances for one triplet.
func (t *Tournament) setup(names [3]string) (*engine.Game, error) {
	g := engine.NewGame(t.rounds, engine.WithMatrix(t.matrix), engine.WithMetrics(t.newCollector()))
	for _, name := range names {
		strategy, err := t.registry.Create(name, t.configDir)
		if err != nil {
			return nil, err
		}
		if err := g.AddPlayer(strategy); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (t *Tournament) fold(result Result) {
	for i, name := range result.Names {
		t.scores[name] += result.Game.Scores[i]
		if slices.Index(result.Names[:], name) == i {
			t.games[name]++
		}
	}
	t.results = append(t.results, result)
}

func (t *Tournament) tripletNames(triplet [3]int) [3]string {
	return [3]string{t.names[triplet[0]], t.names[triplet[1]], t.names[triplet[2]]}
}

func (t *Tournament) reset() {
	t.scores = make(map[string]int, len(t.names))
	t.games = make(map[string]int, len(t.names))
	for _, name := range t.names {
		t.scores[name] = 0
		t.games[name] = 0
	}
	t.results = nil
	t.skipped = nil
}

// Scores returns the accumulated score per candidate name.
func (t *Tournament) Scores() map[string]int {
	scores := make(map[string]int, len(t.scores))
	for name, score := range t.scores {
		scores[name] = score
	}
	return scores
}

// Standings ranks candidates by descending score. Equal scores keep candidate
// order.
func (t *Tournament) Standings() []metrics.Standing {
	var standings []metrics.Standing
	seen := make(map[string]bool, len(t.names))
	for _, name := range t.names {
		if seen[name] {
			continue
		}
		seen[name] = true
		standings = append(standings, metrics.Standing{Name: name, Score: t.scores[name], Games: t.games[name]})
	}
	slices.SortStableFunc(standings, func(a, b metrics.Standing) int {
		return b.Score - a.Score
	})
	return standings
}

// Winner is the candidate with the greatest score, empty without candidates.
func (t *Tournament) Winner() string {
	standings := t.Standings()
	if len(standings) == 0 {
		return ""
	}
	return standings[0].Name
}

// Results returns the played games in triplet order.
func (t *Tournament) Results() []Result {
	return t.results
}

// Skipped returns the triplets that could not be set up.
func (t *Tournament) Skipped() [][3]string {
	return t.skipped
}

func (t *Tournament) Names() []string {
	return t.names
}

func (t *Tournament) Rounds() int {
	return t.rounds
}

func (t *Tournament) Matrix() game.Matrix {
	return t.matrix
}
