package experiments

import (
	"context"
	"fmt"
	"slices"

	"dilemma/agent"
	"dilemma/experiments/metrics"
	"dilemma/game"
	"dilemma/tournament"

	"github.com/rs/zerolog/log"
)

// Setup is what every tournament of an experiment shares.
type Setup struct {
	Names     []string
	Rounds    int
	Matrix    game.Matrix
	ConfigDir string
	Workers   int
	Seed      uint64 // base seed, 0 means 1
	Out       string // root directory for result files, empty to skip writing
}

func (s Setup) seed() uint64 {
	if s.Seed == 0 {
		return 1
	}
	return s.Seed
}

// RunStrength plays repeats tournaments, each with its own seed, and counts
// how often each strategy wins. Records are ordered by wins, then by total
// score, then by candidate order.
func RunStrength(ctx context.Context, setup Setup, repeats int) ([]metrics.StrengthRecord, error) {
	configs := make([]metrics.TournamentConfig, repeats)
	for i := range configs {
		configs[i] = metrics.TournamentConfig{ID: i + 1, Workers: setup.Workers, Seed: setup.seed() + uint64(i)}
	}

	log.Info().Msgf("starting strength experiment with %d tournaments...", repeats)

	wins := map[string]int{}
	scores := map[string]int{}
	for _, config := range configs {
		t, err := runTournament(ctx, setup, config)
		if err != nil {
			return nil, err
		}
		wins[t.Winner()]++
		for name, score := range t.Scores() {
			scores[name] += score
		}
		log.Info().Msgf("completed tournament %d of %d with winner: %s", config.ID, repeats, t.Winner())
	}

	var records []metrics.StrengthRecord
	for _, name := range setup.Names {
		if slices.ContainsFunc(records, func(r metrics.StrengthRecord) bool { return r.Name == name }) {
			continue
		}
		record := metrics.StrengthRecord{Name: name, Wins: wins[name], Score: scores[name]}
		if repeats > 0 {
			record.MeanScore = float64(record.Score) / float64(repeats)
		}
		records = append(records, record)
	}
	slices.SortStableFunc(records, func(a, b metrics.StrengthRecord) int {
		if a.Wins != b.Wins {
			return b.Wins - a.Wins
		}
		return b.Score - a.Score
	})

	log.Info().Msg("completed strength experiment")

	if setup.Out != "" {
		writer, err := metrics.NewWriter(setup.Out, "strength")
		if err != nil {
			return nil, fmt.Errorf("failed to create experiment writer: %w", err)
		}
		if err := writer.WriteTournamentConfigs(configs); err != nil {
			return nil, fmt.Errorf("failed to store tournament configs: %w", err)
		}
		if err := writer.WriteStrengthRecords(records); err != nil {
			return nil, fmt.Errorf("failed to write strength records: %w", err)
		}
		log.Info().Msgf("stored strength records in %s", writer.Dir())
	}
	return records, nil
}

// runTournament plays one tournament with a registry seeded from config.
func runTournament(ctx context.Context, setup Setup, config metrics.TournamentConfig) (*tournament.Tournament, error) {
	registry := agent.DefaultRegistry(agent.WithSeed(config.Seed))
	t := tournament.New(setup.Names, registry,
		tournament.WithRounds(setup.Rounds),
		tournament.WithMatrix(setup.Matrix),
		tournament.WithConfigDir(setup.ConfigDir),
		tournament.WithWorkers(config.Workers),
	)
	if err := t.Run(ctx); err != nil {
		return nil, err
	}
	return t, nil
}
