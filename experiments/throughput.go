package experiments

import (
	"context"
	"fmt"
	"time"

	"dilemma/experiments/metrics"

	"github.com/rs/zerolog/log"
)

// RunThroughput plays the same seeded tournament once per worker count and
// measures how many games per second each setting completes.
func RunThroughput(ctx context.Context, setup Setup, workers []int) ([]metrics.ThroughputRecord, error) {
	configs := make([]metrics.TournamentConfig, len(workers))
	for i, n := range workers {
		configs[i] = metrics.TournamentConfig{ID: i + 1, Workers: n, Seed: setup.seed()}
	}

	log.Info().Msg("starting throughput experiment...")

	records := make([]metrics.ThroughputRecord, 0, len(configs))
	for _, config := range configs {
		log.Info().Msgf("starting tournament with %d workers...", config.Workers)

		start := time.Now()
		t, err := runTournament(ctx, setup, config)
		if err != nil {
			return nil, err
		}
		elapsed := time.Since(start)

		record := metrics.ThroughputRecord{Config: config.ID, Games: len(t.Results()), Duration: elapsed}
		if elapsed > 0 {
			record.GamesPerSecond = float64(record.Games) / elapsed.Seconds()
		}
		records = append(records, record)

		log.Info().Msgf("completed %d games in %s with %d workers", record.Games, elapsed, config.Workers)
	}

	log.Info().Msg("completed throughput experiment")

	if setup.Out != "" {
		writer, err := metrics.NewWriter(setup.Out, "throughput")
		if err != nil {
			return nil, fmt.Errorf("failed to create experiment writer: %w", err)
		}
		if err := writer.WriteTournamentConfigs(configs); err != nil {
			return nil, fmt.Errorf("failed to store tournament configs: %w", err)
		}
		if err := writer.WriteThroughputRecords(records); err != nil {
			return nil, fmt.Errorf("failed to write throughput records: %w", err)
		}
		log.Info().Msgf("stored throughput records in %s", writer.Dir())
	}
	return records, nil
}

// WorkerCounts returns the powers of two below limit followed by limit itself.
func WorkerCounts(limit int) []int {
	var counts []int
	for n := 1; n < limit; n *= 2 {
		counts = append(counts, n)
	}
	return append(counts, max(limit, 1))
}
