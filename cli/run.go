package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"dilemma/agent"
	"dilemma/engine"
	"dilemma/experiments"
	"dilemma/experiments/metrics"
	"dilemma/game"
	"dilemma/history"
	"dilemma/storage"
	"dilemma/tournament"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	ExitOK    = 0
	ExitError = 1
)

// Main parses args and runs the selected mode, returning the process exit
// code. in feeds the interactive detailed mode.
func Main(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("dilemma", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() { usage(fs) }

	if len(args) == 0 {
		fs.Usage()
		return ExitOK
	}
	cfg, err := ParseConfig(fs, args)
	if errors.Is(err, flag.ErrHelp) {
		return ExitOK
	}
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return ExitError
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		fs.Usage()
		return ExitError
	}
	zerolog.SetGlobalLevel(cfg.Level())

	if err := Run(ctx, cfg, in, out); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return ExitError
	}
	return ExitOK
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintln(w, "Prisoner's Dilemma (3 players)")
	fmt.Fprintln(w, "\nUsage:")
	fmt.Fprintln(w, "  dilemma <strategy1> <strategy2> <strategy3> [options]")
	fmt.Fprintln(w, "  dilemma <strategy1> ... <strategyN> --mode=tournament [options]")
	fmt.Fprintln(w, "\nOptions:")
	fs.PrintDefaults()
	fmt.Fprintln(w, "\nStrategies:")
	fmt.Fprintf(w, "  %s\n", strings.Join(agent.DefaultRegistry().Available(), ", "))
}

// Run executes a validated configuration.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer) error {
	var registryOptions []agent.Option
	if cfg.Seed != 0 {
		registryOptions = append(registryOptions, agent.WithSeed(cfg.Seed))
	}

	r := &runner{
		cfg:      cfg,
		registry: agent.DefaultRegistry(registryOptions...),
		matrix:   game.LoadMatrix(cfg.Matrix),
		logger:   history.Open(cfg.ConfigDir),
		report:   report{out: out},
		in:       in,
	}
	defer r.logger.Close()

	if cfg.DB != "" {
		store, err := storage.NewStore(cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to open results database: %w", err)
		}
		defer store.Close()
		r.store = store
	}

	if cfg.Experiment != "" {
		return r.experiment(ctx)
	}
	if cfg.Mode == ModeTournament {
		return r.tournament(ctx)
	}
	return r.single(ctx)
}

type runner struct {
	cfg      Config
	registry *agent.Registry
	matrix   game.Matrix
	logger   *history.Logger
	store    *storage.Store
	report   report
	in       io.Reader
}

// single plays one game between exactly three strategies.
func (r *runner) single(ctx context.Context) error {
	r.report.heading("PRISONER'S DILEMMA")
	if !r.matrix.IsDefault() {
		fmt.Fprintf(r.report.out, "Matrix loaded from: %s\n", r.matrix.Source())
	}
	r.report.heading("GAME MATRIX")
	fmt.Fprint(r.report.out, r.matrix.String())

	g := engine.NewGame(r.cfg.Steps, engine.WithMatrix(r.matrix), engine.WithMetrics(metrics.NewCollector()))
	for _, name := range r.cfg.Strategies {
		strategy, err := r.registry.Create(name, r.cfg.ConfigDir)
		if err != nil {
			return fmt.Errorf("cannot create strategy: %w", err)
		}
		if err := g.AddPlayer(strategy); err != nil {
			return err
		}
	}
	if !g.Ready() {
		return fmt.Errorf("game setup failed, need exactly %d players", engine.NumPlayers)
	}

	names := g.Names()
	r.logger.GameStarted(names, r.cfg.Steps)
	r.report.gameHeader(r.cfg.Mode, r.cfg.Steps, names)

	if r.cfg.Mode == ModeDetailed {
		r.interactive(g)
	} else {
		fmt.Fprintf(r.report.out, "FAST MODE\nPlaying %d rounds...\n", r.cfg.Steps)
		g.Run()
	}

	gameMetric, rounds := g.Result()
	for _, round := range rounds {
		r.logger.Round(names, round)
	}
	r.logger.GameEnded(names, gameMetric.Scores)
	r.report.finalResults(gameMetric)

	records := []metrics.GameRecord{{ID: 1, GameMetric: gameMetric}}
	roundRecords := make([]metrics.RoundRecord, 0, len(rounds))
	for _, round := range rounds {
		roundRecords = append(roundRecords, metrics.RoundRecord{Game: 1, RoundMetric: round})
	}
	return r.save(ctx, records, roundRecords, nil)
}

// interactive plays one round per line read; "q" or "quit" stops early. The
// end of input plays the remaining rounds.
func (r *runner) interactive(g *engine.Game) {
	fmt.Fprintln(r.report.out, "DETAILED MODE")
	fmt.Fprintln(r.report.out, "Press Enter for next round, 'q' to quit.")

	scanner := bufio.NewScanner(r.in)
	prompting := true
	for g.PlayRound() {
		r.report.round(g.Names(), g.LastRound())
		if g.State() == engine.Complete || !prompting {
			continue
		}

		fmt.Fprint(r.report.out, "Press Enter to continue, 'q' to quit: ")
		if !scanner.Scan() {
			prompting = false
			continue
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "q" || input == "quit" {
			fmt.Fprintf(r.report.out, "\nGame stopped after %d rounds.\n", g.Round())
			return
		}
	}
}

// tournament plays every triplet of the configured strategies. Unknown
// strategies do not stop the tournament but make it fail once reported.
func (r *runner) tournament(ctx context.Context) error {
	r.report.heading("PRISONER'S DILEMMA TOURNAMENT")
	if !r.matrix.IsDefault() {
		fmt.Fprintf(r.report.out, "Using matrix from file: %s\n", r.matrix.Source())
	}

	newCollector := metrics.NewDummyCollector
	if r.cfg.Out != "" || r.logger.Enabled() {
		newCollector = metrics.NewCollector
	}
	t := tournament.New(r.cfg.Strategies, r.registry,
		tournament.WithRounds(r.cfg.Steps),
		tournament.WithMatrix(r.matrix),
		tournament.WithConfigDir(r.cfg.ConfigDir),
		tournament.WithWorkers(r.cfg.Workers),
		tournament.WithMetrics(newCollector),
	)

	triplets := len(tournament.Triplets(r.cfg.Strategies))
	r.report.tournamentHeader(r.cfg.Strategies, triplets, r.cfg.Steps)
	r.logger.TournamentStarted(r.cfg.Strategies)

	runErr := t.Run(ctx)

	r.report.tournamentGames(t.Results(), triplets)
	r.report.skipped(t.Skipped())
	for _, result := range t.Results() {
		r.logger.Game(result.Game, result.Rounds)
	}
	standings := t.Standings()
	r.report.standings(standings)
	r.logger.TournamentEnded(standings)

	var records []metrics.GameRecord
	var roundRecords []metrics.RoundRecord
	for i, result := range t.Results() {
		records = append(records, metrics.GameRecord{ID: i + 1, GameMetric: result.Game})
		for _, round := range result.Rounds {
			roundRecords = append(roundRecords, metrics.RoundRecord{Game: i + 1, RoundMetric: round})
		}
	}
	if err := r.save(ctx, records, roundRecords, standings); err != nil {
		return err
	}

	if runErr != nil {
		return runErr
	}
	var unknown []string
	for _, name := range r.cfg.Strategies {
		if !r.registry.Exists(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: %s", agent.ErrUnknownStrategy, strings.Join(unknown, ", "))
	}
	return nil
}

// experiment runs a tournament experiment instead of a single tournament.
func (r *runner) experiment(ctx context.Context) error {
	setup := experiments.Setup{
		Names:     r.cfg.Strategies,
		Rounds:    r.cfg.Steps,
		Matrix:    r.matrix,
		ConfigDir: r.cfg.ConfigDir,
		Workers:   r.cfg.Workers,
		Seed:      r.cfg.Seed,
		Out:       r.cfg.Out,
	}

	switch r.cfg.Experiment {
	case ExperimentThroughput:
		r.report.heading("THROUGHPUT EXPERIMENT")
		workers := experiments.WorkerCounts(r.cfg.Workers)
		records, err := experiments.RunThroughput(ctx, setup, workers)
		if err != nil {
			return err
		}
		r.report.throughput(workers, records)
	case ExperimentStrength:
		r.report.heading("STRENGTH EXPERIMENT")
		records, err := experiments.RunStrength(ctx, setup, r.cfg.Repeats)
		if err != nil {
			return err
		}
		r.report.strength(r.cfg.Repeats, records)
	}
	return nil
}

// save writes results to the CSV directory and the database when configured.
func (r *runner) save(ctx context.Context, games []metrics.GameRecord, rounds []metrics.RoundRecord, standings []metrics.Standing) error {
	if r.cfg.Out != "" {
		w, err := metrics.NewWriter(r.cfg.Out, r.cfg.Mode)
		if err != nil {
			return err
		}
		if err := w.WriteGameRecords(games); err != nil {
			return err
		}
		if err := w.WriteRoundRecords(rounds); err != nil {
			return err
		}
		if standings != nil {
			if err := w.WriteStandings(standings); err != nil {
				return err
			}
		}
		log.Info().Msgf("results written to %s", w.Dir())
	}

	if r.store != nil {
		// A cancelled run is still archived.
		ctx = context.WithoutCancel(ctx)
		source := r.matrix.Source()
		if r.matrix.IsDefault() {
			source = "default"
		}
		run, err := r.store.BeginRun(ctx, r.cfg.Mode, r.cfg.Steps, source)
		if err != nil {
			return err
		}
		if err := r.store.SaveGames(ctx, run.ID, games); err != nil {
			return err
		}
		if standings != nil {
			if err := r.store.SaveStandings(ctx, run.ID, standings); err != nil {
				return err
			}
		}
		if err := r.store.FinishRun(ctx, run.ID); err != nil {
			return err
		}
		log.Info().Msgf("results archived as run %s", run.ID)
	}
	return nil
}
