// Package cli parses the command line and runs single games and tournaments.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"slices"

	"dilemma/engine"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	ModeDetailed   = "detailed"
	ModeFast       = "fast"
	ModeTournament = "tournament"
)

var modes = []string{ModeDetailed, ModeFast, ModeTournament}

const (
	ExperimentThroughput = "throughput"
	ExperimentStrength   = "strength"
)

var experimentNames = []string{"", ExperimentThroughput, ExperimentStrength}

// Config holds the command configuration. Environment variables provide
// defaults that command-line flags override.
type Config struct {
	Mode      string `env:"DILEMMA_MODE" envDefault:"detailed"`
	Steps     int    `env:"DILEMMA_STEPS" envDefault:"100"`
	ConfigDir string `env:"DILEMMA_CONFIGS" envDefault:"."`
	Matrix    string `env:"DILEMMA_MATRIX"`
	Workers   int    `env:"DILEMMA_WORKERS" envDefault:"1"`
	Seed      uint64 `env:"DILEMMA_SEED"` // 0 seeds strategies from entropy
	Out       string `env:"DILEMMA_OUT"`
	DB        string `env:"DILEMMA_DB"`
	LogLevel  string `env:"DILEMMA_LOG_LEVEL" envDefault:"info"`

	Experiment string `env:"DILEMMA_EXPERIMENT"`
	Repeats    int    `env:"DILEMMA_REPEATS" envDefault:"10"`

	Strategies []string
}

// ParseConfig parses environment and flags into Config. Strategy names are
// the positional arguments and may appear between flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "game mode: detailed, fast or tournament")
	fs.IntVar(&cfg.Steps, "steps", cfg.Steps, "rounds per game")
	fs.StringVar(&cfg.ConfigDir, "configs", cfg.ConfigDir, "directory holding <strategy>.cfg files and game_log.txt")
	fs.StringVar(&cfg.Matrix, "matrix", cfg.Matrix, "payoff matrix override file")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "tournament games played at once")
	fs.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "seed for reproducible random strategies, 0 for none")
	fs.StringVar(&cfg.Out, "out", cfg.Out, "directory for CSV result files")
	fs.StringVar(&cfg.DB, "db", cfg.DB, "SQLite database archiving results")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	fs.StringVar(&cfg.Experiment, "experiment", cfg.Experiment, "tournament experiment: throughput or strength")
	fs.IntVar(&cfg.Repeats, "repeats", cfg.Repeats, "tournaments played by the strength experiment")

	if args == nil {
		args = []string{}
	}
	for {
		if err := fs.Parse(args); err != nil {
			return Config{}, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			break
		}
		cfg.Strategies = append(cfg.Strategies, rest[0])
		args = rest[1:]
	}

	if len(cfg.Strategies) > engine.NumPlayers && cfg.Mode == ModeDetailed {
		cfg.Mode = ModeTournament
	}
	return cfg, nil
}

// Validate reports the first problem with cfg, wrapping ErrInvalidConfig.
func (cfg Config) Validate() error {
	switch {
	case len(cfg.Strategies) == 0:
		return fmt.Errorf("%w: no strategies specified", ErrInvalidConfig)
	case !slices.Contains(modes, cfg.Mode):
		return fmt.Errorf("%w: mode %q, use detailed, fast or tournament", ErrInvalidConfig, cfg.Mode)
	case cfg.Steps <= 0:
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidConfig, cfg.Steps)
	case cfg.Mode != ModeTournament && len(cfg.Strategies) != engine.NumPlayers:
		return fmt.Errorf("%w: %s mode requires exactly %d strategies, got %d",
			ErrInvalidConfig, cfg.Mode, engine.NumPlayers, len(cfg.Strategies))
	case cfg.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, cfg.Workers)
	case !slices.Contains(experimentNames, cfg.Experiment):
		return fmt.Errorf("%w: experiment %q, use throughput or strength", ErrInvalidConfig, cfg.Experiment)
	case cfg.Experiment != "" && cfg.Mode != ModeTournament:
		return fmt.Errorf("%w: experiments run in tournament mode", ErrInvalidConfig)
	case cfg.Experiment == ExperimentStrength && cfg.Repeats < 1:
		return fmt.Errorf("%w: repeats must be at least 1, got %d", ErrInvalidConfig, cfg.Repeats)
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, cfg.LogLevel)
	}
	return nil
}

// Level is the configured log level, info when unset.
func (cfg Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return level
}
