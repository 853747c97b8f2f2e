package cli

import (
	"flag"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return ParseConfig(fs, args)
}

func TestParseConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := parse(t, "tft", "random", "coop")
		require.NoError(t, err)
		require.Equal(t, Config{
			Mode:       ModeDetailed,
			Steps:      100,
			ConfigDir:  ".",
			Workers:    1,
			LogLevel:   "info",
			Repeats:    10,
			Strategies: []string{"tft", "random", "coop"},
		}, cfg)
	})

	t.Run("flags between strategies", func(t *testing.T) {
		cfg, err := parse(t, "tft", "--mode=fast", "adaptive", "--steps", "50", "random", "--matrix=matrix.txt")
		require.NoError(t, err)
		require.Equal(t, ModeFast, cfg.Mode)
		require.Equal(t, 50, cfg.Steps)
		require.Equal(t, "matrix.txt", cfg.Matrix)
		require.Equal(t, []string{"tft", "adaptive", "random"}, cfg.Strategies)
	})

	t.Run("environment defaults", func(t *testing.T) {
		t.Setenv("DILEMMA_MODE", "fast")
		t.Setenv("DILEMMA_STEPS", "7")
		t.Setenv("DILEMMA_SEED", "99")

		cfg, err := parse(t, "a", "b", "c", "--steps=9")
		require.NoError(t, err)
		require.Equal(t, ModeFast, cfg.Mode)
		require.Equal(t, 9, cfg.Steps, "flags override the environment")
		require.Equal(t, uint64(99), cfg.Seed)
	})

	t.Run("invalid environment", func(t *testing.T) {
		t.Setenv("DILEMMA_STEPS", "many")
		_, err := parse(t, "a", "b", "c")
		require.ErrorContains(t, err, "parse env:")
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := parse(t, "a", "--colour=blue")
		require.Error(t, err)
	})

	t.Run("help", func(t *testing.T) {
		_, err := parse(t, "--help")
		require.ErrorIs(t, err, flag.ErrHelp)
	})

	t.Run("more than three strategies switch detailed to tournament", func(t *testing.T) {
		cfg, err := parse(t, "a", "b", "c", "d")
		require.NoError(t, err)
		require.Equal(t, ModeTournament, cfg.Mode)
	})

	t.Run("more than three strategies keep an explicit fast mode", func(t *testing.T) {
		cfg, err := parse(t, "a", "b", "c", "d", "--mode=fast")
		require.NoError(t, err)
		require.Equal(t, ModeFast, cfg.Mode)
		require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})
}

func TestValidate(t *testing.T) {
	valid := Config{Mode: ModeFast, Steps: 10, Workers: 1, LogLevel: "info", Strategies: []string{"a", "b", "c"}}
	require.NoError(t, valid.Validate())

	tests := map[string]func(cfg *Config){
		"no strategies":        func(cfg *Config) { cfg.Strategies = nil },
		"unknown mode":         func(cfg *Config) { cfg.Mode = "slow" },
		"zero steps":           func(cfg *Config) { cfg.Steps = 0 },
		"negative steps":       func(cfg *Config) { cfg.Steps = -5 },
		"two strategies":       func(cfg *Config) { cfg.Strategies = []string{"a", "b"} },
		"four strategies fast": func(cfg *Config) { cfg.Strategies = []string{"a", "b", "c", "d"} },
		"no workers":           func(cfg *Config) { cfg.Workers = 0 },
		"bad log level":        func(cfg *Config) { cfg.LogLevel = "loud" },
		"unknown experiment":   func(cfg *Config) { cfg.Mode, cfg.Experiment = ModeTournament, "speed" },
		"experiment in fast":   func(cfg *Config) { cfg.Experiment = ExperimentThroughput },
		"no repeats":           func(cfg *Config) { cfg.Mode, cfg.Experiment, cfg.Repeats = ModeTournament, ExperimentStrength, 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid
			mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	t.Run("tournament accepts any number of strategies", func(t *testing.T) {
		cfg := valid
		cfg.Mode = ModeTournament
		cfg.Strategies = []string{"a", "b"}
		require.NoError(t, cfg.Validate())
	})
}

func TestLevel(t *testing.T) {
	require.Equal(t, zerolog.DebugLevel, Config{LogLevel: "debug"}.Level())
	require.Equal(t, zerolog.InfoLevel, Config{}.Level())
	require.Equal(t, zerolog.InfoLevel, Config{LogLevel: "loud"}.Level())
}
