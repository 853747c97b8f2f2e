package agent

import (
	"os"
	"path/filepath"
	"testing"

	"dilemma/game"

	"github.com/stretchr/testify/require"
)

func TestRegistryCreate(t *testing.T) {
	registry := DefaultRegistry()

	t.Run("creating every built-in strategy", func(t *testing.T) {
		expected := map[string]string{
			"alwayscooperate": "AlwaysCooperate",
			"alwaysdefect":    "AlwaysDefect",
			"random":          "RandomStrategy",
			"fiftyfifty":      "FiftyFifty",
			"titfortat":       "TitForTat",
			"adaptive":        "AdaptiveStrategy",
		}
		for name, display := range expected {
			s, err := registry.Create(name, "")
			require.NoError(t, err)
			require.Equal(t, display, s.Name())
		}
	})

	t.Run("resolving aliases", func(t *testing.T) {
		expected := map[string]string{
			"ac":          "AlwaysCooperate",
			"cooperate":   "AlwaysCooperate",
			"ad":          "AlwaysDefect",
			"defect":      "AlwaysDefect",
			"tft":         "TitForTat",
			"tit_for_tat": "TitForTat",
			"5050":        "FiftyFifty",
			"rnd":         "RandomStrategy",
			"adapt":       "AdaptiveStrategy",
		}
		for alias, display := range expected {
			s, err := registry.Create(alias, "")
			require.NoError(t, err, alias)
			require.Equal(t, display, s.Name())
		}
	})

	t.Run("ignoring case", func(t *testing.T) {
		for _, name := range []string{"ALWAYSCOOPERATE", "AlwaysCooperate", "AlWaYsCoOpErAtE", "TFT"} {
			_, err := registry.Create(name, "")
			require.NoError(t, err, name)
		}
	})

	t.Run("rejecting unknown names", func(t *testing.T) {
		s, err := registry.Create("nonexistent_strategy", "")
		require.ErrorIs(t, err, ErrUnknownStrategy)
		require.Nil(t, s)
		require.Contains(t, err.Error(), "alwaysdefect")
	})

	t.Run("fresh instance per call", func(t *testing.T) {
		first, err := registry.Create("tft", "")
		require.NoError(t, err)
		second, err := registry.Create("tft", "")
		require.NoError(t, err)
		require.NotSame(t, first, second)
	})
}

func TestRegistryLookup(t *testing.T) {
	registry := DefaultRegistry()

	for _, name := range []string{"alwayscooperate", "ALWAYSDEFECT", "random", "FiftyFifty", "TFT", "adaptive"} {
		require.True(t, registry.Exists(name), name)
	}
	require.False(t, registry.Exists("nonexistent"))
	require.False(t, registry.Exists(""))

	canonical, ok := registry.Canonical("Coop")
	require.True(t, ok)
	require.Equal(t, "alwayscooperate", canonical)

	require.Equal(t,
		[]string{"adaptive", "alwayscooperate", "alwaysdefect", "fiftyfifty", "random", "titfortat"},
		registry.Available())
}

func TestRegistryRegister(t *testing.T) {
	registry := NewRegistry()
	require.Empty(t, registry.Available())

	registry.Register("AlwaysDefect", func() game.Strategy { return NewAlwaysDefect() })

	require.True(t, registry.Exists("ad"), "static aliases are seeded with the canonical name")
	require.Equal(t, []string{"alwaysdefect"}, registry.Available())
}

func TestRegistryConfiguration(t *testing.T) {
	t.Run("applying a matching config file", func(t *testing.T) {
		dir := t.TempDir()
		content := "name=Grudger\nfirst_move=D\nuse_forgiveness=no\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "titfortat.cfg"), []byte(content), 0644))

		s, err := DefaultRegistry().Create("tft", dir)
		require.NoError(t, err)
		require.Equal(t, "Grudger", s.Name())
		require.Equal(t, game.Defect, s.Decide(nil, game.Opponents{}))
	})

	t.Run("keeping defaults without a config file", func(t *testing.T) {
		s, err := DefaultRegistry().Create("fiftyfifty", t.TempDir())
		require.NoError(t, err)
		require.Equal(t, "FiftyFifty", s.Name())
	})
}

func TestRegistrySeed(t *testing.T) {
	play := func(registry *Registry) []game.Decision {
		s, err := registry.Create("random", "")
		require.NoError(t, err)
		var own []game.Decision
		for i := 0; i < 32; i++ {
			own = append(own, s.Decide(own, game.Opponents{}))
		}
		return own
	}

	require.Equal(t, play(DefaultRegistry(WithSeed(42))), play(DefaultRegistry(WithSeed(42))),
		"same registry seed should reproduce the same moves")
}
