package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"dilemma/experiments/metrics"

	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRuns(t *testing.T) {
	ctx := context.Background()
	s := tempStore(t)

	run, err := s.BeginRun(ctx, "tournament", 100, "(Default matrix)")
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)

	other, err := s.BeginRun(ctx, "fast", 10, "matrix.txt")
	require.NoError(t, err)
	require.NotEqual(t, run.ID, other.ID)

	loaded, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.Equal(t, "tournament", loaded.Mode)
	require.Equal(t, 100, loaded.Rounds)
	require.True(t, loaded.StartedAt.Equal(run.StartedAt))
	require.True(t, loaded.FinishedAt.IsZero())

	require.NoError(t, s.FinishRun(ctx, run.ID))
	loaded, err = s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.False(t, loaded.FinishedAt.IsZero())

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, run.ID, runs[0].ID)
	require.Equal(t, "fast", runs[1].Mode)

	require.Error(t, s.FinishRun(ctx, "missing"))
	_, err = s.GetRun(ctx, "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestGames(t *testing.T) {
	ctx := context.Background()
	s := tempStore(t)
	run, err := s.BeginRun(ctx, "tournament", 5, "(Default matrix)")
	require.NoError(t, err)

	games := []metrics.GameRecord{
		{ID: 1, GameMetric: metrics.GameMetric{Players: [3]string{"a", "b", "c"}, Scores: [3]int{15, 45, 15}, Rounds: 5, Winner: "b", WinnerIdx: 1}},
		{ID: 2, GameMetric: metrics.GameMetric{Players: [3]string{"a", "b", "d"}, Scores: [3]int{35, 35, 35}, Rounds: 5, Winner: "a"}},
	}
	require.NoError(t, s.SaveGames(ctx, run.ID, games))

	loaded, err := s.Games(ctx, run.ID)
	require.NoError(t, err)
	require.Equal(t, games, loaded)

	t.Run("unknown run is rejected", func(t *testing.T) {
		require.Error(t, s.SaveGames(ctx, "missing", games[:1]))
	})

	t.Run("duplicate game rolls back the batch", func(t *testing.T) {
		other, err := s.BeginRun(ctx, "tournament", 5, "(Default matrix)")
		require.NoError(t, err)
		require.Error(t, s.SaveGames(ctx, other.ID, []metrics.GameRecord{games[0], games[0]}))

		loaded, err := s.Games(ctx, other.ID)
		require.NoError(t, err)
		require.Empty(t, loaded)
	})
}

func TestStandings(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	run, err := s.BeginRun(ctx, "tournament", 5, "(Default matrix)")
	require.NoError(t, err)

	standings := []metrics.Standing{
		{Name: "defect", Score: 135, Games: 3},
		{Name: "cooperate", Score: 65, Games: 3},
	}
	require.NoError(t, s.SaveStandings(ctx, run.ID, standings))

	loaded, err := s.Standings(ctx, run.ID)
	require.NoError(t, err)
	require.Equal(t, standings, loaded)

	t.Run("saving again replaces", func(t *testing.T) {
		require.NoError(t, s.SaveStandings(ctx, run.ID, standings[1:]))
		loaded, err := s.Standings(ctx, run.ID)
		require.NoError(t, err)
		require.Equal(t, standings[1:], loaded)
	})

	t.Run("unknown run has none", func(t *testing.T) {
		loaded, err := s.Standings(ctx, "missing")
		require.NoError(t, err)
		require.Empty(t, loaded)
	})
}
