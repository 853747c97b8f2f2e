package engine

import (
	"testing"

	"dilemma/game"

	"github.com/stretchr/testify/require"
)

type fixedStrategy struct {
	name string
	move game.Decision
}

func (s fixedStrategy) Decide([]game.Decision, game.Opponents) game.Decision { return s.move }
func (s fixedStrategy) Name() string                                      { return s.name }

// spyStrategy records what it is shown and plays a fixed move.
type spyStrategy struct {
	fixedStrategy
	ownSeen       [][]game.Decision
	opponentsSeen []game.Opponents
}

func (s *spyStrategy) Decide(own []game.Decision, opponents game.Opponents) game.Decision {
	s.ownSeen = append(s.ownSeen, append([]game.Decision(nil), own...))
	s.opponentsSeen = append(s.opponentsSeen, game.Opponents{
		append([]game.Decision(nil), opponents[0]...),
		append([]game.Decision(nil), opponents[1]...),
	})
	return s.move
}

func cooperator(name string) fixedStrategy { return fixedStrategy{name: name, move: game.Cooperate} }
func defector(name string) fixedStrategy   { return fixedStrategy{name: name, move: game.Defect} }

func TestPlayersAdd(t *testing.T) {
	p := NewPlayers()
	require.False(t, p.IsComplete())

	require.NoError(t, p.Add(cooperator("a")))
	require.NoError(t, p.Add(cooperator("b")))
	require.False(t, p.IsComplete())
	require.NoError(t, p.Add(defector("c")))
	require.True(t, p.IsComplete())

	require.ErrorIs(t, p.Add(defector("d")), ErrPlayersFull)
	require.Equal(t, [3]string{"a", "b", "c"}, p.Names(), "a fourth player never replaces one")
}

func TestPlayersCollectCommit(t *testing.T) {
	t.Run("growing every history by one per round", func(t *testing.T) {
		p := NewPlayers()
		require.NoError(t, p.Add(cooperator("a")))
		require.NoError(t, p.Add(defector("b")))
		require.NoError(t, p.Add(cooperator("c")))

		for round := 1; round <= 3; round++ {
			decisions := p.Collect()
			require.Equal(t, game.Round{game.Cooperate, game.Defect, game.Cooperate}, decisions)
			p.Commit(game.Payoff{3, 9, 3})
			for i := 0; i < NumPlayers; i++ {
				require.Len(t, p.History(i), round)
			}
		}
		require.Equal(t, [3]int{9, 27, 9}, p.Scores())
	})

	t.Run("hiding same-round decisions", func(t *testing.T) {
		spies := []*spyStrategy{
			{fixedStrategy: defector("a")},
			{fixedStrategy: cooperator("b")},
			{fixedStrategy: defector("c")},
		}
		p := NewPlayers()
		for _, spy := range spies {
			require.NoError(t, p.Add(spy))
		}

		p.Collect()
		for _, spy := range spies {
			require.Empty(t, spy.ownSeen[0])
			require.Empty(t, spy.opponentsSeen[0][0], "no opponent move is visible before commit")
			require.Empty(t, spy.opponentsSeen[0][1], "no opponent move is visible before commit")
		}
		p.Commit(game.Payoff{5, 0, 5})

		p.Collect()
		last := spies[1]
		require.Equal(t, []game.Decision{game.Cooperate}, last.ownSeen[1])
		require.Equal(t, game.Opponents{{game.Defect}, {game.Defect}}, last.opponentsSeen[1],
			"opponents are shown in ascending index order excluding self")
		require.Equal(t, game.Opponents{{game.Cooperate}, {game.Defect}}, spies[0].opponentsSeen[1])
		require.Equal(t, game.Opponents{{game.Defect}, {game.Cooperate}}, spies[2].opponentsSeen[1])
	})

	t.Run("commit without collect is ignored", func(t *testing.T) {
		p := NewPlayers()
		require.NoError(t, p.Add(cooperator("a")))
		require.NoError(t, p.Add(cooperator("b")))
		require.NoError(t, p.Add(cooperator("c")))

		p.Collect()
		p.Commit(game.Payoff{7, 7, 7})
		p.Commit(game.Payoff{7, 7, 7})

		require.Len(t, p.History(0), 1)
		require.Equal(t, [3]int{7, 7, 7}, p.Scores())
	})

	t.Run("appending to a shown history does not leak", func(t *testing.T) {
		p := NewPlayers()
		require.NoError(t, p.Add(cooperator("a")))
		require.NoError(t, p.Add(cooperator("b")))
		require.NoError(t, p.Add(cooperator("c")))
		p.Collect()
		p.Commit(game.Payoff{7, 7, 7})

		shown := p.History(0)
		_ = append(shown, game.Defect)
		p.Collect()
		p.Commit(game.Payoff{7, 7, 7})

		require.Equal(t, []game.Decision{game.Cooperate, game.Cooperate}, p.History(0))
	})
}

func TestPlayersReset(t *testing.T) {
	p := NewPlayers()
	require.NoError(t, p.Add(cooperator("a")))
	require.NoError(t, p.Add(cooperator("b")))
	require.NoError(t, p.Add(cooperator("c")))
	p.Collect()
	p.Commit(game.Payoff{7, 7, 7})

	p.Reset()
	require.True(t, p.IsComplete(), "reset keeps strategies")
	require.Empty(t, p.History(0))
	require.Equal(t, [3]int{}, p.Scores())

	p.Clear()
	require.False(t, p.IsComplete(), "clear discards strategies")
	require.Equal(t, 0, p.Count())
}
