package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCombinations(t *testing.T) {
	t.Run("choosing 3 of 4", func(t *testing.T) {
		require.Equal(t, [][]int{
			{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3},
		}, Combinations(4, 3))
	})

	t.Run("count matches the binomial coefficient", func(t *testing.T) {
		for n := 0; n <= 9; n++ {
			require.Len(t, Combinations(n, 3), Binomial(n, 3), "n=%d", n)
		}
	})

	t.Run("choosing more than available", func(t *testing.T) {
		require.Empty(t, Combinations(2, 3))
	})

	t.Run("choosing none", func(t *testing.T) {
		require.Equal(t, [][]int{{}}, Combinations(3, 0))
	})
}

func TestBinomial(t *testing.T) {
	require.Equal(t, 10, Binomial(5, 3))
	require.Equal(t, 6, Binomial(4, 2))
	require.Equal(t, 1, Binomial(3, 3))
	require.Equal(t, 0, Binomial(2, 3))
}

func TestSum(t *testing.T) {
	require.Equal(t, 6, Sum(1, 2, 3))
	require.InDelta(t, 0.75, Sum(0.5, 0.25), 1e-9)
	require.Equal(t, 0, Sum[int]())
}
