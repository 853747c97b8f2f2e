package utils

import (
	"slices"

	"golang.org/x/exp/constraints"
)

// Combinations returns every k-element subset of {0..n-1} as ascending index
// slices, in lexicographic order.
func Combinations(n, k int) [][]int {
	if k < 0 || k > n {
		return nil
	}
	combos := [][]int{}
	indices := make([]int, k)
	for i := range indices {
		indices[i] = i
	}
	for {
		combos = append(combos, slices.Clone(indices))

		// Find the rightmost index that can still move right
		i := k - 1
		for i >= 0 && indices[i] == n-k+i {
			i--
		}
		if i < 0 {
			return combos
		}
		indices[i]++
		for j := i + 1; j < k; j++ {
			indices[j] = indices[j-1] + 1
		}
	}
}

// Binomial returns n choose k.
func Binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	k = min(k, n-k)
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}

func Sum[T constraints.Integer | constraints.Float](values ...T) T {
	var total T
	for _, v := range values {
		total += v
	}
	return total
}
