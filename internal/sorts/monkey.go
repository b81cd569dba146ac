// Package sorts holds MonkeySort, a sort that shuffles until the slice happens
// to be in order. It has no time bound and is only practical for a handful of
// elements.
package sorts

import (
	"cmp"
	"context"
	"math/rand/v2"
	"slices"
)

// Shuffle permutes s in place, swapping each position i with a random
// position drawn from [0, n-i).
func Shuffle[T any](s []T, r *rand.Rand) {
	n := len(s)
	for i := 0; i < n; i++ {
		j := r.IntN(n - i)
		s[i], s[j] = s[j], s[i]
	}
}

// IsSorted reports whether s is in ascending order.
func IsSorted[T cmp.Ordered](s []T) bool {
	return slices.IsSorted(s)
}

// MonkeySort shuffles s until it is sorted and returns the number of shuffles.
// It stops with ctx.Err() if ctx is done first, leaving s shuffled.
func MonkeySort[T cmp.Ordered](ctx context.Context, s []T, r *rand.Rand) (int, error) {
	rounds := 0
	for !IsSorted(s) {
		select {
		case <-ctx.Done():
			return rounds, ctx.Err()
		default:
		}
		Shuffle(s, r)
		rounds++
	}
	return rounds, nil
}
