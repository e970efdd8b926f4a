// Package wordpool holds the pure helpers behind the game's word pool and
// team assignment: unbiased shuffling and the two-team split.
package wordpool

import "math/rand"

// Shuffle returns a shuffled copy of items using a Fisher-Yates pass.
// The input slice is never modified.
func Shuffle[T any](rng *rand.Rand, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Halves shuffles items and splits them into two contiguous halves. The
// first half gets ceil(n/2) entries, so with an odd count the first team
// is the larger one. Ties are broken purely by the shuffled order.
func Halves[T any](rng *rand.Rand, items []T) (first, second []T) {
	shuffled := Shuffle(rng, items)
	half := (len(shuffled) + 1) / 2
	return shuffled[:half], shuffled[half:]
}
