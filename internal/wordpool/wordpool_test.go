package wordpool

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShuffle_IsPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	in := []string{"a", "b", "c", "d", "e", "f", "g"}

	out := Shuffle(rng, in)

	require.Len(t, out, len(in))
	assert.ElementsMatch(t, in, out)
	// input untouched
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g"}, in)
}

func TestShuffle_EmptyAndSingle(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	assert.Empty(t, Shuffle(rng, []string{}))
	assert.Equal(t, []int{7}, Shuffle(rng, []int{7}))
}

func TestHalves_SplitSizes(t *testing.T) {
	cases := []struct {
		name       string
		n          int
		wantFirst  int
		wantSecond int
	}{
		{"even", 6, 3, 3},
		{"odd gives first team the extra", 5, 3, 2},
		{"four", 4, 2, 2},
		{"one", 1, 1, 0},
		{"zero", 0, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(3))
			items := make([]int, tc.n)
			for i := range items {
				items[i] = i
			}

			first, second := Halves(rng, items)
			assert.Len(t, first, tc.wantFirst)
			assert.Len(t, second, tc.wantSecond)
			assert.ElementsMatch(t, items, append(append([]int{}, first...), second...))
		})
	}
}
