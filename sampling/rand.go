package sampling

import (
	"golang.org/x/exp/rand"
)

// New returns a random number generator seeded with seed.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Split derives n independent generators from rng, e.g. one per
// concurrent trial. The result depends only on the state of rng.
func Split(rng *rand.Rand, n int) []*rand.Rand {
	rngs := make([]*rand.Rand, n)
	for i := range rngs {
		rngs[i] = New(rng.Uint64())
	}

	return rngs
}
