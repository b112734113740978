package montecarlo

import (
	"github.com/timpalpant/go-rl"
)

// Visits selects which occurrences of a key within an episode
// contribute a return.
type Visits[S, A comparable] interface {
	Accept(keys []rl.Key[S, A]) []bool
}

// FirstVisit accepts only the first occurrence of each key.
type FirstVisit[S, A comparable] struct{}

func (FirstVisit[S, A]) Accept(keys []rl.Key[S, A]) []bool {
	seen := make(map[rl.Key[S, A]]struct{}, len(keys))
	accept := make([]bool, len(keys))
	for i, k := range keys {
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			accept[i] = true
		}
	}

	return accept
}

// EveryVisit accepts every occurrence.
type EveryVisit[S, A comparable] struct{}

func (EveryVisit[S, A]) Accept(keys []rl.Key[S, A]) []bool {
	accept := make([]bool, len(keys))
	for i := range accept {
		accept[i] = true
	}

	return accept
}
