// Package policy implements action-selection policies over value tables.
package policy

import (
	"golang.org/x/exp/rand"

	"github.com/timpalpant/go-rl"
)

// Policy chooses an action in a given state.
type Policy[S, A comparable] interface {
	Action(rng *rand.Rand, env rl.Environment[S, A], s S) (A, error)
}

// Distribution is a Policy with a known action distribution.
type Distribution[S, A comparable] interface {
	Policy[S, A]
	// Probability returns π(a|s).
	Probability(env rl.Environment[S, A], s S, a A) (float64, error)
	// LogProbability returns log π(a|s).
	LogProbability(env rl.Environment[S, A], s S, a A) (float64, error)
	// ArgmaxAction returns the most probable action in s.
	ArgmaxAction(env rl.Environment[S, A], s S) (A, error)
	// Kernel returns the unnormalized weight of a in s.
	Kernel(env rl.Environment[S, A], s S, a A) (float64, error)
	// Normalisation returns the sum of Kernel over the actions of s.
	Normalisation(env rl.Environment[S, A], s S) (float64, error)
}

// Deterministic is a Distribution that can be made to always choose
// a given action in a given state.
type Deterministic[S, A comparable] interface {
	Distribution[S, A]
	SetDeterministic(env rl.Environment[S, A], s S, a A) error
}

// ValuePolicy is a Distribution derived from a table of action values.
type ValuePolicy[S, A comparable] interface {
	Distribution[S, A]
	Values() ActionValues[S, A]
	// Update folds the reward of t into the values.
	Update(env rl.Environment[S, A], t rl.Transition[S, A]) error
}

// ActionValues is a source of Q(s, a) estimates: a ValueFunction or an
// Additive combination of several.
type ActionValues[S, A comparable] interface {
	KeyMaker() rl.KeyMaker
	Key(s S, a A) rl.Key[S, A]
	// Peek returns the estimate for k without creating it.
	Peek(k rl.Key[S, A]) float64
	// ValueAt returns the estimate for k, creating it if necessary.
	ValueAt(k rl.Key[S, A]) float64
	ArgmaxAction(env rl.Environment[S, A], s S) (A, error)
	Initialize(env rl.Environment[S, A])
}

type incrementalUpdater[S, A comparable] interface {
	IncrementalUpdate(env rl.Environment[S, A], t rl.Transition[S, A])
}

func updateValues[S, A comparable](values ActionValues[S, A], env rl.Environment[S, A], t rl.Transition[S, A]) error {
	u, ok := values.(incrementalUpdater[S, A])
	if !ok {
		return rl.ErrUnsupportedOperation
	}

	u.IncrementalUpdate(env, t)
	return nil
}

var _ ActionValues[int, int] = (*rl.ValueFunction[int, int])(nil)
