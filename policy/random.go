package policy

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"

	"github.com/timpalpant/go-rl"
)

// Random chooses uniformly among the reachable actions.
type Random[S, A comparable] struct{}

func reachable[S, A comparable](env rl.Environment[S, A], s S) ([]A, error) {
	actions := env.ReachableActions(s)
	if len(actions) == 0 {
		return nil, errors.Wrapf(rl.ErrNoActions, "state %v", s)
	}

	return actions, nil
}

func (Random[S, A]) Action(rng *rand.Rand, env rl.Environment[S, A], s S) (A, error) {
	actions, err := reachable(env, s)
	if err != nil {
		var none A
		return none, err
	}

	return actions[rng.Intn(len(actions))], nil
}

// Probability returns 1/n for each of the n reachable actions.
func (Random[S, A]) Probability(env rl.Environment[S, A], s S, a A) (float64, error) {
	actions, err := reachable(env, s)
	if err != nil {
		return 0, err
	}

	if !slices.Contains(actions, a) {
		return 0, nil
	}

	return 1.0 / float64(len(actions)), nil
}

func (r Random[S, A]) LogProbability(env rl.Environment[S, A], s S, a A) (float64, error) {
	p, err := r.Probability(env, s, a)
	return math.Log(p), err
}

// ArgmaxAction is not defined for a uniform distribution.
func (Random[S, A]) ArgmaxAction(env rl.Environment[S, A], s S) (A, error) {
	var none A
	return none, errors.Wrap(rl.ErrUnsupportedOperation, "argmax of uniform policy")
}

func (Random[S, A]) Kernel(env rl.Environment[S, A], s S, a A) (float64, error) {
	if _, err := reachable(env, s); err != nil {
		return 0, err
	}

	return 1.0, nil
}

func (Random[S, A]) Normalisation(env rl.Environment[S, A], s S) (float64, error) {
	actions, err := reachable(env, s)
	return float64(len(actions)), err
}
