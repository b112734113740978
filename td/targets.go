package td

import (
	"github.com/pkg/errors"

	"github.com/timpalpant/go-rl"
	"github.com/timpalpant/go-rl/policy"
)

// Target computes the bootstrap value V(s') of a one-step update.
// next is the action that will be taken in s', if one has been chosen.
type Target[S, A comparable] interface {
	Bootstrap(env rl.Environment[S, A], values *rl.ValueFunction[S, A], target policy.Distribution[S, A], s S, next A, chosen bool) (float64, error)
}

// SarsaTarget bootstraps from Q(s', a') for the action a' that will be
// taken next. With state keys it is the TD(0) target V(s').
type SarsaTarget[S, A comparable] struct{}

func (SarsaTarget[S, A]) Bootstrap(env rl.Environment[S, A], values *rl.ValueFunction[S, A], target policy.Distribution[S, A], s S, next A, chosen bool) (float64, error) {
	if !chosen && values.KeyMaker() != rl.StateKeys {
		return 0, errors.Wrap(rl.ErrInvalidConfig, "sarsa target requires the next action")
	}

	return values.ValueAt(values.Key(s, next)), nil
}

// QLearningTarget bootstraps from max_a Q(s', a).
type QLearningTarget[S, A comparable] struct{}

func (QLearningTarget[S, A]) Bootstrap(env rl.Environment[S, A], values *rl.ValueFunction[S, A], target policy.Distribution[S, A], s S, next A, chosen bool) (float64, error) {
	return values.MaxValue(env, s)
}

// ExpectedSarsaTarget bootstraps from Σ_a π(a|s')·Q(s', a) under the
// target policy.
type ExpectedSarsaTarget[S, A comparable] struct{}

func (ExpectedSarsaTarget[S, A]) Bootstrap(env rl.Environment[S, A], values *rl.ValueFunction[S, A], target policy.Distribution[S, A], s S, next A, chosen bool) (float64, error) {
	return expectedValue(env, values, target, s)
}

func expectedValue[S, A comparable](env rl.Environment[S, A], values *rl.ValueFunction[S, A], target policy.Distribution[S, A], s S) (float64, error) {
	if target == nil {
		return 0, errors.Wrap(rl.ErrInvalidConfig, "expected value requires a target policy")
	}

	total := 0.0
	for _, a := range env.ReachableActions(s) {
		p, err := target.Probability(env, s, a)
		if err != nil {
			return 0, err
		}

		total += p * values.ValueAt(values.Key(s, a))
	}

	return total, nil
}
