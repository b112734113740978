// Package dp implements policy iteration and value iteration for
// environments with a known transition model.
//
// All functions operate in place on a state-keyed ValueFunction.
// Terminal states have value 0.
package dp

import (
	"math"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/floats"

	"github.com/timpalpant/go-rl"
	"github.com/timpalpant/go-rl/policy"
)

func stateValue[S, A comparable](v *rl.ValueFunction[S, A], env rl.ModelEnvironment[S, A], s S) float64 {
	if env.Model().IsTerminal(s) {
		return 0
	}

	var none A
	return v.ValueAt(v.Key(s, none))
}

// ValueFromStateAction returns Σ_{s'} P(s'|s,a)·(R(s,a,s') + γ·V(s')).
func ValueFromStateAction[S, A comparable](v *rl.ValueFunction[S, A], env rl.ModelEnvironment[S, A], s S, a A) float64 {
	total := 0.0
	for _, o := range env.Model().Outcomes(s, a) {
		t := rl.Transition[S, A]{
			State:     s,
			Action:    a,
			NextState: o.State,
			Done:      env.Model().IsTerminal(o.State),
		}

		total += o.Probability * (env.Reward(t) + v.Discount()*stateValue(v, env, o.State))
	}

	return total
}

// PolicyEvaluationStep returns the expected value of s under pi.
func PolicyEvaluationStep[S, A comparable](v *rl.ValueFunction[S, A], env rl.ModelEnvironment[S, A], pi policy.Distribution[S, A], s S) (float64, error) {
	total := 0.0
	for _, a := range env.ReachableActions(s) {
		p, err := pi.Probability(env, s, a)
		if err != nil {
			return 0, err
		}

		if p > 0 {
			total += p * ValueFromStateAction(v, env, s, a)
		}
	}

	return total, nil
}

// sweep applies update to every non-terminal state in order, in place,
// and returns the largest change.
func sweep[S, A comparable](v *rl.ValueFunction[S, A], env rl.ModelEnvironment[S, A], update func(s S) (float64, error)) (float64, error) {
	var none A
	var before, after []float64
	for _, s := range env.States() {
		if env.Model().IsTerminal(s) {
			continue
		}

		k := v.Key(s, none)
		before = append(before, v.ValueAt(k))
		x, err := update(s)
		if err != nil {
			return 0, err
		}

		v.Set(k, x)
		after = append(after, x)
	}

	if len(before) == 0 {
		return 0, nil
	}

	return floats.Distance(before, after, math.Inf(1)), nil
}

// PolicyEvaluationSweep updates every state once toward its expected
// value under pi and returns the largest change.
func PolicyEvaluationSweep[S, A comparable](v *rl.ValueFunction[S, A], env rl.ModelEnvironment[S, A], pi policy.Distribution[S, A]) (float64, error) {
	if err := checkStateValues(v); err != nil {
		return 0, err
	}

	return sweep(v, env, func(s S) (float64, error) {
		return PolicyEvaluationStep(v, env, pi, s)
	})
}

// PolicyEvaluation sweeps until the largest change is at most
// params.Epsilon, and returns the number of sweeps performed.
func PolicyEvaluation[S, A comparable](v *rl.ValueFunction[S, A], env rl.ModelEnvironment[S, A], pi policy.Distribution[S, A], params Params) (int, error) {
	if err := params.Validate(); err != nil {
		return 0, err
	}

	for i := 1; i <= params.MaxSweeps; i++ {
		delta, err := PolicyEvaluationSweep(v, env, pi)
		if err != nil {
			return i, err
		}

		glog.V(2).Infof("Policy evaluation sweep %d: delta = %v", i, delta)
		if delta <= params.Epsilon {
			return i, nil
		}
	}

	glog.Warningf("Policy evaluation did not converge in %d sweeps", params.MaxSweeps)
	return params.MaxSweeps, nil
}
