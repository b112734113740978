package dp

import (
	"math"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/timpalpant/go-rl"
	"github.com/timpalpant/go-rl/policy"
)

type initializer[S, A comparable] interface {
	Initialize(env rl.Environment[S, A])
}

// bestAction returns the action maximizing ValueFromStateAction in s.
// Ties go to the earliest action.
func bestAction[S, A comparable](v *rl.ValueFunction[S, A], env rl.ModelEnvironment[S, A], s S) (A, float64, error) {
	actions := env.ReachableActions(s)
	if len(actions) == 0 {
		var none A
		return none, 0, errors.Wrapf(rl.ErrNoActions, "state %v", s)
	}

	best := actions[0]
	bestValue := math.Inf(-1)
	for _, a := range actions {
		if q := ValueFromStateAction(v, env, s, a); q > bestValue {
			best, bestValue = a, q
		}
	}

	return best, bestValue, nil
}

// PolicyImprovementStep makes pi greedy in s with respect to v and
// returns true if its preferred action did not change.
func PolicyImprovementStep[S, A comparable](v *rl.ValueFunction[S, A], env rl.ModelEnvironment[S, A], pi policy.Deterministic[S, A], s S) (bool, error) {
	old, err := pi.ArgmaxAction(env, s)
	if err != nil {
		return false, err
	}

	best, _, err := bestAction(v, env, s)
	if err != nil {
		return false, err
	}

	if err := pi.SetDeterministic(env, s, best); err != nil {
		return false, err
	}

	return old == best, nil
}

// PolicyImprovement applies PolicyImprovementStep to every non-terminal
// state and returns true if the policy was already greedy everywhere.
func PolicyImprovement[S, A comparable](v *rl.ValueFunction[S, A], env rl.ModelEnvironment[S, A], pi policy.Deterministic[S, A]) (bool, error) {
	if err := checkStateValues(v); err != nil {
		return false, err
	}

	stable := true
	for _, s := range env.States() {
		if env.Model().IsTerminal(s) {
			continue
		}

		unchanged, err := PolicyImprovementStep(v, env, pi, s)
		if err != nil {
			return false, err
		}

		stable = stable && unchanged
	}

	return stable, nil
}

// PolicyIteration alternates policy evaluation and improvement until
// the policy is stable, and returns the number of rounds performed.
func PolicyIteration[S, A comparable](v *rl.ValueFunction[S, A], env rl.ModelEnvironment[S, A], pi policy.Deterministic[S, A], params Params) (int, error) {
	if err := params.Validate(); err != nil {
		return 0, err
	}

	if err := checkStateValues(v); err != nil {
		return 0, err
	}

	if init, ok := pi.(initializer[S, A]); ok {
		init.Initialize(env)
	}

	for i := 1; i <= params.MaxIterations; i++ {
		sweeps, err := PolicyEvaluation(v, env, pi, params)
		if err != nil {
			return i, err
		}

		stable, err := PolicyImprovement(v, env, pi)
		if err != nil {
			return i, err
		}

		glog.V(1).Infof("Policy iteration %d: %d evaluation sweeps, stable = %v", i, sweeps, stable)
		if stable {
			return i, nil
		}
	}

	glog.Warningf("Policy iteration did not converge in %d iterations", params.MaxIterations)
	return params.MaxIterations, nil
}

// ValueIterationStep returns max_a ValueFromStateAction(s, a).
func ValueIterationStep[S, A comparable](v *rl.ValueFunction[S, A], env rl.ModelEnvironment[S, A], s S) (float64, error) {
	_, best, err := bestAction(v, env, s)
	return best, err
}

// ValueIterationSweep applies ValueIterationStep to every non-terminal
// state in place and returns the largest change.
func ValueIterationSweep[S, A comparable](v *rl.ValueFunction[S, A], env rl.ModelEnvironment[S, A]) (float64, error) {
	if err := checkStateValues(v); err != nil {
		return 0, err
	}

	return sweep(v, env, func(s S) (float64, error) {
		return ValueIterationStep(v, env, s)
	})
}

// ValueIterationEstimation sweeps until the largest change is at most
// params.Epsilon, and returns the number of sweeps performed.
func ValueIterationEstimation[S, A comparable](v *rl.ValueFunction[S, A], env rl.ModelEnvironment[S, A], params Params) (int, error) {
	if err := params.Validate(); err != nil {
		return 0, err
	}

	for i := 1; i <= params.MaxSweeps; i++ {
		delta, err := ValueIterationSweep(v, env)
		if err != nil {
			return i, err
		}

		glog.V(2).Infof("Value iteration sweep %d: delta = %v", i, delta)
		if delta <= params.Epsilon {
			glog.V(1).Infof("Value iteration converged after %d sweeps", i)
			return i, nil
		}
	}

	glog.Warningf("Value iteration did not converge in %d sweeps", params.MaxSweeps)
	return params.MaxSweeps, nil
}

// ValueIteration estimates the optimal values and then makes pi
// greedy with respect to them.
func ValueIteration[S, A comparable](v *rl.ValueFunction[S, A], env rl.ModelEnvironment[S, A], pi policy.Deterministic[S, A], params Params) (int, error) {
	sweeps, err := ValueIterationEstimation(v, env, params)
	if err != nil {
		return sweeps, err
	}

	if init, ok := pi.(initializer[S, A]); ok {
		init.Initialize(env)
	}

	_, err = PolicyImprovement(v, env, pi)
	return sweeps, err
}
