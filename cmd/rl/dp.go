package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/timpalpant/go-rl"
	"github.com/timpalpant/go-rl/dp"
	"github.com/timpalpant/go-rl/policy"
)

func dpCommand() *cobra.Command {
	var method string
	params := dp.DefaultParams()

	cmd := &cobra.Command{
		Use:   "dp",
		Short: "Solve an environment by dynamic programming",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch flags.Env {
			case "coin":
				return runDP(coinProblem(), method, params)
			case "gridworld":
				return runDP(gridworldProblem(), method, params)
			case "maxbias":
				return runDP(maxbiasProblem(), method, params)
			}

			return unknownEnv()
		},
	}

	cmd.Flags().StringVar(&method, "method", "value-iteration", "One of value-iteration, policy-iteration or evaluate (the uniformly random policy)")
	cmd.Flags().Float64Var(&params.Epsilon, "theta", params.Epsilon, "Stop sweeping once no value changes by more than this")
	cmd.Flags().IntVar(&params.MaxSweeps, "max-sweeps", params.MaxSweeps, "Maximum number of sweeps per evaluation")
	cmd.Flags().IntVar(&params.MaxIterations, "max-iterations", params.MaxIterations, "Maximum number of policy iteration rounds")
	return cmd
}

func runDP[S, A comparable](p problem[S, A], method string, params dp.Params) error {
	env := p.newEnv()
	v, closer, err := newValueFunction[S, A](flags, p.name+"-dp", 0, rl.StateKeys, p.discount)
	if err != nil {
		return err
	}
	defer closer()

	q, err := rl.NewTable[S, A](rl.DefaultParams(p.discount))
	if err != nil {
		return err
	}

	pi, err := policy.NewSoftmax(q)
	if err != nil {
		return err
	}

	var n int
	switch method {
	case "value-iteration":
		n, err = dp.ValueIteration(v, env, pi, params)
	case "policy-iteration":
		n, err = dp.PolicyIteration(v, env, pi, params)
	case "evaluate":
		if n, err = dp.PolicyEvaluation(v, env, policy.Random[S, A]{}, params); err == nil {
			pi.Initialize(env)
			_, err = dp.PolicyImprovement(v, env, pi)
		}
	default:
		return errors.Wrapf(rl.ErrInvalidConfig, "unknown method %q", method)
	}
	if err != nil {
		return err
	}

	metricSweeps.WithLabelValues(method, p.name).Add(float64(n))
	fmt.Printf("%s on %s: converged after %d rounds\n", method, p.name, n)

	var none A
	value := func(s S) float64 { return v.Peek(v.Key(s, none)) }
	best := func(s S) (A, error) { return pi.ArgmaxAction(env, s) }
	p.print(os.Stdout, env, value, best)
	return nil
}
