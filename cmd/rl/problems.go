package main

import (
	"github.com/pkg/errors"

	"github.com/timpalpant/go-rl"
	"github.com/timpalpant/go-rl/coin"
	"github.com/timpalpant/go-rl/gridworld"
	"github.com/timpalpant/go-rl/maxbias"
	"github.com/timpalpant/go-rl/policy"
)

// problem is a reference environment together with how to display it.
type problem[S, A comparable] struct {
	name     string
	discount float64
	newEnv   func() *rl.MarkovDecisionEnvironment[S, A]
	print    printer[S, A]
}

func coinProblem() problem[coin.State, coin.Action] {
	return problem[coin.State, coin.Action]{
		name:     "coin",
		discount: coin.Discount,
		newEnv:   coin.New,
		print:    printStates[coin.State, coin.Action],
	}
}

const gridworldStart = gridworld.State(9)

func gridworldProblem() problem[gridworld.State, gridworld.Action] {
	return problem[gridworld.State, gridworld.Action]{
		name:     "gridworld",
		discount: 1,
		newEnv: func() *rl.MarkovDecisionEnvironment[gridworld.State, gridworld.Action] {
			return gridworld.New(gridworldStart)
		},
		print: printGrid,
	}
}

func maxbiasProblem() problem[maxbias.State, maxbias.Action] {
	return problem[maxbias.State, maxbias.Action]{
		name:     "maxbias",
		discount: 1,
		newEnv:   maxbias.New,
		print:    printStates[maxbias.State, maxbias.Action],
	}
}

func unknownEnv() error {
	return errors.Wrapf(rl.ErrInvalidConfig, "unknown environment %q", flags.Env)
}

// greedy returns the greedy value and action of each state under values.
// Terminal states have value 0.
func greedy[S, A comparable](env rl.Environment[S, A], values policy.ActionValues[S, A]) (func(S) float64, func(S) (A, error)) {
	best := func(s S) (A, error) {
		return values.ArgmaxAction(env, s)
	}

	value := func(s S) float64 {
		a, err := best(s)
		if err != nil {
			return 0
		}

		return values.Peek(values.Key(s, a))
	}

	return value, best
}
