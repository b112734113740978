package rl

import (
	"golang.org/x/exp/rand"
)

// RewardFunc assigns a reward to a transition.
type RewardFunc[S, A comparable] func(t Transition[S, A]) float64

// MarkovDecisionEnvironment is a ModelEnvironment defined by a
// TransitionModel and a reward function.
type MarkovDecisionEnvironment[S, A comparable] struct {
	model  *TransitionModel[S, A]
	reward RewardFunc[S, A]
	start  S
	state  S
}

// NewMarkovDecisionEnvironment returns an environment that starts (and
// resets) to start.
func NewMarkovDecisionEnvironment[S, A comparable](model *TransitionModel[S, A], reward RewardFunc[S, A], start S) *MarkovDecisionEnvironment[S, A] {
	return &MarkovDecisionEnvironment[S, A]{
		model:  model,
		reward: reward,
		start:  start,
		state:  start,
	}
}

func (e *MarkovDecisionEnvironment[S, A]) Reset() S {
	e.state = e.start
	return e.state
}

func (e *MarkovDecisionEnvironment[S, A]) State() S { return e.state }

// SetState implements StateSetter.
func (e *MarkovDecisionEnvironment[S, A]) SetState(s S) { e.state = s }

// Step samples the transition from the current state. Taking an action
// that is not reachable from the current state is a programming error.
func (e *MarkovDecisionEnvironment[S, A]) Step(rng *rand.Rand, action A) Transition[S, A] {
	t, err := e.model.Sample(rng, e.state, action)
	if err != nil {
		panic(err)
	}

	return t
}

func (e *MarkovDecisionEnvironment[S, A]) Update(t Transition[S, A]) {
	e.state = t.NextState
}

func (e *MarkovDecisionEnvironment[S, A]) ReachableActions(s S) []A {
	return e.model.ReachableActions(s)
}

func (e *MarkovDecisionEnvironment[S, A]) Reward(t Transition[S, A]) float64 {
	return e.reward(t)
}

func (e *MarkovDecisionEnvironment[S, A]) States() []S                  { return e.model.States() }
func (e *MarkovDecisionEnvironment[S, A]) Actions() []A                 { return e.model.Actions() }
func (e *MarkovDecisionEnvironment[S, A]) Model() *TransitionModel[S, A] { return e.model }
