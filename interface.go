package rl

import (
	"golang.org/x/exp/rand"
)

// Transition is the result of taking one action in an environment.
type Transition[S, A comparable] struct {
	State     S
	Action    A
	NextState S
	// Done marks a terminal transition: nothing is bootstrapped beyond it.
	Done bool
}

// Environment is the interface for a (state, action, reward) process.
type Environment[S, A comparable] interface {
	// Reset re-initializes the environment and returns the start state.
	Reset() S
	// State returns the current state.
	State() S
	// Step computes the transition for taking the given action from the
	// current state. It does not commit the transition; see Update.
	Step(rng *rand.Rand, action A) Transition[S, A]
	// Update commits t.NextState as the new current state.
	Update(t Transition[S, A])
	// ReachableActions returns the actions available in the given state.
	// The order is stable and is used to break ties between actions of
	// equal value: the earliest action wins.
	ReachableActions(state S) []A
	// Reward is a pure function of a transition.
	Reward(t Transition[S, A]) float64
}

// FiniteEnvironment is an Environment that can enumerate its state
// and action spaces.
type FiniteEnvironment[S, A comparable] interface {
	Environment[S, A]
	States() []S
	Actions() []A
}

// ModelEnvironment is a FiniteEnvironment with a known transition model,
// as required by dynamic programming.
type ModelEnvironment[S, A comparable] interface {
	FiniteEnvironment[S, A]
	Model() *TransitionModel[S, A]
}

// StateSetter is implemented by environments that can be placed in an
// arbitrary state, e.g. for exploring starts.
type StateSetter[S comparable] interface {
	SetState(s S)
}
