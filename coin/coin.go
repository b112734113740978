// Package coin implements a two-state, two-action MDP with a known
// optimal policy, used to test learning algorithms.
//
// In either state the agent chooses which of two biased coins to flip.
// Heads moves to S1 and pays +1, tails moves to S0 and pays -1:
//
//	S0, A0: P(S1) = 0.2    S0, A1: P(S1) = 0.7
//	S1, A0: P(S1) = 0.9    S1, A1: P(S1) = 0.5
//
// With discount 0.5 the optimal policy is A1 in S0 and A0 in S1, with
// V*(S0) = 10/9 and V*(S1) = 14/9. The process never terminates.
package coin

import (
	"fmt"

	"github.com/timpalpant/go-rl"
)

type State int

const (
	S0 State = iota
	S1
)

func (s State) String() string { return fmt.Sprintf("s%d", int(s)) }

type Action int

const (
	A0 Action = iota
	A1
)

func (a Action) String() string { return fmt.Sprintf("a%d", int(a)) }

// Discount is the discount factor for which the optimal values are known.
const Discount = 0.5

var (
	OptimalValues = map[State]float64{S0: 10.0 / 9, S1: 14.0 / 9}
	OptimalPolicy = map[State]Action{S0: A1, S1: A0}
)

func Model() *rl.TransitionModel[State, Action] {
	model, err := rl.NewTransitionModel(
		[]State{S0, S1},
		[]Action{A0, A1},
		map[rl.Edge[State, Action]]float64{
			{State: S0, Action: A0, NextState: S0}: 0.8,
			{State: S0, Action: A0, NextState: S1}: 0.2,
			{State: S0, Action: A1, NextState: S0}: 0.3,
			{State: S0, Action: A1, NextState: S1}: 0.7,
			{State: S1, Action: A0, NextState: S0}: 0.1,
			{State: S1, Action: A0, NextState: S1}: 0.9,
			{State: S1, Action: A1, NextState: S0}: 0.5,
			{State: S1, Action: A1, NextState: S1}: 0.5,
		})
	if err != nil {
		panic(err)
	}

	return model
}

// Reward pays +1 for landing in S1 and -1 for landing in S0.
func Reward(t rl.Transition[State, Action]) float64 {
	if t.NextState == S1 {
		return 1.0
	}

	return -1.0
}

// New returns the coin MDP, starting in S0.
func New() *rl.MarkovDecisionEnvironment[State, Action] {
	return rl.NewMarkovDecisionEnvironment(Model(), Reward, S0)
}
