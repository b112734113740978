// Package maxbias implements the maximization bias example of
// Sutton & Barto, example 6.7.
//
// From the start state A, Right ends the episode with reward 0 and Left
// moves to B with reward 0. Every action in B ends the episode: with
// probability 0.45 in Win (reward +1), otherwise in Loss (reward -1).
// The expected return of Left is therefore -0.1, but a learner that
// maximizes over noisy estimates of B's actions will overvalue it.
package maxbias

import (
	"fmt"

	"github.com/timpalpant/go-rl"
)

type State int

const (
	A State = iota
	B
	Right
	Win
	Loss
)

func (s State) String() string {
	return [...]string{"A", "B", "Right", "Win", "Loss"}[s]
}

type Action int

const (
	GoLeft Action = iota
	GoRight
)

func (a Action) String() string {
	switch a {
	case GoLeft:
		return "left"
	case GoRight:
		return "right"
	}

	return fmt.Sprintf("b%d", int(a)-2)
}

const (
	// NumActionsB is the number of (equivalent) actions available in B.
	NumActionsB = 10
	// PWin is the probability that an action in B wins.
	PWin = 0.45
)

// ActionsB returns the actions available in B.
func ActionsB() []Action {
	actions := make([]Action, NumActionsB)
	for i := range actions {
		actions[i] = Action(i + 2)
	}

	return actions
}

func Model() *rl.TransitionModel[State, Action] {
	actions := append([]Action{GoLeft, GoRight}, ActionsB()...)
	p := map[rl.Edge[State, Action]]float64{
		{State: A, Action: GoLeft, NextState: B}:      1.0,
		{State: A, Action: GoRight, NextState: Right}: 1.0,
	}

	for _, a := range ActionsB() {
		p[rl.Edge[State, Action]{State: B, Action: a, NextState: Win}] = PWin
		p[rl.Edge[State, Action]{State: B, Action: a, NextState: Loss}] = 1 - PWin
	}

	model, err := rl.NewTransitionModel([]State{A, B, Right, Win, Loss}, actions, p)
	if err != nil {
		panic(err)
	}

	return model
}

func Reward(t rl.Transition[State, Action]) float64 {
	switch t.NextState {
	case Win:
		return 1.0
	case Loss:
		return -1.0
	}

	return 0.0
}

// New returns the environment, starting in A.
func New() *rl.MarkovDecisionEnvironment[State, Action] {
	return rl.NewMarkovDecisionEnvironment(Model(), Reward, A)
}
