// Package gridworld implements the 4x4 gridworld of Sutton & Barto,
// example 4.1.
//
// States are numbered 0-15 row by row; 0 and 15 are terminal. Every
// move costs -1, and moves that would leave the grid leave the state
// unchanged.
package gridworld

import (
	"github.com/timpalpant/go-rl"
)

const Size = 4

type State int

type Action int

const (
	Up Action = iota
	Down
	Left
	Right
)

var actions = []Action{Up, Down, Left, Right}

func (a Action) String() string {
	switch a {
	case Up:
		return "↑"
	case Down:
		return "↓"
	case Left:
		return "←"
	case Right:
		return "→"
	}

	return "?"
}

func IsTerminal(s State) bool {
	return s == 0 || s == Size*Size-1
}

func move(s State, a Action) State {
	row, col := int(s)/Size, int(s)%Size
	switch a {
	case Up:
		row--
	case Down:
		row++
	case Left:
		col--
	case Right:
		col++
	}

	if row < 0 || row >= Size || col < 0 || col >= Size {
		return s
	}

	return State(row*Size + col)
}

func Model() *rl.TransitionModel[State, Action] {
	states := make([]State, Size*Size)
	p := make(map[rl.Edge[State, Action]]float64)
	for i := range states {
		s := State(i)
		states[i] = s
		if IsTerminal(s) {
			continue
		}

		for _, a := range actions {
			p[rl.Edge[State, Action]{State: s, Action: a, NextState: move(s, a)}] = 1.0
		}
	}

	model, err := rl.NewTransitionModel(states, actions, p)
	if err != nil {
		panic(err)
	}

	return model
}

func Reward(rl.Transition[State, Action]) float64 {
	return -1.0
}

// New returns the gridworld starting in start.
func New(start State) *rl.MarkovDecisionEnvironment[State, Action] {
	return rl.NewMarkovDecisionEnvironment(Model(), Reward, start)
}

// RandomPolicyValues are the state values of the uniform random policy
// with discount 1 (Sutton & Barto, figure 4.1).
var RandomPolicyValues = [Size * Size]float64{
	0, -14, -20, -22,
	-14, -18, -20, -20,
	-20, -20, -18, -14,
	-22, -20, -14, 0,
}

// OptimalValue returns V*(s) with discount 1: minus the number of moves
// to the nearest terminal corner.
func OptimalValue(s State) float64 {
	row, col := int(s)/Size, int(s)%Size
	toStart := row + col
	toEnd := (Size - 1 - row) + (Size - 1 - col)
	if toStart < toEnd {
		return -float64(toStart)
	}

	return -float64(toEnd)
}
