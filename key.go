package rl

import (
	"fmt"
)

// KeyMaker selects the granularity at which a ValueFunction stores values.
type KeyMaker int

const (
	// StateActionKeys stores one value per (state, action) pair.
	StateActionKeys KeyMaker = iota
	// StateKeys stores one value per state; the action is ignored.
	StateKeys
	// ActionKeys stores one value per action; the state is ignored.
	ActionKeys
)

func (km KeyMaker) String() string {
	switch km {
	case StateActionKeys:
		return "state-action"
	case StateKeys:
		return "state"
	case ActionKeys:
		return "action"
	}

	return fmt.Sprintf("KeyMaker(%d)", int(km))
}

func (km KeyMaker) valid() bool {
	return km >= StateActionKeys && km <= ActionKeys
}

// Key identifies a Value. The half not used by the KeyMaker that
// produced it is always the zero value.
type Key[S, A comparable] struct {
	State  S
	Action A
}

// MakeKey reduces (s, a) to a Key at the given granularity.
func MakeKey[S, A comparable](km KeyMaker, s S, a A) Key[S, A] {
	switch km {
	case StateKeys:
		return Key[S, A]{State: s}
	case ActionKeys:
		return Key[S, A]{Action: a}
	default:
		return Key[S, A]{State: s, Action: a}
	}
}

func (k Key[S, A]) String() string {
	return fmt.Sprintf("(%v, %v)", k.State, k.Action)
}
