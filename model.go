package rl

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"

	"github.com/timpalpant/go-rl/sampling"
)

const probabilityTol = 1e-6

// Edge is a single (s, a, s') entry of a TransitionModel.
type Edge[S, A comparable] struct {
	State     S
	Action    A
	NextState S
}

// Outcome is a possible next state and its probability.
type Outcome[S comparable] struct {
	State       S
	Probability float64
}

type stateAction[S, A comparable] struct {
	s S
	a A
}

// TransitionModel gives P(s'|s,a) for a finite MDP.
//
// States and actions are kept in the order they were declared, and
// every enumeration (reachable actions, outcomes) follows that order.
// A state with no outgoing edges is terminal.
type TransitionModel[S, A comparable] struct {
	states  []S
	actions []A

	outcomes  map[stateAction[S, A]][]Outcome[S]
	reachable map[S][]A
}

// NewTransitionModel validates p and builds a TransitionModel over the
// declared states and actions. For every (s, a) that appears in p the
// probabilities over next states must sum to 1.
func NewTransitionModel[S, A comparable](states []S, actions []A, p map[Edge[S, A]]float64) (*TransitionModel[S, A], error) {
	stateIdx := make(map[S]int, len(states))
	for i, s := range states {
		if _, ok := stateIdx[s]; ok {
			return nil, errors.Wrapf(ErrInvalidConfig, "duplicate state %v", s)
		}
		stateIdx[s] = i
	}

	actionIdx := make(map[A]int, len(actions))
	for i, a := range actions {
		if _, ok := actionIdx[a]; ok {
			return nil, errors.Wrapf(ErrInvalidConfig, "duplicate action %v", a)
		}
		actionIdx[a] = i
	}

	outcomes := make(map[stateAction[S, A]][]Outcome[S])
	for e, prob := range p {
		if _, ok := stateIdx[e.State]; !ok {
			return nil, errors.Wrapf(ErrInvalidConfig, "undeclared state %v", e.State)
		}
		if _, ok := stateIdx[e.NextState]; !ok {
			return nil, errors.Wrapf(ErrInvalidConfig, "undeclared state %v", e.NextState)
		}
		if _, ok := actionIdx[e.Action]; !ok {
			return nil, errors.Wrapf(ErrInvalidConfig, "undeclared action %v", e.Action)
		}
		if !(prob >= 0 && prob <= 1) {
			return nil, errors.Wrapf(ErrInvalidConfig, "P(%v|%v,%v) = %v", e.NextState, e.State, e.Action, prob)
		}
		if prob == 0 {
			continue
		}

		sa := stateAction[S, A]{e.State, e.Action}
		outcomes[sa] = append(outcomes[sa], Outcome[S]{e.NextState, prob})
	}

	reachable := make(map[S][]A)
	for sa, out := range outcomes {
		total := 0.0
		for _, o := range out {
			total += o.Probability
		}
		if math.Abs(total-1) > probabilityTol {
			return nil, errors.Wrapf(ErrInvalidConfig,
				"probabilities for (%v, %v) sum to %v != 1", sa.s, sa.a, total)
		}

		slices.SortFunc(out, func(x, y Outcome[S]) int {
			return stateIdx[x.State] - stateIdx[y.State]
		})
		reachable[sa.s] = append(reachable[sa.s], sa.a)
	}

	for s, acts := range reachable {
		slices.SortFunc(acts, func(x, y A) int {
			return actionIdx[x] - actionIdx[y]
		})
		reachable[s] = acts
	}

	return &TransitionModel[S, A]{
		states:    slices.Clone(states),
		actions:   slices.Clone(actions),
		outcomes:  outcomes,
		reachable: reachable,
	}, nil
}

// States returns the declared states.
func (m *TransitionModel[S, A]) States() []S { return m.states }

// Actions returns the declared actions.
func (m *TransitionModel[S, A]) Actions() []A { return m.actions }

// ReachableActions returns the actions with outgoing edges from s.
func (m *TransitionModel[S, A]) ReachableActions(s S) []A {
	return m.reachable[s]
}

// IsTerminal returns true if s has no outgoing edges.
func (m *TransitionModel[S, A]) IsTerminal(s S) bool {
	return len(m.reachable[s]) == 0
}

// Outcomes returns the possible next states of (s, a) with their probabilities.
func (m *TransitionModel[S, A]) Outcomes(s S, a A) []Outcome[S] {
	return m.outcomes[stateAction[S, A]{s, a}]
}

// Probability returns P(next|s,a).
func (m *TransitionModel[S, A]) Probability(s S, a A, next S) float64 {
	for _, o := range m.Outcomes(s, a) {
		if o.State == next {
			return o.Probability
		}
	}

	return 0
}

// Sample draws a transition from (s, a).
func (m *TransitionModel[S, A]) Sample(rng *rand.Rand, s S, a A) (Transition[S, A], error) {
	out := m.Outcomes(s, a)
	if len(out) == 0 {
		return Transition[S, A]{}, errors.Wrapf(ErrNoActions, "action %v in state %v", a, s)
	}

	pv := make([]float64, len(out))
	for i, o := range out {
		pv[i] = o.Probability
	}

	i, err := sampling.SampleOne(pv, rng.Float64())
	if err != nil {
		return Transition[S, A]{}, err
	}

	next := out[i].State
	return Transition[S, A]{
		State:     s,
		Action:    a,
		NextState: next,
		Done:      m.IsTerminal(next),
	}, nil
}

// Visit calls visitor once for every state reachable from start,
// in breadth-first order.
func (m *TransitionModel[S, A]) Visit(start S, visitor func(s S)) {
	seen := map[S]struct{}{start: {}}
	queue := []S{start}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		visitor(s)
		for _, a := range m.reachable[s] {
			for _, o := range m.Outcomes(s, a) {
				if _, ok := seen[o.State]; !ok {
					seen[o.State] = struct{}{}
					queue = append(queue, o.State)
				}
			}
		}
	}
}

// CountReachableStates returns the number of states reachable from start.
func (m *TransitionModel[S, A]) CountReachableStates(start S) int {
	total := 0
	m.Visit(start, func(S) { total++ })
	return total
}
