package policy

import (
	"math"

	"github.com/pkg/errors"

	"github.com/timpalpant/go-rl"
)

// Additive is the sum of several ActionValues sharing one KeyMaker,
// e.g. the two tables of Double Q-Learning.
type Additive[S, A comparable] struct {
	components []ActionValues[S, A]
	pool       mapPool[A, float64]
}

func NewAdditive[S, A comparable](components ...ActionValues[S, A]) (*Additive[S, A], error) {
	if len(components) == 0 {
		return nil, errors.Wrap(rl.ErrInvalidConfig, "additive values need at least one component")
	}

	km := components[0].KeyMaker()
	for _, c := range components[1:] {
		if c.KeyMaker() != km {
			return nil, errors.Wrapf(rl.ErrInvalidConfig,
				"mismatched key makers: %v != %v", c.KeyMaker(), km)
		}
	}

	return &Additive[S, A]{components: components}, nil
}

func (av *Additive[S, A]) Components() []ActionValues[S, A] { return av.components }
func (av *Additive[S, A]) KeyMaker() rl.KeyMaker            { return av.components[0].KeyMaker() }
func (av *Additive[S, A]) Key(s S, a A) rl.Key[S, A]        { return av.components[0].Key(s, a) }

func (av *Additive[S, A]) Peek(k rl.Key[S, A]) float64 {
	total := 0.0
	for _, c := range av.components {
		total += c.Peek(k)
	}

	return total
}

func (av *Additive[S, A]) ValueAt(k rl.Key[S, A]) float64 {
	total := 0.0
	for _, c := range av.components {
		total += c.ValueAt(k)
	}

	return total
}

// ArgmaxAction sums the components for every reachable action of s,
// then returns the greatest. Ties go to the earliest action.
func (av *Additive[S, A]) ArgmaxAction(env rl.Environment[S, A], s S) (A, error) {
	actions, err := reachable(env, s)
	if err != nil {
		var none A
		return none, err
	}

	combined := av.pool.get()
	defer av.pool.put(combined)
	for _, c := range av.components {
		for _, a := range actions {
			combined[a] += c.Peek(c.Key(s, a))
		}
	}

	best := actions[0]
	bestValue := math.Inf(-1)
	for _, a := range actions {
		if q := combined[a]; q > bestValue {
			best, bestValue = a, q
		}
	}

	return best, nil
}

func (av *Additive[S, A]) Initialize(env rl.Environment[S, A]) {
	for _, c := range av.components {
		c.Initialize(env)
	}
}
