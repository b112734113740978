package policy

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/timpalpant/go-rl"
)

// Greedy always chooses the action with the greatest estimated value.
type Greedy[S, A comparable] struct {
	values ActionValues[S, A]
}

func NewGreedy[S, A comparable](values ActionValues[S, A]) *Greedy[S, A] {
	return &Greedy[S, A]{values: values}
}

func (g *Greedy[S, A]) Values() ActionValues[S, A] { return g.values }

func (g *Greedy[S, A]) Update(env rl.Environment[S, A], t rl.Transition[S, A]) error {
	return updateValues(g.values, env, t)
}

func (g *Greedy[S, A]) Action(rng *rand.Rand, env rl.Environment[S, A], s S) (A, error) {
	return g.values.ArgmaxAction(env, s)
}

func (g *Greedy[S, A]) ArgmaxAction(env rl.Environment[S, A], s S) (A, error) {
	return g.values.ArgmaxAction(env, s)
}

// Probability is 1 for the argmax action and 0 for every other action.
func (g *Greedy[S, A]) Probability(env rl.Environment[S, A], s S, a A) (float64, error) {
	return g.Kernel(env, s, a)
}

func (g *Greedy[S, A]) LogProbability(env rl.Environment[S, A], s S, a A) (float64, error) {
	p, err := g.Kernel(env, s, a)
	return math.Log(p), err
}

func (g *Greedy[S, A]) Kernel(env rl.Environment[S, A], s S, a A) (float64, error) {
	best, err := g.values.ArgmaxAction(env, s)
	if err != nil {
		return 0, err
	}

	if a == best {
		return 1.0, nil
	}

	return 0.0, nil
}

func (g *Greedy[S, A]) Normalisation(env rl.Environment[S, A], s S) (float64, error) {
	if _, err := reachable(env, s); err != nil {
		return 0, err
	}

	return 1.0, nil
}
