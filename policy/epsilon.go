package policy

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/timpalpant/go-rl"
)

// EpsilonSoft follows Explore with probability Epsilon and Exploit otherwise.
type EpsilonSoft[S, A comparable] struct {
	epsilon float64
	explore Distribution[S, A]
	exploit Distribution[S, A]
}

func NewEpsilonSoft[S, A comparable](epsilon float64, explore, exploit Distribution[S, A]) (*EpsilonSoft[S, A], error) {
	if !(epsilon >= 0 && epsilon <= 1) {
		return nil, errors.Wrapf(rl.ErrInvalidConfig, "epsilon %v not in [0, 1]", epsilon)
	}

	return &EpsilonSoft[S, A]{
		epsilon: epsilon,
		explore: explore,
		exploit: exploit,
	}, nil
}

// NewEpsilonGreedy explores uniformly at random and otherwise acts
// greedily with respect to values.
func NewEpsilonGreedy[S, A comparable](epsilon float64, values ActionValues[S, A]) (*EpsilonSoft[S, A], error) {
	return NewEpsilonSoft[S, A](epsilon, Random[S, A]{}, NewGreedy(values))
}

func (e *EpsilonSoft[S, A]) Epsilon() float64 { return e.epsilon }

// SetEpsilon changes the exploration probability, e.g. for annealing.
func (e *EpsilonSoft[S, A]) SetEpsilon(epsilon float64) error {
	if !(epsilon >= 0 && epsilon <= 1) {
		return errors.Wrapf(rl.ErrInvalidConfig, "epsilon %v not in [0, 1]", epsilon)
	}

	e.epsilon = epsilon
	return nil
}

func (e *EpsilonSoft[S, A]) Action(rng *rand.Rand, env rl.Environment[S, A], s S) (A, error) {
	coin := distuv.Bernoulli{P: e.epsilon, Src: rng}
	if coin.Rand() == 1 {
		return e.explore.Action(rng, env, s)
	}

	return e.exploit.Action(rng, env, s)
}

// Probability returns (1-ε)·P_exploit(a|s) + ε·P_explore(a|s).
func (e *EpsilonSoft[S, A]) Probability(env rl.Environment[S, A], s S, a A) (float64, error) {
	pExplore, err := e.explore.Probability(env, s, a)
	if err != nil {
		return 0, err
	}

	pExploit, err := e.exploit.Probability(env, s, a)
	if err != nil {
		return 0, err
	}

	return (1-e.epsilon)*pExploit + e.epsilon*pExplore, nil
}

func (e *EpsilonSoft[S, A]) LogProbability(env rl.Environment[S, A], s S, a A) (float64, error) {
	p, err := e.Probability(env, s, a)
	return math.Log(p), err
}

func (e *EpsilonSoft[S, A]) ArgmaxAction(env rl.Environment[S, A], s S) (A, error) {
	return e.exploit.ArgmaxAction(env, s)
}

func (e *EpsilonSoft[S, A]) Kernel(env rl.Environment[S, A], s S, a A) (float64, error) {
	return 0, errors.Wrap(rl.ErrUnsupportedOperation, "kernel of epsilon-soft policy")
}

func (e *EpsilonSoft[S, A]) Normalisation(env rl.Environment[S, A], s S) (float64, error) {
	return 0, errors.Wrap(rl.ErrUnsupportedOperation, "normalisation of epsilon-soft policy")
}
