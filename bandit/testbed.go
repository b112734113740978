// Package bandit implements the k-armed Gaussian testbed and
// index-based strategies for playing it.
package bandit

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/timpalpant/go-rl"
)

// Pull is the state of a Testbed after an arm has been pulled.
// It carries the reward that was observed, so that Reward remains a
// function of the transition alone.
type Pull struct {
	Reward float64
}

// Testbed is a stationary k-armed bandit whose arms pay out normally
// distributed rewards.
//
// A Testbed is also an rl.Environment in which every episode is a single
// pull, for use with action-keyed tables.
type Testbed struct {
	means []float64
	sigma float64
	arms  []int
	state Pull
}

// NewTestbed draws k arm means from N(0, 1). Rewards have unit variance.
func NewTestbed(rng *rand.Rand, k int) (*Testbed, error) {
	if k <= 0 {
		return nil, errors.Wrapf(rl.ErrInvalidConfig, "%d arms", k)
	}

	dist := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}
	means := make([]float64, k)
	for i := range means {
		means[i] = dist.Rand()
	}

	return NewTestbedWithMeans(means, 1)
}

// NewTestbedWithMeans creates a Testbed with the given arm means and
// reward standard deviation.
func NewTestbedWithMeans(means []float64, sigma float64) (*Testbed, error) {
	if len(means) == 0 {
		return nil, errors.Wrap(rl.ErrInvalidConfig, "no arms")
	}
	if !(sigma >= 0) {
		return nil, errors.Wrapf(rl.ErrInvalidConfig, "standard deviation %v", sigma)
	}

	arms := make([]int, len(means))
	for i := range arms {
		arms[i] = i
	}

	return &Testbed{
		means: append([]float64(nil), means...),
		sigma: sigma,
		arms:  arms,
	}, nil
}

func (tb *Testbed) K() int           { return len(tb.means) }
func (tb *Testbed) Means() []float64 { return tb.means }
func (tb *Testbed) OptimalArm() int  { return floats.MaxIdx(tb.means) }
func (tb *Testbed) Sigma() float64   { return tb.sigma }
func (tb *Testbed) Arms() []int      { return tb.arms }

// Pull samples a reward from the given arm.
func (tb *Testbed) Pull(rng *rand.Rand, arm int) float64 {
	if tb.sigma == 0 {
		return tb.means[arm]
	}

	return distuv.Normal{Mu: tb.means[arm], Sigma: tb.sigma, Src: rng}.Rand()
}

func (tb *Testbed) Reset() Pull {
	tb.state = Pull{}
	return tb.state
}

func (tb *Testbed) State() Pull {
	return tb.state
}

// Step pulls arm. Every transition is terminal.
func (tb *Testbed) Step(rng *rand.Rand, arm int) rl.Transition[Pull, int] {
	return rl.Transition[Pull, int]{
		State:     tb.state,
		Action:    arm,
		NextState: Pull{Reward: tb.Pull(rng, arm)},
		Done:      true,
	}
}

func (tb *Testbed) Update(t rl.Transition[Pull, int]) {
	tb.state = t.NextState
}

func (tb *Testbed) ReachableActions(Pull) []int {
	return tb.arms
}

func (tb *Testbed) Reward(t rl.Transition[Pull, int]) float64 {
	return t.NextState.Reward
}
