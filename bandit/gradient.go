package bandit

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"github.com/timpalpant/go-rl"
	"github.com/timpalpant/go-rl/policy"
)

// Player is a bandit strategy that can play a Testbed.
type Player interface {
	Run(rng *rand.Rand, tb *Testbed, steps int) (Result, error)
}

// Gradient is the gradient bandit algorithm: arms are chosen from a
// softmax over learned preferences, which move toward arms whose reward
// beats the average reward so far.
type Gradient struct {
	preferences *rl.ValueFunction[Pull, int]
	pi          *policy.Softmax[Pull, int]
	alpha       float64
	baseline    bool
}

// NewGradient creates a gradient bandit with the given step size.
// Without a baseline, rewards are compared to 0.
func NewGradient(alpha float64, baseline bool) (*Gradient, error) {
	if !(alpha > 0) {
		return nil, errors.Wrapf(rl.ErrInvalidConfig, "step size %v", alpha)
	}

	preferences, err := rl.NewTable[Pull, int](rl.Params{
		KeyMaker: rl.ActionKeys,
		Discount: 1,
		StepSize: rl.SampleAverage{},
	})
	if err != nil {
		return nil, err
	}

	pi, err := policy.NewSoftmax(preferences)
	if err != nil {
		return nil, err
	}

	return &Gradient{
		preferences: preferences,
		pi:          pi,
		alpha:       alpha,
		baseline:    baseline,
	}, nil
}

// Preference returns H(arm).
func (g *Gradient) Preference(arm int) float64 {
	return g.preferences.Peek(g.preferences.Key(Pull{}, arm))
}

// Probability returns the current probability of choosing arm on tb.
func (g *Gradient) Probability(tb *Testbed, arm int) (float64, error) {
	return g.pi.Probability(tb, Pull{}, arm)
}

// Run implements Player.
func (g *Gradient) Run(rng *rand.Rand, tb *Testbed, steps int) (Result, error) {
	if steps <= 0 {
		return Result{}, errors.Wrapf(rl.ErrInvalidConfig, "%d steps", steps)
	}

	result := Result{
		Rewards: make([]float64, steps),
		Optimal: make([]bool, steps),
	}

	optimal := tb.OptimalArm()
	mean := 0.0
	for i := 0; i < steps; i++ {
		arm, err := g.pi.Action(rng, tb, Pull{})
		if err != nil {
			return result, err
		}

		r := tb.Pull(rng, arm)
		baseline := 0.0
		if g.baseline {
			if i == 0 {
				mean = r
			}
			baseline = mean
			mean += (r - mean) / float64(i+1)
		}

		if err := g.pi.GradientUpdate(tb, Pull{}, arm, r, baseline, g.alpha); err != nil {
			return result, err
		}

		result.Rewards[i] = r
		result.Optimal[i] = arm == optimal
	}

	return result, nil
}
