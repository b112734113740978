package bandit

import (
	"math"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/timpalpant/go-rl"
)

// Estimates holds the current value estimate of each arm and the number
// of times it has been selected.
type Estimates struct {
	Values []float64
	Counts []int
}

// NewEstimates creates Estimates for k untried arms with the given
// initial value.
func NewEstimates(k int, initialValue float64) (*Estimates, error) {
	if k <= 0 {
		return nil, errors.Wrapf(rl.ErrInvalidConfig, "%d arms", k)
	}

	values := make([]float64, k)
	for i := range values {
		values[i] = initialValue
	}

	return &Estimates{Values: values, Counts: make([]int, k)}, nil
}

// Validate checks that there is one count per estimate.
func (e *Estimates) Validate() error {
	if len(e.Values) == 0 {
		return errors.Wrap(rl.ErrInvalidConfig, "no arms")
	}
	if len(e.Values) != len(e.Counts) {
		return errors.Wrapf(rl.ErrInvalidConfig,
			"%d estimates but %d counts", len(e.Values), len(e.Counts))
	}

	return nil
}

// Total returns the total number of selections.
func (e *Estimates) Total() int {
	total := 0
	for _, n := range e.Counts {
		total += n
	}

	return total
}

// Choice decides whether a strategy explores or exploits on each step.
type Choice interface {
	Explore(rng *rand.Rand) bool
}

// Always is a Choice that always explores (true) or always exploits (false).
type Always bool

func (c Always) Explore(*rand.Rand) bool { return bool(c) }

// BinaryChoice explores with a fixed probability.
type BinaryChoice float64

// NewBinaryChoice returns a Choice that explores with probability p.
func NewBinaryChoice(p float64) (BinaryChoice, error) {
	if !(p >= 0 && p <= 1) {
		return 0, errors.Wrapf(rl.ErrInvalidConfig, "probability %v not in [0, 1]", p)
	}

	return BinaryChoice(p), nil
}

func (c BinaryChoice) Explore(rng *rand.Rand) bool {
	return distuv.Bernoulli{P: float64(c), Src: rng}.Rand() == 1
}

// Explorer chooses an arm when a strategy explores.
type Explorer interface {
	Explore(rng *rand.Rand, e *Estimates) int
}

// UniformExplorer chooses an arm uniformly at random.
type UniformExplorer struct{}

func (UniformExplorer) Explore(rng *rand.Rand, e *Estimates) int {
	return rng.Intn(len(e.Values))
}

// Exploiter chooses an arm when a strategy exploits.
type Exploiter interface {
	Exploit(e *Estimates) int
}

// Argmax chooses the arm with the greatest estimate, the first on ties.
type Argmax struct{}

func (Argmax) Exploit(e *Estimates) int {
	return floats.MaxIdx(e.Values)
}

// UpperConfidenceBound chooses the arm maximizing
//
//	Q(a) + C * sqrt(ln t / N(a))
//
// where t is the total number of selections. Arms that have never been
// selected are chosen first, in order.
type UpperConfidenceBound struct {
	C float64
}

func (ucb UpperConfidenceBound) Exploit(e *Estimates) int {
	for i, n := range e.Counts {
		if n == 0 {
			return i
		}
	}

	logT := math.Log(float64(e.Total()))
	best, bestBound := 0, math.Inf(-1)
	for i, q := range e.Values {
		bound := q + ucb.C*math.Sqrt(logT/float64(e.Counts[i]))
		if bound > bestBound {
			best, bestBound = i, bound
		}
	}

	return best
}

// Strategy is an index-based bandit strategy: on each step it either
// explores or exploits its Estimates, and then folds the observed reward
// into the estimate of the chosen arm.
type Strategy struct {
	Estimates *Estimates
	Choice    Choice
	Explorer  Explorer
	Exploiter Exploiter
	// StepSize is applied to rl.Value{Value: Q(a), Step: N(a)} before
	// N(a) is incremented, so rl.SampleAverage gives the exact mean.
	StepSize rl.StepSizer
}

// NewStrategy validates and assembles a Strategy.
func NewStrategy(e *Estimates, choice Choice, explore Explorer, exploit Exploiter, stepSize rl.StepSizer) (*Strategy, error) {
	if e == nil {
		return nil, errors.Wrap(rl.ErrInvalidConfig, "nil estimates")
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if choice == nil || explore == nil || exploit == nil {
		return nil, errors.Wrap(rl.ErrInvalidConfig, "incomplete strategy")
	}
	if stepSize == nil {
		return nil, errors.Wrap(rl.ErrInvalidConfig, "missing step size")
	}

	return &Strategy{
		Estimates: e,
		Choice:    choice,
		Explorer:  explore,
		Exploiter: exploit,
		StepSize:  stepSize,
	}, nil
}

// NewEpsilonGreedy returns the sample-average ε-greedy strategy for k arms.
func NewEpsilonGreedy(k int, epsilon float64) (*Strategy, error) {
	e, err := NewEstimates(k, 0)
	if err != nil {
		return nil, err
	}

	choice, err := NewBinaryChoice(epsilon)
	if err != nil {
		return nil, err
	}

	return NewStrategy(e, choice, UniformExplorer{}, Argmax{}, rl.SampleAverage{})
}

// NewUCB returns the sample-average upper-confidence-bound strategy for k arms.
func NewUCB(k int, c float64) (*Strategy, error) {
	if !(c >= 0) {
		return nil, errors.Wrapf(rl.ErrInvalidConfig, "confidence %v", c)
	}

	e, err := NewEstimates(k, 0)
	if err != nil {
		return nil, err
	}

	return NewStrategy(e, Always(false), UniformExplorer{}, UpperConfidenceBound{C: c}, rl.SampleAverage{})
}

// Select chooses the arm to pull next.
func (s *Strategy) Select(rng *rand.Rand) int {
	if s.Choice.Explore(rng) {
		return s.Explorer.Explore(rng, s.Estimates)
	}

	return s.Exploiter.Exploit(s.Estimates)
}

// Update folds reward into the estimate for arm.
func (s *Strategy) Update(arm int, reward float64) {
	q := s.Estimates.Values[arm]
	alpha := s.StepSize.StepSize(rl.Value{Value: q, Step: s.Estimates.Counts[arm]})
	s.Estimates.Values[arm] = q + alpha*(reward-q)
	s.Estimates.Counts[arm]++
}

// Result records the reward and whether the optimal arm was chosen at
// every step of a run.
type Result struct {
	Rewards []float64
	Optimal []bool
}

// Run plays tb for the given number of steps.
func (s *Strategy) Run(rng *rand.Rand, tb *Testbed, steps int) (Result, error) {
	if steps <= 0 {
		return Result{}, errors.Wrapf(rl.ErrInvalidConfig, "%d steps", steps)
	}
	if len(s.Estimates.Values) != tb.K() {
		return Result{}, errors.Wrapf(rl.ErrInvalidConfig,
			"strategy has %d arms, testbed has %d", len(s.Estimates.Values), tb.K())
	}

	result := Result{
		Rewards: make([]float64, steps),
		Optimal: make([]bool, steps),
	}

	optimal := tb.OptimalArm()
	for i := 0; i < steps; i++ {
		arm := s.Select(rng)
		r := tb.Pull(rng, arm)
		s.Update(arm, r)
		result.Rewards[i] = r
		result.Optimal[i] = arm == optimal
	}

	glog.V(1).Infof("Bandit run: %d steps, mean reward %.4f", steps, floats.Sum(result.Rewards)/float64(steps))
	return result, nil
}

// Average returns the mean reward and the fraction of optimal choices
// at each step, across runs of equal length.
func Average(results []Result) (reward, optimal []float64) {
	if len(results) == 0 {
		return nil, nil
	}

	n := len(results[0].Rewards)
	reward = make([]float64, n)
	optimal = make([]float64, n)
	for _, r := range results {
		floats.Add(reward, r.Rewards)
		for i, ok := range r.Optimal {
			if ok {
				optimal[i]++
			}
		}
	}

	floats.Scale(1/float64(len(results)), reward)
	floats.Scale(1/float64(len(results)), optimal)
	return reward, optimal
}
