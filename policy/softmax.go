package policy

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/timpalpant/go-rl"
)

// Preferences written by SetDeterministic. exp(-1000) underflows to
// exactly zero, so the chosen action gets probability exactly 1.
const (
	deterministicHigh = 500.0
	deterministicLow  = -500.0
)

// Softmax chooses a in s with probability exp(Q(s,a)) / Σ_b exp(Q(s,b)),
// where the sum runs over the reachable actions whose values exist.
// An action whose value has never been created has probability 0.
type Softmax[S, A comparable] struct {
	values *rl.ValueFunction[S, A]
	pool   slicePool[float64]
}

// NewSoftmax returns a Softmax policy over values, which must be keyed
// by action (StateActionKeys or ActionKeys).
func NewSoftmax[S, A comparable](values *rl.ValueFunction[S, A]) (*Softmax[S, A], error) {
	if values.KeyMaker() == rl.StateKeys {
		return nil, errors.Wrap(rl.ErrInvalidConfig, "softmax policy requires action keys")
	}

	return &Softmax[S, A]{values: values}, nil
}

func (p *Softmax[S, A]) Values() ActionValues[S, A] { return p.values }

func (p *Softmax[S, A]) Update(env rl.Environment[S, A], t rl.Transition[S, A]) error {
	p.values.IncrementalUpdate(env, t)
	return nil
}

// Initialize creates the value of every reachable action, so that the
// distribution is uniform wherever nothing has been learned yet.
func (p *Softmax[S, A]) Initialize(env rl.Environment[S, A]) {
	p.values.Initialize(env)
}

// logNormalisation returns log Σ exp(Q(s,b)) over the existing keys of s,
// or -Inf if there are none.
func (p *Softmax[S, A]) logNormalisation(env rl.Environment[S, A], s S) float64 {
	actions := env.ReachableActions(s)
	q := p.pool.get(0)
	defer func() { p.pool.put(q) }()
	for _, a := range actions {
		if v, ok := p.values.Lookup(p.values.Key(s, a)); ok {
			q = append(q, v.Value)
		}
	}

	if len(q) == 0 {
		return math.Inf(-1)
	}

	return floats.LogSumExp(q)
}

func (p *Softmax[S, A]) LogProbability(env rl.Environment[S, A], s S, a A) (float64, error) {
	v, ok := p.values.Lookup(p.values.Key(s, a))
	if !ok {
		return math.Inf(-1), nil
	}

	logZ := p.logNormalisation(env, s)
	logP := v.Value - logZ
	if math.IsNaN(logP) {
		return 0, errors.Wrapf(rl.ErrNumeric, "log π(%v|%v) = %v - %v", a, s, v.Value, logZ)
	}

	return logP, nil
}

func (p *Softmax[S, A]) Probability(env rl.Environment[S, A], s S, a A) (float64, error) {
	logP, err := p.LogProbability(env, s, a)
	return math.Exp(logP), err
}

func (p *Softmax[S, A]) ArgmaxAction(env rl.Environment[S, A], s S) (A, error) {
	return p.values.ArgmaxAction(env, s)
}

// Kernel returns exp(Q(s,a)), or 0 if Q(s,a) does not exist.
func (p *Softmax[S, A]) Kernel(env rl.Environment[S, A], s S, a A) (float64, error) {
	v, ok := p.values.Lookup(p.values.Key(s, a))
	if !ok {
		return 0, nil
	}

	k := math.Exp(v.Value)
	if math.IsInf(k, 0) || math.IsNaN(k) {
		return 0, errors.Wrapf(rl.ErrNumeric, "exp(Q(%v, %v)) = exp(%v)", s, a, v.Value)
	}

	return k, nil
}

func (p *Softmax[S, A]) Normalisation(env rl.Environment[S, A], s S) (float64, error) {
	total := 0.0
	for _, a := range env.ReachableActions(s) {
		k, err := p.Kernel(env, s, a)
		if err != nil {
			return 0, err
		}

		total += k
	}

	if math.IsInf(total, 0) {
		return 0, errors.Wrapf(rl.ErrNumeric, "normalisation of %v overflows", s)
	}

	return total, nil
}

// Action samples from the distribution, first creating the value of
// every reachable action of s.
func (p *Softmax[S, A]) Action(rng *rand.Rand, env rl.Environment[S, A], s S) (A, error) {
	actions, err := reachable(env, s)
	if err != nil {
		var none A
		return none, err
	}

	w := p.pool.get(len(actions))
	defer p.pool.put(w)
	for i, a := range actions {
		w[i] = p.values.ValueAt(p.values.Key(s, a))
	}

	logZ := floats.LogSumExp(w)
	for i := range w {
		w[i] = math.Exp(w[i] - logZ)
		if math.IsNaN(w[i]) {
			var none A
			return none, errors.Wrapf(rl.ErrNumeric, "softmax weights in %v", s)
		}
	}

	i := int(distuv.NewCategorical(w, rng).Rand())
	return actions[i], nil
}

// SetDeterministic makes a the only action with non-zero probability
// in s. The preferences remain finite, so later updates can soften
// the distribution again.
func (p *Softmax[S, A]) SetDeterministic(env rl.Environment[S, A], s S, a A) error {
	actions, err := reachable(env, s)
	if err != nil {
		return err
	}

	for _, b := range actions {
		k := p.values.Key(s, b)
		if b == a {
			p.values.Set(k, deterministicHigh)
		} else {
			p.values.Set(k, deterministicLow)
		}
	}

	return nil
}

// GradientUpdate applies the gradient-bandit preference update for
// having taken a in s and received reward, relative to baseline:
//
//	H(a) += α(R - baseline)(1 - π(a|s))
//	H(b) -= α(R - baseline)π(b|s)   for b != a
func (p *Softmax[S, A]) GradientUpdate(env rl.Environment[S, A], s S, a A, reward, baseline, alpha float64) error {
	actions, err := reachable(env, s)
	if err != nil {
		return err
	}

	pi := p.pool.get(len(actions))
	defer p.pool.put(pi)
	for i, b := range actions {
		pi[i] = p.values.ValueAt(p.values.Key(s, b))
	}

	logZ := floats.LogSumExp(pi)
	for i := range pi {
		pi[i] = math.Exp(pi[i] - logZ)
	}

	delta := alpha * (reward - baseline)
	for i, b := range actions {
		k := p.values.Key(s, b)
		h := p.values.ValueAt(k)
		if b == a {
			p.values.Set(k, h+delta*(1-pi[i]))
		} else {
			p.values.Set(k, h-delta*pi[i])
		}
	}

	return nil
}
