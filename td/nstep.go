package td

import (
	"math"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"github.com/timpalpant/go-rl"
	"github.com/timpalpant/go-rl/policy"
)

// Record is one step of an n-step window: the transition taken from
// S_i with A_i, the reward R_{i+1}, and the importance ratio of A_i.
type Record[S, A comparable] struct {
	Transition rl.Transition[S, A]
	Reward     float64
	Ratio      float64
}

// Pending is the state-action that follows the newest record of the
// window. It is only meaningful if the newest record is not terminal.
type Pending[S, A comparable] struct {
	State  S
	Action A
	Ratio  float64
}

// Store computes the per-step data kept with each record.
type Store[S, A comparable] interface {
	Ratio(env rl.Environment[S, A], behavior policy.Policy[S, A], target policy.Distribution[S, A], s S, a A) (float64, error)
}

// NoWeights stores a ratio of 1 for every step.
type NoWeights[S, A comparable] struct{}

func (NoWeights[S, A]) Ratio(env rl.Environment[S, A], behavior policy.Policy[S, A], target policy.Distribution[S, A], s S, a A) (float64, error) {
	return 1.0, nil
}

// ImportanceWeights stores π(a|s)/b(a|s) for the target and behavior
// policies. The behavior policy must be a policy.Distribution.
type ImportanceWeights[S, A comparable] struct{}

func (ImportanceWeights[S, A]) Ratio(env rl.Environment[S, A], behavior policy.Policy[S, A], target policy.Distribution[S, A], s S, a A) (float64, error) {
	b, ok := behavior.(policy.Distribution[S, A])
	if !ok || target == nil {
		return 0, errors.Wrap(rl.ErrInvalidConfig,
			"importance weights require target and behavior distributions")
	}

	pb, err := b.Probability(env, s, a)
	if err != nil {
		return 0, err
	}

	if pb == 0 {
		return 0, errors.Wrapf(rl.ErrNumeric, "behavior probability of %v in %v is 0", a, s)
	}

	pt, err := target.Probability(env, s, a)
	if err != nil {
		return 0, err
	}

	return pt / pb, nil
}

// Return computes the target and weight of the update for the oldest
// record in window.
type Return[S, A comparable] interface {
	Return(env rl.Environment[S, A], values *rl.ValueFunction[S, A], target policy.Distribution[S, A], window *Buffer[Record[S, A]], head Pending[S, A]) (g, w float64, err error)
}

func bootstraps[S, A comparable](window *Buffer[Record[S, A]]) bool {
	return !window.At(window.Len() - 1).Transition.Done
}

// discountedRewards returns Σ_k γ^k R_k over the window, and γ^len.
func discountedRewards[S, A comparable](window *Buffer[Record[S, A]], discount float64) (float64, float64) {
	g, d := 0.0, 1.0
	for i := 0; i < window.Len(); i++ {
		g += d * window.At(i).Reward
		d *= discount
	}

	return g, d
}

// SarsaReturn is the on-policy n-step return
// R_{τ+1} + ... + γ^{n-1}R_{τ+n} + γ^n·Q(S_{τ+n}, A_{τ+n}).
type SarsaReturn[S, A comparable] struct{}

func (SarsaReturn[S, A]) Return(env rl.Environment[S, A], values *rl.ValueFunction[S, A], target policy.Distribution[S, A], window *Buffer[Record[S, A]], head Pending[S, A]) (float64, float64, error) {
	g, d := discountedRewards(window, values.Discount())
	if bootstraps(window) {
		g += d * values.ValueAt(values.Key(head.State, head.Action))
	}

	return g, 1.0, nil
}

// OffPolicySarsaReturn is the n-step SARSA return weighted by the
// importance ratios of every action after A_τ, including the
// bootstrap action.
type OffPolicySarsaReturn[S, A comparable] struct{}

func (OffPolicySarsaReturn[S, A]) Return(env rl.Environment[S, A], values *rl.ValueFunction[S, A], target policy.Distribution[S, A], window *Buffer[Record[S, A]], head Pending[S, A]) (float64, float64, error) {
	g, d := discountedRewards(window, values.Discount())
	w := 1.0
	for i := 1; i < window.Len(); i++ {
		w *= window.At(i).Ratio
	}

	if bootstraps(window) {
		g += d * values.ValueAt(values.Key(head.State, head.Action))
		w *= head.Ratio
	}

	return g, w, nil
}

// TreeBackupReturn backs up the target policy's expectation over the
// actions not taken at every step of the window, so it needs no
// importance sampling.
type TreeBackupReturn[S, A comparable] struct{}

func (TreeBackupReturn[S, A]) Return(env rl.Environment[S, A], values *rl.ValueFunction[S, A], target policy.Distribution[S, A], window *Buffer[Record[S, A]], head Pending[S, A]) (float64, float64, error) {
	if target == nil {
		return 0, 0, errors.Wrap(rl.ErrInvalidConfig, "tree backup requires a target policy")
	}

	discount := values.Discount()
	last := window.Len() - 1
	g := window.At(last).Reward
	if bootstraps(window) {
		expected, err := expectedValue(env, values, target, head.State)
		if err != nil {
			return 0, 0, err
		}

		g += discount * expected
	}

	for k := last; k >= 1; k-- {
		t := window.At(k).Transition
		others := 0.0
		pTaken := 0.0
		for _, a := range env.ReachableActions(t.State) {
			p, err := target.Probability(env, t.State, a)
			if err != nil {
				return 0, 0, err
			}

			if a == t.Action {
				pTaken = p
			} else {
				others += p * values.ValueAt(values.Key(t.State, a))
			}
		}

		g = window.At(k-1).Reward + discount*(others+pTaken*g)
	}

	return g, 1.0, nil
}

// NStep is an n-step TD method. It keeps the last N steps in a window:
// while filling no update is made, then each new step updates the value
// of the step N-1 earlier, and after the episode ends the remaining
// steps are updated in turn.
type NStep[S, A comparable] struct {
	N      int
	Store  Store[S, A]
	Return Return[S, A]
}

func NewNStepSARSA[S, A comparable](n int) *NStep[S, A] {
	return &NStep[S, A]{N: n, Store: NoWeights[S, A]{}, Return: SarsaReturn[S, A]{}}
}

func NewOffPolicyNStepSARSA[S, A comparable](n int) *NStep[S, A] {
	return &NStep[S, A]{N: n, Store: ImportanceWeights[S, A]{}, Return: OffPolicySarsaReturn[S, A]{}}
}

func NewTreeBackup[S, A comparable](n int) *NStep[S, A] {
	return &NStep[S, A]{N: n, Store: NoWeights[S, A]{}, Return: TreeBackupReturn[S, A]{}}
}

func (u *NStep[S, A]) choose(rng *rand.Rand, env rl.Environment[S, A], behavior policy.Policy[S, A], target policy.Distribution[S, A], s S) (Pending[S, A], error) {
	a, err := behavior.Action(rng, env, s)
	if err != nil {
		return Pending[S, A]{}, err
	}

	ratio, err := u.Store.Ratio(env, behavior, target, s, a)
	return Pending[S, A]{State: s, Action: a, Ratio: ratio}, err
}

func (u *NStep[S, A]) Episode(rng *rand.Rand, env rl.Environment[S, A], values *rl.ValueFunction[S, A], behavior policy.Policy[S, A], target policy.Distribution[S, A], maxSteps int) (rl.EpisodeStats, error) {
	var stats rl.EpisodeStats
	if u.N < 1 || maxSteps <= 0 {
		return stats, errors.Wrapf(rl.ErrInvalidConfig, "n = %d, max steps = %d", u.N, maxSteps)
	}

	window := NewBuffer[Record[S, A]](u.N)
	head, err := u.choose(rng, env, behavior, target, env.Reset())
	if err != nil {
		return stats, err
	}

	end := math.MaxInt // T: the number of steps in the episode, once known.
	for t := 0; ; t++ {
		if t < end {
			tr := env.Step(rng, head.Action)
			r := env.Reward(tr)
			window.Push(Record[S, A]{Transition: tr, Reward: r, Ratio: head.Ratio})
			stats.Steps++
			stats.Reward += r
			if tr.Done || t+1 >= maxSteps {
				end = t + 1
				stats.Truncated = !tr.Done
			}

			if !tr.Done {
				env.Update(tr)
				if head, err = u.choose(rng, env, behavior, target, tr.NextState); err != nil {
					return stats, err
				}
			}
		}

		tau := t - u.N + 1
		if tau >= 0 {
			g, w, err := u.Return.Return(env, values, target, window, head)
			if err != nil {
				return stats, err
			}

			oldest := window.PopFront().Transition
			values.UpdateWeighted(values.Key(oldest.State, oldest.Action), g, w)
		}

		if tau == end-1 {
			break
		}
	}

	glog.V(2).Infof("%d-step episode: %d steps, reward %v", u.N, stats.Steps, stats.Reward)
	return stats, nil
}
