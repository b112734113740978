package td

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/timpalpant/go-rl"
	"github.com/timpalpant/go-rl/policy"
)

// DoubleQLearning learns two independent tables. After each transition
// a fair coin picks one of them to update, toward
//
//	r + γ·Q_other(s', argmax_a Q_this(s', a))
//
// which removes the maximization bias of Q-Learning.
//
// The table passed to Episode is the first table; the second is owned
// by the DoubleQLearning. The behavior policy should act on their sum,
// see Combined.
type DoubleQLearning[S, A comparable] struct {
	second *rl.ValueFunction[S, A]
}

func NewDoubleQLearning[S, A comparable](second *rl.ValueFunction[S, A]) *DoubleQLearning[S, A] {
	return &DoubleQLearning[S, A]{second: second}
}

func (dq *DoubleQLearning[S, A]) Second() *rl.ValueFunction[S, A] { return dq.second }

// Combined returns first + second, for use by a behavior policy.
func (dq *DoubleQLearning[S, A]) Combined(first *rl.ValueFunction[S, A]) (*policy.Additive[S, A], error) {
	return policy.NewAdditive[S, A](first, dq.second)
}

func (dq *DoubleQLearning[S, A]) Episode(rng *rand.Rand, env rl.Environment[S, A], values *rl.ValueFunction[S, A], behavior policy.Policy[S, A], target policy.Distribution[S, A], maxSteps int) (rl.EpisodeStats, error) {
	var stats rl.EpisodeStats
	if maxSteps <= 0 {
		return stats, errors.Wrapf(rl.ErrInvalidConfig, "max steps %d", maxSteps)
	}

	if values.KeyMaker() != dq.second.KeyMaker() {
		return stats, errors.Wrap(rl.ErrInvalidConfig, "double Q-learning tables have different key makers")
	}

	coin := distuv.Bernoulli{P: 0.5, Src: rng}
	s := env.Reset()
	for stats.Steps < maxSteps {
		a, err := behavior.Action(rng, env, s)
		if err != nil {
			return stats, err
		}

		t := env.Step(rng, a)
		r := env.Reward(t)
		stats.Steps++
		stats.Reward += r

		this, other := values, dq.second
		if coin.Rand() == 1 {
			this, other = other, this
		}

		boot := 0.0
		if !t.Done {
			best, err := this.ArgmaxAction(env, t.NextState)
			if err != nil {
				return stats, err
			}

			boot = other.ValueAt(other.Key(t.NextState, best))
		}

		this.Update(this.Key(t.State, t.Action), r+this.Discount()*boot)
		if t.Done {
			glog.V(2).Infof("Double Q episode: %d steps, reward %v", stats.Steps, stats.Reward)
			return stats, nil
		}

		env.Update(t)
		s = t.NextState
	}

	stats.Truncated = true
	return stats, nil
}
