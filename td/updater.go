// Package td implements temporal-difference control: one-step SARSA,
// Q-Learning, Expected SARSA and TD(0), Double Q-Learning, and the
// n-step SARSA and tree backup families.
package td

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"github.com/timpalpant/go-rl"
	"github.com/timpalpant/go-rl/policy"
)

// Learner runs one episode of learning in env, acting according to
// behavior and updating values. Episodes are truncated after maxSteps
// transitions. target is used by off-policy methods and may be nil
// otherwise.
type Learner[S, A comparable] interface {
	Episode(rng *rand.Rand, env rl.Environment[S, A], values *rl.ValueFunction[S, A], behavior policy.Policy[S, A], target policy.Distribution[S, A], maxSteps int) (rl.EpisodeStats, error)
}

// Step decides which action is taken in each state of an episode.
type Step[S, A comparable] interface {
	// Action returns the action to take in s. carried is the action
	// chosen by Next at the previous step, if any.
	Action(rng *rand.Rand, env rl.Environment[S, A], behavior policy.Policy[S, A], s S, carried A, ok bool) (A, error)
	// Next optionally chooses the action for the state that follows a
	// non-terminal transition.
	Next(rng *rand.Rand, env rl.Environment[S, A], behavior policy.Policy[S, A], s S) (A, bool, error)
}

// SarsaStep chooses the next action as soon as the next state is known,
// and then takes it.
type SarsaStep[S, A comparable] struct{}

func (SarsaStep[S, A]) Action(rng *rand.Rand, env rl.Environment[S, A], behavior policy.Policy[S, A], s S, carried A, ok bool) (A, error) {
	if ok {
		return carried, nil
	}

	return behavior.Action(rng, env, s)
}

func (SarsaStep[S, A]) Next(rng *rand.Rand, env rl.Environment[S, A], behavior policy.Policy[S, A], s S) (A, bool, error) {
	a, err := behavior.Action(rng, env, s)
	return a, err == nil, err
}

// PolicyStep chooses each action from the behavior policy when it is taken.
type PolicyStep[S, A comparable] struct{}

func (PolicyStep[S, A]) Action(rng *rand.Rand, env rl.Environment[S, A], behavior policy.Policy[S, A], s S, carried A, ok bool) (A, error) {
	return behavior.Action(rng, env, s)
}

func (PolicyStep[S, A]) Next(rng *rand.Rand, env rl.Environment[S, A], behavior policy.Policy[S, A], s S) (A, bool, error) {
	var none A
	return none, false, nil
}

// Updater is a one-step TD method: after every transition it moves
// V(s) toward r + γ·V(s'), with V(s') = 0 after a terminal transition.
type Updater[S, A comparable] struct {
	Step   Step[S, A]
	Target Target[S, A]
}

func NewSARSA[S, A comparable]() *Updater[S, A] {
	return &Updater[S, A]{Step: SarsaStep[S, A]{}, Target: SarsaTarget[S, A]{}}
}

func NewQLearning[S, A comparable]() *Updater[S, A] {
	return &Updater[S, A]{Step: PolicyStep[S, A]{}, Target: QLearningTarget[S, A]{}}
}

func NewExpectedSARSA[S, A comparable]() *Updater[S, A] {
	return &Updater[S, A]{Step: PolicyStep[S, A]{}, Target: ExpectedSarsaTarget[S, A]{}}
}

// NewTD0 returns a TD(0) state-value updater. It must be used with a
// state-keyed ValueFunction.
func NewTD0[S, A comparable]() *Updater[S, A] {
	return &Updater[S, A]{Step: PolicyStep[S, A]{}, Target: SarsaTarget[S, A]{}}
}

func (u *Updater[S, A]) Episode(rng *rand.Rand, env rl.Environment[S, A], values *rl.ValueFunction[S, A], behavior policy.Policy[S, A], target policy.Distribution[S, A], maxSteps int) (rl.EpisodeStats, error) {
	var stats rl.EpisodeStats
	if maxSteps <= 0 {
		return stats, errors.Wrapf(rl.ErrInvalidConfig, "max steps %d", maxSteps)
	}

	s := env.Reset()
	var carried A
	var ok bool
	for stats.Steps < maxSteps {
		a, err := u.Step.Action(rng, env, behavior, s, carried, ok)
		if err != nil {
			return stats, err
		}

		t := env.Step(rng, a)
		r := env.Reward(t)
		stats.Steps++
		stats.Reward += r

		boot := 0.0
		ok = false
		if !t.Done {
			if carried, ok, err = u.Step.Next(rng, env, behavior, t.NextState); err != nil {
				return stats, err
			}

			if boot, err = u.Target.Bootstrap(env, values, target, t.NextState, carried, ok); err != nil {
				return stats, err
			}
		}

		values.Update(values.Key(t.State, t.Action), r+values.Discount()*boot)
		if t.Done {
			glog.V(2).Infof("TD episode: %d steps, reward %v", stats.Steps, stats.Reward)
			return stats, nil
		}

		env.Update(t)
		s = t.NextState
	}

	stats.Truncated = true
	return stats, nil
}
