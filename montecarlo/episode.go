// Package montecarlo implements Monte Carlo prediction and control
// from complete episodes.
package montecarlo

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"github.com/timpalpant/go-rl"
	"github.com/timpalpant/go-rl/policy"
)

// Episode is an ordered sequence of transitions.
type Episode[S, A comparable] []rl.Transition[S, A]

// Generator produces episodes by following a policy.
type Generator[S, A comparable] interface {
	Generate(rng *rand.Rand, env rl.Environment[S, A], pi policy.Policy[S, A]) (Episode[S, A], error)
}

// Rollout generates episodes from env's start state.
type Rollout[S, A comparable] struct {
	// Episodes are truncated after MaxLength transitions.
	MaxLength int
}

func (r Rollout[S, A]) Generate(rng *rand.Rand, env rl.Environment[S, A], pi policy.Policy[S, A]) (Episode[S, A], error) {
	if r.MaxLength <= 0 {
		return nil, errors.Wrapf(rl.ErrInvalidConfig, "max episode length %d", r.MaxLength)
	}

	s := env.Reset()
	return continueEpisode(rng, env, pi, s, nil, r.MaxLength)
}

func continueEpisode[S, A comparable](rng *rand.Rand, env rl.Environment[S, A], pi policy.Policy[S, A], s S, episode Episode[S, A], maxLength int) (Episode[S, A], error) {
	for len(episode) < maxLength {
		a, err := pi.Action(rng, env, s)
		if err != nil {
			return episode, err
		}

		t := env.Step(rng, a)
		episode = append(episode, t)
		if t.Done {
			break
		}

		env.Update(t)
		s = t.NextState
	}

	return episode, nil
}

// ExploringStarts generates episodes whose first state and action are
// chosen uniformly at random, so that every state-action pair has a
// chance of being visited. The environment must be finite and
// implement rl.StateSetter.
type ExploringStarts[S, A comparable] struct {
	MaxLength int
}

type settableEnvironment[S, A comparable] interface {
	rl.FiniteEnvironment[S, A]
	rl.StateSetter[S]
}

func (es ExploringStarts[S, A]) Generate(rng *rand.Rand, env rl.Environment[S, A], pi policy.Policy[S, A]) (Episode[S, A], error) {
	if es.MaxLength <= 0 {
		return nil, errors.Wrapf(rl.ErrInvalidConfig, "max episode length %d", es.MaxLength)
	}

	settable, ok := env.(settableEnvironment[S, A])
	if !ok {
		return nil, errors.Wrap(rl.ErrUnsupportedOperation,
			"exploring starts require a finite environment with settable state")
	}

	var starts []S
	for _, s := range settable.States() {
		if len(env.ReachableActions(s)) > 0 {
			starts = append(starts, s)
		}
	}

	if len(starts) == 0 {
		return nil, errors.Wrap(rl.ErrNoActions, "no non-terminal states")
	}

	env.Reset()
	s := starts[rng.Intn(len(starts))]
	settable.SetState(s)
	actions := env.ReachableActions(s)
	a := actions[rng.Intn(len(actions))]

	t := env.Step(rng, a)
	episode := Episode[S, A]{t}
	if t.Done || es.MaxLength == 1 {
		return episode, nil
	}

	env.Update(t)
	return continueEpisode(rng, env, pi, t.NextState, episode, es.MaxLength)
}
