package montecarlo

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"github.com/timpalpant/go-rl"
	"github.com/timpalpant/go-rl/policy"
)

// Control learns values from complete episodes generated by a
// behavior policy.
type Control[S, A comparable] struct {
	Generator Generator[S, A]
	Visits    Visits[S, A]
	Updater   Updater[S, A]
}

// NewOnPolicy returns every-visit Monte Carlo control with
// incremental averaging.
func NewOnPolicy[S, A comparable](maxLength int) *Control[S, A] {
	return &Control[S, A]{
		Generator: Rollout[S, A]{MaxLength: maxLength},
		Visits:    EveryVisit[S, A]{},
		Updater:   NewIncrementalAverage[S, A](),
	}
}

// NewOffPolicy returns every-visit Monte Carlo control with weighted
// importance sampling.
func NewOffPolicy[S, A comparable](maxLength int) *Control[S, A] {
	return &Control[S, A]{
		Generator: Rollout[S, A]{MaxLength: maxLength},
		Visits:    EveryVisit[S, A]{},
		Updater:   NewWeightedImportanceSampling[S, A](),
	}
}

// Episode generates one episode by following behavior and updates values
// with the returns observed from every accepted step.
//
// If target is nil the update is on-policy and every weight is 1.
// Otherwise behavior must be a policy.Distribution, and the return from
// step t is weighted by Π π(a_i|s_i)/b(a_i|s_i) over the later steps
// i > t of the episode. The ratios are evaluated before any values
// are updated.
func (c *Control[S, A]) Episode(rng *rand.Rand, env rl.Environment[S, A], values *rl.ValueFunction[S, A], behavior policy.Policy[S, A], target policy.Distribution[S, A]) (rl.EpisodeStats, error) {
	var stats rl.EpisodeStats
	episode, err := c.Generator.Generate(rng, env, behavior)
	if err != nil {
		return stats, err
	}

	ratios, err := importanceRatios(env, episode, behavior, target)
	if err != nil {
		return stats, err
	}

	keys := make([]rl.Key[S, A], len(episode))
	for i, t := range episode {
		keys[i] = values.Key(t.State, t.Action)
	}

	accept := c.Visits.Accept(keys)
	discount := values.Discount()
	g, w := 0.0, 1.0
	for i := len(episode) - 1; i >= 0; i-- {
		r := env.Reward(episode[i])
		stats.Reward += r
		g = r + discount*g
		if accept[i] {
			c.Updater.Update(values, keys[i], g, w)
		}

		w *= ratios[i]
	}

	stats.Steps = len(episode)
	stats.Truncated = len(episode) > 0 && !episode[len(episode)-1].Done
	glog.V(2).Infof("Monte Carlo episode: %d steps, reward %v, return %v", stats.Steps, stats.Reward, g)
	return stats, nil
}

func importanceRatios[S, A comparable](env rl.Environment[S, A], episode Episode[S, A], behavior policy.Policy[S, A], target policy.Distribution[S, A]) ([]float64, error) {
	ratios := make([]float64, len(episode))
	if target == nil {
		for i := range ratios {
			ratios[i] = 1.0
		}

		return ratios, nil
	}

	b, ok := behavior.(policy.Distribution[S, A])
	if !ok {
		return nil, errors.Wrap(rl.ErrInvalidConfig,
			"off-policy control requires a behavior policy with known probabilities")
	}

	for i, t := range episode {
		pb, err := b.Probability(env, t.State, t.Action)
		if err != nil {
			return nil, err
		}

		if pb == 0 {
			return nil, errors.Wrapf(rl.ErrNumeric,
				"behavior probability of taken action %v in %v is 0", t.Action, t.State)
		}

		pt, err := target.Probability(env, t.State, t.Action)
		if err != nil {
			return nil, err
		}

		ratios[i] = pt / pb
	}

	return ratios, nil
}
