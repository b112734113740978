package main

import (
	"context"
	"fmt"

	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	"github.com/timpalpant/go-rl"
	"github.com/timpalpant/go-rl/bandit"
)

type banditOptions struct {
	arms     int
	steps    int
	epsilons []float64
	ucb      []float64
	gradient []float64
}

func banditCommand() *cobra.Command {
	o := banditOptions{
		arms:     10,
		steps:    1000,
		epsilons: []float64{0, 0.01, 0.1},
		ucb:      []float64{2},
		gradient: []float64{0.1},
	}

	cmd := &cobra.Command{
		Use:   "bandit",
		Short: "Compare strategies on the k-armed Gaussian testbed",
		Long: `Compare strategies on the k-armed Gaussian testbed.

Every trial draws a new testbed and plays each strategy on it for
--steps pulls. --trials controls the number of testbeds.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBandit(cmd.Context(), o)
		},
	}

	cmd.Flags().IntVar(&o.arms, "arms", o.arms, "Number of arms")
	cmd.Flags().IntVar(&o.steps, "steps", o.steps, "Number of pulls per trial")
	cmd.Flags().Float64SliceVar(&o.epsilons, "epsilon-greedy", o.epsilons, "Exploration probabilities of the epsilon-greedy strategies")
	cmd.Flags().Float64SliceVar(&o.ucb, "ucb", o.ucb, "Confidence levels of the UCB strategies")
	cmd.Flags().Float64SliceVar(&o.gradient, "gradient", o.gradient, "Step sizes of the gradient bandit strategies")
	return cmd
}

type banditStrategy struct {
	name string
	new  func() (bandit.Player, error)
}

func (o banditOptions) strategies() []banditStrategy {
	var result []banditStrategy
	for _, eps := range o.epsilons {
		eps := eps
		result = append(result, banditStrategy{
			name: fmt.Sprintf("epsilon-greedy(%g)", eps),
			new:  func() (bandit.Player, error) { return bandit.NewEpsilonGreedy(o.arms, eps) },
		})
	}

	for _, c := range o.ucb {
		c := c
		result = append(result, banditStrategy{
			name: fmt.Sprintf("ucb(%g)", c),
			new:  func() (bandit.Player, error) { return bandit.NewUCB(o.arms, c) },
		})
	}

	for _, alpha := range o.gradient {
		alpha := alpha
		result = append(result, banditStrategy{
			name: fmt.Sprintf("gradient(%g)", alpha),
			new:  func() (bandit.Player, error) { return bandit.NewGradient(alpha, true) },
		})
	}

	return result
}

func runBandit(ctx context.Context, o banditOptions) error {
	if o.steps <= 0 {
		return errors.Wrapf(rl.ErrInvalidConfig, "--steps=%d", o.steps)
	}

	strategies := o.strategies()
	if len(strategies) == 0 {
		return errors.Wrap(rl.ErrInvalidConfig, "no strategies")
	}

	results := make([][]bandit.Result, len(strategies))
	for i := range results {
		results[i] = make([]bandit.Result, flags.Trials)
	}

	progress := newProgress(ctx, flags.Trials)
	err := runTrials(ctx, func(ctx context.Context, trial int, rng *rand.Rand) error {
		tb, err := bandit.NewTestbed(rng, o.arms)
		if err != nil {
			return err
		}

		for i, s := range strategies {
			if err := ctx.Err(); err != nil {
				return err
			}

			player, err := s.new()
			if err != nil {
				return err
			}

			result, err := player.Run(rng, tb, o.steps)
			if err != nil {
				return errors.Wrapf(err, "%s, trial %d", s.name, trial)
			}

			results[i][trial] = result
			progress.Set(trial, "trial %d: %s done", trial, s.name)
		}

		return nil
	})
	progress.Stop()
	if err != nil {
		return err
	}

	au := aurora.NewAurora(flags.Color)
	rewardCurves := make([]Curve, len(strategies))
	optimalCurves := make([]Curve, len(strategies))
	for i, s := range strategies {
		reward, optimal := bandit.Average(results[i])
		rewardCurves[i] = Curve{s.name, reward}
		optimalCurves[i] = Curve{s.name, optimal}

		meanReward := stat.Mean(reward, nil)
		metricBanditReward.WithLabelValues(s.name).Set(meanReward)
		fmt.Printf("%-22s mean reward %v, optimal action %v\n", s.name,
			au.Green(fmt.Sprintf("%.4f", meanReward)),
			au.Cyan(fmt.Sprintf("%5.1f%%", 100*optimal[len(optimal)-1])))
	}

	if flags.PlotPath != "" {
		title := fmt.Sprintf("%d-armed testbed (%d trials)", o.arms, flags.Trials)
		return writePlot(flags.PlotPath,
			newLineChart(title, "step", "average reward", rewardCurves),
			newLineChart(title, "step", "fraction optimal", optimalCurves))
	}

	return nil
}
