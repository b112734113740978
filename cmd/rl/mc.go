package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	"github.com/timpalpant/go-rl"
	"github.com/timpalpant/go-rl/montecarlo"
	"github.com/timpalpant/go-rl/policy"
)

type mcOptions struct {
	visits          string
	updater         string
	offPolicy       bool
	exploringStarts bool
}

func mcCommand() *cobra.Command {
	var o mcOptions
	cmd := &cobra.Command{
		Use:   "mc",
		Short: "Run Monte Carlo control",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch flags.Env {
			case "coin":
				return runMC(cmd.Context(), coinProblem(), o)
			case "gridworld":
				return runMC(cmd.Context(), gridworldProblem(), o)
			case "maxbias":
				return runMC(cmd.Context(), maxbiasProblem(), o)
			}

			return unknownEnv()
		},
	}

	cmd.Flags().StringVar(&o.visits, "visits", "every", "Visit condition: first or every")
	cmd.Flags().StringVar(&o.updater, "updater", "", "Value updater: naive, incremental, ordinary or weighted (default incremental, or weighted off-policy)")
	cmd.Flags().BoolVar(&o.offPolicy, "off-policy", false, "Learn the greedy policy from a uniformly random behavior policy")
	cmd.Flags().BoolVar(&o.exploringStarts, "exploring-starts", false, "Start episodes from a random state and action")
	return cmd
}

func newControl[S, A comparable](o mcOptions) (*montecarlo.Control[S, A], error) {
	c := montecarlo.NewOnPolicy[S, A](flags.MaxSteps)
	if o.offPolicy {
		c = montecarlo.NewOffPolicy[S, A](flags.MaxSteps)
	}

	if o.exploringStarts {
		c.Generator = montecarlo.ExploringStarts[S, A]{MaxLength: flags.MaxSteps}
	}

	switch o.visits {
	case "first":
		c.Visits = montecarlo.FirstVisit[S, A]{}
	case "every":
		c.Visits = montecarlo.EveryVisit[S, A]{}
	default:
		return nil, errors.Wrapf(rl.ErrInvalidConfig, "unknown visit condition %q", o.visits)
	}

	switch o.updater {
	case "":
	case "naive":
		c.Updater = montecarlo.NewNaiveAverage[S, A]()
	case "incremental":
		c.Updater = montecarlo.NewIncrementalAverage[S, A]()
	case "ordinary":
		c.Updater = montecarlo.NewOrdinaryImportanceSampling[S, A]()
	case "weighted":
		c.Updater = montecarlo.NewWeightedImportanceSampling[S, A]()
	default:
		return nil, errors.Wrapf(rl.ErrInvalidConfig, "unknown updater %q", o.updater)
	}

	return c, nil
}

func runMC[S, A comparable](ctx context.Context, p problem[S, A], o mcOptions) error {
	name := "mc-on-policy"
	if o.offPolicy {
		name = "mc-off-policy"
	}

	rewards := make([][]float64, flags.Trials)
	var table bytes.Buffer

	progress := newProgress(ctx, flags.Trials)
	err := runTrials(ctx, func(ctx context.Context, trial int, rng *rand.Rand) error {
		vf, closer, err := newValueFunction[S, A](flags, p.name+"-"+name, trial, rl.StateActionKeys, p.discount)
		if err != nil {
			return err
		}
		defer closer()

		control, err := newControl[S, A](o)
		if err != nil {
			return err
		}

		var behavior policy.Policy[S, A]
		var target policy.Distribution[S, A]
		if o.offPolicy {
			behavior, target = policy.Random[S, A]{}, policy.NewGreedy[S, A](vf)
		} else if behavior, err = policy.NewEpsilonGreedy[S, A](flags.Epsilon, vf); err != nil {
			return err
		}

		env := p.newEnv()
		rewards[trial] = make([]float64, flags.Episodes)
		for ep := 0; ep < flags.Episodes; ep++ {
			if err := ctx.Err(); err != nil {
				return err
			}

			stats, err := control.Episode(rng, env, vf, behavior, target)
			if err != nil {
				return errors.Wrapf(err, "trial %d, episode %d", trial, ep)
			}

			recordEpisode(name, p.name, stats)
			rewards[trial][ep] = stats.Reward
			progress.Set(trial, "trial %d: episode %d/%d, reward %.3f", trial, ep+1, flags.Episodes, stats.Reward)
		}

		metricTableSize.WithLabelValues(name, p.name).Set(float64(vf.Len()))
		if trial == 0 {
			value, best := greedy[S, A](env, vf)
			p.print(&table, env, value, best)
		}

		return nil
	})
	progress.Stop()
	if err != nil {
		return err
	}

	mean := meanCurve(rewards)
	tail := mean[len(mean)*9/10:]
	fmt.Printf("%s on %s: mean behavior reward over the last %d episodes: %.4f\n",
		name, p.name, len(tail), stat.Mean(tail, nil))
	os.Stdout.Write(table.Bytes())

	if flags.PlotPath != "" {
		title := fmt.Sprintf("%s on %s (%d trials)", name, p.name, flags.Trials)
		return writePlot(flags.PlotPath, newLineChart(title, "episode", "reward", []Curve{{name, mean}}))
	}

	return nil
}
