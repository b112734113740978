package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

	"github.com/timpalpant/go-rl"
	"github.com/timpalpant/go-rl/policy"
	"github.com/timpalpant/go-rl/td"
)

var tdAlgorithms = []string{
	"sarsa", "q-learning", "expected-sarsa", "double-q",
	"n-step-sarsa", "off-policy-n-step-sarsa", "tree-backup",
}

func tdCommand() *cobra.Command {
	var algorithm string
	var n int

	cmd := &cobra.Command{
		Use:   "td",
		Short: "Run temporal-difference control",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch flags.Env {
			case "coin":
				return runTD(cmd.Context(), coinProblem(), algorithm, n)
			case "gridworld":
				return runTD(cmd.Context(), gridworldProblem(), algorithm, n)
			case "maxbias":
				return runTD(cmd.Context(), maxbiasProblem(), algorithm, n)
			}

			return unknownEnv()
		},
	}

	cmd.Flags().StringVar(&algorithm, "algorithm", "q-learning", "One of "+strings.Join(tdAlgorithms, ", "))
	cmd.Flags().IntVar(&n, "n", 4, "Number of steps of the n-step methods")
	return cmd
}

type tdAgent[S, A comparable] struct {
	learner  td.Learner[S, A]
	behavior policy.Policy[S, A]
	target   policy.Distribution[S, A]
	// values are the action values the agent acts on.
	values policy.ActionValues[S, A]
	close  func() error
}

// tableOpener opens an additional table for the current trial.
type tableOpener[S, A comparable] func(suffix string) (*rl.ValueFunction[S, A], func() error, error)

func newTDAgent[S, A comparable](algorithm string, n int, vf *rl.ValueFunction[S, A], open tableOpener[S, A]) (*tdAgent[S, A], error) {
	egreedy, err := policy.NewEpsilonGreedy[S, A](flags.Epsilon, vf)
	if err != nil {
		return nil, err
	}
	greedy := policy.NewGreedy[S, A](vf)

	switch algorithm {
	case "sarsa":
		return &tdAgent[S, A]{td.NewSARSA[S, A](), egreedy, egreedy, vf, noClose}, nil
	case "q-learning":
		return &tdAgent[S, A]{td.NewQLearning[S, A](), egreedy, greedy, vf, noClose}, nil
	case "expected-sarsa":
		return &tdAgent[S, A]{td.NewExpectedSARSA[S, A](), egreedy, egreedy, vf, noClose}, nil
	case "double-q":
		second, closer, err := open("second")
		if err != nil {
			return nil, err
		}

		dq := td.NewDoubleQLearning(second)
		combined, err := dq.Combined(vf)
		if err != nil {
			closer()
			return nil, err
		}

		behavior, err := policy.NewEpsilonGreedy[S, A](flags.Epsilon, combined)
		if err != nil {
			closer()
			return nil, err
		}

		return &tdAgent[S, A]{dq, behavior, nil, combined, closer}, nil
	case "n-step-sarsa":
		return &tdAgent[S, A]{td.NewNStepSARSA[S, A](n), egreedy, egreedy, vf, noClose}, nil
	case "off-policy-n-step-sarsa":
		return &tdAgent[S, A]{td.NewOffPolicyNStepSARSA[S, A](n), policy.Random[S, A]{}, greedy, vf, noClose}, nil
	case "tree-backup":
		return &tdAgent[S, A]{td.NewTreeBackup[S, A](n), egreedy, greedy, vf, noClose}, nil
	}

	return nil, errors.Wrapf(rl.ErrInvalidConfig, "unknown algorithm %q", algorithm)
}

func runTD[S, A comparable](ctx context.Context, p problem[S, A], algorithm string, n int) error {
	rewards := make([][]float64, flags.Trials)
	var table bytes.Buffer

	progress := newProgress(ctx, flags.Trials)
	err := runTrials(ctx, func(ctx context.Context, trial int, rng *rand.Rand) error {
		name := p.name + "-" + algorithm
		vf, closer, err := newValueFunction[S, A](flags, name, trial, rl.StateActionKeys, p.discount)
		if err != nil {
			return err
		}
		defer closer()

		agent, err := newTDAgent(algorithm, n, vf, func(suffix string) (*rl.ValueFunction[S, A], func() error, error) {
			return newValueFunction[S, A](flags, name+"-"+suffix, trial, rl.StateActionKeys, p.discount)
		})
		if err != nil {
			return err
		}
		defer agent.close()

		env := p.newEnv()
		rewards[trial] = make([]float64, flags.Episodes)
		for ep := 0; ep < flags.Episodes; ep++ {
			if err := ctx.Err(); err != nil {
				return err
			}

			stats, err := agent.learner.Episode(rng, env, vf, agent.behavior, agent.target, flags.MaxSteps)
			if err != nil {
				return errors.Wrapf(err, "trial %d, episode %d", trial, ep)
			}

			recordEpisode(algorithm, p.name, stats)
			rewards[trial][ep] = stats.Reward
			progress.Set(trial, "trial %d: episode %d/%d, reward %.3f", trial, ep+1, flags.Episodes, stats.Reward)
		}

		metricTableSize.WithLabelValues(algorithm, p.name).Set(float64(vf.Len()))
		glog.V(1).Infof("Trial %d finished with %d keys", trial, vf.Len())
		if trial == 0 {
			value, best := greedy[S, A](env, agent.values)
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
	fmt.Printf("%s on %s: mean reward over the last %d episodes: %.4f\n",
		algorithm, p.name, len(tail), stat.Mean(tail, nil))
	os.Stdout.Write(table.Bytes())

	if flags.PlotPath != "" {
		title := fmt.Sprintf("%s on %s (%d trials)", algorithm, p.name, flags.Trials)
		return writePlot(flags.PlotPath, newLineChart(title, "episode", "reward", []Curve{{algorithm, mean}}))
	}

	return nil
}
