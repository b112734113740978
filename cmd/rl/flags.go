package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/timpalpant/go-rl"
)

// Flags are the options shared by every subcommand.
type Flags struct {
	Env         string
	Seed        uint64
	Trials      int
	Parallelism int
	Episodes    int
	MaxSteps    int
	Alpha       float64
	Epsilon     float64

	Store     string
	StorePath string

	MetricsAddr string
	PlotPath    string
	Progress    bool
	Color       bool
}

func DefaultFlags() *Flags {
	return &Flags{
		Env:         "gridworld",
		Seed:        1,
		Trials:      1,
		Parallelism: 4,
		Episodes:    500,
		MaxSteps:    1000,
		Alpha:       0.1,
		Epsilon:     0.1,
		Store:       "memory",
		Progress:    true,
		Color:       true,
	}
}

var flags = DefaultFlags()

func addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&flags.Env, "env", flags.Env, "Environment: coin, gridworld or maxbias")
	fs.Uint64Var(&flags.Seed, "seed", flags.Seed, "Random seed")
	fs.IntVar(&flags.Trials, "trials", flags.Trials, "Number of independent trials")
	fs.IntVar(&flags.Parallelism, "parallelism", flags.Parallelism, "Number of trials to run concurrently")
	fs.IntVar(&flags.Episodes, "episodes", flags.Episodes, "Number of episodes per trial")
	fs.IntVar(&flags.MaxSteps, "max-steps", flags.MaxSteps, "Maximum number of steps per episode")
	fs.Float64Var(&flags.Alpha, "alpha", flags.Alpha, "Constant step size, or 0 for sample averages")
	fs.Float64Var(&flags.Epsilon, "epsilon", flags.Epsilon, "Exploration probability of epsilon-greedy policies")
	fs.StringVar(&flags.Store, "store", flags.Store, "Value storage: memory, leveldb or rocksdb")
	fs.StringVar(&flags.StorePath, "store-path", flags.StorePath, "Directory for on-disk value storage")
	fs.StringVar(&flags.MetricsAddr, "metrics-addr", flags.MetricsAddr, "Address to serve Prometheus metrics on, e.g. :9090")
	fs.StringVar(&flags.PlotPath, "plot", flags.PlotPath, "Write an HTML learning curve to this path")
	fs.BoolVar(&flags.Progress, "progress", flags.Progress, "Show live progress")
	fs.BoolVar(&flags.Color, "color", flags.Color, "Colorize printed tables")
}

// Validate checks the flags for consistency.
func (f *Flags) Validate() error {
	if f.Trials <= 0 {
		return errors.Wrapf(rl.ErrInvalidConfig, "--trials=%d", f.Trials)
	}
	if f.Parallelism <= 0 {
		return errors.Wrapf(rl.ErrInvalidConfig, "--parallelism=%d", f.Parallelism)
	}
	if f.Episodes <= 0 {
		return errors.Wrapf(rl.ErrInvalidConfig, "--episodes=%d", f.Episodes)
	}
	if f.MaxSteps <= 0 {
		return errors.Wrapf(rl.ErrInvalidConfig, "--max-steps=%d", f.MaxSteps)
	}
	if !(f.Epsilon >= 0 && f.Epsilon <= 1) {
		return errors.Wrapf(rl.ErrInvalidConfig, "--epsilon=%v", f.Epsilon)
	}

	switch f.Store {
	case "memory":
	case "leveldb", "rocksdb":
		if f.StorePath == "" {
			return errors.Wrapf(rl.ErrInvalidConfig, "--store=%s requires --store-path", f.Store)
		}
	default:
		return errors.Wrapf(rl.ErrInvalidConfig, "unknown store %q", f.Store)
	}

	_, err := f.StepSize()
	return err
}

// StepSize returns the step size selected by --alpha.
func (f *Flags) StepSize() (rl.StepSizer, error) {
	if f.Alpha == 0 {
		return rl.SampleAverage{}, nil
	}

	return rl.NewConstantStepSize(f.Alpha)
}
