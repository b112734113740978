package dp

import (
	"github.com/pkg/errors"

	"github.com/timpalpant/go-rl"
)

// Params control the convergence of the dynamic programming loops.
type Params struct {
	// Sweeps stop once the largest change in any state value is at most Epsilon.
	Epsilon float64
	// Maximum number of sweeps per evaluation.
	MaxSweeps int
	// Maximum number of evaluation + improvement rounds in PolicyIteration.
	MaxIterations int
}

func DefaultParams() Params {
	return Params{
		Epsilon:       1e-9,
		MaxSweeps:     10000,
		MaxIterations: 1000,
	}
}

func (p Params) Validate() error {
	if !(p.Epsilon > 0) {
		return errors.Wrapf(rl.ErrInvalidConfig, "epsilon %v must be > 0", p.Epsilon)
	}

	if p.MaxSweeps <= 0 || p.MaxIterations <= 0 {
		return errors.Wrapf(rl.ErrInvalidConfig,
			"sweep caps must be positive: %d, %d", p.MaxSweeps, p.MaxIterations)
	}

	return nil
}

func checkStateValues[S, A comparable](v *rl.ValueFunction[S, A]) error {
	if v.KeyMaker() != rl.StateKeys {
		return errors.Wrapf(rl.ErrInvalidConfig,
			"dynamic programming requires state keys, got %v", v.KeyMaker())
	}

	return nil
}
