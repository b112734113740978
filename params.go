package rl

import (
	"github.com/pkg/errors"
)

// Params are the construction-time constants of a ValueFunction.
type Params struct {
	KeyMaker     KeyMaker
	InitialValue float64
	Discount     float64   // γ, in [0, 1]
	StepSize     StepSizer // Weight of incremental updates.
}

// DefaultParams returns Params for a state-action table with the
// given discount and sample-average step sizes.
func DefaultParams(discount float64) Params {
	return Params{
		KeyMaker: StateActionKeys,
		Discount: discount,
		StepSize: SampleAverage{},
	}
}

// Validate checks that the parameters can be used for learning.
func (p Params) Validate() error {
	if !p.KeyMaker.valid() {
		return errors.Wrapf(ErrInvalidConfig, "unknown key maker %v", p.KeyMaker)
	}

	if !(p.Discount >= 0 && p.Discount <= 1) {
		return errors.Wrapf(ErrInvalidConfig, "discount %v not in [0, 1]", p.Discount)
	}

	return validateStepSize(p.StepSize)
}
