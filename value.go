package rl

import (
	"github.com/pkg/errors"
)

// Value is a scalar estimate together with the number of updates
// that have been applied to it.
type Value struct {
	Value float64
	Step  int
}

// StepSizer determines the weight applied to each incremental update.
type StepSizer interface {
	StepSize(v Value) float64
}

// ConstantStepSize applies the same weight to every update.
type ConstantStepSize float64

// NewConstantStepSize returns alpha as a StepSizer, or an error if
// alpha is not strictly between 0 and 1.
func NewConstantStepSize(alpha float64) (ConstantStepSize, error) {
	s := ConstantStepSize(alpha)
	return s, s.validate()
}

// StepSize implements StepSizer.
func (c ConstantStepSize) StepSize(Value) float64 {
	return float64(c)
}

func (c ConstantStepSize) validate() error {
	if !(c > 0 && c < 1) {
		return errors.Wrapf(ErrInvalidConfig, "step size %v not in (0, 1)", float64(c))
	}

	return nil
}

// SampleAverage weights the update to a value with Step n by 1/(n+1),
// so that the value is the unbiased running mean of its targets.
type SampleAverage struct{}

// StepSize implements StepSizer.
func (SampleAverage) StepSize(v Value) float64 {
	return 1.0 / float64(v.Step+1)
}

// validateStepSize checks that a StepSizer is admissible.
// Values are created with Step = 1, so SampleAverage is always in (0, 1).
func validateStepSize(s StepSizer) error {
	switch s := s.(type) {
	case nil:
		return errors.Wrap(ErrInvalidConfig, "missing step size")
	case ConstantStepSize:
		return s.validate()
	case *ConstantStepSize:
		return s.validate()
	case SampleAverage, *SampleAverage:
		return nil
	}

	// Unknown step sizers must at least be admissible for a fresh value.
	alpha := s.StepSize(Value{Step: 1})
	if !(alpha > 0 && alpha < 1) {
		return errors.Wrapf(ErrInvalidConfig, "step size %v not in (0, 1)", alpha)
	}

	return nil
}
