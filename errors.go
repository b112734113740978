package rl

import (
	"github.com/pkg/errors"
)

var (
	// ErrUnsupportedOperation is returned when an operation has no
	// meaning for the receiver, e.g. the argmax of a uniform policy.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrInvalidConfig is returned by constructors given parameters
	// that cannot be used for learning.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrNumeric is returned instead of silently producing NaN or Inf.
	ErrNumeric = errors.New("numeric invariant violated")
	// ErrNoActions is returned when a non-terminal operation is
	// requested for a state that has no reachable actions.
	ErrNoActions = errors.New("no reachable actions")
)
