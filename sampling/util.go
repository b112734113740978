package sampling

import (
	"github.com/pkg/errors"
)

const tol = 1e-6

// ErrDistribution is returned when a probability vector does not sum to 1.
var ErrDistribution = errors.New("probability distribution does not sum to 1")

// SampleOne returns the first element i of pv where sum(pv[:i+1]) > x.
// x is typically drawn uniformly from [0, 1).
func SampleOne(pv []float64, x float64) (int, error) {
	var cumProb float64
	for i, p := range pv {
		cumProb += p
		if cumProb > x {
			return i, nil
		}
	}

	if len(pv) == 0 || cumProb < 1.0-tol { // Leave room for floating point error.
		return -1, errors.Wrapf(ErrDistribution, "x=%v, pv=%v", x, pv)
	}

	return len(pv) - 1, nil
}
