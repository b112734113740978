package main

import (
	"context"
	"sync"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"

	"github.com/timpalpant/go-rl/sampling"
)

// runTrials calls fn once per trial, at most --parallelism at a time.
// Each trial gets its own generator split from --seed, so results do
// not depend on scheduling.
func runTrials(ctx context.Context, fn func(ctx context.Context, trial int, rng *rand.Rand) error) error {
	rngs := sampling.Split(sampling.New(flags.Seed), flags.Trials)
	sem := make(chan struct{}, flags.Parallelism)
	errs := make([]error, len(rngs))

	var wg sync.WaitGroup
	for i, rng := range rngs {
		wg.Add(1)
		go func(i int, rng *rand.Rand) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			errs[i] = fn(ctx, i, rng)
		}(i, rng)
	}

	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}

// meanCurve averages equal-length curves pointwise.
func meanCurve(curves [][]float64) []float64 {
	mean := make([]float64, len(curves[0]))
	for _, c := range curves {
		floats.Add(mean, c)
	}

	floats.Scale(1/float64(len(curves)), mean)
	return mean
}
