package montecarlo

import (
	"gonum.org/v1/gonum/stat"

	"github.com/timpalpant/go-rl"
)

// Updater folds one (possibly importance weighted) return into the
// estimate for a key.
type Updater[S, A comparable] interface {
	Update(v *rl.ValueFunction[S, A], k rl.Key[S, A], g, w float64)
}

func put[S, A comparable](v *rl.ValueFunction[S, A], k rl.Key[S, A], x float64) {
	cur := v.Get(k)
	v.Put(k, rl.Value{Value: x, Step: cur.Step + 1})
}

// NaiveAverage keeps every return and sets the estimate to their mean.
// Weights are ignored.
type NaiveAverage[S, A comparable] struct {
	returns map[rl.Key[S, A]][]float64
}

func NewNaiveAverage[S, A comparable]() *NaiveAverage[S, A] {
	return &NaiveAverage[S, A]{returns: make(map[rl.Key[S, A]][]float64)}
}

func (na *NaiveAverage[S, A]) Update(v *rl.ValueFunction[S, A], k rl.Key[S, A], g, w float64) {
	na.returns[k] = append(na.returns[k], g)
	put(v, k, stat.Mean(na.returns[k], nil))
}

// IncrementalAverage computes the same mean as NaiveAverage in
// constant memory per key. Weights are ignored.
type IncrementalAverage[S, A comparable] struct {
	counts map[rl.Key[S, A]]int
}

func NewIncrementalAverage[S, A comparable]() *IncrementalAverage[S, A] {
	return &IncrementalAverage[S, A]{counts: make(map[rl.Key[S, A]]int)}
}

func (ia *IncrementalAverage[S, A]) Update(v *rl.ValueFunction[S, A], k rl.Key[S, A], g, w float64) {
	n := ia.counts[k]
	x := v.ValueAt(k)
	if n == 0 {
		x = g
	} else {
		x += (g - x) / float64(n+1)
	}

	ia.counts[k] = n + 1
	put(v, k, x)
}

// OrdinaryImportanceSampling estimates Σ W·G / (number of returns).
type OrdinaryImportanceSampling[S, A comparable] struct {
	sums   map[rl.Key[S, A]]float64
	counts map[rl.Key[S, A]]int
}

func NewOrdinaryImportanceSampling[S, A comparable]() *OrdinaryImportanceSampling[S, A] {
	return &OrdinaryImportanceSampling[S, A]{
		sums:   make(map[rl.Key[S, A]]float64),
		counts: make(map[rl.Key[S, A]]int),
	}
}

func (is *OrdinaryImportanceSampling[S, A]) Update(v *rl.ValueFunction[S, A], k rl.Key[S, A], g, w float64) {
	is.sums[k] += w * g
	is.counts[k]++
	put(v, k, is.sums[k]/float64(is.counts[k]))
}

// WeightedImportanceSampling estimates Σ W·G / Σ W incrementally.
// A return with zero weight leaves the estimate unchanged.
type WeightedImportanceSampling[S, A comparable] struct {
	weights map[rl.Key[S, A]]float64
}

func NewWeightedImportanceSampling[S, A comparable]() *WeightedImportanceSampling[S, A] {
	return &WeightedImportanceSampling[S, A]{weights: make(map[rl.Key[S, A]]float64)}
}

func (is *WeightedImportanceSampling[S, A]) Update(v *rl.ValueFunction[S, A], k rl.Key[S, A], g, w float64) {
	c := is.weights[k] + w
	is.weights[k] = c
	if c == 0 || w == 0 {
		return
	}

	x := v.ValueAt(k)
	put(v, k, x+w/c*(g-x))
}
