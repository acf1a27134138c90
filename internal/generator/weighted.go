package generator

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"math"
	"math/rand/v2"
	"slices"
	"sort"
)

var (
	ErrNoOutcomes    = errors.New("weight table has no outcomes")
	ErrInvalidWeight = errors.New("weights must be finite and non-negative")
	ErrZeroWeight    = errors.New("weights must not sum to zero")
)

// Weighted picks outcomes with probability proportional to their weight.
// Weights need not be normalized; they are normalized once at construction.
type Weighted[T cmp.Ordered] struct {
	outcomes   []T
	cumulative []float64 // normalized running sum; last element is 1
}

// NewWeighted builds a sampler from an outcome → weight table.
// Outcomes are ordered by key so a seeded source always yields the same sequence.
func NewWeighted[T cmp.Ordered](weights map[T]float64) (*Weighted[T], error) {
	if len(weights) == 0 {
		return nil, ErrNoOutcomes
	}

	outcomes := slices.Sorted(maps.Keys(weights))
	total := 0.0
	for _, o := range outcomes {
		w := weights[o]
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: outcome %v has weight %v", ErrInvalidWeight, o, w)
		}
		total += w
	}
	if total <= 0 {
		return nil, ErrZeroWeight
	}

	// Zero-weight outcomes are never sampled.
	outcomes = slices.DeleteFunc(outcomes, func(o T) bool { return weights[o] == 0 })
	cumulative := make([]float64, len(outcomes))
	acc := 0.0
	for i, o := range outcomes {
		acc += weights[o] / total
		cumulative[i] = acc
	}
	cumulative[len(cumulative)-1] = 1

	return &Weighted[T]{outcomes: outcomes, cumulative: cumulative}, nil
}

// Pick draws one outcome using r.
func (w *Weighted[T]) Pick(r *rand.Rand) T {
	u := r.Float64()
	i := sort.Search(len(w.cumulative), func(i int) bool { return w.cumulative[i] > u })
	if i == len(w.cumulative) {
		i--
	}
	return w.outcomes[i]
}

// Outcomes returns the outcomes with non-zero weight in sampling order.
func (w *Weighted[T]) Outcomes() []T {
	return slices.Clone(w.outcomes)
}

// Probability returns the normalized probability of outcome, 0 if unknown.
func (w *Weighted[T]) Probability(outcome T) float64 {
	i, ok := slices.BinarySearch(w.outcomes, outcome)
	if !ok {
		return 0
	}
	if i == 0 {
		return w.cumulative[0]
	}
	return w.cumulative[i] - w.cumulative[i-1]
}
