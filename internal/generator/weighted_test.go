package generator

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWeighted_Errors(t *testing.T) {
	tests := []struct {
		name    string
		weights map[int]float64
		wantErr error
	}{
		{"empty table", map[int]float64{}, ErrNoOutcomes},
		{"nil table", nil, ErrNoOutcomes},
		{"negative weight", map[int]float64{1: 0.5, 2: -0.1}, ErrInvalidWeight},
		{"NaN weight", map[int]float64{1: math.NaN()}, ErrInvalidWeight},
		{"infinite weight", map[int]float64{1: math.Inf(1)}, ErrInvalidWeight},
		{"all zero", map[int]float64{1: 0, 2: 0}, ErrZeroWeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWeighted(tt.weights)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestWeighted_NormalizesWeights(t *testing.T) {
	w, err := NewWeighted(map[string]float64{"a": 1, "b": 3})
	require.NoError(t, err)

	assert.InDelta(t, 0.25, w.Probability("a"), 1e-12)
	assert.InDelta(t, 0.75, w.Probability("b"), 1e-12)
	assert.Zero(t, w.Probability("missing"))
	assert.Equal(t, []string{"a", "b"}, w.Outcomes())
}

func TestWeighted_PickFollowsDistribution(t *testing.T) {
	weights := map[int]float64{1: 0.5, 2: 0.3, 3: 0.1, 4: 0.05, 5: 0.05}
	w, err := NewWeighted(weights)
	require.NoError(t, err)

	r := rand.New(rand.NewPCG(42, 7))
	const draws = 200_000
	counts := make(map[int]int)
	for range draws {
		counts[w.Pick(r)]++
	}

	for outcome, weight := range weights {
		got := float64(counts[outcome]) / draws
		assert.InDelta(t, weight, got, 0.01, "outcome %d", outcome)
	}
}

func TestWeighted_NeverPicksZeroWeight(t *testing.T) {
	w, err := NewWeighted(map[int]float64{0: 0, 1: 1, 2: 0})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, w.Outcomes())

	r := rand.New(rand.NewPCG(1, 2))
	for range 10_000 {
		require.Equal(t, 1, w.Pick(r))
	}
}

func TestWeighted_SameSeedSameSequence(t *testing.T) {
	w, err := NewWeighted(defaultHourWeights)
	require.NoError(t, err)

	r1 := rand.New(rand.NewPCG(99, 99))
	r2 := rand.New(rand.NewPCG(99, 99))
	for range 1000 {
		require.Equal(t, w.Pick(r1), w.Pick(r2))
	}
}
