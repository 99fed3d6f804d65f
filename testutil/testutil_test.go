package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniformMatrix(t *testing.T) {
	rng := NewRNG(4711)

	m := rng.UniformMatrix(8, 32)
	require.Len(t, m, 8*32)
	for _, v := range m {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestRNG_Reset(t *testing.T) {
	rng := NewRNG(1)
	first := rng.UniformMatrix(2, 3)

	rng.Reset()
	assert.Equal(t, first, rng.UniformMatrix(2, 3))
	assert.Equal(t, int64(1), rng.Seed())
}

func TestIntegerMatrix(t *testing.T) {
	rng := NewRNG(3)

	m := rng.IntegerMatrix(10, 10, 5)
	for _, v := range m {
		assert.Equal(t, math.Trunc(v), v)
		assert.LessOrEqual(t, math.Abs(v), 5.0)
	}
}

func TestGaussianMatrix(t *testing.T) {
	m := NewRNG(9).GaussianMatrix(100, 10)

	var sum float64
	for _, v := range m {
		sum += v
	}
	assert.InDelta(t, 0.0, sum/float64(len(m)), 0.2)
}

func TestNaiveCityBlock(t *testing.T) {
	a := []float64{0, 0, 1, 1}
	assert.Equal(t, []float64{0, 2, 2, 0}, NaiveCityBlock(a, a, 2, 2, 2))

	assert.Equal(t, []float64{9}, NaiveCityBlock([]float64{1, 2, 3}, []float64{4, 5, 6}, 1, 1, 3))

	// Rectangular: one row of a against three rows of b.
	b := []float64{0, 1, 2}
	assert.Equal(t, []float64{1, 0, 1}, NaiveCityBlock([]float64{1}, b, 1, 3, 1))
}

func TestNaiveSquaredEuclidean(t *testing.T) {
	assert.Equal(t, []float64{27}, NaiveSquaredEuclidean([]float64{1, 2, 3}, []float64{4, 5, 6}, 1, 1, 3))
}

func TestMaxAbsDiff(t *testing.T) {
	assert.Equal(t, 0.5, MaxAbsDiff([]float64{1, 2}, []float64{1.5, 2}))
	assert.Equal(t, 0.0, MaxAbsDiff(nil, nil))
	assert.True(t, math.IsInf(MaxAbsDiff([]float64{1}, nil), 1))
}
