package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCityBlock(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Simple", []float64{1, 2, 3}, []float64{4, 5, 6}, 9},
		{"Zero", []float64{0, 0, 0}, []float64{0, 0, 0}, 0},
		{"Identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 0},
		{"Mixed", []float64{1, -1}, []float64{-1, 1}, 4},
		{"Empty", []float64{}, []float64{}, 0},
		{"Fractions", []float64{0.25, 0.5}, []float64{0.75, 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CityBlock(tt.a, tt.b), 1e-12)
			// L1 is symmetric in its arguments.
			assert.InDelta(t, tt.expected, CityBlock(tt.b, tt.a), 1e-12)
		})
	}
}

func TestSquaredEuclidean(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Simple", []float64{1, 2, 3}, []float64{4, 5, 6}, 27},
		{"Mixed", []float64{1, -1}, []float64{-1, 1}, 8},
		{"Empty", []float64{}, []float64{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SquaredEuclidean(tt.a, tt.b), 1e-12)
		})
	}
}

func TestNonFinite(t *testing.T) {
	assert.True(t, math.IsNaN(CityBlock([]float64{math.NaN()}, []float64{0})))
	assert.True(t, math.IsInf(CityBlock([]float64{math.Inf(-1)}, []float64{0}), 1))
}

func TestMetric(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "cityblock", MetricCityBlock.String())
		assert.Equal(t, "sqeuclidean", MetricSquaredEuclidean.String())
		assert.Equal(t, "unknown(99)", Metric(99).String())
	})

	t.Run("Parse", func(t *testing.T) {
		for in, want := range map[string]Metric{
			"cityblock":   MetricCityBlock,
			"Manhattan":   MetricCityBlock,
			" l1 ":        MetricCityBlock,
			"sqeuclidean": MetricSquaredEuclidean,
			"L2SQ":        MetricSquaredEuclidean,
		} {
			got, err := ParseMetric(in)
			require.NoError(t, err, in)
			assert.Equal(t, want, got, in)
		}

		_, err := ParseMetric("cosine")
		assert.Error(t, err)
	})

	t.Run("Provider", func(t *testing.T) {
		f, err := Provider(MetricCityBlock)
		require.NoError(t, err)
		assert.InDelta(t, 9.0, f([]float64{1, 2, 3}, []float64{4, 5, 6}), 1e-12)

		f, err = Provider(MetricSquaredEuclidean)
		require.NoError(t, err)
		assert.InDelta(t, 27.0, f([]float64{1, 2, 3}, []float64{4, 5, 6}), 1e-12)

		_, err = Provider(Metric(99))
		assert.Error(t, err)
	})

	t.Run("RowsProvider", func(t *testing.T) {
		rows, err := RowsProvider(MetricCityBlock)
		require.NoError(t, err)

		out := make([]float64, 2)
		rows([]float64{0, 0}, []float64{1, 1, 2, -2}, 2, out)
		assert.InDeltaSlice(t, []float64{2, 4}, out, 1e-12)

		_, err = RowsProvider(Metric(99))
		assert.Error(t, err)
	})
}
