package distance

import (
	"fmt"
	"strings"

	"github.com/hupe1980/distmat/internal/simd"
)

// CityBlock returns the city-block (Manhattan, L1) distance between a and b.
// Assumes vectors are the same length (caller's responsibility).
func CityBlock(a, b []float64) float64 {
	return simd.CityBlock(a, b)
}

// SquaredEuclidean returns the squared Euclidean distance between a and b.
// Assumes vectors are the same length (caller's responsibility).
func SquaredEuclidean(a, b []float64) float64 {
	return simd.SquaredL2(a, b)
}

// Metric selects the distance used for a matrix computation.
type Metric int

const (
	MetricCityBlock Metric = iota
	MetricSquaredEuclidean
)

func (m Metric) String() string {
	switch m {
	case MetricCityBlock:
		return "cityblock"
	case MetricSquaredEuclidean:
		return "sqeuclidean"
	default:
		return fmt.Sprintf("unknown(%d)", m)
	}
}

// ParseMetric accepts the names returned by String plus the common aliases
// "manhattan", "l1" and "l2sq".
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cityblock", "manhattan", "l1":
		return MetricCityBlock, nil
	case "sqeuclidean", "l2sq":
		return MetricSquaredEuclidean, nil
	default:
		return 0, fmt.Errorf("unknown metric %q", s)
	}
}

// Func is a pairwise distance between two equal-length vectors.
type Func func(a, b []float64) float64

// RowsFunc computes the distance between query and every dim-wide row of
// targets, writing one value per row into out.
type RowsFunc func(query, targets []float64, dim int, out []float64)

// Provider returns the pairwise function for m.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricCityBlock:
		return CityBlock, nil
	case MetricSquaredEuclidean:
		return SquaredEuclidean, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}

// RowsProvider returns the row-batch function for m.
func RowsProvider(m Metric) (RowsFunc, error) {
	switch m {
	case MetricCityBlock:
		return simd.CityBlockRows, nil
	case MetricSquaredEuclidean:
		return simd.SquaredL2Rows, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}

// SequentialRowsProvider is RowsProvider restricted to single-accumulator
// kernels. Each distance is summed over k in order, independent of the host.
func SequentialRowsProvider(m Metric) (RowsFunc, error) {
	switch m {
	case MetricCityBlock:
		return simd.CityBlockRowsSequential, nil
	case MetricSquaredEuclidean:
		return simd.SquaredL2RowsSequential, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
