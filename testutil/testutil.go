package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG wraps math/rand with a fixed seed. It is safe for concurrent use.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates an RNG with the given seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset rewinds the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniformRange fills dst with values in [minVal, maxVal).
// Locks once per call.
func (r *RNG) FillUniformRange(dst []float64, minVal, maxVal float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float64()*span
	}
}

// UniformMatrix returns a row-major rows × cols buffer with values in [0, 1),
// the same distribution as numpy.random.random.
func (r *RNG) UniformMatrix(rows, cols int) []float64 {
	data := make([]float64, rows*cols)
	r.FillUniformRange(data, 0, 1)
	return data
}

// GaussianMatrix returns a row-major rows × cols buffer of standard normal
// values.
func (r *RNG) GaussianMatrix(rows, cols int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = r.rand.NormFloat64()
	}
	return data
}

// IntegerMatrix returns a row-major rows × cols buffer of whole numbers in
// [-limit, limit]. Sums of such values are exact in float64, so results
// can be compared with ==.
func (r *RNG) IntegerMatrix(rows, cols, limit int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = float64(r.rand.Intn(2*limit+1) - limit)
	}
	return data
}

// NaiveCityBlock is the reference triple loop: a rowsA × rowsB result with
// element (i, j) = Σ_k |a[i,k] − b[j,k]|.
func NaiveCityBlock(a, b []float64, rowsA, rowsB, cols int) []float64 {
	out := make([]float64, rowsA*rowsB)
	for i := range rowsA {
		for j := range rowsB {
			var sum float64
			for k := range cols {
				sum += math.Abs(a[i*cols+k] - b[j*cols+k])
			}
			out[i*rowsB+j] = sum
		}
	}
	return out
}

// NaiveSquaredEuclidean is NaiveCityBlock for Σ_k (a[i,k] − b[j,k])².
func NaiveSquaredEuclidean(a, b []float64, rowsA, rowsB, cols int) []float64 {
	out := make([]float64, rowsA*rowsB)
	for i := range rowsA {
		for j := range rowsB {
			var sum float64
			for k := range cols {
				d := a[i*cols+k] - b[j*cols+k]
				sum += float64(d * d)
			}
			out[i*rowsB+j] = sum
		}
	}
	return out
}

// MaxAbsDiff returns max |x[i] − y[i]| over the common prefix, or +Inf if
// the lengths differ.
func MaxAbsDiff(x, y []float64) float64 {
	if len(x) != len(y) {
		return math.Inf(1)
	}
	var worst float64
	for i := range x {
		worst = max(worst, math.Abs(x[i]-y[i]))
	}
	return worst
}
