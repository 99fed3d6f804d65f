package simd

import "math"

// Kernel function pointers, bound once by initCapabilities.
var (
	kernelCityBlock = cityBlockGeneric
	kernelSquaredL2 = squaredL2Generic
)

// Kernel families. Both are portable Go; the unrolled family only keeps
// more independent additions in flight.
const (
	FamilySequential = "sequential"
	FamilyUnrolled   = "unrolled"
)

var kernelFamily = FamilySequential

// bindKernels selects the kernel family for isa. Every non-generic ISA has
// enough independent FP pipelines to benefit from four accumulators.
func bindKernels(isa ISA) {
	if isa == Generic {
		kernelCityBlock = cityBlockGeneric
		kernelSquaredL2 = squaredL2Generic
		kernelFamily = FamilySequential
		return
	}
	kernelCityBlock = cityBlockUnrolled
	kernelSquaredL2 = squaredL2Unrolled
	kernelFamily = FamilyUnrolled
}

// KernelFamily returns the family the dispatched kernels belong to.
func KernelFamily() string {
	return kernelFamily
}

// CityBlock returns the L1 distance between a and b.
//
// SAFETY: Assumes len(a) == len(b). Caller MUST ensure lengths match.
func CityBlock(a, b []float64) float64 {
	return kernelCityBlock(a, b)
}

// SquaredL2 returns the squared Euclidean distance between a and b.
//
// SAFETY: Assumes len(a) == len(b). Caller MUST ensure lengths match.
func SquaredL2(a, b []float64) float64 {
	return kernelSquaredL2(a, b)
}

// CityBlockRows writes the L1 distance between query and each dim-wide row
// of targets into out. out[i] pairs with targets[i*dim:(i+1)*dim].
func CityBlockRows(query, targets []float64, dim int, out []float64) {
	rowsGeneric(kernelCityBlock, query, targets, dim, out)
}

// SquaredL2Rows is CityBlockRows for the squared Euclidean distance.
func SquaredL2Rows(query, targets []float64, dim int, out []float64) {
	rowsGeneric(kernelSquaredL2, query, targets, dim, out)
}

// CityBlockRowsSequential is CityBlockRows with the single-accumulator
// kernel on every host: each result is the left-to-right sum over k, so it
// is bit-identical to a plain loop.
func CityBlockRowsSequential(query, targets []float64, dim int, out []float64) {
	rowsGeneric(cityBlockGeneric, query, targets, dim, out)
}

// SquaredL2RowsSequential is CityBlockRowsSequential for the squared
// Euclidean distance.
func SquaredL2RowsSequential(query, targets []float64, dim int, out []float64) {
	rowsGeneric(squaredL2Generic, query, targets, dim, out)
}

func rowsGeneric(kernel func(a, b []float64) float64, query, targets []float64, dim int, out []float64) {
	if dim <= 0 {
		// Zero-width rows are all at distance zero.
		clear(out)
		return
	}
	if len(query) < dim {
		return
	}

	q := query[:dim]
	n := min(len(out), len(targets)/dim)
	for i := range n {
		offset := i * dim
		out[i] = kernel(q, targets[offset:offset+dim])
	}
}

func cityBlockGeneric(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}

func squaredL2Generic(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		// The conversion rounds the product, so no FMA is fused here.
		sum += float64(d * d)
	}
	return sum
}

func cityBlockUnrolled(a, b []float64) float64 {
	n := len(a)
	b = b[:n]

	var s0, s1, s2, s3 float64
	i := 0
	for ; i+4 <= n; i += 4 {
		s0 += math.Abs(a[i] - b[i])
		s1 += math.Abs(a[i+1] - b[i+1])
		s2 += math.Abs(a[i+2] - b[i+2])
		s3 += math.Abs(a[i+3] - b[i+3])
	}

	sum := (s0 + s1) + (s2 + s3)
	for ; i < n; i++ {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}

func squaredL2Unrolled(a, b []float64) float64 {
	n := len(a)
	b = b[:n]

	var s0, s1, s2, s3 float64
	i := 0
	for ; i+4 <= n; i += 4 {
		d0 := a[i] - b[i]
		d1 := a[i+1] - b[i+1]
		d2 := a[i+2] - b[i+2]
		d3 := a[i+3] - b[i+3]
		s0 += d0 * d0
		s1 += d1 * d1
		s2 += d2 * d2
		s3 += d3 * d3
	}

	sum := (s0 + s1) + (s2 + s3)
	for ; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
