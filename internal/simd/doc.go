// Package simd provides the float64 distance kernels behind distmat.
//
// # Dispatch
//
// CPU features are detected once at init with golang.org/x/sys/cpu. On
// hardware with wide vector units (AVX2/AVX-512, NEON/SVE2) the kernels bind
// to four-accumulator unrolled loops; otherwise to plain loops. Set
// DISTMAT_SIMD=generic to force the plain loops, or build with -tags noasm
// to skip detection entirely.
//
// # Operations
//
//   - Pair: CityBlock, SquaredL2
//   - Row batch: CityBlockRows, SquaredL2Rows
//   - Row batch, left-to-right sum on every host: CityBlockRowsSequential,
//     SquaredL2RowsSequential
//
// The unrolled kernels sum in a different order than the plain ones, so
// results may differ in the last few ulps. Both are deterministic.
package simd
