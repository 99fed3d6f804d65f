// Package distmat computes dense pairwise distance matrices between two sets
// of row vectors.
//
// Inputs are flat row-major float64 buffers: element (row, col) of a
// rows × cols matrix lives at row*cols + col. Output rows are computed in
// parallel; each worker owns a disjoint range of output rows and every cell
// is accumulated privately, so no locking is involved.
//
// # Quick Start
//
// The raw-buffer kernel compares every row of a with the first numRows rows
// of b and writes a numRows × numRows result:
//
//	out := make([]float64, n*n)
//	if err := distmat.CityBlock(a, b, out, n, cols); err != nil {
//	    return err // errors.Is(err, distmat.ErrInvalidArgument)
//	}
//
// The Matrix API handles inputs with different row counts and allocates the
// a.Rows × b.Rows output:
//
//	a, _ := distmat.NewMatrix(1000, 50, dataA)
//	b, _ := distmat.NewMatrix(400, 50, dataB)
//	d, err := distmat.CityBlockMatrix(ctx, a, b, distmat.WithWorkers(8))
//	fmt.Println(d.At(3, 7))
//
// # Metrics
//
//   - City-block (Manhattan, L1): CityBlock, CityBlockMatrix
//   - Squared Euclidean: SquaredEuclideanMatrix
//   - Either, chosen at run time: Pairwise, PairwiseMatrix
//
// # Shapes
//
// CityBlock always produces a square numRows × numRows output sized by the
// row count of a. Pairwise and the *Matrix helpers produce a.Rows × b.Rows
// unless WithSquareOutput is given.
//
// # Summation order
//
// CityBlock sums each cell over k from left to right, so results are
// bit-identical to a plain loop on every host. Pairwise and the *Matrix
// helpers may use unrolled kernels that reorder the sum; WithSequentialSum
// turns that off.
//
// # Errors
//
// Negative dimensions, mismatched column counts, undersized buffers and an
// output buffer that overlaps an input all fail with an error wrapping
// ErrInvalidArgument before anything is written. *ShapeError carries the
// offending field.
//
// # Observability
//
// WithLogger attaches a slog-based Logger (debug level only on success),
// WithMetricsObserver a MetricsObserver (see metrics/prometheus), and
// WithProgress a throttled row-progress callback.
package distmat
