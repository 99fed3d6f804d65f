package distmat

import (
	"context"
	"fmt"
	"math"
	"time"
	"unsafe"

	"github.com/hupe1980/distmat/distance"
	"github.com/hupe1980/distmat/internal/parallel"
)

// Matrix is a dense row-major matrix: element (i, j) is Data[i*Cols+j].
type Matrix struct {
	Rows int
	Cols int
	Data []float64
}

// NewMatrix wraps data as a rows × cols matrix. If data is nil a zeroed
// buffer is allocated; otherwise len(data) must equal rows*cols.
func NewMatrix(rows, cols int, data []float64) (Matrix, error) {
	const op = "newmatrix"

	if rows < 0 {
		return Matrix{}, &ShapeError{Op: op, Field: "rows", Got: rows}
	}
	if cols < 0 {
		return Matrix{}, &ShapeError{Op: op, Field: "cols", Got: cols}
	}

	n, ok := mulInt(rows, cols)
	if !ok {
		return Matrix{}, errOverflow(op, "rows*cols")
	}

	if data == nil {
		data = make([]float64, n)
	} else if len(data) != n {
		return Matrix{}, &ShapeError{Op: op, Field: "len(data)", Got: len(data), Want: n, Exact: true}
	}

	return Matrix{Rows: rows, Cols: cols, Data: data}, nil
}

// At returns element (i, j).
func (m Matrix) At(i, j int) float64 {
	return m.Data[i*m.Cols+j]
}

// Row returns row i as a capacity-limited view of Data.
func (m Matrix) Row(i int) []float64 {
	lo, hi := i*m.Cols, (i+1)*m.Cols
	return m.Data[lo:hi:hi]
}

func (m Matrix) validate(op, name string) error {
	if m.Rows < 0 {
		return &ShapeError{Op: op, Field: name + ".Rows", Got: m.Rows}
	}
	if m.Cols < 0 {
		return &ShapeError{Op: op, Field: name + ".Cols", Got: m.Cols}
	}
	n, ok := mulInt(m.Rows, m.Cols)
	if !ok {
		return errOverflow(op, name+".Rows*"+name+".Cols")
	}
	if len(m.Data) < n {
		return &ShapeError{Op: op, Field: "len(" + name + ".Data)", Got: len(m.Data), Want: n}
	}
	return nil
}

// CityBlock fills out with the city-block distances between the rows of a
// and the rows of b.
//
// a and b are row-major numRows × numCols buffers. out receives a
// numRows × numRows row-major matrix whose element (i, j) is
// Σ_k |a[i*numCols+k] − b[j*numCols+k]|. Every element is computed on its
// own, even when a and b are the same buffer, and is summed over k in
// order, so results are bit-identical to a sequential loop on every host.
//
// Rows of the output are filled in parallel. The error is nil or wraps
// ErrInvalidArgument; validation happens before anything is written.
func CityBlock(a, b, out []float64, numRows, numCols int, opts ...Option) error {
	const op = "cityblock"

	o := applyOptions(opts)
	start := time.Now()

	p := plan{op: op, metric: distance.MetricCityBlock, rowsA: numRows, rowsB: numRows, cols: numCols, sequential: true}
	err := func() error {
		if numRows < 0 {
			return &ShapeError{Op: op, Field: "numRows", Got: numRows}
		}
		if numCols < 0 {
			return &ShapeError{Op: op, Field: "numCols", Got: numCols}
		}
		return p.bind(a, b, out)
	}()
	if err != nil {
		o.observe(context.Background(), &p, 0, 0, start, err)
		return err
	}

	return p.run(context.Background(), &o, start)
}

// Pairwise fills out with metric distances between the rows of a and the
// rows of b.
//
// By default out is a.Rows × b.Rows. With WithSquareOutput it is
// a.Rows × a.Rows and only the first a.Rows rows of b are read.
//
// The kernels may reorder the summation for speed; WithSequentialSum
// restores the left-to-right sum of CityBlock.
//
// ctx is consulted only between chunks of rows; if it ends early the error
// is ctx.Err() and out is partially written.
func Pairwise(ctx context.Context, metric distance.Metric, a, b Matrix, out []float64, opts ...Option) error {
	o := applyOptions(opts)
	start := time.Now()

	p, err := planPairwise("pairwise", metric, a, b, o.square)
	if err == nil {
		err = p.bind(a.Data, b.Data, out)
	}
	if err != nil {
		o.observe(ctx, &p, 0, 0, start, err)
		return err
	}

	return p.run(ctx, &o, start)
}

// PairwiseMatrix is Pairwise into a newly allocated output matrix.
//
// When a ResourceController is configured, the output's bytes are reserved
// from its memory budget for as long as the computation runs.
func PairwiseMatrix(ctx context.Context, metric distance.Metric, a, b Matrix, opts ...Option) (Matrix, error) {
	return pairwiseMatrix(ctx, "pairwisematrix", metric, a, b, opts)
}

// CityBlockMatrix returns the city-block distance matrix between the rows
// of a and the rows of b.
func CityBlockMatrix(ctx context.Context, a, b Matrix, opts ...Option) (Matrix, error) {
	return pairwiseMatrix(ctx, "cityblockmatrix", distance.MetricCityBlock, a, b, opts)
}

// SquaredEuclideanMatrix returns the squared Euclidean distance matrix
// between the rows of a and the rows of b.
func SquaredEuclideanMatrix(ctx context.Context, a, b Matrix, opts ...Option) (Matrix, error) {
	return pairwiseMatrix(ctx, "sqeuclideanmatrix", distance.MetricSquaredEuclidean, a, b, opts)
}

func pairwiseMatrix(ctx context.Context, op string, metric distance.Metric, a, b Matrix, optFns []Option) (Matrix, error) {
	o := applyOptions(optFns)
	start := time.Now()

	p, err := planPairwise(op, metric, a, b, o.square)
	if err != nil {
		o.observe(ctx, &p, 0, 0, start, err)
		return Matrix{}, err
	}

	n, ok := mulInt(p.rowsA, p.rowsB)
	if !ok || n > math.MaxInt64/8 {
		err = errOverflow(op, "output size")
		o.observe(ctx, &p, 0, 0, start, err)
		return Matrix{}, err
	}

	bytes := int64(n) * 8
	if err := o.controller.AcquireMemory(bytes); err != nil {
		err = fmt.Errorf("%s: %w", op, err)
		o.observe(ctx, &p, 0, 0, start, err)
		return Matrix{}, err
	}
	defer o.controller.ReleaseMemory(bytes)

	out := make([]float64, n)
	if err := p.bind(a.Data, b.Data, out); err != nil {
		o.observe(ctx, &p, 0, 0, start, err)
		return Matrix{}, err
	}
	if err := p.run(ctx, &o, start); err != nil {
		return Matrix{}, err
	}

	return Matrix{Rows: p.rowsA, Cols: p.rowsB, Data: out}, nil
}

func planPairwise(op string, metric distance.Metric, a, b Matrix, square bool) (plan, error) {
	p := plan{op: op, metric: metric, rowsA: a.Rows, rowsB: b.Rows, cols: a.Cols}

	if _, err := distance.RowsProvider(metric); err != nil {
		return p, fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
	}
	if err := a.validate(op, "a"); err != nil {
		return p, err
	}
	if err := b.validate(op, "b"); err != nil {
		return p, err
	}
	if b.Cols != a.Cols {
		return p, &ShapeError{Op: op, Field: "b.Cols", Got: b.Cols, Want: a.Cols, Exact: true}
	}

	if square {
		if b.Rows < a.Rows {
			return p, &ShapeError{Op: op, Field: "b.Rows", Got: b.Rows, Want: a.Rows}
		}
		p.rowsB = a.Rows
	}

	return p, nil
}

// plan is one validated computation: out[i*rowsB+j] = d(a row i, b row j).
type plan struct {
	op     string
	metric distance.Metric

	rowsA int
	rowsB int
	cols  int

	// sequential forces the single-accumulator kernels.
	sequential bool

	a, b, out []float64
}

// bind checks the buffers against the plan's shape and keeps views trimmed
// to exactly the region the kernel touches.
func (p *plan) bind(a, b, out []float64) error {
	na, ok := mulInt(p.rowsA, p.cols)
	if !ok {
		return errOverflow(p.op, "rows*cols of a")
	}
	nb, ok := mulInt(p.rowsB, p.cols)
	if !ok {
		return errOverflow(p.op, "rows*cols of b")
	}
	nout, ok := mulInt(p.rowsA, p.rowsB)
	if !ok {
		return errOverflow(p.op, "output size")
	}

	if len(a) < na {
		return &ShapeError{Op: p.op, Field: "len(a)", Got: len(a), Want: na}
	}
	if len(b) < nb {
		return &ShapeError{Op: p.op, Field: "len(b)", Got: len(b), Want: nb}
	}
	if len(out) < nout {
		return &ShapeError{Op: p.op, Field: "len(out)", Got: len(out), Want: nout}
	}

	p.a, p.b, p.out = a[:na], b[:nb], out[:nout]

	if overlaps(p.out, p.a) {
		return errAliased(p.op, "a")
	}
	if overlaps(p.out, p.b) {
		return errAliased(p.op, "b")
	}
	return nil
}

func (p *plan) run(ctx context.Context, o *options, start time.Time) error {
	provider := distance.RowsProvider
	if p.sequential || o.sequential {
		provider = distance.SequentialRowsProvider
	}

	rows, err := provider(p.metric)
	if err != nil {
		err = fmt.Errorf("%s: %w: %w", p.op, ErrInvalidArgument, err)
		o.observe(ctx, p, 0, 0, start, err)
		return err
	}

	cfg := parallel.Config{
		Workers:    o.workers,
		ChunkRows:  o.chunkRows,
		Controller: o.controller,
		Progress: func(done, total int) {
			o.logger.LogProgress(ctx, done, total)
			if o.progress != nil {
				o.progress(done, total)
			}
		},
	}
	workers, chunk := cfg.Plan(p.rowsA)

	a, b, out := p.a, p.b, p.out
	cols, outCols := p.cols, p.rowsB

	err = parallel.For(ctx, p.rowsA, cfg, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			rows(a[i*cols:(i+1)*cols], b, cols, out[i*outCols:(i+1)*outCols])
		}
	})
	if err != nil {
		err = fmt.Errorf("%s: %w", p.op, err)
	}

	o.observe(ctx, p, workers, chunk, start, err)
	return err
}

func (o *options) observe(ctx context.Context, p *plan, workers, chunk int, start time.Time, err error) {
	elapsed := time.Since(start)
	metric := p.metric.String()

	o.metrics.OnCompute(metric, p.rowsA, p.rowsB, p.cols, elapsed, err)
	o.logger.WithMetric(metric).WithShape(p.rowsA, p.rowsB, p.cols).LogCompute(ctx, workers, chunk, elapsed, err)
}

func mulInt(x, y int) (int, bool) {
	if x == 0 || y == 0 {
		return 0, true
	}
	n := x * y
	if n/y != x || n < 0 {
		return 0, false
	}
	return n, true
}

func overlaps(x, y []float64) bool {
	if len(x) == 0 || len(y) == 0 {
		return false
	}

	const size = unsafe.Sizeof(float64(0))
	xs := uintptr(unsafe.Pointer(unsafe.SliceData(x)))
	ys := uintptr(unsafe.Pointer(unsafe.SliceData(y)))

	return xs < ys+uintptr(len(y))*size && ys < xs+uintptr(len(x))*size
}
