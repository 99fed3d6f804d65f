package distmat

import (
	"log/slog"

	"github.com/hupe1980/distmat/internal/resource"
)

// ResourceController shares worker slots and an output memory budget
// between computations. A nil controller imposes no limits.
type ResourceController = resource.Controller

// ResourceConfig configures a ResourceController.
type ResourceConfig = resource.Config

// NewResourceController creates a controller for cfg.
func NewResourceController(cfg ResourceConfig) *ResourceController {
	return resource.NewController(cfg)
}

type options struct {
	workers    int
	chunkRows  int
	square     bool
	sequential bool
	logger     *Logger
	metrics    MetricsObserver
	controller *ResourceController
	progress   func(done, total int)
}

// Option configures a single computation.
type Option func(*options)

// WithWorkers sets the maximum number of goroutines filling output rows.
// Values <= 0 use runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithChunkRows sets how many consecutive output rows one worker claims at a
// time. Values <= 0 pick about four chunks per worker.
func WithChunkRows(n int) Option {
	return func(o *options) {
		o.chunkRows = n
	}
}

// WithSquareOutput makes Pairwise and the *Matrix helpers produce a
// rowsA × rowsA output comparing A against the first rowsA rows of B, the
// shape CityBlock always uses. B must then have at least rowsA rows.
func WithSquareOutput() Option {
	return func(o *options) {
		o.square = true
	}
}

// WithSequentialSum makes Pairwise and the *Matrix helpers sum each
// distance over k in order, as CityBlock always does. Results are then
// bit-identical to a plain loop, at some cost in speed.
func WithSequentialSum() Option {
	return func(o *options) {
		o.sequential = true
	}
}

// WithLogger configures structured logging. Pass nil to disable it.
//
//	logger := distmat.NewJSONLogger(slog.LevelDebug)
//	m, err := distmat.CityBlockMatrix(ctx, a, b, distmat.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel is shorthand for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsObserver reports every computation to mo. Pass nil to disable.
func WithMetricsObserver(mo MetricsObserver) Option {
	return func(o *options) {
		o.metrics = mo
	}
}

// WithResourceController bounds workers and output memory through rc.
func WithResourceController(rc *ResourceController) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithProgress calls fn with the number of finished output rows, at most
// about once per second plus once at the end.
func WithProgress(fn func(done, total int)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

func applyOptions(optFns []Option) options {
	o := options{}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metrics == nil {
		o.metrics = NoopMetricsObserver{}
	}
	return o
}
