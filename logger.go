package distmat

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with distmat-specific field helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, a text handler at info level writing to stderr is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger writing JSON records to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger writing human-readable records to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards everything.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// WithMetric adds a metric field.
func (l *Logger) WithMetric(metric string) *Logger {
	return &Logger{Logger: l.Logger.With("metric", metric)}
}

// WithShape adds the input shape fields.
func (l *Logger) WithShape(rowsA, rowsB, cols int) *Logger {
	return &Logger{Logger: l.Logger.With("rows_a", rowsA, "rows_b", rowsB, "cols", cols)}
}

// LogProgress logs how many output rows are finished.
func (l *Logger) LogProgress(ctx context.Context, done, total int) {
	l.DebugContext(ctx, "distance matrix progress",
		"rows_done", done,
		"rows_total", total,
	)
}

// LogCompute logs the outcome of one matrix computation.
func (l *Logger) LogCompute(ctx context.Context, workers, chunk int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "distance matrix failed",
			"workers", workers,
			"chunk_rows", chunk,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "distance matrix computed",
		"workers", workers,
		"chunk_rows", chunk,
		"elapsed", elapsed,
	)
}
