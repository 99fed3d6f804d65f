package distmat

import (
	"sync/atomic"
	"time"
)

// MetricsObserver receives one event per matrix computation.
// Implement it to feed a monitoring system; see metrics/prometheus.
type MetricsObserver interface {
	// OnCompute is called after every computation, including ones rejected
	// by validation. The output has rowsA × rowsB cells.
	OnCompute(metric string, rowsA, rowsB, cols int, d time.Duration, err error)
}

// NoopMetricsObserver discards all events.
type NoopMetricsObserver struct{}

func (NoopMetricsObserver) OnCompute(string, int, int, int, time.Duration, error) {}

// BasicMetricsObserver keeps in-memory counters.
// Useful for tests and debugging without an external system.
type BasicMetricsObserver struct {
	Computations atomic.Int64
	Errors       atomic.Int64
	Cells        atomic.Int64
	TotalNanos   atomic.Int64
}

// OnCompute implements MetricsObserver.
func (b *BasicMetricsObserver) OnCompute(_ string, rowsA, rowsB, _ int, d time.Duration, err error) {
	b.Computations.Add(1)
	b.TotalNanos.Add(d.Nanoseconds())
	if err != nil {
		b.Errors.Add(1)
		return
	}
	b.Cells.Add(int64(rowsA) * int64(rowsB))
}

// Stats returns a snapshot of the counters.
func (b *BasicMetricsObserver) Stats() BasicMetricsStats {
	count := b.Computations.Load()
	total := b.TotalNanos.Load()

	var avg int64
	if count > 0 {
		avg = total / count
	}

	return BasicMetricsStats{
		Computations: count,
		Errors:       b.Errors.Load(),
		Cells:        b.Cells.Load(),
		AvgNanos:     avg,
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsObserver.
type BasicMetricsStats struct {
	Computations int64
	Errors       int64
	Cells        int64
	AvgNanos     int64
}
