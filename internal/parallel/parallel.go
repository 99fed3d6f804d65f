// Package parallel runs data-parallel loops over row ranges.
//
// For partitions [0, n) into static chunks of consecutive rows and fans them
// out over a bounded errgroup. Each chunk is handed to exactly one call of
// the loop body, so bodies that write only to their own rows need no
// locking.
package parallel

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/hupe1980/distmat/internal/resource"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// chunksPerWorker trades scheduling overhead against load balance when the
// chunk size is chosen automatically.
const chunksPerWorker = 4

// DefaultProgressInterval is the minimum gap between two Progress calls.
const DefaultProgressInterval = time.Second

// Config controls how a loop is split and scheduled.
type Config struct {
	// Workers is the maximum number of concurrently running chunks.
	// If <= 0, runtime.GOMAXPROCS(0) is used.
	Workers int

	// ChunkRows is the number of rows per chunk.
	// If <= 0, rows are split into about four chunks per worker.
	ChunkRows int

	// Controller, if set, caps workers across loops sharing it.
	Controller *resource.Controller

	// Progress, if set, is called with the number of finished rows.
	// Calls are throttled to ProgressInterval; the final call always happens.
	Progress func(done, total int)

	// ProgressInterval defaults to DefaultProgressInterval.
	ProgressInterval time.Duration
}

// Plan returns the worker count and chunk size For would use for n rows.
func (c Config) Plan(n int) (workers, chunk int) {
	workers = c.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if limit := c.Controller.MaxWorkers(); limit > 0 && int64(workers) > limit {
		workers = int(limit)
	}
	workers = max(1, min(workers, n))

	chunk = c.ChunkRows
	if chunk <= 0 {
		parts := workers * chunksPerWorker
		chunk = (n + parts - 1) / parts
	}
	chunk = max(1, chunk)

	return workers, chunk
}

// For calls fn(lo, hi) for disjoint half-open ranges covering [0, n).
//
// A chunk that has started always runs to completion; ctx is only checked
// while waiting to dispatch the next one. If ctx ends before every chunk was
// dispatched, For returns ctx.Err() and some rows were never visited.
func For(ctx context.Context, n int, cfg Config, fn func(lo, hi int)) error {
	if n <= 0 {
		return nil
	}

	workers, chunk := cfg.Plan(n)

	interval := cfg.ProgressInterval
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	progress := &rate.Sometimes{Interval: interval}

	var done atomic.Int64
	report := func(rows int) {
		d := int(done.Add(int64(rows)))
		if cfg.Progress != nil && d < n {
			progress.Do(func() { cfg.Progress(d, n) })
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	dispatched := 0
	for lo := 0; lo < n; lo += chunk {
		if gctx.Err() != nil {
			break
		}

		hi := min(lo+chunk, n)
		g.Go(func() error {
			if err := cfg.Controller.AcquireWorker(gctx); err != nil {
				return err
			}
			defer cfg.Controller.ReleaseWorker()

			fn(lo, hi)
			report(hi - lo)
			return nil
		})
		dispatched = hi
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if dispatched < n {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	if cfg.Progress != nil {
		cfg.Progress(n, n)
	}
	return nil
}
