// Package resource accounts the resources distance computations share.
//
// A Controller tracks two things:
//
//   - Memory: output buffers allocated on behalf of callers. Reservations
//     are non-blocking and fail fast with ErrMemoryLimitExceeded.
//   - Workers: a weighted semaphore capping worker goroutines across every
//     computation that uses the same controller.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30,
//	    MaxWorkers:       8,
//	})
//
//	if err := rc.AcquireMemory(n * 8); err != nil {
//	    return err
//	}
//
// All methods are safe for concurrent use and are no-ops on a nil
// *Controller, so limiting stays optional.
package resource
