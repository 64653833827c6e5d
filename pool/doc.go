// Package pool provides a small, generic worker pool for concurrent
// task processing.
//
// The primary type is WorkerPool[T, R], a bounded pool of workers which
// process tasks of type T and return results of type R. The pool supports
// context-aware processing, panic recovery, retry with configurable
// backoff, rate limiting, and optional CPU pinning for compute-heavy
// workloads, all configured through functional options.
//
// # Basic Usage
//
//	ctx := context.Background()
//	tasks := []int{1, 2, 3, 4}
//	p := pool.NewWorkerPool[int, int](pool.WithWorkerCount(4))
//	results, err := p.Process(ctx, tasks, func(ctx context.Context, t int) (int, error) {
//	    return t * 2, nil
//	})
//
// # Processing Modes
//
//   - Process: processes a slice of tasks, results in input order
//   - ProcessMap: processes a string-keyed map, results under matching keys
//   - ProcessKeyed: like ProcessMap for any comparable key type
//
// # Retry and Backoff
//
// Failed tasks can be retried with exponential, jittered, or decorrelated
// backoff:
//
//	p := pool.NewWorkerPool[string, string](
//	    pool.WithRetryPolicy(3, 100*time.Millisecond),
//	    pool.WithBackoff(pool.BackoffJittered, 100*time.Millisecond, 5*time.Second),
//	)
//
// # Rate Limiting
//
// Throughput can be capped to avoid overwhelming external services:
//
//	p := pool.NewWorkerPool[string, Response](pool.WithRateLimit(5.0, 10))
//
// # Error Handling
//
// The pool is fail-fast by default: the first task error cancels the
// remaining work and is returned to the caller. WithContinueOnError keeps
// the pool running and reports the last error after all tasks finish.
// Panics inside a task are recovered and converted to errors carrying the
// stack trace.
package pool
