package pool

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/utkarsh5026/fetchme/internal/backoff"
)

// BackoffType selects the retry backoff algorithm.
type BackoffType = backoff.Type

const (
	// BackoffExponential doubles the delay after every failed attempt (default).
	BackoffExponential = backoff.Exponential
	// BackoffJittered adds random jitter to prevent thundering herd.
	BackoffJittered = backoff.Jittered
	// BackoffDecorrelated uses AWS-style decorrelated jitter.
	BackoffDecorrelated = backoff.Decorrelated
)

// WorkerPoolOption is a functional option for configuring the worker pool.
type WorkerPoolOption func(*workerPoolConfig)

type workerPoolConfig struct {
	workerCount     int
	taskBuffer      int
	maxAttempts     int
	initialDelay    time.Duration
	rateLimiter     *rate.Limiter
	continueOnError bool
	pinWorkers      bool

	backoffType   BackoffType
	backoffMax    time.Duration
	backoffJitter float64

	beforeTaskStart     func(any)
	beforeTaskStartType string
	onTaskEnd           func(any, any, error)
	onTaskEndTaskType   string
	onTaskEndResultType string
	onRetry             func(any, int, error)
	onRetryType         string
}

// WithWorkerCount sets the number of concurrent workers.
// If not specified, defaults to runtime.GOMAXPROCS(0).
func WithWorkerCount(count int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if count > 0 {
			cfg.workerCount = count
		}
	}
}

// WithTaskBuffer sets the buffer size for the task channel.
// If not specified, defaults to the number of workers.
func WithTaskBuffer(size int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if size >= 0 {
			cfg.taskBuffer = size
		}
	}
}

// WithRetryPolicy enables retries for failed tasks. maxAttempts is the total
// number of attempts per task; initialDelay is the wait before the first
// retry, growing per the configured backoff type (exponential by default).
func WithRetryPolicy(maxAttempts int, initialDelay time.Duration) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if maxAttempts > 0 {
			cfg.maxAttempts = maxAttempts
		}
		if initialDelay > 0 {
			cfg.initialDelay = initialDelay
		}
	}
}

// WithBackoff selects the backoff algorithm used between retry attempts
// along with its initial and maximum delay.
func WithBackoff(bt BackoffType, initialDelay, maxDelay time.Duration) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.backoffType = bt
		if initialDelay > 0 {
			cfg.initialDelay = initialDelay
		}
		if maxDelay > 0 {
			cfg.backoffMax = maxDelay
		}
	}
}

// WithBackoffJitter sets the jitter factor (0.0 to 1.0) used by the
// jittered backoff type.
func WithBackoffJitter(factor float64) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if factor > 0 {
			cfg.backoffJitter = factor
		}
	}
}

// WithRateLimit caps task throughput at tasksPerSecond with the given burst.
// Useful for pools that call external services.
func WithRateLimit(tasksPerSecond float64, burst int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithContinueOnError keeps the pool processing after a task fails instead
// of cancelling the remaining work. The last error seen is still returned.
func WithContinueOnError() WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.continueOnError = true
	}
}

// WithCPUAffinity pins each worker's OS thread to a CPU core. Only useful
// for CPU-bound workloads; pinning I/O-bound workers wastes cores.
func WithCPUAffinity() WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.pinWorkers = true
	}
}

// WithBeforeTaskStart registers a hook invoked before each task is processed.
// The hook's task type must match the pool's task type.
func WithBeforeTaskStart[T any](hook func(T)) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		var zero T
		cfg.beforeTaskStartType = fmt.Sprintf("%T", zero)
		cfg.beforeTaskStart = func(task any) {
			hook(task.(T))
		}
	}
}

// WithOnTaskEnd registers a hook invoked after each task finishes, with the
// task, its result, and any error. Types must match the pool's.
func WithOnTaskEnd[T any, R any](hook func(T, R, error)) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		var zeroT T
		var zeroR R
		cfg.onTaskEndTaskType = fmt.Sprintf("%T", zeroT)
		cfg.onTaskEndResultType = fmt.Sprintf("%T", zeroR)
		cfg.onTaskEnd = func(task, result any, err error) {
			hook(task.(T), result.(R), err)
		}
	}
}

// WithOnEachAttempt registers a hook invoked before each retry with the task,
// the 1-based retry number, and the error that caused it.
func WithOnEachAttempt[T any](hook func(T, int, error)) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		var zero T
		cfg.onRetryType = fmt.Sprintf("%T", zero)
		cfg.onRetry = func(task any, attempt int, err error) {
			hook(task.(T), attempt, err)
		}
	}
}
