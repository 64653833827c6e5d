package pool

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/utkarsh5026/fetchme/internal/backoff"
	"github.com/utkarsh5026/fetchme/internal/cpu"
)

// WorkerPool is a generic, bounded worker pool.
//
// Type parameters:
//   - T: the input task type
//   - R: the result type
type WorkerPool[T any, R any] struct {
	workerCount     int
	taskBuffer      int
	maxAttempts     int
	rateLimiter     *rate.Limiter
	continueOnError bool
	pinWorkers      bool
	backoff         backoff.Strategy

	beforeTaskStart func(T)
	onTaskEnd       func(T, R, error)
	onRetry         func(T, int, error)
}

// NewWorkerPool creates a worker pool with the given options.
// Defaults: workers = GOMAXPROCS, buffer = worker count, no retries.
func NewWorkerPool[T any, R any](opts ...WorkerPoolOption) *WorkerPool[T, R] {
	cfg := &workerPoolConfig{
		workerCount:   runtime.GOMAXPROCS(0),
		maxAttempts:   1,
		backoffType:   BackoffExponential,
		initialDelay:  100 * time.Millisecond,
		backoffMax:    5 * time.Second,
		backoffJitter: 0.1,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.taskBuffer == 0 {
		cfg.taskBuffer = cfg.workerCount
	}

	beforeTaskStart, onTaskEnd, onRetry := checkHooks[T, R](cfg)

	return &WorkerPool[T, R]{
		workerCount:     cfg.workerCount,
		taskBuffer:      cfg.taskBuffer,
		maxAttempts:     cfg.maxAttempts,
		rateLimiter:     cfg.rateLimiter,
		continueOnError: cfg.continueOnError,
		pinWorkers:      cfg.pinWorkers,
		backoff:         backoff.New(cfg.backoffType, cfg.initialDelay, cfg.backoffMax, cfg.backoffJitter),
		beforeTaskStart: beforeTaskStart,
		onTaskEnd:       onTaskEnd,
		onRetry:         onRetry,
	}
}

// Process executes tasks concurrently and returns results in input order.
// The first task error cancels outstanding work and is returned, unless the
// pool was built with WithContinueOnError.
func (wp *WorkerPool[T, R]) Process(
	ctx context.Context,
	tasks []T,
	processFn ProcessFunc[T, R],
) ([]R, error) {
	if len(tasks) == 0 {
		return []R{}, nil
	}

	g, ctx := errgroup.WithContext(ctx)

	taskChan := make(chan indexedTask[T], wp.taskBuffer)
	resultChan := make(chan Result[R], len(tasks))

	numWorkers := min(wp.workerCount, len(tasks))
	for i := 0; i < numWorkers; i++ {
		id := i
		g.Go(func() error {
			return wp.worker(ctx, id, taskChan, resultChan, processFn)
		})
	}

	g.Go(func() error {
		defer close(taskChan)
		for idx, task := range tasks {
			select {
			case taskChan <- indexedTask[T]{index: idx, task: task}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	results := make([]R, len(tasks))
	var collectErr error
	var collectWg sync.WaitGroup
	collectWg.Add(1)

	go func() {
		defer collectWg.Done()
		for result := range resultChan {
			if result.Error != nil {
				collectErr = result.Error
				continue
			}
			if result.Index >= 0 && result.Index < len(results) {
				results[result.Index] = result.Value
			}
		}
	}()

	if err := g.Wait(); err != nil {
		close(resultChan)
		collectWg.Wait()
		return results, err
	}

	close(resultChan)
	collectWg.Wait()

	if collectErr != nil {
		return results, collectErr
	}
	return results, nil
}

// ProcessMap is Process for string-keyed maps: each value is processed and
// the result stored under its key.
func (wp *WorkerPool[T, R]) ProcessMap(
	ctx context.Context,
	tasks map[string]T,
	processFn ProcessFunc[T, R],
) (map[string]R, error) {
	return ProcessKeyed(ctx, wp, tasks, processFn)
}

// ProcessKeyed processes a map of tasks with any comparable key type,
// returning a map of results under matching keys. Duplicate keys cannot
// occur by construction; the result has one entry per input key.
func ProcessKeyed[K comparable, T any, R any](
	ctx context.Context,
	wp *WorkerPool[T, R],
	tasks map[K]T,
	processFn ProcessFunc[T, R],
) (map[K]R, error) {
	if len(tasks) == 0 {
		return map[K]R{}, nil
	}

	type keyedTask struct {
		task T
		key  K
	}
	type keyedResult struct {
		value R
		err   error
		key   K
	}

	g, ctx := errgroup.WithContext(ctx)

	taskChan := make(chan keyedTask, wp.taskBuffer)
	resultChan := make(chan keyedResult, len(tasks))

	numWorkers := min(wp.workerCount, len(tasks))
	for i := 0; i < numWorkers; i++ {
		id := i
		g.Go(func() error {
			if wp.pinWorkers {
				defer cpu.Pin(id)()
			}
			for {
				select {
				case task, ok := <-taskChan:
					if !ok {
						return nil
					}
					result, err := wp.runTask(ctx, task.task, processFn)
					select {
					case resultChan <- keyedResult{key: task.key, value: result, err: err}:
					case <-ctx.Done():
						return ctx.Err()
					}
					if err != nil && !wp.continueOnError {
						return err
					}
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		})
	}

	g.Go(func() error {
		defer close(taskChan)
		for key, task := range tasks {
			select {
			case taskChan <- keyedTask{key: key, task: task}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	results := make(map[K]R, len(tasks))
	var collectErr error
	var collectWg sync.WaitGroup
	collectWg.Add(1)

	go func() {
		defer collectWg.Done()
		for result := range resultChan {
			if result.err != nil {
				collectErr = result.err
				continue
			}
			results[result.key] = result.value
		}
	}()

	if err := g.Wait(); err != nil {
		close(resultChan)
		collectWg.Wait()
		return results, err
	}

	close(resultChan)
	collectWg.Wait()

	if collectErr != nil {
		return results, collectErr
	}
	return results, nil
}

type indexedTask[T any] struct {
	task  T
	index int
}

// worker drains the task channel until it closes or the context is done.
func (wp *WorkerPool[T, R]) worker(
	ctx context.Context,
	id int,
	taskChan <-chan indexedTask[T],
	resultChan chan<- Result[R],
	processFn ProcessFunc[T, R],
) error {
	if wp.pinWorkers {
		defer cpu.Pin(id)()
	}

	for {
		select {
		case task, ok := <-taskChan:
			if !ok {
				return nil
			}
			result, err := wp.runTask(ctx, task.task, processFn)
			select {
			case resultChan <- Result[R]{Value: result, Error: err, Index: task.index}:
			case <-ctx.Done():
				return ctx.Err()
			}
			if err != nil && !wp.continueOnError {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// runTask executes one task with rate limiting, hooks, panic recovery,
// and the configured retry policy.
func (wp *WorkerPool[T, R]) runTask(
	ctx context.Context,
	task T,
	processFn ProcessFunc[T, R],
) (result R, err error) {
	if wp.rateLimiter != nil {
		if werr := wp.rateLimiter.Wait(ctx); werr != nil {
			return result, werr
		}
	}

	if wp.beforeTaskStart != nil {
		wp.beforeTaskStart(task)
	}
	defer func() {
		if wp.onTaskEnd != nil {
			wp.onTaskEnd(task, result, err)
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("worker panic: %v\nstack trace:\n%s", r, buf[:n])
		}
	}()

	maxAttempts := max(wp.maxAttempts, 1)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := wp.backoff.Delay(attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return result, ctx.Err()
			}
		}

		result, err = processFn(ctx, task)
		if err == nil {
			return result, nil
		}

		if wp.onRetry != nil && attempt < maxAttempts-1 {
			wp.onRetry(task, attempt+1, err)
		}
	}

	return result, err
}
