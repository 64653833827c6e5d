package pool

import "context"

// ProcessFunc defines how individual tasks are processed in the worker pool.
// It receives a context for cancellation/timeout control and a task of type T,
// returning a result of type R. A returned error is collected by the pool and,
// unless WithContinueOnError is set, halts further processing.
type ProcessFunc[T any, R any] func(ctx context.Context, task T) (R, error)

// Result is the outcome of processing a single task, carrying the value,
// any error, and the task's original position in the input slice.
type Result[R any] struct {
	Value R
	Error error
	Index int
}
