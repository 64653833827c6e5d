package pool

import "fmt"

// checkHooks validates user-supplied hooks against the pool's task and result
// types and returns typed wrappers. The options record the hook's type via
// fmt.Sprintf("%T", ...); a mismatch would otherwise surface as a confusing
// assertion panic deep inside a worker, so it is reported up front instead.
//
// Panics if a hook was registered for a different task or result type than
// the pool processes.
func checkHooks[T any, R any](cfg *workerPoolConfig) (
	beforeTaskStart func(T),
	onTaskEnd func(T, R, error),
	onRetry func(T, int, error),
) {
	var zeroT T
	var zeroR R
	taskType := fmt.Sprintf("%T", zeroT)
	resultType := fmt.Sprintf("%T", zeroR)

	if cfg.beforeTaskStart != nil {
		if cfg.beforeTaskStartType != taskType {
			panic(fmt.Sprintf("WithBeforeTaskStart hook expects task type %s, but pool processes type %s",
				cfg.beforeTaskStartType, taskType))
		}
		beforeTaskStart = func(task T) {
			cfg.beforeTaskStart(task)
		}
	}

	if cfg.onTaskEnd != nil {
		if cfg.onTaskEndTaskType != taskType {
			panic(fmt.Sprintf("WithOnTaskEnd hook expects task type %s, but pool processes type %s",
				cfg.onTaskEndTaskType, taskType))
		}
		if cfg.onTaskEndResultType != resultType {
			panic(fmt.Sprintf("WithOnTaskEnd hook expects result type %s, but pool produces type %s",
				cfg.onTaskEndResultType, resultType))
		}
		onTaskEnd = func(task T, result R, err error) {
			cfg.onTaskEnd(task, result, err)
		}
	}

	if cfg.onRetry != nil {
		if cfg.onRetryType != taskType {
			panic(fmt.Sprintf("WithOnEachAttempt hook expects task type %s, but pool processes type %s",
				cfg.onRetryType, taskType))
		}
		onRetry = func(task T, attempt int, err error) {
			cfg.onRetry(task, attempt, err)
		}
	}

	return beforeTaskStart, onTaskEnd, onRetry
}
