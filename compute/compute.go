package compute

import (
	"context"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/utkarsh5026/fetchme/internal/cache"
	"github.com/utkarsh5026/fetchme/pool"
)

// DefaultCacheCapacity bounds the memo cache when the caller does not
// size it explicitly.
const DefaultCacheCapacity = cache.DefaultCapacity

// ExpensiveSum is a deterministic CPU-heavy kernel:
// the sum of (x*i) mod 97 for i in [1, 99999].
func ExpensiveSum(x int) int {
	total := 0
	for i := 1; i < 100_000; i++ {
		total += (x * i) % 97
	}
	return total
}

// Cache memoizes computed results per input. Implementations must be safe
// for concurrent use.
type Cache interface {
	Get(key int) (int, bool)
	Put(key int, value int)
}

// NewLRUCache returns a Cache bounded at capacity entries with
// least-recently-used eviction. A non-positive capacity selects
// DefaultCacheCapacity.
func NewLRUCache(capacity int) Cache {
	return cache.NewLRU[int, int](capacity)
}

// Runner executes a pure function over input batches on a worker pool,
// consulting the memo cache before computing. The cache is owned by the
// caller and may be shared between runners.
type Runner struct {
	fn    func(int) int
	memo  Cache
	group singleflight.Group
	pool  *pool.WorkerPool[int, int]
}

// NewRunner creates a Runner for fn backed by memo. A nil memo gets a
// fresh LRU cache of DefaultCacheCapacity. Pool options (worker count,
// CPU affinity, hooks) are passed through.
func NewRunner(fn func(int) int, memo Cache, opts ...pool.WorkerPoolOption) *Runner {
	if memo == nil {
		memo = NewLRUCache(DefaultCacheCapacity)
	}
	return &Runner{
		fn:   fn,
		memo: memo,
		pool: pool.NewWorkerPool[int, int](opts...),
	}
}

// All computes fn over every distinct input and returns results keyed by
// input; duplicates collapse to a single entry. The function itself has no
// error path, so a returned error means the pool aborted (cancellation or
// a panic inside fn).
func (r *Runner) All(ctx context.Context, inputs []int) (map[int]int, error) {
	if len(inputs) == 0 {
		return map[int]int{}, nil
	}

	tasks := make(map[int]int, len(inputs))
	for _, x := range inputs {
		tasks[x] = x
	}

	return pool.ProcessKeyed(ctx, r.pool, tasks, func(ctx context.Context, x int) (int, error) {
		return r.compute(x), nil
	})
}

// One computes fn for a single input through the cache.
func (r *Runner) One(x int) int {
	return r.compute(x)
}

// compute consults the cache, then deduplicates concurrent computations of
// the same input through singleflight so each distinct value is computed
// at most once at a time.
func (r *Runner) compute(x int) int {
	if v, ok := r.memo.Get(x); ok {
		return v
	}

	v, _, _ := r.group.Do(strconv.Itoa(x), func() (any, error) {
		if v, ok := r.memo.Get(x); ok {
			return v, nil
		}
		v := r.fn(x)
		r.memo.Put(x, v)
		return v, nil
	})

	return v.(int)
}
