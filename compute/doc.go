// Package compute runs pure CPU-bound functions over batches of inputs
// using a bounded worker pool, memoizing results per distinct input in a
// caller-owned LRU cache.
//
//	memo := compute.NewLRUCache(1000)
//	r := compute.NewRunner(compute.ExpensiveSum, memo)
//	results, err := r.All(ctx, []int{42, 1337, 2025})
//
// Because the function is pure, repeated inputs hit the cache instead of
// recomputing, and concurrent requests for the same input share a single
// in-flight computation.
package compute
