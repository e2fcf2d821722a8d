package dynamo

import (
	"runtime"
	"sync"
)

// ParallelFor executes fn over disjoint chunks of [0, n) on up to
// workers goroutines. workers <= 0 selects GOMAXPROCS. Chunks never
// overlap, so fn may write to per-index slots without locking.
func ParallelFor(n, workers int, fn func(start, end int)) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if n <= 1 || workers <= 1 {
		fn(0, n)
		return
	}
	if workers > n {
		workers = n
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}

		go func(s, e int) {
			defer wg.Done()
			if s < e {
				fn(s, e)
			}
		}(start, end)
	}

	wg.Wait()
}
