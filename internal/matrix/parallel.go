package matrix

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// DefaultParallelThreshold is the number of multiply-adds above which rows
// are split across goroutines.
const DefaultParallelThreshold = 1 << 16

var parallelThreshold atomic.Int64

func init() {
	parallelThreshold.Store(DefaultParallelThreshold)
}

// SetParallelThreshold sets the work size above which Multiply and the
// convolution functions run rows concurrently. Values below 1 force
// sequential execution.
func SetParallelThreshold(n int) {
	if n < 1 {
		n = 0
	}
	parallelThreshold.Store(int64(n))
}

// forRows calls fn over [0, rows) in contiguous chunks. Chunks run
// concurrently, at most GOMAXPROCS at a time, when work exceeds the threshold.
func forRows(rows, work int, fn func(lo, hi int)) {
	workers := runtime.GOMAXPROCS(0)
	limit := parallelThreshold.Load()
	if limit == 0 || rows < 2 || workers < 2 || int64(work) < limit {
		fn(0, rows)
		return
	}
	if workers > rows {
		workers = rows
	}
	chunk := (rows + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < rows; lo += chunk {
		lo := lo
		hi := min(lo+chunk, rows)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}
