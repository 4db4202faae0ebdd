package rt

import "time"

// epoch is the reference point for CPUTicks; time.Since against it reads
// Go's monotonic clock, so ticks never step backwards with the wall clock.
var epoch = time.Now()

// CPUTicks returns a monotonic tick count used only to compute relative
// deltas for block-event profiling. The real runtime's cputicks reads a
// CPU cycle counter; monotonic nanoseconds since package initialization
// serve the same purpose here since nothing in this package compares
// ticks across processes or cares about their absolute scale.
func CPUTicks() int64 {
	return int64(time.Since(epoch))
}
