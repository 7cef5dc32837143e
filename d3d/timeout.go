package d3d

import (
	"math"
	"time"

	"github.com/gogpu/xrcomp/xrt"
)

// InfiniteMilliseconds is the Win32 INFINITE wait sentinel.
const InfiniteMilliseconds = ^uint32(0)

// TimeoutMilliseconds converts a wait timeout to Win32 milliseconds.
// xrt.InfiniteTimeout maps to the INFINITE sentinel; everything else
// truncates to whole milliseconds and saturates below the sentinel so a
// huge finite timeout can never turn into an unbounded wait.
func TimeoutMilliseconds(timeout time.Duration) uint32 {
	if timeout == xrt.InfiniteTimeout {
		return InfiniteMilliseconds
	}
	if timeout <= 0 {
		return 0
	}
	ms := timeout.Milliseconds()
	if ms >= math.MaxUint32 {
		return InfiniteMilliseconds - 1
	}
	return uint32(ms)
}
