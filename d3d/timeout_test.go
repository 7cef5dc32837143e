package d3d

import (
	"testing"
	"time"

	"github.com/gogpu/xrcomp/xrt"
)

func TestTimeoutMilliseconds(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    uint32
	}{
		{"infinite sentinel", xrt.InfiniteTimeout, InfiniteMilliseconds},
		{"zero", 0, 0},
		{"negative", -time.Second, 0},
		{"sub-millisecond truncates", 900 * time.Microsecond, 0},
		{"one second", time.Second, 1000},
		{"truncates to whole ms", 1500*time.Millisecond + 700*time.Microsecond, 1500},
		{"huge finite saturates below INFINITE", 100 * 24 * 365 * time.Hour, InfiniteMilliseconds - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TimeoutMilliseconds(tt.timeout); got != tt.want {
				t.Errorf("TimeoutMilliseconds(%v) = %d, want %d", tt.timeout, got, tt.want)
			}
		})
	}
}
