package d3d12

import (
	"testing"

	"github.com/gogpu/xrcomp/xrt"
)

func TestAppResourceStateFromUsage(t *testing.T) {
	tests := []struct {
		bits xrt.SwapchainUsageBits
		want ResourceStates
	}{
		{xrt.SwapchainUsageColor, ResourceStateRenderTarget},
		{xrt.SwapchainUsageColor | xrt.SwapchainUsageSampled, ResourceStateRenderTarget},
		{xrt.SwapchainUsageDepthStencil, ResourceStateDepthWrite},
		{xrt.SwapchainUsageDepthStencil | xrt.SwapchainUsageSampled, ResourceStateDepthWrite},
		{0, ResourceStateRenderTarget},
	}
	for _, tt := range tests {
		if got := AppResourceStateFromUsage(tt.bits); got != tt.want {
			t.Errorf("AppResourceStateFromUsage(%#x) = %#x, want %#x", tt.bits, got, tt.want)
		}
	}
}
