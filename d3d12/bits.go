package d3d12

import "github.com/gogpu/xrcomp/xrt"

// compositorResourceState is the state images are left in for the native
// compositor. COMMON also satisfies the cross-device sharing rules.
const compositorResourceState = ResourceStateCommon

// AppResourceStateFromUsage picks the state the app renders in: depth
// swapchains are written as depth, everything else as a render target.
func AppResourceStateFromUsage(bits xrt.SwapchainUsageBits) ResourceStates {
	if bits&xrt.SwapchainUsageDepthStencil != 0 {
		return ResourceStateDepthWrite
	}
	return ResourceStateRenderTarget
}
