package d3d11

import "github.com/gogpu/xrcomp/xrt"

// BindFlagsFromUsage translates swapchain usage bits to D3D11 bind flags.
// Transfer bits have no D3D11 bind equivalent; copies are always legal.
func BindFlagsFromUsage(bits xrt.SwapchainUsageBits) BindFlags {
	var f BindFlags
	if bits&xrt.SwapchainUsageColor != 0 {
		f |= BindRenderTarget
	}
	if bits&xrt.SwapchainUsageDepthStencil != 0 {
		f |= BindDepthStencil
	}
	if bits&xrt.SwapchainUsageUnorderedAccess != 0 {
		f |= BindUnorderedAccess
	}
	if bits&xrt.SwapchainUsageSampled != 0 {
		f |= BindShaderResource
	}
	return f
}
