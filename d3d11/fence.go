package d3d11

import (
	"fmt"

	"github.com/gogpu/xrcomp/xrt"
)

// CreateSharedFence creates a fence at value 0 that can be imported by
// another device or process. Set crossAdapter when the importing device
// may live on a different adapter. The caller owns the returned handle.
func CreateSharedFence(dev Device, crossAdapter bool) (Fence, xrt.GraphicsSyncHandle, error) {
	flags := FenceFlagShared
	if crossAdapter {
		flags |= FenceFlagSharedCrossAdapter
	}
	fence, err := dev.CreateFence(0, flags)
	if err != nil {
		return nil, xrt.InvalidSyncHandle, fmt.Errorf("creating shared fence: %w", err)
	}
	handle, err := fence.CreateSharedHandle()
	if err != nil {
		fence.Release()
		return nil, xrt.InvalidSyncHandle, fmt.Errorf("sharing fence: %w", err)
	}
	return fence, handle, nil
}
