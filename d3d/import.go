package d3d

import (
	"fmt"

	"github.com/gogpu/xrcomp/xrt"
)

// ImportFromHandleDuplicates hands a set of shared image handles to the
// native compositor, duplicating every handle first so the caller keeps
// its own. On success the native compositor owns the duplicates; on any
// failure they are closed before returning and the caller's handles are
// untouched.
func ImportFromHandleDuplicates(
	native xrt.NativeCompositor,
	ops xrt.HandleOps,
	info xrt.SwapchainCreateInfo,
	handles []xrt.NativeHandle,
) (xrt.Swapchain, error) {
	images := make([]xrt.ImageNative, 0, len(handles))

	closeAll := func() {
		for _, img := range images {
			_ = ops.Close(img.Handle)
		}
	}

	for i, h := range handles {
		dup, err := ops.Duplicate(h)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("duplicating image handle %d: %w", i, err)
		}
		images = append(images, xrt.ImageNative{Handle: dup})
	}

	sc, err := native.ImportSwapchain(info, images)
	if err != nil {
		closeAll()
		return nil, fmt.Errorf("importing swapchain into native compositor: %w", err)
	}
	return sc, nil
}
