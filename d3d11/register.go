package d3d11

import (
	"fmt"
	"runtime"

	"github.com/gogpu/xrcomp"
	"github.com/gogpu/xrcomp/xrt"
)

const bridgePriority = 50

// DeviceContext is what a BridgeConfig.Device must carry to select this
// bridge through the registry.
type DeviceContext struct {
	Device  Device
	Context Context
}

func init() {
	xrcomp.Register("d3d11", bridgePriority, newBridge, func() bool {
		return runtime.GOOS == "windows"
	})
}

func newBridge(cfg xrcomp.BridgeConfig) (xrt.Compositor, error) {
	dc, ok := cfg.Device.(DeviceContext)
	if !ok {
		return nil, fmt.Errorf("d3d11: bridge needs a d3d11.DeviceContext, got %T", cfg.Device)
	}
	return NewCompositor(CompositorConfig{
		Native:  cfg.Native,
		Device:  dc.Device,
		Context: dc.Context,
		Options: cfg.Options,
	})
}
