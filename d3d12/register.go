package d3d12

import (
	"fmt"
	"runtime"

	"github.com/gogpu/xrcomp"
	"github.com/gogpu/xrcomp/xrt"
)

const bridgePriority = 100

// DeviceQueue is what a BridgeConfig.Device must carry to select this
// bridge through the registry.
type DeviceQueue struct {
	Device Device
	Queue  Queue
}

func init() {
	xrcomp.Register("d3d12", bridgePriority, newBridge, func() bool {
		return runtime.GOOS == "windows"
	})
}

func newBridge(cfg xrcomp.BridgeConfig) (xrt.Compositor, error) {
	dq, ok := cfg.Device.(DeviceQueue)
	if !ok {
		return nil, fmt.Errorf("d3d12: bridge needs a d3d12.DeviceQueue, got %T", cfg.Device)
	}
	return NewCompositor(CompositorConfig{
		Native:  cfg.Native,
		Device:  dq.Device,
		Queue:   dq.Queue,
		Options: cfg.Options,
	})
}
