package d3d11

import (
	"errors"
	"fmt"

	"github.com/gogpu/xrcomp"
	"github.com/gogpu/xrcomp/dxgi"
)

// DXGI_ERROR_SDK_COMPONENT_MISSING, returned when the debug layer is
// requested but the SDK layers are not installed.
const errSDKComponentMissing uint32 = 0x887a002d

// deviceCreator is the platform call that actually creates a device, split
// out so the fallback logic is testable without D3D.
type deviceCreator func(flags CreateFlags, levels []FeatureLevel) (Device, Context, error)

var featureLevels = []FeatureLevel{FeatureLevel11_1, FeatureLevel11_0}

// createDeviceWithFallback creates a device with BGRA support and,
// optionally, the debug layer. A missing debug layer is not fatal: the
// create is retried without it.
func createDeviceWithFallback(create deviceCreator, debug bool) (Device, Context, error) {
	flags := CreateBGRASupport
	if debug {
		flags |= CreateDebug
	}
	dev, ctx, err := create(flags, featureLevels)
	if err != nil && debug && isSDKComponentMissing(err) {
		xrcomp.Logger().Debug("debug layer not installed, retrying device creation without it")
		dev, ctx, err = create(flags&^CreateDebug, featureLevels)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("creating D3D11 device: %w", err)
	}
	return dev, ctx, nil
}

func isSDKComponentMissing(err error) bool {
	var ec dxgi.ErrorCode
	return errors.As(err, &ec) && ec.Code == errSDKComponentMissing
}
