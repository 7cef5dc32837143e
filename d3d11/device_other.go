//go:build !windows

package d3d11

import (
	"errors"

	"github.com/gogpu/xrcomp/dxgi"
)

// NewDevice creates a hardware device on adapter. D3D11 only exists on
// Windows; elsewhere this always fails.
func NewDevice(adapter dxgi.Adapter, debug bool) (Device, Context, error) {
	return nil, nil, errors.New("d3d11: not supported on this platform")
}
