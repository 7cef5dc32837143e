//go:build !windows

package xrt

import "fmt"

type systemHandleOps struct{}

var _ HandleOps = systemHandleOps{}

// SystemHandles returns the process-global HandleOps. Shared graphics
// buffer handles only exist on Windows; elsewhere every operation fails.
func SystemHandles() HandleOps { return systemHandleOps{} }

func (systemHandleOps) Duplicate(NativeHandle) (NativeHandle, error) {
	return InvalidNativeHandle, fmt.Errorf("shared buffer handles unsupported on this platform: %w", ErrPlatform)
}

func (systemHandleOps) Close(NativeHandle) error {
	return fmt.Errorf("shared buffer handles unsupported on this platform: %w", ErrPlatform)
}
