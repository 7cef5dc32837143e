package xrt

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// systemHandleOps implements HandleOps over the Win32 handle table.
type systemHandleOps struct{}

var _ HandleOps = systemHandleOps{}

// SystemHandles returns the process-global HandleOps.
func SystemHandles() HandleOps { return systemHandleOps{} }

func (systemHandleOps) Duplicate(h NativeHandle) (NativeHandle, error) {
	if !h.Valid() {
		return InvalidNativeHandle, fmt.Errorf("duplicate of invalid handle: %w", ErrPlatform)
	}
	proc := windows.CurrentProcess()
	var dup windows.Handle
	err := windows.DuplicateHandle(proc, windows.Handle(h), proc, &dup, 0, false, windows.DUPLICATE_SAME_ACCESS)
	if err != nil {
		return InvalidNativeHandle, fmt.Errorf("DuplicateHandle: %v: %w", err, ErrPlatform)
	}
	return NativeHandle(dup), nil
}

func (systemHandleOps) Close(h NativeHandle) error {
	if !h.Valid() {
		return fmt.Errorf("close of invalid handle: %w", ErrPlatform)
	}
	if err := windows.CloseHandle(windows.Handle(h)); err != nil {
		return fmt.Errorf("CloseHandle: %v: %w", err, ErrPlatform)
	}
	return nil
}
