package d3d

import (
	"fmt"
	"time"

	"golang.org/x/sys/windows"

	"github.com/gogpu/xrcomp/xrt"
)

// osEvent is an auto-reset Win32 event.
type osEvent struct {
	h windows.Handle
}

var _ Event = (*osEvent)(nil)

// NewEvent creates an unsignaled auto-reset OS event.
func NewEvent() (Event, error) {
	h, err := windows.CreateEvent(nil, 0, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("CreateEvent: %v: %w", err, xrt.ErrPlatform)
	}
	return &osEvent{h: h}, nil
}

func (e *osEvent) Wait(timeout time.Duration) (bool, error) {
	s, err := windows.WaitForSingleObject(e.h, TimeoutMilliseconds(timeout))
	switch s {
	case windows.WAIT_OBJECT_0:
		return true, nil
	case uint32(windows.WAIT_TIMEOUT):
		return false, nil
	}
	return false, fmt.Errorf("WaitForSingleObject: %v: %w", err, xrt.ErrPlatform)
}

func (e *osEvent) Close() error {
	if e.h == 0 {
		return nil
	}
	err := windows.CloseHandle(e.h)
	e.h = 0
	return err
}

// Sys returns the raw event handle for SetEventOnCompletion calls.
func (e *osEvent) Sys() uintptr { return uintptr(e.h) }
