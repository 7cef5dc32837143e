// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package d3d

import (
	"fmt"
	"time"

	"github.com/gogpu/xrcomp/xrt"
)

// Fence is the CPU-visible face of a D3D fence (timeline semaphore).
type Fence interface {
	// CompletedValue returns the last value the fence completed.
	CompletedValue() (uint64, error)

	// SetEventOnCompletion arms ev to signal when the fence reaches
	// value. If the fence is already there, ev signals immediately.
	SetEventOnCompletion(value uint64, ev Event) error
}

// Event is a waitable OS event.
type Event interface {
	// Wait blocks until the event signals or the timeout elapses.
	// It returns false on timeout.
	Wait(timeout time.Duration) (bool, error)

	Close() error
}

// WaitOnFenceWithTimeout blocks until the fence reaches value or the
// timeout elapses, returning xrt.ErrTimeout in the latter case.
//
// The event is armed before the completed value is checked: if the fence
// crosses value between the check and the wait, the armed event still
// wakes the waiter, so no completion can be missed.
func WaitOnFenceWithTimeout(f Fence, ev Event, value uint64, timeout time.Duration) error {
	if err := f.SetEventOnCompletion(value, ev); err != nil {
		return fmt.Errorf("arming fence completion event: %w", err)
	}
	completed, err := f.CompletedValue()
	if err != nil {
		return fmt.Errorf("reading fence completed value: %w", err)
	}
	if value <= completed {
		// Already reached this value.
		return nil
	}
	ok, err := ev.Wait(timeout)
	if err != nil {
		return fmt.Errorf("waiting for fence completion event: %w", err)
	}
	if !ok {
		return xrt.ErrTimeout
	}
	return nil
}
