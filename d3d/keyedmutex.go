// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package d3d

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/xrcomp"
	"github.com/gogpu/xrcomp/xrt"
)

// 0 is special: it matches any release key, which is what both sides of a
// shared keyed-mutex image use.
const keyedMutexKey = 0

// AcquireStatus is the outcome of a keyed mutex acquire.
type AcquireStatus uint8

const (
	// AcquireOK means the mutex is now held.
	AcquireOK AcquireStatus = iota

	// AcquireTimeout means the wait elapsed without acquiring.
	AcquireTimeout

	// AcquireAbandoned means the previous holder died with the mutex
	// held, leaving the image contents in an inconsistent state.
	AcquireAbandoned
)

// KeyedMutex serializes cross-device access to one shared image.
type KeyedMutex interface {
	// AcquireSync takes the mutex for key, waiting at most timeoutMS
	// Win32 milliseconds (InfiniteMilliseconds blocks).
	AcquireSync(key uint64, timeoutMS uint32) (AcquireStatus, error)

	// ReleaseSync releases the mutex for key.
	ReleaseSync(key uint64) error

	// Close releases the underlying interface.
	Close() error
}

// KeyedMutexCollection tracks keyed mutex ownership per swapchain image.
// A swapchain image may be acquired at most once before release;
// the collection enforces that so an application bug surfaces as a clean
// error instead of a device hang.
type KeyedMutexCollection struct {
	mutexes  []KeyedMutex
	acquired []bool
	log      *slog.Logger
}

// NewKeyedMutexCollection wraps one keyed mutex per swapchain image, in
// image index order. All mutexes start released. Records go to log; nil
// means the process logger.
func NewKeyedMutexCollection(mutexes []KeyedMutex, log *slog.Logger) *KeyedMutexCollection {
	if log == nil {
		log = xrcomp.Logger()
	}
	return &KeyedMutexCollection{
		mutexes:  mutexes,
		acquired: make([]bool, len(mutexes)),
		log:      log,
	}
}

// WaitKeyedMutex acquires the mutex for the image at index, waiting at
// most timeout. Acquiring an image that is already held returns
// xrt.ErrNoImageAvailable; a timed out wait returns xrt.ErrTimeout; an
// abandoned mutex returns an error wrapping xrt.ErrPlatform because the
// image contents can no longer be trusted.
func (k *KeyedMutexCollection) WaitKeyedMutex(index uint32, timeout time.Duration) error {
	if k.acquired[index] {
		k.log.Warn("will not acquire the keyed mutex, it was already acquired", "index", index)
		return xrt.ErrNoImageAvailable
	}

	status, err := k.mutexes[index].AcquireSync(keyedMutexKey, TimeoutMilliseconds(timeout))
	if err != nil {
		return fmt.Errorf("acquiring keyed mutex for image %d: %v: %w", index, err, xrt.ErrPlatform)
	}
	switch status {
	case AcquireAbandoned:
		k.log.Error("keyed mutex abandoned, image state inconsistent", "index", index)
		return fmt.Errorf("keyed mutex for image %d abandoned: %w", index, xrt.ErrPlatform)
	case AcquireTimeout:
		return xrt.ErrTimeout
	}
	k.acquired[index] = true
	return nil
}

// ReleaseKeyedMutex releases the mutex for the image at index. Releasing
// an image that is not held is an error.
func (k *KeyedMutexCollection) ReleaseKeyedMutex(index uint32) error {
	if !k.acquired[index] {
		k.log.Warn("will not release the keyed mutex, it was not acquired", "index", index)
		return fmt.Errorf("keyed mutex for image %d not acquired: %w", index, xrt.ErrPlatform)
	}
	if err := k.mutexes[index].ReleaseSync(keyedMutexKey); err != nil {
		return fmt.Errorf("releasing keyed mutex for image %d: %v: %w", index, err, xrt.ErrPlatform)
	}
	k.acquired[index] = false
	return nil
}

// Close releases every mutex interface. Held mutexes are not released
// first; the owning device going away releases them with abandonment
// semantics, which is the honest signal to the other side.
func (k *KeyedMutexCollection) Close() error {
	var firstErr error
	for _, m := range k.mutexes {
		if err := m.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	k.mutexes = nil
	k.acquired = nil
	return firstErr
}
