// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package d3d12 provides the Direct3D 12 client compositor bridge.
//
// D3D12 has no shareable-texture allocator of its own here; images are
// allocated by a D3D11 device on the same adapter and imported, which is
// also what makes the keyed mutexes available.
package d3d12

import (
	"github.com/gogpu/xrcomp/d3d"
	"github.com/gogpu/xrcomp/dxgi"
	"github.com/gogpu/xrcomp/xrt"
)

// ResourceStates is a D3D12 resource state mask.
type ResourceStates uint32

const (
	ResourceStateCommon       ResourceStates = 0x00
	ResourceStateRenderTarget ResourceStates = 0x04
	ResourceStateDepthWrite   ResourceStates = 0x10
)

// FenceFlags select fence creation behavior. Imported fences report the
// flags they were created with.
type FenceFlags uint32

const (
	FenceFlagNone               FenceFlags = 0x0
	FenceFlagShared             FenceFlags = 0x1
	FenceFlagSharedCrossAdapter FenceFlags = 0x2
	FenceFlagNonMonitored       FenceFlags = 0x4
)

// CommandListType selects a queue/list class.
type CommandListType uint32

const CommandListTypeDirect CommandListType = 0

// Device is the slice of ID3D12Device the bridge needs.
type Device interface {
	// CreateFence creates a fence owned by this device.
	CreateFence(initial uint64, flags FenceFlags) (Fence, error)

	// OpenSharedHandleResource imports a shared texture. The caller
	// keeps ownership of the handle.
	OpenSharedHandleResource(h xrt.NativeHandle) (Resource, error)

	// OpenSharedHandleFence imports a shared fence. The caller keeps
	// ownership of the handle.
	OpenSharedHandleFence(h xrt.GraphicsSyncHandle) (Fence, error)

	// CreateCommandAllocator creates an allocator for t.
	CreateCommandAllocator(t CommandListType) (CommandAllocator, error)

	// CreateCommandList creates a direct command list in the recording
	// state, backed by alloc.
	CreateCommandList(alloc CommandAllocator) (CommandList, error)

	// AdapterLUID identifies the adapter the device was created on.
	AdapterLUID() (dxgi.LUID, error)

	Release()
}

// Queue is the app's direct command queue.
type Queue interface {
	ExecuteCommandLists(lists []CommandList) error
	Release()
}

// CommandAllocator backs command list storage.
type CommandAllocator interface {
	Release()
}

// CommandList records state transition barriers.
type CommandList interface {
	// TransitionBarrier records a transition of r's subresources.
	TransitionBarrier(r Resource, before, after ResourceStates) error

	// Close ends recording.
	Close() error

	Release()
}

// Resource is an imported texture.
type Resource interface {
	Release()
}

// Fence is a D3D12 fence. It satisfies d3d.Fence for CPU waits and can
// also be signaled from the CPU.
type Fence interface {
	d3d.Fence

	// Signal sets the fence to value from the CPU.
	Signal(value uint64) error

	// CreationFlags reports the flags the fence was created with, as far
	// as the runtime exposes them.
	CreationFlags() FenceFlags

	Release()
}
