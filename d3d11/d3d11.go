// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package d3d11 provides the Direct3D 11 client compositor bridge and the
// D3D11-backed shared image allocator the d3d12 bridge also uses.
//
// The package is split the usual way: interfaces and orchestration here,
// COM implementations in files built only on Windows.
package d3d11

import (
	"github.com/gogpu/xrcomp/d3d"
	"github.com/gogpu/xrcomp/dxgi"
	"github.com/gogpu/xrcomp/xrt"
)

// CreateFlags select D3D11 device creation behavior.
type CreateFlags uint32

const (
	// CreateDebug enables the SDK debug layer.
	CreateDebug CreateFlags = 0x02

	// CreateBGRASupport enables BGRA formats, required for sharing with
	// 2D APIs.
	CreateBGRASupport CreateFlags = 0x20
)

// FeatureLevel is a D3D feature level.
type FeatureLevel uint32

const (
	FeatureLevel11_0 FeatureLevel = 0xb000
	FeatureLevel11_1 FeatureLevel = 0xb100
)

// BindFlags select pipeline stages a texture can bind to.
type BindFlags uint32

const (
	BindShaderResource  BindFlags = 0x08
	BindRenderTarget    BindFlags = 0x20
	BindDepthStencil    BindFlags = 0x40
	BindUnorderedAccess BindFlags = 0x80
)

// MiscFlags are resource creation options.
type MiscFlags uint32

const (
	MiscShared           MiscFlags = 0x002
	MiscSharedKeyedMutex MiscFlags = 0x100
	MiscSharedNTHandle   MiscFlags = 0x800
)

// FenceFlags select fence creation behavior.
type FenceFlags uint32

const (
	FenceFlagNone               FenceFlags = 0x0
	FenceFlagShared             FenceFlags = 0x2
	FenceFlagSharedCrossAdapter FenceFlags = 0x4
)

// Texture2DDesc describes a 2D texture allocation.
type Texture2DDesc struct {
	Width         uint32
	Height        uint32
	MipLevels     uint32
	ArraySize     uint32
	Format        dxgi.Format
	SampleCount   uint32
	SampleQuality uint32
	BindFlags     BindFlags
	MiscFlags     MiscFlags
}

// Device is the slice of ID3D11Device5 the bridges need.
type Device interface {
	// CreateTexture2D allocates a texture.
	CreateTexture2D(desc *Texture2DDesc) (Texture2D, error)

	// OpenSharedResource imports a texture shared from another device.
	// The caller keeps ownership of the handle.
	OpenSharedResource(h xrt.NativeHandle) (Texture2D, error)

	// CreateFence creates a fence owned by this device.
	CreateFence(initial uint64, flags FenceFlags) (Fence, error)

	// OpenSharedFence imports a fence shared from another device or
	// process. The caller keeps ownership of the handle.
	OpenSharedFence(h xrt.GraphicsSyncHandle) (Fence, error)

	// Adapter returns the adapter the device was created on. The caller
	// releases it.
	Adapter() (dxgi.Adapter, error)

	Release()
}

// Context is the slice of ID3D11DeviceContext4 the bridges need.
type Context interface {
	// Signal sets the fence to value from the GPU timeline.
	Signal(f Fence, value uint64) error

	// Wait makes the GPU timeline wait for the fence to reach value.
	Wait(f Fence, value uint64) error

	Release()
}

// Texture2D is one allocated or imported texture.
type Texture2D interface {
	// CreateSharedHandle exports the texture as an NT handle the caller
	// owns.
	CreateSharedHandle() (xrt.NativeHandle, error)

	// KeyedMutex returns the texture's keyed mutex interface.
	KeyedMutex() (d3d.KeyedMutex, error)

	Release()
}

// Fence is a D3D11 fence. It satisfies d3d.Fence for CPU waits.
type Fence interface {
	d3d.Fence

	// CreateSharedHandle exports the fence as an NT handle the caller
	// owns.
	CreateSharedHandle() (xrt.GraphicsSyncHandle, error)

	Release()
}
