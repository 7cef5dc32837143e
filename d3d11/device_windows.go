// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package d3d11

import (
	"errors"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/gogpu/xrcomp/d3d"
	"github.com/gogpu/xrcomp/dxgi"
	"github.com/gogpu/xrcomp/xrt"
)

var (
	d3d11DLL           = windows.NewLazySystemDLL("d3d11.dll")
	_D3D11CreateDevice = d3d11DLL.NewProc("D3D11CreateDevice")
)

// NewDevice creates a hardware device on adapter, or on the default
// adapter when adapter is nil. A requested but unavailable debug layer is
// retried without.
func NewDevice(adapter dxgi.Adapter, debug bool) (Device, Context, error) {
	var raw uintptr
	if adapter != nil {
		rr, ok := adapter.(interface{ Raw() uintptr })
		if !ok {
			return nil, nil, errors.New("d3d11: adapter does not expose a raw IDXGIAdapter")
		}
		raw = rr.Raw()
	}
	return createDeviceWithFallback(func(flags CreateFlags, levels []FeatureLevel) (Device, Context, error) {
		return createDevice(raw, flags, levels)
	}, debug)
}

func createDevice(adapter uintptr, flags CreateFlags, levels []FeatureLevel) (Device, Context, error) {
	// With an explicit adapter the driver type must be UNKNOWN.
	driverType := uintptr(driverTypeHardware)
	if adapter != 0 {
		driverType = driverTypeUnknown
	}

	var (
		base    *iUnknown
		baseCtx *iUnknown
		level   uint32
	)
	r, _, _ := _D3D11CreateDevice.Call(
		adapter,
		driverType,
		0, // no software rasterizer module
		uintptr(flags),
		uintptr(unsafe.Pointer(&levels[0])),
		uintptr(len(levels)),
		sdkVersion,
		uintptr(unsafe.Pointer(&base)),
		uintptr(unsafe.Pointer(&level)),
		uintptr(unsafe.Pointer(&baseCtx)),
	)
	if r != 0 {
		return nil, nil, dxgi.ErrorCode{Name: "D3D11CreateDevice", Code: uint32(r)}
	}
	defer release(base)
	defer release(baseCtx)

	var d5 *iD3D11Device5
	r, _, _ = syscall.SyscallN(base.vtbl.QueryInterface,
		uintptr(unsafe.Pointer(base)),
		uintptr(unsafe.Pointer(&iidID3D11Device5)),
		uintptr(unsafe.Pointer(&d5)),
	)
	if r != 0 {
		return nil, nil, dxgi.ErrorCode{Name: "ID3D11Device5 unavailable", Code: uint32(r)}
	}
	var c4 *iD3D11DeviceContext4
	r, _, _ = syscall.SyscallN(baseCtx.vtbl.QueryInterface,
		uintptr(unsafe.Pointer(baseCtx)),
		uintptr(unsafe.Pointer(&iidID3D11DeviceContext4)),
		uintptr(unsafe.Pointer(&c4)),
	)
	if r != 0 {
		syscall.SyscallN(d5.vtbl.Release, uintptr(unsafe.Pointer(d5)))
		return nil, nil, dxgi.ErrorCode{Name: "ID3D11DeviceContext4 unavailable", Code: uint32(r)}
	}
	return &comDevice{d: d5}, &comContext{c: c4}, nil
}

func release(u *iUnknown) {
	if u != nil {
		syscall.SyscallN(u.vtbl.Release, uintptr(unsafe.Pointer(u)))
	}
}

// comDevice wraps ID3D11Device5.
type comDevice struct {
	d *iD3D11Device5
}

var _ Device = (*comDevice)(nil)

func (c *comDevice) CreateTexture2D(desc *Texture2DDesc) (Texture2D, error) {
	d := texture2dDesc{
		Width:         desc.Width,
		Height:        desc.Height,
		MipLevels:     desc.MipLevels,
		ArraySize:     desc.ArraySize,
		Format:        uint32(desc.Format),
		SampleCount:   desc.SampleCount,
		SampleQuality: desc.SampleQuality,
		BindFlags:     uint32(desc.BindFlags),
		MiscFlags:     uint32(desc.MiscFlags),
	}
	var tex *iUnknown
	r, _, _ := syscall.SyscallN(c.d.vtbl.CreateTexture2D,
		uintptr(unsafe.Pointer(c.d)),
		uintptr(unsafe.Pointer(&d)),
		0, // no initial data
		uintptr(unsafe.Pointer(&tex)),
	)
	if r != 0 {
		return nil, dxgi.ErrorCode{Name: "ID3D11Device::CreateTexture2D", Code: uint32(r)}
	}
	return &comTexture{t: tex}, nil
}

func (c *comDevice) OpenSharedResource(h xrt.NativeHandle) (Texture2D, error) {
	var tex *iUnknown
	r, _, _ := syscall.SyscallN(c.d.vtbl.OpenSharedResource1,
		uintptr(unsafe.Pointer(c.d)),
		uintptr(h),
		uintptr(unsafe.Pointer(&iidID3D11Texture2D)),
		uintptr(unsafe.Pointer(&tex)),
	)
	if r != 0 {
		return nil, dxgi.ErrorCode{Name: "ID3D11Device1::OpenSharedResource1", Code: uint32(r)}
	}
	return &comTexture{t: tex}, nil
}

func (c *comDevice) CreateFence(initial uint64, flags FenceFlags) (Fence, error) {
	var f *iD3D11Fence
	r, _, _ := syscall.SyscallN(c.d.vtbl.CreateFence,
		uintptr(unsafe.Pointer(c.d)),
		uintptr(initial),
		uintptr(flags),
		uintptr(unsafe.Pointer(&iidID3D11Fence)),
		uintptr(unsafe.Pointer(&f)),
	)
	if r != 0 {
		return nil, dxgi.ErrorCode{Name: "ID3D11Device5::CreateFence", Code: uint32(r)}
	}
	return &comFence{f: f}, nil
}

func (c *comDevice) OpenSharedFence(h xrt.GraphicsSyncHandle) (Fence, error) {
	var f *iD3D11Fence
	r, _, _ := syscall.SyscallN(c.d.vtbl.OpenSharedFence,
		uintptr(unsafe.Pointer(c.d)),
		uintptr(h),
		uintptr(unsafe.Pointer(&iidID3D11Fence)),
		uintptr(unsafe.Pointer(&f)),
	)
	if r != 0 {
		return nil, dxgi.ErrorCode{Name: "ID3D11Device5::OpenSharedFence", Code: uint32(r)}
	}
	return &comFence{f: f}, nil
}

func (c *comDevice) Adapter() (dxgi.Adapter, error) {
	var dxd *iDXGIDevice
	r, _, _ := syscall.SyscallN(c.d.vtbl.QueryInterface,
		uintptr(unsafe.Pointer(c.d)),
		uintptr(unsafe.Pointer(&iidIDXGIDevice)),
		uintptr(unsafe.Pointer(&dxd)),
	)
	if r != 0 {
		return nil, dxgi.ErrorCode{Name: "IDXGIDevice unavailable", Code: uint32(r)}
	}
	defer syscall.SyscallN(dxd.vtbl.Release, uintptr(unsafe.Pointer(dxd)))

	var base *iUnknown
	r, _, _ = syscall.SyscallN(dxd.vtbl.GetAdapter,
		uintptr(unsafe.Pointer(dxd)),
		uintptr(unsafe.Pointer(&base)),
	)
	if r != 0 {
		return nil, dxgi.ErrorCode{Name: "IDXGIDevice::GetAdapter", Code: uint32(r)}
	}
	defer release(base)

	var a1 uintptr
	r, _, _ = syscall.SyscallN(base.vtbl.QueryInterface,
		uintptr(unsafe.Pointer(base)),
		uintptr(unsafe.Pointer(dxgi.IIDAdapter1())),
		uintptr(unsafe.Pointer(&a1)),
	)
	if r != 0 {
		return nil, dxgi.ErrorCode{Name: "IDXGIAdapter1 unavailable", Code: uint32(r)}
	}
	return dxgi.AdapterFromRaw(a1), nil
}

func (c *comDevice) Release() {
	if c.d != nil {
		syscall.SyscallN(c.d.vtbl.Release, uintptr(unsafe.Pointer(c.d)))
		c.d = nil
	}
}

// comContext wraps ID3D11DeviceContext4.
type comContext struct {
	c *iD3D11DeviceContext4
}

var _ Context = (*comContext)(nil)

func (c *comContext) Signal(f Fence, value uint64) error {
	cf, err := comFenceOf(f)
	if err != nil {
		return err
	}
	r, _, _ := syscall.SyscallN(c.c.vtbl.Signal,
		uintptr(unsafe.Pointer(c.c)),
		uintptr(unsafe.Pointer(cf.f)),
		uintptr(value),
	)
	if r != 0 {
		return dxgi.ErrorCode{Name: "ID3D11DeviceContext4::Signal", Code: uint32(r)}
	}
	return nil
}

func (c *comContext) Wait(f Fence, value uint64) error {
	cf, err := comFenceOf(f)
	if err != nil {
		return err
	}
	r, _, _ := syscall.SyscallN(c.c.vtbl.Wait,
		uintptr(unsafe.Pointer(c.c)),
		uintptr(unsafe.Pointer(cf.f)),
		uintptr(value),
	)
	if r != 0 {
		return dxgi.ErrorCode{Name: "ID3D11DeviceContext4::Wait", Code: uint32(r)}
	}
	return nil
}

func (c *comContext) Release() {
	if c.c != nil {
		syscall.SyscallN(c.c.vtbl.Release, uintptr(unsafe.Pointer(c.c)))
		c.c = nil
	}
}

func comFenceOf(f Fence) (*comFence, error) {
	cf, ok := f.(*comFence)
	if !ok {
		return nil, errors.New("d3d11: fence was not created by a D3D11 device")
	}
	return cf, nil
}

// comTexture wraps ID3D11Texture2D, querying the DXGI interfaces on
// demand.
type comTexture struct {
	t *iUnknown
}

var _ Texture2D = (*comTexture)(nil)

func (c *comTexture) CreateSharedHandle() (xrt.NativeHandle, error) {
	var res *iDXGIResource1
	r, _, _ := syscall.SyscallN(c.t.vtbl.QueryInterface,
		uintptr(unsafe.Pointer(c.t)),
		uintptr(unsafe.Pointer(&iidIDXGIResource1)),
		uintptr(unsafe.Pointer(&res)),
	)
	if r != 0 {
		return xrt.InvalidNativeHandle, dxgi.ErrorCode{Name: "IDXGIResource1 unavailable", Code: uint32(r)}
	}
	defer syscall.SyscallN(res.vtbl.Release, uintptr(unsafe.Pointer(res)))

	var h uintptr
	r, _, _ = syscall.SyscallN(res.vtbl.CreateSharedHandle,
		uintptr(unsafe.Pointer(res)),
		0, // default security
		sharedResourceRead|sharedResourceWrite,
		0, // unnamed
		uintptr(unsafe.Pointer(&h)),
	)
	if r != 0 {
		return xrt.InvalidNativeHandle, dxgi.ErrorCode{Name: "IDXGIResource1::CreateSharedHandle", Code: uint32(r)}
	}
	return xrt.NativeHandle(h), nil
}

func (c *comTexture) KeyedMutex() (d3d.KeyedMutex, error) {
	var km *iDXGIKeyedMutex
	r, _, _ := syscall.SyscallN(c.t.vtbl.QueryInterface,
		uintptr(unsafe.Pointer(c.t)),
		uintptr(unsafe.Pointer(&iidIDXGIKeyedMutex)),
		uintptr(unsafe.Pointer(&km)),
	)
	if r != 0 {
		return nil, dxgi.ErrorCode{Name: "IDXGIKeyedMutex unavailable", Code: uint32(r)}
	}
	return &comKeyedMutex{m: km}, nil
}

func (c *comTexture) Release() {
	if c.t != nil {
		syscall.SyscallN(c.t.vtbl.Release, uintptr(unsafe.Pointer(c.t)))
		c.t = nil
	}
}

// comKeyedMutex wraps IDXGIKeyedMutex.
type comKeyedMutex struct {
	m *iDXGIKeyedMutex
}

var _ d3d.KeyedMutex = (*comKeyedMutex)(nil)

func (c *comKeyedMutex) AcquireSync(key uint64, timeoutMS uint32) (d3d.AcquireStatus, error) {
	r, _, _ := syscall.SyscallN(c.m.vtbl.AcquireSync,
		uintptr(unsafe.Pointer(c.m)),
		uintptr(key),
		uintptr(timeoutMS),
	)
	switch r {
	case 0:
		return d3d.AcquireOK, nil
	case waitTimeout:
		return d3d.AcquireTimeout, nil
	case waitAbandoned:
		return d3d.AcquireAbandoned, nil
	}
	return 0, dxgi.ErrorCode{Name: "IDXGIKeyedMutex::AcquireSync", Code: uint32(r)}
}

func (c *comKeyedMutex) ReleaseSync(key uint64) error {
	r, _, _ := syscall.SyscallN(c.m.vtbl.ReleaseSync,
		uintptr(unsafe.Pointer(c.m)),
		uintptr(key),
	)
	if r != 0 {
		return dxgi.ErrorCode{Name: "IDXGIKeyedMutex::ReleaseSync", Code: uint32(r)}
	}
	return nil
}

func (c *comKeyedMutex) Close() error {
	if c.m != nil {
		syscall.SyscallN(c.m.vtbl.Release, uintptr(unsafe.Pointer(c.m)))
		c.m = nil
	}
	return nil
}

// comFence wraps ID3D11Fence.
type comFence struct {
	f *iD3D11Fence
}

var _ Fence = (*comFence)(nil)

func (c *comFence) CompletedValue() (uint64, error) {
	r, _, _ := syscall.SyscallN(c.f.vtbl.GetCompletedValue,
		uintptr(unsafe.Pointer(c.f)),
	)
	// UINT64_MAX reports a removed device.
	if uint64(r) == ^uint64(0) {
		return 0, errors.New("d3d11: device removed while reading fence value")
	}
	return uint64(r), nil
}

func (c *comFence) SetEventOnCompletion(value uint64, ev d3d.Event) error {
	sys, ok := ev.(interface{ Sys() uintptr })
	if !ok {
		return errors.New("d3d11: event has no OS handle")
	}
	r, _, _ := syscall.SyscallN(c.f.vtbl.SetEventOnCompletion,
		uintptr(unsafe.Pointer(c.f)),
		uintptr(value),
		sys.Sys(),
	)
	if r != 0 {
		return dxgi.ErrorCode{Name: "ID3D11Fence::SetEventOnCompletion", Code: uint32(r)}
	}
	return nil
}

func (c *comFence) CreateSharedHandle() (xrt.GraphicsSyncHandle, error) {
	var h uintptr
	r, _, _ := syscall.SyscallN(c.f.vtbl.CreateSharedHandle,
		uintptr(unsafe.Pointer(c.f)),
		0, // default security
		genericAll,
		0, // unnamed
		uintptr(unsafe.Pointer(&h)),
	)
	if r != 0 {
		return xrt.InvalidSyncHandle, dxgi.ErrorCode{Name: "ID3D11Fence::CreateSharedHandle", Code: uint32(r)}
	}
	return xrt.GraphicsSyncHandle(h), nil
}

func (c *comFence) Release() {
	if c.f != nil {
		syscall.SyscallN(c.f.vtbl.Release, uintptr(unsafe.Pointer(c.f)))
		c.f = nil
	}
}
