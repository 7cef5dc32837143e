// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package d3d12

import (
	"errors"
	"syscall"
	"unsafe"

	"github.com/gogpu/xrcomp/d3d"
	"github.com/gogpu/xrcomp/dxgi"
	"github.com/gogpu/xrcomp/xrt"
)

// WrapDevice wraps an ID3D12Device pointer owned by the application. The
// application keeps its reference; Release on the returned Device only
// drops the wrapper's AddRef.
func WrapDevice(p uintptr) Device {
	d := (*iD3D12Device)(unsafe.Pointer(p))
	syscall.SyscallN(d.vtbl.AddRef, uintptr(unsafe.Pointer(d)))
	return &comDevice{d: d}
}

// WrapQueue wraps an ID3D12CommandQueue pointer owned by the application.
func WrapQueue(p uintptr) Queue {
	q := (*iD3D12CommandQueue)(unsafe.Pointer(p))
	syscall.SyscallN(q.vtbl.AddRef, uintptr(unsafe.Pointer(q)))
	return &comQueue{q: q}
}

// comDevice wraps ID3D12Device.
type comDevice struct {
	d *iD3D12Device
}

var _ Device = (*comDevice)(nil)

func (c *comDevice) CreateFence(initial uint64, flags FenceFlags) (Fence, error) {
	var f *iD3D12Fence
	r, _, _ := syscall.SyscallN(c.d.vtbl.CreateFence,
		uintptr(unsafe.Pointer(c.d)),
		uintptr(initial),
		uintptr(flags),
		uintptr(unsafe.Pointer(&iidID3D12Fence)),
		uintptr(unsafe.Pointer(&f)),
	)
	if r != 0 {
		return nil, dxgi.ErrorCode{Name: "ID3D12Device::CreateFence", Code: uint32(r)}
	}
	return &comFence{f: f, flags: flags, hasFlags: true}, nil
}

func (c *comDevice) OpenSharedHandleResource(h xrt.NativeHandle) (Resource, error) {
	var res *iUnknown
	r, _, _ := syscall.SyscallN(c.d.vtbl.OpenSharedHandle,
		uintptr(unsafe.Pointer(c.d)),
		uintptr(h),
		uintptr(unsafe.Pointer(&iidID3D12Resource)),
		uintptr(unsafe.Pointer(&res)),
	)
	if r != 0 {
		return nil, dxgi.ErrorCode{Name: "ID3D12Device::OpenSharedHandle", Code: uint32(r)}
	}
	return &comResource{r: res}, nil
}

func (c *comDevice) OpenSharedHandleFence(h xrt.GraphicsSyncHandle) (Fence, error) {
	// Fence1 exposes the creation flags; older runtimes only have Fence.
	var f *iD3D12Fence
	r, _, _ := syscall.SyscallN(c.d.vtbl.OpenSharedHandle,
		uintptr(unsafe.Pointer(c.d)),
		uintptr(h),
		uintptr(unsafe.Pointer(&iidID3D12Fence1)),
		uintptr(unsafe.Pointer(&f)),
	)
	if r == 0 {
		flags := c.creationFlags(f)
		return &comFence{f: f, flags: flags, hasFlags: true}, nil
	}
	r, _, _ = syscall.SyscallN(c.d.vtbl.OpenSharedHandle,
		uintptr(unsafe.Pointer(c.d)),
		uintptr(h),
		uintptr(unsafe.Pointer(&iidID3D12Fence)),
		uintptr(unsafe.Pointer(&f)),
	)
	if r != 0 {
		return nil, dxgi.ErrorCode{Name: "ID3D12Device::OpenSharedHandle", Code: uint32(r)}
	}
	return &comFence{f: f}, nil
}

func (c *comDevice) creationFlags(f *iD3D12Fence) FenceFlags {
	r, _, _ := syscall.SyscallN(f.vtbl.GetCreationFlags,
		uintptr(unsafe.Pointer(f)),
	)
	return FenceFlags(r)
}

func (c *comDevice) CreateCommandAllocator(t CommandListType) (CommandAllocator, error) {
	var a *iUnknown
	r, _, _ := syscall.SyscallN(c.d.vtbl.CreateCommandAllocator,
		uintptr(unsafe.Pointer(c.d)),
		uintptr(t),
		uintptr(unsafe.Pointer(&iidID3D12CommandAllocator)),
		uintptr(unsafe.Pointer(&a)),
	)
	if r != 0 {
		return nil, dxgi.ErrorCode{Name: "ID3D12Device::CreateCommandAllocator", Code: uint32(r)}
	}
	return &comAllocator{a: a}, nil
}

func (c *comDevice) CreateCommandList(alloc CommandAllocator) (CommandList, error) {
	ca, ok := alloc.(*comAllocator)
	if !ok {
		return nil, errors.New("d3d12: allocator was not created by a D3D12 device")
	}
	var l *iD3D12GraphicsCommandList
	r, _, _ := syscall.SyscallN(c.d.vtbl.CreateCommandList,
		uintptr(unsafe.Pointer(c.d)),
		0, // single GPU
		uintptr(CommandListTypeDirect),
		uintptr(unsafe.Pointer(ca.a)),
		0, // no initial pipeline state
		uintptr(unsafe.Pointer(&iidID3D12GraphicsCommandList)),
		uintptr(unsafe.Pointer(&l)),
	)
	if r != 0 {
		return nil, dxgi.ErrorCode{Name: "ID3D12Device::CreateCommandList", Code: uint32(r)}
	}
	return &comCommandList{l: l}, nil
}

func (c *comDevice) AdapterLUID() (dxgi.LUID, error) {
	// GetAdapterLuid returns a struct; the C ABI wrapper takes a retval
	// pointer.
	var luid dxgi.LUID
	syscall.SyscallN(c.d.vtbl.GetAdapterLuid,
		uintptr(unsafe.Pointer(c.d)),
		uintptr(unsafe.Pointer(&luid)),
	)
	return luid, nil
}

func (c *comDevice) Release() {
	if c.d != nil {
		syscall.SyscallN(c.d.vtbl.Release, uintptr(unsafe.Pointer(c.d)))
		c.d = nil
	}
}

// comQueue wraps ID3D12CommandQueue.
type comQueue struct {
	q *iD3D12CommandQueue
}

var _ Queue = (*comQueue)(nil)

func (c *comQueue) ExecuteCommandLists(lists []CommandList) error {
	raw := make([]uintptr, len(lists))
	for i, l := range lists {
		cl, ok := l.(*comCommandList)
		if !ok {
			return errors.New("d3d12: command list was not created by a D3D12 device")
		}
		raw[i] = uintptr(unsafe.Pointer(cl.l))
	}
	syscall.SyscallN(c.q.vtbl.ExecuteCommandLists,
		uintptr(unsafe.Pointer(c.q)),
		uintptr(len(raw)),
		uintptr(unsafe.Pointer(&raw[0])),
	)
	return nil
}

func (c *comQueue) Release() {
	if c.q != nil {
		syscall.SyscallN(c.q.vtbl.Release, uintptr(unsafe.Pointer(c.q)))
		c.q = nil
	}
}

// comAllocator wraps ID3D12CommandAllocator.
type comAllocator struct {
	a *iUnknown
}

var _ CommandAllocator = (*comAllocator)(nil)

func (c *comAllocator) Release() {
	if c.a != nil {
		syscall.SyscallN(c.a.vtbl.Release, uintptr(unsafe.Pointer(c.a)))
		c.a = nil
	}
}

// comCommandList wraps ID3D12GraphicsCommandList.
type comCommandList struct {
	l *iD3D12GraphicsCommandList
}

var _ CommandList = (*comCommandList)(nil)

func (c *comCommandList) TransitionBarrier(res Resource, before, after ResourceStates) error {
	cr, ok := res.(*comResource)
	if !ok {
		return errors.New("d3d12: resource was not imported by a D3D12 device")
	}
	b := resourceBarrier{
		Type: barrierTypeTransition,
		Transition: resourceTransitionBarrier{
			Resource:    uintptr(unsafe.Pointer(cr.r)),
			Subresource: allSubresources,
			StateBefore: uint32(before),
			StateAfter:  uint32(after),
		},
	}
	syscall.SyscallN(c.l.vtbl.ResourceBarrier,
		uintptr(unsafe.Pointer(c.l)),
		1,
		uintptr(unsafe.Pointer(&b)),
	)
	return nil
}

func (c *comCommandList) Close() error {
	r, _, _ := syscall.SyscallN(c.l.vtbl.Close,
		uintptr(unsafe.Pointer(c.l)),
	)
	if r != 0 {
		return dxgi.ErrorCode{Name: "ID3D12GraphicsCommandList::Close", Code: uint32(r)}
	}
	return nil
}

func (c *comCommandList) Release() {
	if c.l != nil {
		syscall.SyscallN(c.l.vtbl.Release, uintptr(unsafe.Pointer(c.l)))
		c.l = nil
	}
}

// comResource wraps ID3D12Resource.
type comResource struct {
	r *iUnknown
}

var _ Resource = (*comResource)(nil)

func (c *comResource) Release() {
	if c.r != nil {
		syscall.SyscallN(c.r.vtbl.Release, uintptr(unsafe.Pointer(c.r)))
		c.r = nil
	}
}

// comFence wraps ID3D12Fence, optionally with the Fence1 creation flags.
type comFence struct {
	f        *iD3D12Fence
	flags    FenceFlags
	hasFlags bool
}

var _ Fence = (*comFence)(nil)

func (c *comFence) CompletedValue() (uint64, error) {
	r, _, _ := syscall.SyscallN(c.f.vtbl.GetCompletedValue,
		uintptr(unsafe.Pointer(c.f)),
	)
	// UINT64_MAX reports a removed device.
	if uint64(r) == ^uint64(0) {
		return 0, errors.New("d3d12: device removed while reading fence value")
	}
	return uint64(r), nil
}

func (c *comFence) SetEventOnCompletion(value uint64, ev d3d.Event) error {
	sys, ok := ev.(interface{ Sys() uintptr })
	if !ok {
		return errors.New("d3d12: event has no OS handle")
	}
	r, _, _ := syscall.SyscallN(c.f.vtbl.SetEventOnCompletion,
		uintptr(unsafe.Pointer(c.f)),
		uintptr(value),
		sys.Sys(),
	)
	if r != 0 {
		return dxgi.ErrorCode{Name: "ID3D12Fence::SetEventOnCompletion", Code: uint32(r)}
	}
	return nil
}

func (c *comFence) Signal(value uint64) error {
	r, _, _ := syscall.SyscallN(c.f.vtbl.Signal,
		uintptr(unsafe.Pointer(c.f)),
		uintptr(value),
	)
	if r != 0 {
		return dxgi.ErrorCode{Name: "ID3D12Fence::Signal", Code: uint32(r)}
	}
	return nil
}

func (c *comFence) CreationFlags() FenceFlags {
	if !c.hasFlags {
		return FenceFlagNone
	}
	return c.flags
}

func (c *comFence) Release() {
	if c.f != nil {
		syscall.SyscallN(c.f.vtbl.Release, uintptr(unsafe.Pointer(c.f)))
		c.f = nil
	}
}
