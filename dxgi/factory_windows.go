package dxgi

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	dxgiDLL             = windows.NewLazySystemDLL("dxgi.dll")
	_CreateDXGIFactory1 = dxgiDLL.NewProc("CreateDXGIFactory1")
)

// comFactory implements Factory over IDXGIFactory1, with direct LUID
// lookup through IDXGIFactory4 and preference ordering through
// IDXGIFactory6 when the OS provides them.
type comFactory struct {
	f1 *iDXGIFactory1
	f4 *iDXGIFactory4
	f6 *iDXGIFactory6
}

var (
	_ Factory              = (*comFactory)(nil)
	_ PreferenceEnumerator = (*comFactory)(nil)
	_ LUIDEnumerator       = (*comFactory)(nil)
)

// NewFactory creates the system DXGI factory.
func NewFactory() (Factory, error) {
	var f1 *iDXGIFactory1
	r, _, _ := _CreateDXGIFactory1.Call(
		uintptr(unsafe.Pointer(&iidIDXGIFactory1)),
		uintptr(unsafe.Pointer(&f1)),
	)
	if r != 0 {
		return nil, ErrorCode{Name: "CreateDXGIFactory1", Code: uint32(r)}
	}
	cf := &comFactory{f1: f1}

	// The newer interfaces are optional; missing ones just disable the
	// fast paths.
	var f4 *iDXGIFactory4
	r, _, _ = syscall.SyscallN(f1.vtbl.QueryInterface,
		uintptr(unsafe.Pointer(f1)),
		uintptr(unsafe.Pointer(&iidIDXGIFactory4)),
		uintptr(unsafe.Pointer(&f4)),
	)
	if r == 0 {
		cf.f4 = f4
	}
	var f6 *iDXGIFactory6
	r, _, _ = syscall.SyscallN(f1.vtbl.QueryInterface,
		uintptr(unsafe.Pointer(f1)),
		uintptr(unsafe.Pointer(&iidIDXGIFactory6)),
		uintptr(unsafe.Pointer(&f6)),
	)
	if r == 0 {
		cf.f6 = f6
	}
	return cf, nil
}

func (c *comFactory) EnumAdapters(index uint32) (Adapter, error) {
	var a *iDXGIAdapter1
	r, _, _ := syscall.SyscallN(c.f1.vtbl.EnumAdapters1,
		uintptr(unsafe.Pointer(c.f1)),
		uintptr(index),
		uintptr(unsafe.Pointer(&a)),
	)
	if r == errNotFound {
		return nil, ErrAdapterNotFound
	}
	if r != 0 {
		return nil, ErrorCode{Name: "IDXGIFactory1::EnumAdapters1", Code: uint32(r)}
	}
	return &comAdapter{a: a}, nil
}

func (c *comFactory) EnumAdapterByGPUPreference(index uint32) (Adapter, error) {
	if c.f6 == nil {
		return nil, ErrorCode{Name: "IDXGIFactory6 unavailable", Code: 0}
	}
	var a *iDXGIAdapter1
	r, _, _ := syscall.SyscallN(c.f6.vtbl.EnumAdapterByGpuPreference,
		uintptr(unsafe.Pointer(c.f6)),
		uintptr(index),
		gpuPreferenceHighPerformance,
		uintptr(unsafe.Pointer(&iidIDXGIAdapter1)),
		uintptr(unsafe.Pointer(&a)),
	)
	if r == errNotFound {
		return nil, ErrAdapterNotFound
	}
	if r != 0 {
		return nil, ErrorCode{Name: "IDXGIFactory6::EnumAdapterByGpuPreference", Code: uint32(r)}
	}
	return &comAdapter{a: a}, nil
}

func (c *comFactory) EnumAdapterByLUID(luid LUID) (Adapter, error) {
	if c.f4 == nil {
		return nil, ErrorCode{Name: "IDXGIFactory4 unavailable", Code: 0}
	}
	// LUID is 8 bytes and goes by value in a single slot on x64.
	packed := uint64(luid.LowPart) | uint64(uint32(luid.HighPart))<<32
	var a *iDXGIAdapter1
	r, _, _ := syscall.SyscallN(c.f4.vtbl.EnumAdapterByLuid,
		uintptr(unsafe.Pointer(c.f4)),
		uintptr(packed),
		uintptr(unsafe.Pointer(&iidIDXGIAdapter1)),
		uintptr(unsafe.Pointer(&a)),
	)
	if r == errNotFound {
		return nil, ErrAdapterNotFound
	}
	if r != 0 {
		return nil, ErrorCode{Name: "IDXGIFactory4::EnumAdapterByLuid", Code: uint32(r)}
	}
	return &comAdapter{a: a}, nil
}

func (c *comFactory) Release() {
	if c.f6 != nil {
		syscall.SyscallN(c.f6.vtbl.Release, uintptr(unsafe.Pointer(c.f6)))
		c.f6 = nil
	}
	if c.f4 != nil {
		syscall.SyscallN(c.f4.vtbl.Release, uintptr(unsafe.Pointer(c.f4)))
		c.f4 = nil
	}
	if c.f1 != nil {
		syscall.SyscallN(c.f1.vtbl.Release, uintptr(unsafe.Pointer(c.f1)))
		c.f1 = nil
	}
}

// comAdapter wraps IDXGIAdapter1.
type comAdapter struct {
	a *iDXGIAdapter1
}

var _ Adapter = (*comAdapter)(nil)

func (c *comAdapter) Desc() (AdapterDesc, error) {
	var d adapterDesc1
	r, _, _ := syscall.SyscallN(c.a.vtbl.GetDesc1,
		uintptr(unsafe.Pointer(c.a)),
		uintptr(unsafe.Pointer(&d)),
	)
	if r != 0 {
		return AdapterDesc{}, ErrorCode{Name: "IDXGIAdapter1::GetDesc1", Code: uint32(r)}
	}
	return AdapterDesc{
		Description: windows.UTF16ToString(d.Description[:]),
		VendorID:    d.VendorID,
		DeviceID:    d.DeviceID,
		LUID:        d.AdapterLUID,
		Software:    d.Flags&adapterFlagSoftware != 0,
	}, nil
}

func (c *comAdapter) Release() {
	if c.a != nil {
		syscall.SyscallN(c.a.vtbl.Release, uintptr(unsafe.Pointer(c.a)))
		c.a = nil
	}
}

// Raw returns the IDXGIAdapter pointer for handing to device creation.
func (c *comAdapter) Raw() uintptr { return uintptr(unsafe.Pointer(c.a)) }

// AdapterFromRaw wraps an IDXGIAdapter1 pointer obtained elsewhere, for
// example from a device's GetAdapter. Ownership of the reference moves to
// the returned Adapter.
func AdapterFromRaw(p uintptr) Adapter {
	return &comAdapter{a: (*iDXGIAdapter1)(unsafe.Pointer(p))}
}

// IIDAdapter1 is the IDXGIAdapter1 interface ID for QueryInterface calls
// made outside this package.
func IIDAdapter1() *windows.GUID { return &iidIDXGIAdapter1 }
