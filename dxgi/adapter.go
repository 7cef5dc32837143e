package dxgi

import (
	"errors"
	"fmt"

	"github.com/gogpu/xrcomp"
)

// ErrAdapterNotFound is returned when enumeration runs out of adapters
// before a match.
var ErrAdapterNotFound = errors.New("dxgi: adapter not found")

// ErrorCode is a failed system call with its HRESULT.
type ErrorCode struct {
	Name string
	Code uint32
}

func (e ErrorCode) Error() string {
	return fmt.Sprintf("%s: %#x", e.Name, e.Code)
}

// AdapterDesc describes a graphics adapter.
type AdapterDesc struct {
	Description string
	VendorID    uint32
	DeviceID    uint32
	LUID        LUID

	// Software marks render-only software adapters such as WARP.
	Software bool
}

// Adapter is one graphics adapter enumerated from a Factory.
type Adapter interface {
	Desc() (AdapterDesc, error)
	Release()
}

// Factory enumerates graphics adapters in system order.
type Factory interface {
	// EnumAdapters returns the adapter at index, or ErrAdapterNotFound
	// past the end.
	EnumAdapters(index uint32) (Adapter, error)

	Release()
}

// PreferenceEnumerator is implemented by factories that can enumerate
// adapters ordered by GPU performance preference.
type PreferenceEnumerator interface {
	// EnumAdapterByGPUPreference returns the index-th adapter in
	// high-performance-first order, or ErrAdapterNotFound past the end.
	EnumAdapterByGPUPreference(index uint32) (Adapter, error)
}

// LUIDEnumerator is implemented by factories that can look adapters up by
// LUID directly.
type LUIDEnumerator interface {
	// EnumAdapterByLUID returns the adapter with the given LUID, or
	// ErrAdapterNotFound.
	EnumAdapterByLUID(luid LUID) (Adapter, error)
}

// AdapterByIndex returns the index-th adapter, preferring the
// high-performance ordering when the factory supports it and falling back
// to plain system order otherwise.
func AdapterByIndex(f Factory, index uint32) (Adapter, error) {
	log := xrcomp.Logger()
	if pe, ok := f.(PreferenceEnumerator); ok {
		log.Info("selecting adapter by GPU preference", "index", index)
		a, err := pe.EnumAdapterByGPUPreference(index)
		if err == nil {
			return a, nil
		}
		log.Debug("GPU preference enumeration failed, using system order", "err", err)
	} else {
		log.Info("GPU preference enumeration unavailable, using system order", "index", index)
	}
	return f.EnumAdapters(index)
}

// AdapterByLUID returns the adapter with the given LUID, using direct
// lookup when the factory supports it and a linear scan otherwise.
func AdapterByLUID(f Factory, luid LUID) (Adapter, error) {
	log := xrcomp.Logger()
	if le, ok := f.(LUIDEnumerator); ok {
		log.Info("selecting adapter by LUID", "luid", luid)
		a, err := le.EnumAdapterByLUID(luid)
		if err == nil {
			return a, nil
		}
		log.Debug("LUID lookup failed, scanning adapters", "err", err)
	} else {
		log.Info("LUID lookup unavailable, scanning adapters", "luid", luid)
	}

	for i := uint32(0); ; i++ {
		a, err := f.EnumAdapters(i)
		if err != nil {
			log.Warn("ran out of adapters before finding a matching LUID", "luid", luid)
			return nil, ErrAdapterNotFound
		}
		desc, err := a.Desc()
		if err != nil {
			a.Release()
			continue
		}
		if desc.LUID == luid {
			return a, nil
		}
		a.Release()
	}
}
