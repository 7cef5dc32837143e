package dxgi

import "golang.org/x/sys/windows"

type guid = windows.GUID

var (
	iidIDXGIFactory1 = guid{Data1: 0x770aae78, Data2: 0xf26f, Data3: 0x4dba, Data4: [8]byte{0xa8, 0x29, 0x25, 0x3c, 0x83, 0xd1, 0xb3, 0x87}}
	iidIDXGIFactory4 = guid{Data1: 0x1bc6ea02, Data2: 0xef36, Data3: 0x464f, Data4: [8]byte{0xbf, 0x0c, 0x21, 0xca, 0x39, 0xe5, 0x16, 0x8a}}
	iidIDXGIFactory6 = guid{Data1: 0xc1b6694f, Data2: 0xff09, Data3: 0x44a9, Data4: [8]byte{0xb0, 0x3c, 0x77, 0x90, 0x0a, 0x0a, 0x1d, 0x17}}
	iidIDXGIAdapter1 = guid{Data1: 0x29038f61, Data2: 0x3839, Data3: 0x4626, Data4: [8]byte{0x91, 0xfd, 0x08, 0x68, 0x79, 0x01, 0x1a, 0x05}}
)

// DXGI_GPU_PREFERENCE_HIGH_PERFORMANCE
const gpuPreferenceHighPerformance = 2

// DXGI_ERROR_NOT_FOUND
const errNotFound = 0x887A0002

// DXGI_ADAPTER_FLAG_SOFTWARE
const adapterFlagSoftware = 2

type adapterDesc1 struct {
	Description               [128]uint16
	VendorID                  uint32
	DeviceID                  uint32
	SubSysID                  uint32
	Revision                  uint32
	DedicatedVideoMemorySize  uint64
	DedicatedSystemMemorySize uint64
	SharedSystemMemorySize    uint64
	AdapterLUID               LUID
	Flags                     uint32
}
