package d3d12

import "golang.org/x/sys/windows"

type guid = windows.GUID

var (
	iidID3D12Resource            = guid{Data1: 0x696442be, Data2: 0xa72e, Data3: 0x4059, Data4: [8]byte{0xbc, 0x79, 0x5b, 0x5c, 0x98, 0x04, 0x0f, 0xad}}
	iidID3D12Fence               = guid{Data1: 0x0a753dcf, Data2: 0xc4d8, Data3: 0x4b91, Data4: [8]byte{0xad, 0xf6, 0xbe, 0x5a, 0x60, 0xd9, 0x5a, 0x76}}
	iidID3D12Fence1              = guid{Data1: 0x433685fe, Data2: 0xe22b, Data3: 0x4ca0, Data4: [8]byte{0xa8, 0xdb, 0xb5, 0xb4, 0xf4, 0xdd, 0x0e, 0x4a}}
	iidID3D12CommandAllocator    = guid{Data1: 0x6102dee4, Data2: 0xaf59, Data3: 0x4b09, Data4: [8]byte{0xb9, 0x99, 0xb4, 0x4d, 0x73, 0xf0, 0x9b, 0x24}}
	iidID3D12GraphicsCommandList = guid{Data1: 0x5b160d0f, Data2: 0xac1b, Data3: 0x4185, Data4: [8]byte{0x8b, 0xa8, 0xb3, 0xae, 0x42, 0xa5, 0xa4, 0x55}}
)

// D3D12_RESOURCE_BARRIER_TYPE_TRANSITION
const barrierTypeTransition = 0

// D3D12_RESOURCE_BARRIER_ALL_SUBRESOURCES
const allSubresources = 0xffffffff

// D3D12_RESOURCE_BARRIER, transition variant.
type resourceBarrier struct {
	Type       uint32
	Flags      uint32
	Transition resourceTransitionBarrier
}

type resourceTransitionBarrier struct {
	Resource    uintptr
	Subresource uint32
	StateBefore uint32
	StateAfter  uint32
}
