package d3d11

import "golang.org/x/sys/windows"

type guid = windows.GUID

var (
	iidID3D11Device5        = guid{Data1: 0x8ffde202, Data2: 0xa0e7, Data3: 0x45df, Data4: [8]byte{0x9e, 0x01, 0xe8, 0x37, 0x80, 0x1b, 0x5e, 0xa0}}
	iidID3D11DeviceContext4 = guid{Data1: 0x917600da, Data2: 0xf58c, Data3: 0x4c33, Data4: [8]byte{0x98, 0xd8, 0x3e, 0x15, 0xb3, 0x90, 0xfa, 0x24}}
	iidID3D11Texture2D      = guid{Data1: 0x6f15aaf2, Data2: 0xd208, Data3: 0x4e89, Data4: [8]byte{0x9a, 0xb4, 0x48, 0x95, 0x35, 0xd3, 0x4f, 0x9c}}
	iidID3D11Fence          = guid{Data1: 0xaffde9d1, Data2: 0x1df7, Data3: 0x4bb7, Data4: [8]byte{0x8a, 0x34, 0x0f, 0x46, 0x25, 0x1d, 0xab, 0x80}}
	iidIDXGIDevice          = guid{Data1: 0x54ec77fa, Data2: 0x1377, Data3: 0x44e6, Data4: [8]byte{0x8c, 0x32, 0x88, 0xfd, 0x5f, 0x44, 0xc8, 0x4c}}
	iidIDXGIResource1       = guid{Data1: 0x30961379, Data2: 0x4609, Data3: 0x4a41, Data4: [8]byte{0x99, 0x8e, 0x54, 0xfe, 0x56, 0x7e, 0xe0, 0xc1}}
	iidIDXGIKeyedMutex      = guid{Data1: 0x9d8e1289, Data2: 0xd7b3, Data3: 0x465f, Data4: [8]byte{0x81, 0x26, 0x25, 0x0e, 0x34, 0x9a, 0xf8, 0x5d}}
)

// D3D11_SDK_VERSION
const sdkVersion = 7

// D3D_DRIVER_TYPE
const (
	driverTypeUnknown  = 0
	driverTypeHardware = 1
)

// Access rights for CreateSharedHandle.
const (
	sharedResourceRead  = 0x8000_0000 // DXGI_SHARED_RESOURCE_READ
	sharedResourceWrite = 0x0000_0001 // DXGI_SHARED_RESOURCE_WRITE
	genericAll          = 0x1000_0000 // GENERIC_ALL, fences want this
)

// AcquireSync return values that are statuses, not failures.
const (
	waitAbandoned = 0x0080
	waitTimeout   = 0x0102
)

// D3D11_TEXTURE2D_DESC
type texture2dDesc struct {
	Width          uint32
	Height         uint32
	MipLevels      uint32
	ArraySize      uint32
	Format         uint32
	SampleCount    uint32
	SampleQuality  uint32
	Usage          uint32
	BindFlags      uint32
	CPUAccessFlags uint32
	MiscFlags      uint32
}
