package d3d11

// Raw COM vtables. Only the slots the package calls are named; everything
// else is padding sized off the header method order, which is frozen by
// the COM ABI.

type iUnknownVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr
}

// iUnknown stands in for interfaces the package only ever queries from or
// releases.
type iUnknown struct {
	vtbl *iUnknownVtbl
}

type iD3D11Device5Vtbl struct {
	iUnknownVtbl

	CreateBuffer    uintptr
	CreateTexture1D uintptr
	CreateTexture2D uintptr
	CreateTexture3D uintptr

	_ [21]uintptr // CreateShaderResourceView .. CreateDeferredContext

	OpenSharedResource uintptr

	_ [14]uintptr // CheckFormatSupport .. GetExceptionMode

	_ [5]uintptr // ID3D11Device1: GetImmediateContext1 .. CreateDeviceContextState

	OpenSharedResource1      uintptr
	OpenSharedResourceByName uintptr

	_ [4]uintptr  // ID3D11Device2
	_ [11]uintptr // ID3D11Device3
	_ [2]uintptr  // ID3D11Device4

	OpenSharedFence uintptr
	CreateFence     uintptr
}

type iD3D11Device5 struct {
	vtbl *iD3D11Device5Vtbl
}

type iD3D11DeviceContext4Vtbl struct {
	iUnknownVtbl

	_ [4]uintptr   // ID3D11DeviceChild
	_ [108]uintptr // ID3D11DeviceContext
	_ [19]uintptr  // ID3D11DeviceContext1
	_ [10]uintptr  // ID3D11DeviceContext2
	_ [3]uintptr   // ID3D11DeviceContext3

	Signal uintptr
	Wait   uintptr
}

type iD3D11DeviceContext4 struct {
	vtbl *iD3D11DeviceContext4Vtbl
}

type iD3D11FenceVtbl struct {
	iUnknownVtbl

	_ [4]uintptr // ID3D11DeviceChild

	CreateSharedHandle   uintptr
	GetCompletedValue    uintptr
	SetEventOnCompletion uintptr
}

type iD3D11Fence struct {
	vtbl *iD3D11FenceVtbl
}

type iDXGIObjectVtbl struct {
	iUnknownVtbl

	SetPrivateData          uintptr
	SetPrivateDataInterface uintptr
	GetPrivateData          uintptr
	GetParent               uintptr
}

type iDXGIDeviceVtbl struct {
	iDXGIObjectVtbl

	GetAdapter uintptr

	_ [4]uintptr // CreateSurface .. GetGPUThreadPriority
}

type iDXGIDevice struct {
	vtbl *iDXGIDeviceVtbl
}

type iDXGIResource1Vtbl struct {
	iDXGIObjectVtbl

	GetDevice uintptr // IDXGIDeviceSubObject

	GetSharedHandle     uintptr
	GetUsage            uintptr
	SetEvictionPriority uintptr
	GetEvictionPriority uintptr

	CreateSubresourceSurface uintptr
	CreateSharedHandle       uintptr
}

type iDXGIResource1 struct {
	vtbl *iDXGIResource1Vtbl
}

type iDXGIKeyedMutexVtbl struct {
	iDXGIObjectVtbl

	GetDevice uintptr // IDXGIDeviceSubObject

	AcquireSync uintptr
	ReleaseSync uintptr
}

type iDXGIKeyedMutex struct {
	vtbl *iDXGIKeyedMutexVtbl
}
