package dxgi

// Raw COM vtables. Only the slots the package calls are named with intent;
// the rest are padding to keep offsets right.

type iUnknownVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr
}

type iDXGIObjectVtbl struct {
	iUnknownVtbl

	SetPrivateData          uintptr
	SetPrivateDataInterface uintptr
	GetPrivateData          uintptr
	GetParent               uintptr
}

type iDXGIAdapterVtbl struct {
	iDXGIObjectVtbl

	EnumOutputs           uintptr
	GetDesc               uintptr
	CheckInterfaceSupport uintptr
}

type iDXGIAdapter1Vtbl struct {
	iDXGIAdapterVtbl

	GetDesc1 uintptr
}

type iDXGIFactoryVtbl struct {
	iDXGIObjectVtbl

	EnumAdapters          uintptr
	MakeWindowAssociation uintptr
	GetWindowAssociation  uintptr
	CreateSwapChain       uintptr
	CreateSoftwareAdapter uintptr
}

type iDXGIFactory1Vtbl struct {
	iDXGIFactoryVtbl

	EnumAdapters1 uintptr
	IsCurrent     uintptr
}

type iDXGIFactory2Vtbl struct {
	iDXGIFactory1Vtbl

	IsWindowedStereoEnabled       uintptr
	CreateSwapChainForHwnd        uintptr
	CreateSwapChainForCoreWindow  uintptr
	GetSharedResourceAdapterLuid  uintptr
	RegisterStereoStatusWindow    uintptr
	RegisterStereoStatusEvent     uintptr
	UnregisterStereoStatus        uintptr
	RegisterOcclusionStatusWindow uintptr
	RegisterOcclusionStatusEvent  uintptr
	UnregisterOcclusionStatus     uintptr
	CreateSwapChainForComposition uintptr
}

type iDXGIFactory3Vtbl struct {
	iDXGIFactory2Vtbl

	GetCreationFlags uintptr
}

type iDXGIFactory4Vtbl struct {
	iDXGIFactory3Vtbl

	EnumAdapterByLuid uintptr
	EnumWarpAdapter   uintptr
}

type iDXGIFactory5Vtbl struct {
	iDXGIFactory4Vtbl

	CheckFeatureSupport uintptr
}

type iDXGIFactory6Vtbl struct {
	iDXGIFactory5Vtbl

	EnumAdapterByGpuPreference uintptr
}

type iDXGIFactory1 struct {
	vtbl *iDXGIFactory1Vtbl
}

type iDXGIFactory4 struct {
	vtbl *iDXGIFactory4Vtbl
}

type iDXGIFactory6 struct {
	vtbl *iDXGIFactory6Vtbl
}

type iDXGIAdapter1 struct {
	vtbl *iDXGIAdapter1Vtbl
}
