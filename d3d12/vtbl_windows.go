package d3d12

// Raw COM vtables. Only the slots the package calls are named; everything
// else is padding sized off the header method order, which is frozen by
// the COM ABI.

type iUnknownVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr
}

type iUnknown struct {
	vtbl *iUnknownVtbl
}

type iD3D12DeviceVtbl struct {
	iUnknownVtbl

	_ [4]uintptr // ID3D12Object

	GetNodeCount           uintptr
	CreateCommandQueue     uintptr
	CreateCommandAllocator uintptr

	_ [2]uintptr // CreateGraphicsPipelineState, CreateComputePipelineState

	CreateCommandList uintptr

	_ [16]uintptr // CheckFeatureSupport .. CreateReservedResource

	CreateSharedHandle uintptr
	OpenSharedHandle   uintptr

	_ [3]uintptr // OpenSharedHandleByName, MakeResident, Evict

	CreateFence uintptr

	_ [5]uintptr // GetDeviceRemovedReason .. GetResourceTiling

	GetAdapterLuid uintptr
}

type iD3D12Device struct {
	vtbl *iD3D12DeviceVtbl
}

type iD3D12CommandQueueVtbl struct {
	iUnknownVtbl

	_ [4]uintptr // ID3D12Object
	_ [1]uintptr // GetDevice

	UpdateTileMappings  uintptr
	CopyTileMappings    uintptr
	ExecuteCommandLists uintptr

	_ [3]uintptr // SetMarker, BeginEvent, EndEvent

	Signal uintptr
	Wait   uintptr

	GetTimestampFrequency uintptr
	GetClockCalibration   uintptr
	GetDesc               uintptr
}

type iD3D12CommandQueue struct {
	vtbl *iD3D12CommandQueueVtbl
}

type iD3D12FenceVtbl struct {
	iUnknownVtbl

	_ [4]uintptr // ID3D12Object
	_ [1]uintptr // GetDevice

	GetCompletedValue    uintptr
	SetEventOnCompletion uintptr
	Signal               uintptr

	GetCreationFlags uintptr // ID3D12Fence1
}

type iD3D12Fence struct {
	vtbl *iD3D12FenceVtbl
}

type iD3D12GraphicsCommandListVtbl struct {
	iUnknownVtbl

	_ [4]uintptr // ID3D12Object
	_ [1]uintptr // GetDevice
	_ [1]uintptr // GetType

	Close uintptr
	Reset uintptr

	_ [15]uintptr // ClearState .. SetPipelineState

	ResourceBarrier uintptr
}

type iD3D12GraphicsCommandList struct {
	vtbl *iD3D12GraphicsCommandListVtbl
}
