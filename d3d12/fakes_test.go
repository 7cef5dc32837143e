package d3d12

import (
	"errors"
	"time"

	"github.com/gogpu/xrcomp/d3d"
	"github.com/gogpu/xrcomp/d3d11"
	"github.com/gogpu/xrcomp/dxgi"
	"github.com/gogpu/xrcomp/xrt"
)

// fakeNative is a scriptable native compositor.
type fakeNative struct {
	formats  []uint64
	props    xrt.SwapchainCreateProperties
	propsErr error

	importErr    error
	importedInfo xrt.SwapchainCreateInfo
	imported     []xrt.ImageNative
	importedSC   *fakeNativeSwapchain

	commitIDs   []xrt.FrameID
	commitSyncs []xrt.GraphicsSyncHandle
	layerSC     []xrt.Swapchain
	closed      bool
}

var _ xrt.NativeCompositor = (*fakeNative)(nil)

func (n *fakeNative) Info() xrt.CompositorInfo {
	return xrt.CompositorInfo{Formats: n.formats}
}

func (n *fakeNative) SwapchainCreateProperties(info xrt.SwapchainCreateInfo) (xrt.SwapchainCreateProperties, error) {
	return n.props, n.propsErr
}

func (n *fakeNative) CreateSwapchain(info xrt.SwapchainCreateInfo) (xrt.Swapchain, error) {
	return nil, errors.New("not used by bridges")
}

func (n *fakeNative) ImportSwapchain(info xrt.SwapchainCreateInfo, images []xrt.ImageNative) (xrt.Swapchain, error) {
	if n.importErr != nil {
		return nil, n.importErr
	}
	n.importedInfo = info
	n.imported = images
	n.importedSC = &fakeNativeSwapchain{count: uint32(len(images))}
	return n.importedSC, nil
}

func (n *fakeNative) BeginSession(t xrt.ViewType) error { return nil }
func (n *fakeNative) EndSession() error                 { return nil }

func (n *fakeNative) WaitFrame() (xrt.FrameTiming, error) {
	return xrt.FrameTiming{FrameID: 1}, nil
}
func (n *fakeNative) BeginFrame(id xrt.FrameID) error   { return nil }
func (n *fakeNative) DiscardFrame(id xrt.FrameID) error { return nil }

func (n *fakeNative) LayerBegin(id xrt.FrameID, displayTime uint64, blend xrt.BlendMode) error {
	return nil
}

func (n *fakeNative) LayerStereoProjection(left, right xrt.Swapchain, data *xrt.LayerData) error {
	n.layerSC = append(n.layerSC, left, right)
	return nil
}

func (n *fakeNative) LayerStereoProjectionDepth(left, right, leftDepth, rightDepth xrt.Swapchain, data *xrt.LayerData) error {
	n.layerSC = append(n.layerSC, left, right, leftDepth, rightDepth)
	return nil
}

func (n *fakeNative) LayerQuad(sc xrt.Swapchain, data *xrt.LayerData) error {
	n.layerSC = append(n.layerSC, sc)
	return nil
}

func (n *fakeNative) LayerCube(sc xrt.Swapchain, data *xrt.LayerData) error {
	n.layerSC = append(n.layerSC, sc)
	return nil
}

func (n *fakeNative) LayerCylinder(sc xrt.Swapchain, data *xrt.LayerData) error {
	n.layerSC = append(n.layerSC, sc)
	return nil
}

func (n *fakeNative) LayerEquirect1(sc xrt.Swapchain, data *xrt.LayerData) error {
	n.layerSC = append(n.layerSC, sc)
	return nil
}

func (n *fakeNative) LayerEquirect2(sc xrt.Swapchain, data *xrt.LayerData) error {
	n.layerSC = append(n.layerSC, sc)
	return nil
}

func (n *fakeNative) LayerCommit(id xrt.FrameID, sync xrt.GraphicsSyncHandle) error {
	n.commitIDs = append(n.commitIDs, id)
	n.commitSyncs = append(n.commitSyncs, sync)
	return nil
}

func (n *fakeNative) PollEvents() (xrt.Event, error) {
	return xrt.Event{Type: xrt.EventNone}, nil
}

func (n *fakeNative) Close() error {
	n.closed = true
	return nil
}

type fakeNativeSwapchain struct {
	count    uint32
	acquired []uint32
	waited   []uint32
	released []uint32
	closed   bool
}

var _ xrt.Swapchain = (*fakeNativeSwapchain)(nil)

func (s *fakeNativeSwapchain) ImageCount() uint32 { return s.count }

func (s *fakeNativeSwapchain) Acquire() (uint32, error) {
	i := uint32(len(s.acquired)) % s.count
	s.acquired = append(s.acquired, i)
	return i, nil
}

func (s *fakeNativeSwapchain) WaitImage(timeout time.Duration, index uint32) error {
	s.waited = append(s.waited, index)
	return nil
}

func (s *fakeNativeSwapchain) ReleaseImage(index uint32) error {
	s.released = append(s.released, index)
	return nil
}

func (s *fakeNativeSwapchain) Close() error {
	s.closed = true
	return nil
}

// fakeSemNative adds timeline semaphore support.
type fakeSemNative struct {
	fakeNative

	sem       *fakeSemaphore
	semHandle xrt.GraphicsSyncHandle
	semErr    error

	semCommitValues []uint64
}

var _ xrt.SemaphoreSupport = (*fakeSemNative)(nil)

func (n *fakeSemNative) CreateSemaphore() (xrt.Semaphore, xrt.GraphicsSyncHandle, error) {
	if n.semErr != nil {
		return nil, xrt.InvalidSyncHandle, n.semErr
	}
	n.sem = &fakeSemaphore{}
	return n.sem, n.semHandle, nil
}

func (n *fakeSemNative) LayerCommitWithSemaphore(id xrt.FrameID, sem xrt.Semaphore, value uint64) error {
	n.semCommitValues = append(n.semCommitValues, value)
	return nil
}

type fakeSemaphore struct {
	closed bool
}

func (s *fakeSemaphore) Wait(value uint64, timeout time.Duration) error { return nil }
func (s *fakeSemaphore) Close() error {
	s.closed = true
	return nil
}

// fakeDevice is a scriptable D3D12 Device.
type fakeDevice struct {
	luid    dxgi.LUID
	luidErr error

	allocators []*fakeAllocator
	allocErr   error

	lists   []*fakeList
	listErr error

	fences         []*fake12Fence
	createFenceErr error
	createStuck    bool

	importedFence   *fake12Fence
	importFlags     FenceFlags
	importSignalErr error
	importErr       error
	openedFenceOn   []xrt.GraphicsSyncHandle

	resources []*fakeResource
	openedOn  []xrt.NativeHandle
	openErr   error

	released bool
}

var _ Device = (*fakeDevice)(nil)

func (d *fakeDevice) CreateFence(initial uint64, flags FenceFlags) (Fence, error) {
	if d.createFenceErr != nil {
		return nil, d.createFenceErr
	}
	f := &fake12Fence{completed: initial, flags: flags, stuck: d.createStuck}
	d.fences = append(d.fences, f)
	return f, nil
}

func (d *fakeDevice) OpenSharedHandleResource(h xrt.NativeHandle) (Resource, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	d.openedOn = append(d.openedOn, h)
	r := &fakeResource{}
	d.resources = append(d.resources, r)
	return r, nil
}

func (d *fakeDevice) OpenSharedHandleFence(h xrt.GraphicsSyncHandle) (Fence, error) {
	d.openedFenceOn = append(d.openedFenceOn, h)
	if d.importErr != nil {
		return nil, d.importErr
	}
	d.importedFence = &fake12Fence{flags: d.importFlags, signalErr: d.importSignalErr}
	return d.importedFence, nil
}

func (d *fakeDevice) CreateCommandAllocator(t CommandListType) (CommandAllocator, error) {
	if d.allocErr != nil {
		return nil, d.allocErr
	}
	a := &fakeAllocator{}
	d.allocators = append(d.allocators, a)
	return a, nil
}

func (d *fakeDevice) CreateCommandList(alloc CommandAllocator) (CommandList, error) {
	if d.listErr != nil {
		return nil, d.listErr
	}
	l := &fakeList{}
	d.lists = append(d.lists, l)
	return l, nil
}

func (d *fakeDevice) AdapterLUID() (dxgi.LUID, error) {
	return d.luid, d.luidErr
}

func (d *fakeDevice) Release() { d.released = true }

type fakeQueue struct {
	executed []CommandList
	execErr  error
	released bool
}

var _ Queue = (*fakeQueue)(nil)

func (q *fakeQueue) ExecuteCommandLists(lists []CommandList) error {
	if q.execErr != nil {
		return q.execErr
	}
	q.executed = append(q.executed, lists...)
	return nil
}

func (q *fakeQueue) Release() { q.released = true }

type fakeAllocator struct {
	released bool
}

func (a *fakeAllocator) Release() { a.released = true }

type transition struct {
	resource Resource
	before   ResourceStates
	after    ResourceStates
}

type fakeList struct {
	transitions []transition
	closed      bool
	released    bool
}

var _ CommandList = (*fakeList)(nil)

func (l *fakeList) TransitionBarrier(r Resource, before, after ResourceStates) error {
	l.transitions = append(l.transitions, transition{r, before, after})
	return nil
}

func (l *fakeList) Close() error {
	l.closed = true
	return nil
}

func (l *fakeList) Release() { l.released = true }

type fakeResource struct {
	released bool
}

func (r *fakeResource) Release() { r.released = true }

// fake12Fence signals itself unless stuck, like a fence whose wait side
// never catches up.
type fake12Fence struct {
	completed uint64
	flags     FenceFlags
	signals   []uint64
	signalErr error
	stuck     bool
	released  bool
}

var _ Fence = (*fake12Fence)(nil)

func (f *fake12Fence) CompletedValue() (uint64, error) { return f.completed, nil }

func (f *fake12Fence) SetEventOnCompletion(value uint64, ev d3d.Event) error { return nil }

func (f *fake12Fence) Signal(value uint64) error {
	if f.signalErr != nil {
		return f.signalErr
	}
	f.signals = append(f.signals, value)
	if !f.stuck {
		f.completed = value
	}
	return nil
}

func (f *fake12Fence) CreationFlags() FenceFlags { return f.flags }

func (f *fake12Fence) Release() { f.released = true }

// fakeHelperDevice satisfies d3d11.Device for the allocation helper.
type fakeHelperDevice struct {
	textures   []*fakeHelperTexture
	nextHandle xrt.NativeHandle
	descs      []d3d11.Texture2DDesc
	released   bool
}

var _ d3d11.Device = (*fakeHelperDevice)(nil)

func (d *fakeHelperDevice) CreateTexture2D(desc *d3d11.Texture2DDesc) (d3d11.Texture2D, error) {
	d.descs = append(d.descs, *desc)
	d.nextHandle += 2
	tex := &fakeHelperTexture{handle: d.nextHandle}
	d.textures = append(d.textures, tex)
	return tex, nil
}

func (d *fakeHelperDevice) OpenSharedResource(h xrt.NativeHandle) (d3d11.Texture2D, error) {
	return nil, errors.New("not used by the D3D12 bridge")
}

func (d *fakeHelperDevice) CreateFence(initial uint64, flags d3d11.FenceFlags) (d3d11.Fence, error) {
	return nil, errors.New("not used by the D3D12 bridge")
}

func (d *fakeHelperDevice) OpenSharedFence(h xrt.GraphicsSyncHandle) (d3d11.Fence, error) {
	return nil, errors.New("not used by the D3D12 bridge")
}

func (d *fakeHelperDevice) Adapter() (dxgi.Adapter, error) {
	return nil, errors.New("not used by the D3D12 bridge")
}

func (d *fakeHelperDevice) Release() { d.released = true }

type fakeHelperContext struct {
	released bool
}

var _ d3d11.Context = (*fakeHelperContext)(nil)

func (c *fakeHelperContext) Signal(f d3d11.Fence, value uint64) error { return nil }
func (c *fakeHelperContext) Wait(f d3d11.Fence, value uint64) error   { return nil }
func (c *fakeHelperContext) Release()                                 { c.released = true }

type fakeHelperTexture struct {
	handle   xrt.NativeHandle
	mutex    *fakeKeyedMutex
	released bool
}

var _ d3d11.Texture2D = (*fakeHelperTexture)(nil)

func (t *fakeHelperTexture) CreateSharedHandle() (xrt.NativeHandle, error) {
	return t.handle, nil
}

func (t *fakeHelperTexture) KeyedMutex() (d3d.KeyedMutex, error) {
	if t.mutex == nil {
		t.mutex = &fakeKeyedMutex{}
	}
	return t.mutex, nil
}

func (t *fakeHelperTexture) Release() { t.released = true }

type fakeKeyedMutex struct {
	acquires int
	releases int
	closed   bool
}

func (m *fakeKeyedMutex) AcquireSync(key uint64, timeoutMS uint32) (d3d.AcquireStatus, error) {
	m.acquires++
	return d3d.AcquireOK, nil
}

func (m *fakeKeyedMutex) ReleaseSync(key uint64) error {
	m.releases++
	return nil
}

func (m *fakeKeyedMutex) Close() error {
	m.closed = true
	return nil
}

// fakeAdapter and fakeFactory back the LUID lookup at construction.
type fakeAdapter struct {
	desc     dxgi.AdapterDesc
	released bool
}

func (a *fakeAdapter) Desc() (dxgi.AdapterDesc, error) { return a.desc, nil }
func (a *fakeAdapter) Release()                        { a.released = true }

type fakeFactory struct {
	adapters []*fakeAdapter
	released bool
}

var _ dxgi.Factory = (*fakeFactory)(nil)

func (f *fakeFactory) EnumAdapters(index uint32) (dxgi.Adapter, error) {
	if int(index) >= len(f.adapters) {
		return nil, dxgi.ErrAdapterNotFound
	}
	return f.adapters[index], nil
}

func (f *fakeFactory) Release() { f.released = true }

// fakeHandleOps hands out fresh handles and records closes.
type fakeHandleOps struct {
	next   xrt.NativeHandle
	dupped []xrt.NativeHandle
	closed []xrt.NativeHandle
}

var _ xrt.HandleOps = (*fakeHandleOps)(nil)

func (f *fakeHandleOps) Duplicate(h xrt.NativeHandle) (xrt.NativeHandle, error) {
	f.next += 2
	f.dupped = append(f.dupped, f.next)
	return f.next, nil
}

func (f *fakeHandleOps) Close(h xrt.NativeHandle) error {
	f.closed = append(f.closed, h)
	return nil
}

type fakeEvent struct {
	signaled bool
	closed   bool
	waits    int
}

func (e *fakeEvent) Wait(timeout time.Duration) (bool, error) {
	e.waits++
	return e.signaled, nil
}

func (e *fakeEvent) Close() error {
	e.closed = true
	return nil
}
