package d3d11

import (
	"errors"
	"time"

	"github.com/gogpu/xrcomp/d3d"
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

	commitIDs     []xrt.FrameID
	commitSyncs   []xrt.GraphicsSyncHandle
	layerCalls    []string
	layerSC       []xrt.Swapchain
	begunSessions []xrt.ViewType
	closed        bool
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

func (n *fakeNative) BeginSession(t xrt.ViewType) error {
	n.begunSessions = append(n.begunSessions, t)
	return nil
}
func (n *fakeNative) EndSession() error { return nil }

func (n *fakeNative) WaitFrame() (xrt.FrameTiming, error) {
	return xrt.FrameTiming{FrameID: 1}, nil
}
func (n *fakeNative) BeginFrame(id xrt.FrameID) error   { return nil }
func (n *fakeNative) DiscardFrame(id xrt.FrameID) error { return nil }

func (n *fakeNative) LayerBegin(id xrt.FrameID, displayTime uint64, blend xrt.BlendMode) error {
	n.layerCalls = append(n.layerCalls, "begin")
	return nil
}

func (n *fakeNative) LayerStereoProjection(left, right xrt.Swapchain, data *xrt.LayerData) error {
	n.layerCalls = append(n.layerCalls, "proj")
	n.layerSC = append(n.layerSC, left, right)
	return nil
}

func (n *fakeNative) LayerStereoProjectionDepth(left, right, leftDepth, rightDepth xrt.Swapchain, data *xrt.LayerData) error {
	n.layerCalls = append(n.layerCalls, "projdepth")
	n.layerSC = append(n.layerSC, left, right, leftDepth, rightDepth)
	return nil
}

func (n *fakeNative) LayerQuad(sc xrt.Swapchain, data *xrt.LayerData) error {
	n.layerCalls = append(n.layerCalls, "quad")
	n.layerSC = append(n.layerSC, sc)
	return nil
}

func (n *fakeNative) LayerCube(sc xrt.Swapchain, data *xrt.LayerData) error {
	n.layerCalls = append(n.layerCalls, "cube")
	n.layerSC = append(n.layerSC, sc)
	return nil
}

func (n *fakeNative) LayerCylinder(sc xrt.Swapchain, data *xrt.LayerData) error {
	n.layerCalls = append(n.layerCalls, "cylinder")
	n.layerSC = append(n.layerSC, sc)
	return nil
}

func (n *fakeNative) LayerEquirect1(sc xrt.Swapchain, data *xrt.LayerData) error {
	n.layerCalls = append(n.layerCalls, "equirect1")
	n.layerSC = append(n.layerSC, sc)
	return nil
}

func (n *fakeNative) LayerEquirect2(sc xrt.Swapchain, data *xrt.LayerData) error {
	n.layerCalls = append(n.layerCalls, "equirect2")
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

	semCommitIDs    []xrt.FrameID
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
	n.semCommitIDs = append(n.semCommitIDs, id)
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

// fakeDXGIAdapter satisfies dxgi.Adapter.
type fakeDXGIAdapter struct {
	desc     dxgi.AdapterDesc
	released bool
}

func (a *fakeDXGIAdapter) Desc() (dxgi.AdapterDesc, error) { return a.desc, nil }
func (a *fakeDXGIAdapter) Release()                        { a.released = true }

// fakeDevice is a scriptable Device.
type fakeDevice struct {
	adapter    *fakeDXGIAdapter
	adapterErr error

	textures     []*fakeTexture
	nextHandle   xrt.NativeHandle
	createErr    error
	createFailOn int // fail the n-th CreateTexture2D, 1-based
	handleFailOn int // the n-th texture refuses CreateSharedHandle, 1-based
	descs        []Texture2DDesc

	opened   []*fakeTexture
	openedOn []xrt.NativeHandle
	openErr  error

	fences         []*fakeDevFence
	fenceHandle    xrt.GraphicsSyncHandle
	fenceHandleErr error
	createFenceErr error

	importedFence *fakeDevFence
	openSharedErr error
	openedFenceOn []xrt.GraphicsSyncHandle

	released bool
}

var _ Device = (*fakeDevice)(nil)

func (d *fakeDevice) CreateTexture2D(desc *Texture2DDesc) (Texture2D, error) {
	if d.createErr != nil {
		return nil, d.createErr
	}
	if d.createFailOn > 0 && len(d.textures)+1 == d.createFailOn {
		return nil, errors.New("out of memory")
	}
	d.descs = append(d.descs, *desc)
	d.nextHandle += 2
	tex := &fakeTexture{handle: d.nextHandle}
	if d.handleFailOn > 0 && len(d.textures)+1 == d.handleFailOn {
		tex.handleErr = errors.New("sharing refused")
	}
	d.textures = append(d.textures, tex)
	return tex, nil
}

func (d *fakeDevice) OpenSharedResource(h xrt.NativeHandle) (Texture2D, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	d.openedOn = append(d.openedOn, h)
	tex := &fakeTexture{}
	d.opened = append(d.opened, tex)
	return tex, nil
}

func (d *fakeDevice) CreateFence(initial uint64, flags FenceFlags) (Fence, error) {
	if d.createFenceErr != nil {
		return nil, d.createFenceErr
	}
	f := &fakeDevFence{completed: initial, flags: flags,
		handle: d.fenceHandle, handleErr: d.fenceHandleErr}
	d.fences = append(d.fences, f)
	return f, nil
}

func (d *fakeDevice) OpenSharedFence(h xrt.GraphicsSyncHandle) (Fence, error) {
	d.openedFenceOn = append(d.openedFenceOn, h)
	if d.openSharedErr != nil {
		return nil, d.openSharedErr
	}
	d.importedFence = &fakeDevFence{}
	return d.importedFence, nil
}

func (d *fakeDevice) Adapter() (dxgi.Adapter, error) {
	if d.adapterErr != nil {
		return nil, d.adapterErr
	}
	if d.adapter == nil {
		d.adapter = &fakeDXGIAdapter{}
	}
	return d.adapter, nil
}

func (d *fakeDevice) Release() { d.released = true }

// fakeContext records fence signals.
type fakeContext struct {
	signals         []uint64
	signalFences    []Fence
	signalErr       error
	failFirstSignal bool

	// stuck leaves the fence's completed value behind its signaled
	// value, like a GPU that never finishes.
	stuck bool

	released bool
}

var _ Context = (*fakeContext)(nil)

func (c *fakeContext) Signal(f Fence, value uint64) error {
	if c.failFirstSignal {
		c.failFirstSignal = false
		return errors.New("driver refused")
	}
	if c.signalErr != nil {
		return c.signalErr
	}
	c.signals = append(c.signals, value)
	c.signalFences = append(c.signalFences, f)
	if df, ok := f.(*fakeDevFence); ok && !c.stuck {
		df.completed = value
	}
	return nil
}

func (c *fakeContext) Wait(f Fence, value uint64) error { return nil }

func (c *fakeContext) Release() { c.released = true }

type fakeTexture struct {
	handle    xrt.NativeHandle
	handleErr error
	mutex     *fakeKeyedMutex
	mutexErr  error
	released  bool
}

var _ Texture2D = (*fakeTexture)(nil)

func (t *fakeTexture) CreateSharedHandle() (xrt.NativeHandle, error) {
	if t.handleErr != nil {
		return xrt.InvalidNativeHandle, t.handleErr
	}
	return t.handle, nil
}

func (t *fakeTexture) KeyedMutex() (d3d.KeyedMutex, error) {
	if t.mutexErr != nil {
		return nil, t.mutexErr
	}
	if t.mutex == nil {
		t.mutex = &fakeKeyedMutex{}
	}
	return t.mutex, nil
}

func (t *fakeTexture) Release() { t.released = true }

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

type fakeDevFence struct {
	completed uint64
	flags     FenceFlags
	handle    xrt.GraphicsSyncHandle
	handleErr error
	released  bool
}

var _ Fence = (*fakeDevFence)(nil)

func (f *fakeDevFence) CompletedValue() (uint64, error) { return f.completed, nil }

func (f *fakeDevFence) SetEventOnCompletion(value uint64, ev d3d.Event) error { return nil }

func (f *fakeDevFence) CreateSharedHandle() (xrt.GraphicsSyncHandle, error) {
	return f.handle, f.handleErr
}

func (f *fakeDevFence) Release() { f.released = true }

// fakeHandleOps hands out fresh handles and records closes.
type fakeHandleOps struct {
	next   xrt.NativeHandle
	dupped []xrt.NativeHandle
	closed []xrt.NativeHandle
	dupErr error
}

var _ xrt.HandleOps = (*fakeHandleOps)(nil)

func (f *fakeHandleOps) Duplicate(h xrt.NativeHandle) (xrt.NativeHandle, error) {
	if f.dupErr != nil {
		return xrt.InvalidNativeHandle, f.dupErr
	}
	f.next += 2
	f.dupped = append(f.dupped, f.next)
	return f.next, nil
}

func (f *fakeHandleOps) Close(h xrt.NativeHandle) error {
	f.closed = append(f.closed, h)
	return nil
}

// fakeEvent satisfies d3d.Event.
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
