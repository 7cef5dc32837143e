// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package d3d12

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/xrcomp"
	"github.com/gogpu/xrcomp/d3d"
	"github.com/gogpu/xrcomp/d3d11"
	"github.com/gogpu/xrcomp/dxgi"
	"github.com/gogpu/xrcomp/xrt"
)

// CompositorConfig configures a D3D12 client compositor bridge.
//
// Native, Device and Queue are required; Device and Queue stay owned by
// the caller. The remaining fields default to the real platform
// implementations and exist so tests can substitute fakes.
type CompositorConfig struct {
	Native xrt.NativeCompositor
	Device Device
	Queue  Queue

	Options *xrcomp.Options
	Handles xrt.HandleOps

	NewFactory     func() (dxgi.Factory, error)
	NewD3D11Device func(adapter dxgi.Adapter, debug bool) (d3d11.Device, d3d11.Context, error)
	NewEvent       func() (d3d.Event, error)
}

// Compositor bridges a D3D12 application to a native compositor. Images
// are allocated by a helper D3D11 device on the app's adapter, imported
// into the app's D3D12 device, and handed off with keyed mutexes plus,
// optionally, recorded state transition barriers.
type Compositor struct {
	native xrt.NativeCompositor
	info   xrt.CompositorInfo

	opts    *xrcomp.Options
	handles xrt.HandleOps
	log     *slog.Logger

	device    Device
	queue     Queue
	allocator CommandAllocator

	// Allocation helper on the same adapter.
	d3d11Device  d3d11.Device
	d3d11Context d3d11.Context

	// Exactly one sync mechanism is active after construction, or none.
	semSupport xrt.SemaphoreSupport
	semaphore  xrt.Semaphore
	fence      Fence
	waitEvent  d3d.Event
	fenceValue uint64
}

var _ xrt.Compositor = (*Compositor)(nil)

// NewCompositor wraps native in a D3D12 bridge for an app rendering with
// device and queue.
func NewCompositor(cfg CompositorConfig) (*Compositor, error) {
	if cfg.Native == nil || cfg.Device == nil || cfg.Queue == nil {
		return nil, errors.New("d3d12: native compositor, device and queue are required")
	}
	opts := cfg.Options
	if opts == nil {
		opts = xrcomp.NewOptions()
	}
	handles := cfg.Handles
	if handles == nil {
		handles = xrt.SystemHandles()
	}
	newFactory := cfg.NewFactory
	if newFactory == nil {
		newFactory = dxgi.NewFactory
	}
	newD3D11Device := cfg.NewD3D11Device
	if newD3D11Device == nil {
		newD3D11Device = d3d11.NewDevice
	}
	newEvent := cfg.NewEvent
	if newEvent == nil {
		newEvent = d3d.NewEvent
	}

	allocator, err := cfg.Device.CreateCommandAllocator(CommandListTypeDirect)
	if err != nil {
		return nil, fmt.Errorf("creating command allocator: %w", err)
	}

	luid, err := cfg.Device.AdapterLUID()
	if err != nil {
		allocator.Release()
		return nil, fmt.Errorf("querying the app device's adapter LUID: %w", err)
	}
	factory, err := newFactory()
	if err != nil {
		allocator.Release()
		return nil, fmt.Errorf("creating DXGI factory: %w", err)
	}
	adapter, err := dxgi.AdapterByLUID(factory, luid)
	factory.Release()
	if err != nil {
		allocator.Release()
		return nil, fmt.Errorf("finding adapter %v: %w", luid, err)
	}
	d11dev, d11ctx, err := newD3D11Device(adapter, opts.Debug)
	adapter.Release()
	if err != nil {
		allocator.Release()
		return nil, fmt.Errorf("creating allocation helper device: %w", err)
	}

	c := &Compositor{
		native:       cfg.Native,
		opts:         opts,
		handles:      handles,
		log:          opts.Logger(),
		device:       cfg.Device,
		queue:        cfg.Queue,
		allocator:    allocator,
		d3d11Device:  d11dev,
		d3d11Context: d11ctx,
	}

	nativeInfo := cfg.Native.Info()
	formats := dxgi.PassthroughFormats(nativeInfo.Formats, opts.AllowDepthFormats)
	c.info.Formats = make([]uint64, len(formats))
	for i, f := range formats {
		c.info.Formats[i] = uint64(f)
	}

	c.initTryTimelineSemaphores()
	if c.semaphore == nil {
		c.initTryInternalBlocking(newEvent)
	}
	if c.fence == nil {
		c.log.Warn("no sync mechanism for D3D12 was successful, frames may tear")
	}
	return c, nil
}

// initTryTimelineSemaphores asks the native compositor for a timeline
// semaphore and imports it as a fence. D3D12 waits reject non-monitored
// fences, so an import that comes back non-monitored is unusable.
func (c *Compositor) initTryTimelineSemaphores() {
	// Valid semaphore values start at 1.
	c.fenceValue = 1

	ss, ok := c.native.(xrt.SemaphoreSupport)
	if !ok {
		return
	}
	log := c.log

	sem, handle, err := ss.CreateSemaphore()
	if err != nil {
		log.Warn("native compositor tried but failed to create a timeline semaphore for us", "err", err)
		return
	}
	log.Info("native compositor created a timeline semaphore for us")

	fence, err := c.device.OpenSharedHandleFence(handle)
	_ = c.handles.Close(xrt.NativeHandle(handle))
	if err != nil {
		log.Warn("could not import the native compositor's timeline semaphore", "err", err)
		_ = sem.Close()
		return
	}
	if fence.CreationFlags()&FenceFlagNonMonitored != 0 {
		log.Warn("the native compositor's semaphore imported as a non-monitored fence, falling back to local blocking")
		fence.Release()
		_ = sem.Close()
		return
	}

	if err := fence.Signal(c.fenceValue); err != nil {
		log.Warn("your graphics driver does not support importing the native compositor's "+
			"timeline semaphores into D3D12, falling back to local blocking", "err", err)
		fence.Release()
		_ = sem.Close()
		return
	}
	log.Info("imported a timeline semaphore and can signal it")

	c.semSupport = ss
	c.semaphore = sem
	c.fence = fence
}

func (c *Compositor) initTryInternalBlocking(newEvent func() (d3d.Event, error)) {
	log := c.log

	fence, err := c.device.CreateFence(0, FenceFlagNone)
	if err != nil {
		log.Warn("cannot even create a fence for internal use", "err", err)
		return
	}
	ev, err := newEvent()
	if err != nil {
		log.Error("error creating event for synchronization usage", "err", err)
		fence.Release()
		return
	}
	log.Info("created our own fence and will wait on it ourselves")

	c.fence = fence
	c.waitEvent = ev
}

func (c *Compositor) Info() xrt.CompositorInfo { return c.info }

func (c *Compositor) SwapchainCreateProperties(info xrt.SwapchainCreateInfo) (xrt.SwapchainCreateProperties, error) {
	return c.native.SwapchainCreateProperties(info)
}

// CreateSwapchain allocates images through the helper D3D11 device, opens
// them on the app's D3D12 device, and imports them into the native
// compositor. info.Format is a DXGI format code; the native compositor
// sees the wire equivalent.
func (c *Compositor) CreateSwapchain(info xrt.SwapchainCreateInfo) (xrt.Swapchain, error) {
	props, err := c.native.SwapchainCreateProperties(info)
	if err != nil {
		return nil, fmt.Errorf("querying swapchain properties: %w", err)
	}
	if info.CreateFlags&xrt.SwapchainCreateProtectedContent != 0 {
		return nil, xrt.ErrSwapchainFlagValidButUnsupported
	}

	format := dxgi.Format(info.Format)
	wire := format.Wire()
	if wire == gputypes.TextureFormatUndefined {
		c.log.Warn("swapchain format has no wire equivalent", "format", format)
		return nil, xrt.ErrSwapchainFormatUnsupported
	}
	nativeInfo := info
	nativeInfo.Format = uint64(wire)

	compImages, handles, err := d3d11.AllocateSharedImages(c.d3d11Device, info, props.ImageCount, true)
	if err != nil {
		return nil, err
	}

	var resources []Resource
	fail := func(err error) (xrt.Swapchain, error) {
		for _, r := range resources {
			r.Release()
		}
		for _, t := range compImages {
			t.Release()
		}
		for _, h := range handles {
			_ = c.handles.Close(h)
		}
		return nil, err
	}

	for i, h := range handles {
		dup, err := c.handles.Duplicate(h)
		if err != nil {
			return fail(fmt.Errorf("duplicating handle for image %d: %w", i, err))
		}
		res, err := c.device.OpenSharedHandleResource(dup)
		_ = c.handles.Close(dup)
		if err != nil {
			return fail(fmt.Errorf("opening image %d on the app device: %w", i, err))
		}
		resources = append(resources, res)
	}

	mutexes := make([]d3d.KeyedMutex, 0, len(compImages))
	for i, tex := range compImages {
		m, err := tex.KeyedMutex()
		if err != nil {
			for _, held := range mutexes {
				_ = held.Close()
			}
			return fail(fmt.Errorf("querying keyed mutex for image %d: %w", i, err))
		}
		mutexes = append(mutexes, m)
	}
	coll := d3d.NewKeyedMutexCollection(mutexes, c.log)

	appState := AppResourceStateFromUsage(info.Usage)

	if c.opts.ApplyInitialTransition {
		if err := c.initialTransition(resources, appState); err != nil {
			_ = coll.Close()
			return fail(fmt.Errorf("transitioning images to the application state: %w", err))
		}
	}

	sc := &Swapchain{
		comp:       c,
		compImages: compImages,
		resources:  resources,
		handles:    handles,
		mutexes:    coll,
		appState:   appState,
	}
	if c.opts.UseRuntimeBarriers {
		if err := sc.buildBarriers(); err != nil {
			sc.releaseBarriers()
			_ = coll.Close()
			return fail(fmt.Errorf("recording transition barriers: %w", err))
		}
	}

	nativeSC, err := d3d.ImportFromHandleDuplicates(c.native, c.handles, nativeInfo, handles)
	if err != nil {
		sc.releaseBarriers()
		_ = coll.Close()
		return fail(err)
	}
	sc.native = nativeSC
	return sc, nil
}

// initialTransition moves all images from COMMON to the app state with one
// command list on the app's queue.
func (c *Compositor) initialTransition(resources []Resource, appState ResourceStates) error {
	list, err := c.device.CreateCommandList(c.allocator)
	if err != nil {
		return err
	}
	defer list.Release()
	for _, r := range resources {
		if err := list.TransitionBarrier(r, ResourceStateCommon, appState); err != nil {
			return err
		}
	}
	if err := list.Close(); err != nil {
		return err
	}
	return c.queue.ExecuteCommandLists([]CommandList{list})
}

func (c *Compositor) BeginSession(t xrt.ViewType) error { return c.native.BeginSession(t) }
func (c *Compositor) EndSession() error                 { return c.native.EndSession() }

func (c *Compositor) WaitFrame() (xrt.FrameTiming, error) { return c.native.WaitFrame() }
func (c *Compositor) BeginFrame(id xrt.FrameID) error     { return c.native.BeginFrame(id) }
func (c *Compositor) DiscardFrame(id xrt.FrameID) error   { return c.native.DiscardFrame(id) }

func (c *Compositor) LayerBegin(id xrt.FrameID, displayTime uint64, blend xrt.BlendMode) error {
	return c.native.LayerBegin(id, displayTime, blend)
}

func (c *Compositor) LayerStereoProjection(left, right xrt.Swapchain, data *xrt.LayerData) error {
	if err := checkLayerType(data, xrt.LayerStereoProjection); err != nil {
		return err
	}
	l, err := unwrap(left)
	if err != nil {
		return err
	}
	r, err := unwrap(right)
	if err != nil {
		return err
	}
	return c.native.LayerStereoProjection(l, r, data)
}

func (c *Compositor) LayerStereoProjectionDepth(left, right, leftDepth, rightDepth xrt.Swapchain, data *xrt.LayerData) error {
	if err := checkLayerType(data, xrt.LayerStereoProjectionDepth); err != nil {
		return err
	}
	scs := [4]xrt.Swapchain{}
	for i, sc := range []xrt.Swapchain{left, right, leftDepth, rightDepth} {
		n, err := unwrap(sc)
		if err != nil {
			return err
		}
		scs[i] = n
	}
	return c.native.LayerStereoProjectionDepth(scs[0], scs[1], scs[2], scs[3], data)
}

func (c *Compositor) LayerQuad(sc xrt.Swapchain, data *xrt.LayerData) error {
	return c.layerSimple(sc, data, xrt.LayerQuad, c.native.LayerQuad)
}

func (c *Compositor) LayerCube(sc xrt.Swapchain, data *xrt.LayerData) error {
	return c.layerSimple(sc, data, xrt.LayerCube, c.native.LayerCube)
}

func (c *Compositor) LayerCylinder(sc xrt.Swapchain, data *xrt.LayerData) error {
	return c.layerSimple(sc, data, xrt.LayerCylinder, c.native.LayerCylinder)
}

func (c *Compositor) LayerEquirect1(sc xrt.Swapchain, data *xrt.LayerData) error {
	return c.layerSimple(sc, data, xrt.LayerEquirect1, c.native.LayerEquirect1)
}

func (c *Compositor) LayerEquirect2(sc xrt.Swapchain, data *xrt.LayerData) error {
	return c.layerSimple(sc, data, xrt.LayerEquirect2, c.native.LayerEquirect2)
}

func (c *Compositor) layerSimple(sc xrt.Swapchain, data *xrt.LayerData, want xrt.LayerType,
	forward func(xrt.Swapchain, *xrt.LayerData) error) error {
	if err := checkLayerType(data, want); err != nil {
		return err
	}
	n, err := unwrap(sc)
	if err != nil {
		return err
	}
	return forward(n, data)
}

// LayerCommit finishes the frame. Synchronization with the app's GPU work
// is this bridge's job, so callers must pass an invalid sync handle.
func (c *Compositor) LayerCommit(id xrt.FrameID, sync xrt.GraphicsSyncHandle) error {
	if sync.Valid() {
		panic("d3d12: sync handles are managed by the bridge, pass xrt.InvalidSyncHandle")
	}

	if c.fence != nil {
		c.fenceValue++
		if err := c.fence.Signal(c.fenceValue); err != nil {
			c.log.Error("error signaling fence", "err", err)
			return c.native.LayerCommit(id, xrt.InvalidSyncHandle)
		}
	}

	if c.semaphore != nil {
		return c.semSupport.LayerCommitWithSemaphore(id, c.semaphore, c.fenceValue)
	}

	if c.fence != nil {
		err := d3d.WaitOnFenceWithTimeout(c.fence, c.waitEvent, c.fenceValue, c.opts.FenceTimeout)
		if err != nil {
			c.log.Error("error waiting on fence", "value", c.fenceValue, "err", err)
			return fmt.Errorf("waiting for completion of fence value %d: %w", c.fenceValue, err)
		}
	}

	return c.native.LayerCommit(id, xrt.InvalidSyncHandle)
}

func (c *Compositor) PollEvents() (xrt.Event, error) { return c.native.PollEvents() }

// Close destroys the bridge and its native compositor reference. The app
// device and queue stay alive, they belong to the caller.
func (c *Compositor) Close() error {
	if c.semaphore != nil {
		_ = c.semaphore.Close()
		c.semaphore = nil
		c.semSupport = nil
	}
	if c.fence != nil {
		c.fence.Release()
		c.fence = nil
	}
	if c.waitEvent != nil {
		_ = c.waitEvent.Close()
		c.waitEvent = nil
	}
	if c.allocator != nil {
		c.allocator.Release()
		c.allocator = nil
	}
	if c.d3d11Context != nil {
		c.d3d11Context.Release()
		c.d3d11Context = nil
	}
	if c.d3d11Device != nil {
		c.d3d11Device.Release()
		c.d3d11Device = nil
	}
	return c.native.Close()
}

func checkLayerType(data *xrt.LayerData, want xrt.LayerType) error {
	if data == nil {
		return errors.New("d3d12: nil layer data")
	}
	if data.Type != want {
		return fmt.Errorf("d3d12: layer data type %d submitted to entry point for type %d",
			data.Type, want)
	}
	return nil
}

func unwrap(sc xrt.Swapchain) (xrt.Swapchain, error) {
	own, ok := sc.(*Swapchain)
	if !ok {
		return nil, fmt.Errorf("d3d12: swapchain %T was not created by this compositor", sc)
	}
	return own.native, nil
}

// Swapchain pairs D3D12 views of the shared images with the native
// compositor's swapchain. Keyed mutex ownership moves with wait and
// release; when runtime barriers are enabled, recorded transitions move
// each image between the compositor and application states too.
type Swapchain struct {
	comp   *Compositor
	native xrt.Swapchain

	compImages []d3d11.Texture2D
	resources  []Resource
	handles    []xrt.NativeHandle
	mutexes    *d3d.KeyedMutexCollection

	appState ResourceStates

	// Per image, recorded once, empty when runtime barriers are off.
	commandsToApp        []CommandList
	commandsToCompositor []CommandList
	states               []ResourceStates
}

var _ xrt.Swapchain = (*Swapchain)(nil)

// Resources returns the app-device resources, one per swapchain image
// index. The swapchain keeps ownership.
func (s *Swapchain) Resources() []Resource { return s.resources }

func (s *Swapchain) ImageCount() uint32 { return s.native.ImageCount() }

func (s *Swapchain) Acquire() (uint32, error) { return s.native.Acquire() }

func (s *Swapchain) WaitImage(timeout time.Duration, index uint32) error {
	if err := s.native.WaitImage(timeout, index); err != nil {
		return err
	}
	if err := s.mutexes.WaitKeyedMutex(index, timeout); err != nil {
		return err
	}
	return s.barrierToApp(index)
}

func (s *Swapchain) ReleaseImage(index uint32) error {
	if err := s.native.ReleaseImage(index); err != nil {
		return err
	}
	if err := s.mutexes.ReleaseKeyedMutex(index); err != nil {
		return err
	}
	return s.barrierToCompositor(index)
}

// buildBarriers records one pair of transition lists per image and marks
// every image as being in the application state, which the initial
// transition put it in.
func (s *Swapchain) buildBarriers() error {
	n := len(s.resources)
	s.commandsToApp = make([]CommandList, 0, n)
	s.commandsToCompositor = make([]CommandList, 0, n)
	s.states = make([]ResourceStates, n)
	for i, r := range s.resources {
		toApp, err := s.recordTransition(r, compositorResourceState, s.appState)
		if err != nil {
			return err
		}
		s.commandsToApp = append(s.commandsToApp, toApp)
		toComp, err := s.recordTransition(r, s.appState, compositorResourceState)
		if err != nil {
			return err
		}
		s.commandsToCompositor = append(s.commandsToCompositor, toComp)
		s.states[i] = s.appState
	}
	return nil
}

func (s *Swapchain) recordTransition(r Resource, before, after ResourceStates) (CommandList, error) {
	list, err := s.comp.device.CreateCommandList(s.comp.allocator)
	if err != nil {
		return nil, err
	}
	if err := list.TransitionBarrier(r, before, after); err != nil {
		list.Release()
		return nil, err
	}
	if err := list.Close(); err != nil {
		list.Release()
		return nil, err
	}
	return list, nil
}

func (s *Swapchain) barrierToApp(index uint32) error {
	if len(s.commandsToApp) == 0 {
		return nil
	}
	switch s.states[index] {
	case s.appState:
		s.comp.log.Info("image already in the application state", "index", index)
		return nil
	case compositorResourceState:
		if err := s.comp.queue.ExecuteCommandLists([]CommandList{s.commandsToApp[index]}); err != nil {
			return err
		}
		s.states[index] = s.appState
		return nil
	}
	s.comp.log.Warn("image in an unexpected state", "index", index, "state", s.states[index])
	return fmt.Errorf("d3d12: image %d in unexpected state %#x", index, s.states[index])
}

func (s *Swapchain) barrierToCompositor(index uint32) error {
	if len(s.commandsToCompositor) == 0 {
		return nil
	}
	switch s.states[index] {
	case compositorResourceState:
		s.comp.log.Info("image already in the compositor state", "index", index)
		return nil
	case s.appState:
		if err := s.comp.queue.ExecuteCommandLists([]CommandList{s.commandsToCompositor[index]}); err != nil {
			return err
		}
		s.states[index] = compositorResourceState
		return nil
	}
	s.comp.log.Warn("image in an unexpected state", "index", index, "state", s.states[index])
	return fmt.Errorf("d3d12: image %d in unexpected state %#x", index, s.states[index])
}

func (s *Swapchain) releaseBarriers() {
	for _, l := range s.commandsToApp {
		l.Release()
	}
	s.commandsToApp = nil
	for _, l := range s.commandsToCompositor {
		l.Release()
	}
	s.commandsToCompositor = nil
	s.states = nil
}

func (s *Swapchain) Close() error {
	err := s.mutexes.Close()
	s.releaseBarriers()
	for _, r := range s.resources {
		r.Release()
	}
	s.resources = nil
	for _, t := range s.compImages {
		t.Release()
	}
	s.compImages = nil
	for _, h := range s.handles {
		_ = s.comp.handles.Close(h)
	}
	s.handles = nil
	if cerr := s.native.Close(); err == nil {
		err = cerr
	}
	return err
}
