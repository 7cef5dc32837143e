// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package d3d11

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/xrcomp"
	"github.com/gogpu/xrcomp/d3d"
	"github.com/gogpu/xrcomp/dxgi"
	"github.com/gogpu/xrcomp/xrt"
)

// CompositorConfig configures a D3D11 client compositor bridge.
//
// Native, Device and Context are required; Device and Context stay owned
// by the caller. The remaining fields default to the real platform
// implementations and exist so tests can substitute fakes.
type CompositorConfig struct {
	Native  xrt.NativeCompositor
	Device  Device
	Context Context

	Options *xrcomp.Options
	Handles xrt.HandleOps

	NewDevice func(adapter dxgi.Adapter, debug bool) (Device, Context, error)
	NewEvent  func() (d3d.Event, error)
}

// Compositor bridges a D3D11 application to a native compositor. It
// allocates swapchain images on its own device on the app's adapter,
// shares them with both the app device and the native compositor, and
// synchronizes frame submission with whichever mechanism the negotiation
// at construction time settled on.
type Compositor struct {
	native xrt.NativeCompositor
	info   xrt.CompositorInfo

	opts    *xrcomp.Options
	handles xrt.HandleOps
	log     *slog.Logger

	appDevice  Device
	appContext Context

	compDevice  Device
	compContext Context

	// The fence lives on the device that signals it.
	fenceDevice  Device
	fenceContext Context

	// Exactly one sync mechanism is active after construction, or none.
	// With a semaphore, commits go through semSupport; with only a fence,
	// the bridge waits on the CPU before committing.
	semSupport xrt.SemaphoreSupport
	semaphore  xrt.Semaphore
	fence      Fence
	waitEvent  d3d.Event
	fenceValue uint64
}

var _ xrt.Compositor = (*Compositor)(nil)

// NewCompositor wraps native in a D3D11 bridge for an app rendering with
// device and context.
func NewCompositor(cfg CompositorConfig) (*Compositor, error) {
	if cfg.Native == nil || cfg.Device == nil || cfg.Context == nil {
		return nil, errors.New("d3d11: native compositor, device and context are required")
	}
	opts := cfg.Options
	if opts == nil {
		opts = xrcomp.NewOptions()
	}
	handles := cfg.Handles
	if handles == nil {
		handles = xrt.SystemHandles()
	}
	newDevice := cfg.NewDevice
	if newDevice == nil {
		newDevice = NewDevice
	}
	newEvent := cfg.NewEvent
	if newEvent == nil {
		newEvent = d3d.NewEvent
	}

	adapter, err := cfg.Device.Adapter()
	if err != nil {
		return nil, fmt.Errorf("querying the app device's adapter: %w", err)
	}
	compDevice, compContext, err := newDevice(adapter, opts.Debug)
	adapter.Release()
	if err != nil {
		return nil, fmt.Errorf("creating compositor device: %w", err)
	}

	c := &Compositor{
		native:       cfg.Native,
		opts:         opts,
		handles:      handles,
		log:          opts.Logger(),
		appDevice:    cfg.Device,
		appContext:   cfg.Context,
		compDevice:   compDevice,
		compContext:  compContext,
		fenceDevice:  cfg.Device,
		fenceContext: cfg.Context,
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
		c.log.Warn("no sync mechanism for D3D11 was successful, frames may tear")
	}
	return c, nil
}

// initTryTimelineSemaphores asks the native compositor for a timeline
// semaphore and imports it as a fence on the app device. A test signal
// catches drivers that import the handle but cannot actually signal it.
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

	fence, err := c.fenceDevice.OpenSharedFence(handle)
	_ = c.handles.Close(xrt.NativeHandle(handle))
	if err != nil {
		log.Warn("could not import the native compositor's timeline semaphore", "err", err)
		_ = sem.Close()
		return
	}

	if err := c.fenceContext.Signal(fence, c.fenceValue); err != nil {
		log.Warn("your graphics driver does not support importing the native compositor's "+
			"timeline semaphores into D3D11, falling back to local blocking", "err", err)
		fence.Release()
		_ = sem.Close()
		return
	}
	log.Info("imported a timeline semaphore and can signal it")

	c.semSupport = ss
	c.semaphore = sem
	c.fence = fence
}

// initTryInternalBlocking creates a private fence and event so the bridge
// can at least block on the CPU until the app's GPU work finishes.
func (c *Compositor) initTryInternalBlocking(newEvent func() (d3d.Event, error)) {
	log := c.log

	fence, err := c.fenceDevice.CreateFence(0, FenceFlagNone)
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

// CreateSwapchain allocates images on the compositor device, opens them on
// the app device, and imports them into the native compositor. info.Format
// is a DXGI format code; the native compositor sees the wire equivalent.
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

	compImages, handles, err := AllocateSharedImages(c.compDevice, info, props.ImageCount, true)
	if err != nil {
		return nil, err
	}

	var appImages []Texture2D
	fail := func(err error) (xrt.Swapchain, error) {
		for _, t := range appImages {
			t.Release()
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
		tex, err := c.appDevice.OpenSharedResource(dup)
		_ = c.handles.Close(dup)
		if err != nil {
			return fail(fmt.Errorf("opening image %d on the app device: %w", i, err))
		}
		appImages = append(appImages, tex)
	}

	mutexes := make([]d3d.KeyedMutex, 0, len(appImages))
	for i, tex := range appImages {
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

	nativeSC, err := d3d.ImportFromHandleDuplicates(c.native, c.handles, nativeInfo, handles)
	if err != nil {
		_ = coll.Close()
		return fail(err)
	}

	return &Swapchain{
		comp:       c,
		native:     nativeSC,
		appImages:  appImages,
		compImages: compImages,
		handles:    handles,
		mutexes:    coll,
	}, nil
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
		panic("d3d11: sync handles are managed by the bridge, pass xrt.InvalidSyncHandle")
	}

	if c.fence != nil {
		c.fenceValue++
		if err := c.fenceContext.Signal(c.fence, c.fenceValue); err != nil {
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
// device and context stay alive, they belong to the caller.
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
	if c.compContext != nil {
		c.compContext.Release()
		c.compContext = nil
	}
	if c.compDevice != nil {
		c.compDevice.Release()
		c.compDevice = nil
	}
	return c.native.Close()
}

func checkLayerType(data *xrt.LayerData, want xrt.LayerType) error {
	if data == nil {
		return errors.New("d3d11: nil layer data")
	}
	if data.Type != want {
		return fmt.Errorf("d3d11: layer data type %d submitted to entry point for type %d",
			data.Type, want)
	}
	return nil
}

func unwrap(sc xrt.Swapchain) (xrt.Swapchain, error) {
	own, ok := sc.(*Swapchain)
	if !ok {
		return nil, fmt.Errorf("d3d11: swapchain %T was not created by this compositor", sc)
	}
	return own.native, nil
}

// Swapchain pairs app-device views of the shared images with the native
// compositor's swapchain, moving keyed mutex ownership in lockstep with
// wait and release.
type Swapchain struct {
	comp   *Compositor
	native xrt.Swapchain

	appImages  []Texture2D
	compImages []Texture2D
	handles    []xrt.NativeHandle
	mutexes    *d3d.KeyedMutexCollection
}

var _ xrt.Swapchain = (*Swapchain)(nil)

// Images returns the app-device textures, one per swapchain image index.
// The swapchain keeps ownership.
func (s *Swapchain) Images() []Texture2D { return s.appImages }

func (s *Swapchain) ImageCount() uint32 { return s.native.ImageCount() }

func (s *Swapchain) Acquire() (uint32, error) { return s.native.Acquire() }

func (s *Swapchain) WaitImage(timeout time.Duration, index uint32) error {
	if err := s.native.WaitImage(timeout, index); err != nil {
		return err
	}
	return s.mutexes.WaitKeyedMutex(index, timeout)
}

func (s *Swapchain) ReleaseImage(index uint32) error {
	if err := s.native.ReleaseImage(index); err != nil {
		return err
	}
	return s.mutexes.ReleaseKeyedMutex(index)
}

func (s *Swapchain) Close() error {
	err := s.mutexes.Close()
	for _, t := range s.appImages {
		t.Release()
	}
	s.appImages = nil
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
