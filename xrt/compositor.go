// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xrt

import (
	"math"
	"time"
)

// InfiniteTimeout makes a bounded wait block until completion.
const InfiniteTimeout time.Duration = math.MaxInt64

// SwapchainUsageBits describe how the application will use swapchain
// images. Bridges translate these to API-specific bind flags and resource
// states.
type SwapchainUsageBits uint32

const (
	SwapchainUsageColor           SwapchainUsageBits = 0x01
	SwapchainUsageDepthStencil    SwapchainUsageBits = 0x02
	SwapchainUsageUnorderedAccess SwapchainUsageBits = 0x04
	SwapchainUsageTransferSrc     SwapchainUsageBits = 0x08
	SwapchainUsageTransferDst     SwapchainUsageBits = 0x10
	SwapchainUsageSampled         SwapchainUsageBits = 0x20
	SwapchainUsageMutableFormat   SwapchainUsageBits = 0x40
	SwapchainUsageInputAttachment SwapchainUsageBits = 0x80
)

// SwapchainCreateFlags modify swapchain creation.
type SwapchainCreateFlags uint32

const (
	// SwapchainCreateProtectedContent requests images readable only by
	// trusted hardware paths.
	SwapchainCreateProtectedContent SwapchainCreateFlags = 0x01

	// SwapchainCreateStaticImage requests a single image written once.
	SwapchainCreateStaticImage SwapchainCreateFlags = 0x02
)

// SwapchainCreateInfo describes a swapchain to create or import.
//
// Format is a graphics-API format code whose meaning depends on the
// boundary the info crosses: a client bridge receives its own API's code
// (a DXGI format for the D3D bridges) and rewrites it to the API-neutral
// wire code before talking to the native compositor.
type SwapchainCreateInfo struct {
	CreateFlags SwapchainCreateFlags
	Usage       SwapchainUsageBits
	Format      uint64
	SampleCount uint32
	Width       uint32
	Height      uint32
	FaceCount   uint32
	ArraySize   uint32
	MipCount    uint32
}

// SwapchainCreateProperties is what the native compositor reports about a
// swapchain it would create for a given SwapchainCreateInfo.
type SwapchainCreateProperties struct {
	// ImageCount is the number of images the swapchain will hold.
	ImageCount uint32
}

// Swapchain is a set of images cycled between the application and the
// compositor.
//
// Images move through acquire, wait, release. Close frees the swapchain
// and every resource the creating bridge attached to it.
type Swapchain interface {
	// ImageCount returns the number of images in the swapchain.
	ImageCount() uint32

	// Acquire reserves the next image index for the application.
	Acquire() (index uint32, err error)

	// WaitImage blocks until the acquired image at index is ready for
	// the application, or the timeout elapses (ErrTimeout).
	WaitImage(timeout time.Duration, index uint32) error

	// ReleaseImage returns the image at index to the compositor.
	ReleaseImage(index uint32) error

	// Close frees the swapchain.
	Close() error
}

// Semaphore is a timeline semaphore owned by the native compositor.
type Semaphore interface {
	// Wait blocks until the semaphore reaches value or the timeout
	// elapses (ErrTimeout).
	Wait(value uint64, timeout time.Duration) error

	// Close releases the client's reference.
	Close() error
}

// FrameID identifies one frame from WaitFrame through commit or discard.
type FrameID int64

// FrameTiming is the native compositor's prediction for a frame.
type FrameTiming struct {
	FrameID FrameID

	// PredictedDisplayTime is the predicted photon time, in nanoseconds
	// on the compositor clock.
	PredictedDisplayTime uint64

	// PredictedDisplayPeriod is the expected time between frames, in
	// nanoseconds.
	PredictedDisplayPeriod uint64
}

// ViewType selects mono or stereo rendering for a session.
type ViewType uint8

const (
	ViewTypeMono ViewType = iota
	ViewTypeStereo
)

// BlendMode is how a frame is blended with the user's view of reality.
type BlendMode uint8

const (
	BlendModeOpaque BlendMode = iota
	BlendModeAdditive
	BlendModeAlphaBlend
)

// LayerType discriminates LayerData.
type LayerType uint8

const (
	LayerStereoProjection LayerType = iota
	LayerStereoProjectionDepth
	LayerQuad
	LayerCube
	LayerCylinder
	LayerEquirect1
	LayerEquirect2
)

// LayerFlags modify layer composition.
type LayerFlags uint32

const (
	LayerFlagCorrectChromaticAberration LayerFlags = 0x01
	LayerFlagTextureSourceAlpha         LayerFlags = 0x02
	LayerFlagUnpremultipliedAlpha       LayerFlags = 0x04
)

// LayerData is the per-layer payload submitted between LayerBegin and
// LayerCommit. Bridges pass it through unchanged; only Type is inspected,
// to check that the payload matches the entry point it was submitted to.
type LayerData struct {
	Type        LayerType
	Flags       LayerFlags
	DisplayTime uint64
	FlipY       bool
}

// EventType discriminates compositor events.
type EventType uint8

const (
	// EventNone means no event was pending.
	EventNone EventType = iota

	// EventSessionStateChange reports visibility or focus changes.
	EventSessionStateChange

	// EventOverlayChange reports the primary session coming or going
	// while this session runs as an overlay.
	EventOverlayChange
)

// Event is one compositor event drained by PollEvents.
type Event struct {
	Type EventType

	// Session state, valid for EventSessionStateChange.
	Visible bool
	Focused bool

	// Valid for EventOverlayChange.
	PrimaryFocused bool
}

// CompositorInfo describes a compositor to its client.
type CompositorInfo struct {
	// Formats are the swapchain formats the compositor accepts, in
	// preference order. The codes are API-specific the same way
	// SwapchainCreateInfo.Format is.
	Formats []uint64
}

// Compositor is the client-facing compositor interface. The client bridges
// implement it by delegating to a NativeCompositor.
type Compositor interface {
	// Info describes this compositor, including its accepted formats.
	Info() CompositorInfo

	// SwapchainCreateProperties asks what a swapchain created with info
	// would look like.
	SwapchainCreateProperties(info SwapchainCreateInfo) (SwapchainCreateProperties, error)

	// CreateSwapchain creates a swapchain usable by the client's
	// graphics API and shared with the native compositor.
	CreateSwapchain(info SwapchainCreateInfo) (Swapchain, error)

	// BeginSession starts displaying frames.
	BeginSession(t ViewType) error

	// EndSession stops displaying frames.
	EndSession() error

	// WaitFrame blocks until it is time to start the next frame.
	WaitFrame() (FrameTiming, error)

	// BeginFrame marks the start of GPU work for a frame.
	BeginFrame(id FrameID) error

	// DiscardFrame abandons a frame begun with WaitFrame.
	DiscardFrame(id FrameID) error

	// LayerBegin starts layer submission for a frame.
	LayerBegin(id FrameID, displayTime uint64, blend BlendMode) error

	// LayerStereoProjection submits a stereo projection layer.
	LayerStereoProjection(left, right Swapchain, data *LayerData) error

	// LayerStereoProjectionDepth submits a stereo projection layer with
	// depth images.
	LayerStereoProjectionDepth(left, right, leftDepth, rightDepth Swapchain, data *LayerData) error

	// LayerQuad submits a quad layer.
	LayerQuad(sc Swapchain, data *LayerData) error

	// LayerCube submits a cube layer.
	LayerCube(sc Swapchain, data *LayerData) error

	// LayerCylinder submits a cylinder layer.
	LayerCylinder(sc Swapchain, data *LayerData) error

	// LayerEquirect1 submits an equirect layer (KHR variant 1).
	LayerEquirect1(sc Swapchain, data *LayerData) error

	// LayerEquirect2 submits an equirect layer (KHR variant 2).
	LayerEquirect2(sc Swapchain, data *LayerData) error

	// LayerCommit finishes layer submission for a frame. The sync
	// handle, when valid, gates composition on GPU work completion.
	LayerCommit(id FrameID, sync GraphicsSyncHandle) error

	// PollEvents drains one pending event. Type is EventNone when
	// nothing was pending.
	PollEvents() (Event, error)

	// Close destroys the compositor. Swapchains must be closed first.
	Close() error
}

// NativeCompositor is the service-side compositor a client bridge wraps.
// It accepts images allocated elsewhere via ImportSwapchain.
type NativeCompositor interface {
	Compositor

	// ImportSwapchain wraps externally allocated images in a swapchain.
	// On success the native compositor owns the image handles; on
	// failure the caller keeps them.
	ImportSwapchain(info SwapchainCreateInfo, images []ImageNative) (Swapchain, error)
}

// SemaphoreSupport is implemented by native compositors that can share
// timeline semaphores with the client. Bridges probe for it with a type
// assertion and fall back to local blocking when it is absent.
type SemaphoreSupport interface {
	// CreateSemaphore creates a timeline semaphore and a shareable
	// handle to it. The caller owns the handle.
	CreateSemaphore() (Semaphore, GraphicsSyncHandle, error)

	// LayerCommitWithSemaphore is LayerCommit gated on sem reaching
	// value instead of a sync handle.
	LayerCommitWithSemaphore(id FrameID, sem Semaphore, value uint64) error
}
