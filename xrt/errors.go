package xrt

import "errors"

// Sentinel errors shared across the compositor interfaces. Bridges wrap
// these with fmt.Errorf("...: %w", err) to add context; callers match with
// errors.Is.
var (
	// ErrAllocation reports that image or fence allocation failed.
	ErrAllocation = errors.New("xrt: allocation failed")

	// ErrSwapchainFormatUnsupported reports a swapchain format with no
	// usable mapping on this compositor.
	ErrSwapchainFormatUnsupported = errors.New("xrt: unsupported swapchain format")

	// ErrSwapchainFlagValidButUnsupported reports a well-formed swapchain
	// create flag this compositor cannot honor, such as protected content.
	ErrSwapchainFlagValidButUnsupported = errors.New("xrt: swapchain flag valid but unsupported")

	// ErrTimeout reports that a bounded wait elapsed before completion.
	ErrTimeout = errors.New("xrt: timeout")

	// ErrNoImageAvailable reports an acquire on an image that is still
	// held, or a swapchain with nothing to hand out.
	ErrNoImageAvailable = errors.New("xrt: no image available")

	// ErrPlatform reports a failure inside the platform graphics API.
	ErrPlatform = errors.New("xrt: graphics platform error")
)
