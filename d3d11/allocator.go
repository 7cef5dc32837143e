// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package d3d11

import (
	"fmt"

	"github.com/gogpu/xrcomp"
	"github.com/gogpu/xrcomp/dxgi"
	"github.com/gogpu/xrcomp/xrt"
)

// AllocateSharedImages allocates imageCount shareable textures on dev per
// the swapchain description and exports one NT handle per texture. The
// textures are created with the typeless variant of the requested format
// so both sRGB and linear views can be made on either side.
//
// When keyedMutex is set the textures get a keyed mutex for cross-device
// hand-off, otherwise they are plainly shared.
//
// On failure nothing is returned: any textures and handles already made
// are released before the error comes back.
func AllocateSharedImages(
	dev Device,
	info xrt.SwapchainCreateInfo,
	imageCount uint32,
	keyedMutex bool,
) ([]Texture2D, []xrt.NativeHandle, error) {
	if info.CreateFlags&xrt.SwapchainCreateProtectedContent != 0 {
		xrcomp.Logger().Warn("cannot allocate protected content images")
		return nil, nil, xrt.ErrSwapchainFlagValidButUnsupported
	}
	if info.CreateFlags&xrt.SwapchainCreateStaticImage != 0 && imageCount > 1 {
		return nil, nil, fmt.Errorf(
			"static swapchain requested with %d images: %w",
			imageCount, xrt.ErrAllocation)
	}
	if info.ArraySize == 0 {
		xrcomp.Logger().Warn("array size must not be zero")
		return nil, nil, xrt.ErrAllocation
	}

	format := dxgi.Format(info.Format)
	typeless := format.Typeless()
	if typeless == format {
		xrcomp.Logger().Warn("no typeless variant for format", "format", format)
		return nil, nil, xrt.ErrSwapchainFormatUnsupported
	}

	if info.FaceCount == 6 {
		xrcomp.Logger().Warn("cube swapchains are not implemented")
		return nil, nil, xrt.ErrAllocation
	}

	misc := MiscSharedNTHandle
	if keyedMutex {
		misc |= MiscSharedKeyedMutex
	} else {
		misc |= MiscShared
	}

	desc := Texture2DDesc{
		Width:       info.Width,
		Height:      info.Height,
		MipLevels:   info.MipCount,
		ArraySize:   info.ArraySize,
		Format:      typeless,
		SampleCount: info.SampleCount,
		BindFlags:   BindFlagsFromUsage(info.Usage),
		MiscFlags:   misc,
	}

	images := make([]Texture2D, 0, imageCount)
	handles := make([]xrt.NativeHandle, 0, imageCount)
	cleanup := func() {
		for _, img := range images {
			img.Release()
		}
	}

	for i := uint32(0); i < imageCount; i++ {
		tex, err := dev.CreateTexture2D(&desc)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("creating image %d: %v: %w",
				i, err, xrt.ErrAllocation)
		}
		images = append(images, tex)
	}
	for i, tex := range images {
		h, err := tex.CreateSharedHandle()
		if err != nil {
			for _, prev := range handles {
				_ = xrt.SystemHandles().Close(prev)
			}
			cleanup()
			return nil, nil, fmt.Errorf("sharing image %d: %v: %w",
				i, err, xrt.ErrAllocation)
		}
		handles = append(handles, h)
	}
	return images, handles, nil
}
