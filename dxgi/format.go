// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dxgi

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Format is a DXGI pixel format code.
type Format uint32

// The format codes used by the compositor bridges. Values are the DXGI
// enumeration values.
const (
	FormatUnknown Format = 0

	FormatR32G32B32A32Typeless Format = 1
	FormatR32G32B32A32Float    Format = 2

	FormatR16G16B16A16Typeless Format = 9
	FormatR16G16B16A16Float    Format = 10

	FormatR32G8X24Typeless    Format = 19
	FormatD32FloatS8X24Uint   Format = 20
	FormatR10G10B10A2Typeless Format = 23
	FormatR10G10B10A2Unorm    Format = 24
	FormatR11G11B10Float      Format = 26

	FormatR8G8B8A8Typeless  Format = 27
	FormatR8G8B8A8Unorm     Format = 28
	FormatR8G8B8A8UnormSrgb Format = 29

	FormatR32Typeless Format = 39
	FormatD32Float    Format = 40

	FormatR24G8Typeless  Format = 44
	FormatD24UnormS8Uint Format = 45

	FormatR16Typeless Format = 53
	FormatD16Unorm    Format = 55

	FormatB8G8R8A8Unorm     Format = 87
	FormatB8G8R8A8Typeless  Format = 90
	FormatB8G8R8A8UnormSrgb Format = 91
)

// typelessOf maps each fully qualified format to the typeless format its
// shared allocation is made with. Depth formats alias their color-channel
// typeless layout so both APIs can bind the memory.
var typelessOf = map[Format]Format{
	FormatR32G32B32A32Float: FormatR32G32B32A32Typeless,
	FormatR16G16B16A16Float: FormatR16G16B16A16Typeless,
	FormatR10G10B10A2Unorm:  FormatR10G10B10A2Typeless,
	FormatR8G8B8A8Unorm:     FormatR8G8B8A8Typeless,
	FormatR8G8B8A8UnormSrgb: FormatR8G8B8A8Typeless,
	FormatB8G8R8A8Unorm:     FormatB8G8R8A8Typeless,
	FormatB8G8R8A8UnormSrgb: FormatB8G8R8A8Typeless,
	FormatD16Unorm:          FormatR16Typeless,
	FormatD32Float:          FormatR32Typeless,
	FormatD24UnormS8Uint:    FormatR24G8Typeless,
	FormatD32FloatS8X24Uint: FormatR32G8X24Typeless,
}

// Typeless returns the typeless format shared allocations of f are made
// with. Formats without a typeless family return f unchanged.
func (f Format) Typeless() Format {
	if t, ok := typelessOf[f]; ok {
		return t
	}
	return f
}

// IsDepthStencil reports whether f is a depth or depth/stencil format.
func (f Format) IsDepthStencil() bool {
	switch f {
	case FormatD16Unorm, FormatD32Float, FormatD24UnormS8Uint, FormatD32FloatS8X24Uint:
		return true
	}
	return false
}

// wireOf maps DXGI formats to the API-neutral wire codes used on the
// native compositor boundary. Formats with no wire equivalent are absent
// and cannot cross the boundary.
var wireOf = map[Format]gputypes.TextureFormat{
	FormatR8G8B8A8Unorm:     gputypes.TextureFormatRGBA8Unorm,
	FormatR8G8B8A8UnormSrgb: gputypes.TextureFormatRGBA8UnormSrgb,
	FormatB8G8R8A8Unorm:     gputypes.TextureFormatBGRA8Unorm,
	FormatB8G8R8A8UnormSrgb: gputypes.TextureFormatBGRA8UnormSrgb,
	FormatR16G16B16A16Float: gputypes.TextureFormatRGBA16Float,
	FormatR32G32B32A32Float: gputypes.TextureFormatRGBA32Float,
	FormatR10G10B10A2Unorm:  gputypes.TextureFormatRGB10A2Unorm,
	FormatR11G11B10Float:    gputypes.TextureFormatRG11B10Ufloat,
	FormatD16Unorm:          gputypes.TextureFormatDepth16Unorm,
	FormatD32Float:          gputypes.TextureFormatDepth32Float,
	FormatD24UnormS8Uint:    gputypes.TextureFormatDepth24PlusStencil8,
	FormatD32FloatS8X24Uint: gputypes.TextureFormatDepth32FloatStencil8,
}

var fromWire = func() map[gputypes.TextureFormat]Format {
	m := make(map[gputypes.TextureFormat]Format, len(wireOf))
	for f, w := range wireOf {
		m[w] = f
	}
	return m
}()

// Wire returns the API-neutral wire code for f, or TextureFormatUndefined
// when f cannot cross the native compositor boundary.
func (f Format) Wire() gputypes.TextureFormat {
	if w, ok := wireOf[f]; ok {
		return w
	}
	return gputypes.TextureFormatUndefined
}

// FromWire returns the DXGI format for a wire code, or FormatUnknown when
// there is none.
func FromWire(w gputypes.TextureFormat) Format {
	if f, ok := fromWire[w]; ok {
		return f
	}
	return FormatUnknown
}

// PassthroughFormats filters the native compositor's wire formats down to
// the DXGI formats a client bridge can expose, preserving order. A format
// survives when it maps to DXGI, maps back to the wire, and has a distinct
// typeless family for shared allocation. Depth formats are withheld unless
// allowDepth is set: shared depth images are a frequent source of driver
// trouble on the service side.
func PassthroughFormats(native []uint64, allowDepth bool) []Format {
	out := make([]Format, 0, len(native))
	for _, code := range native {
		f := FromWire(gputypes.TextureFormat(code))
		if f == FormatUnknown {
			continue
		}
		if f.Wire() == gputypes.TextureFormatUndefined {
			continue
		}
		if f.Typeless() == f {
			continue
		}
		if !allowDepth && (f == FormatD32Float || f == FormatD16Unorm || f == FormatD24UnormS8Uint) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (f Format) String() string {
	switch f {
	case FormatUnknown:
		return "UNKNOWN"
	case FormatR32G32B32A32Typeless:
		return "R32G32B32A32_TYPELESS"
	case FormatR32G32B32A32Float:
		return "R32G32B32A32_FLOAT"
	case FormatR16G16B16A16Typeless:
		return "R16G16B16A16_TYPELESS"
	case FormatR16G16B16A16Float:
		return "R16G16B16A16_FLOAT"
	case FormatR32G8X24Typeless:
		return "R32G8X24_TYPELESS"
	case FormatD32FloatS8X24Uint:
		return "D32_FLOAT_S8X24_UINT"
	case FormatR10G10B10A2Typeless:
		return "R10G10B10A2_TYPELESS"
	case FormatR10G10B10A2Unorm:
		return "R10G10B10A2_UNORM"
	case FormatR11G11B10Float:
		return "R11G11B10_FLOAT"
	case FormatR8G8B8A8Typeless:
		return "R8G8B8A8_TYPELESS"
	case FormatR8G8B8A8Unorm:
		return "R8G8B8A8_UNORM"
	case FormatR8G8B8A8UnormSrgb:
		return "R8G8B8A8_UNORM_SRGB"
	case FormatR32Typeless:
		return "R32_TYPELESS"
	case FormatD32Float:
		return "D32_FLOAT"
	case FormatR24G8Typeless:
		return "R24G8_TYPELESS"
	case FormatD24UnormS8Uint:
		return "D24_UNORM_S8_UINT"
	case FormatR16Typeless:
		return "R16_TYPELESS"
	case FormatD16Unorm:
		return "D16_UNORM"
	case FormatB8G8R8A8Unorm:
		return "B8G8R8A8_UNORM"
	case FormatB8G8R8A8Typeless:
		return "B8G8R8A8_TYPELESS"
	case FormatB8G8R8A8UnormSrgb:
		return "B8G8R8A8_UNORM_SRGB"
	}
	return fmt.Sprintf("Format(%d)", uint32(f))
}
