// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command xrcompinfo lists the graphics adapters visible to the runtime
// and the swapchain formats the D3D bridges would pass through for them.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/xrcomp"
	"github.com/gogpu/xrcomp/dxgi"
)

func main() {
	var (
		luid    = flag.String("luid", "", "look up a single adapter by LUID (low:high, hex)")
		depth   = flag.Bool("depth", false, "include depth formats in the format table")
		verbose = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	xrcomp.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(*luid, *depth); err != nil {
		fmt.Fprintln(os.Stderr, "xrcompinfo:", err)
		os.Exit(1)
	}
}

func run(luidArg string, depth bool) error {
	factory, err := dxgi.NewFactory()
	if err != nil {
		return err
	}
	defer factory.Release()

	if luidArg != "" {
		var luid dxgi.LUID
		if _, err := fmt.Sscanf(luidArg, "%x:%x", &luid.LowPart, &luid.HighPart); err != nil {
			return fmt.Errorf("bad LUID %q: %w", luidArg, err)
		}
		adapter, err := dxgi.AdapterByLUID(factory, luid)
		if err != nil {
			return err
		}
		defer adapter.Release()
		return printAdapter(adapter, depth)
	}

	for i := uint32(0); ; i++ {
		adapter, err := dxgi.AdapterByIndex(factory, i)
		if err == dxgi.ErrAdapterNotFound {
			if i == 0 {
				fmt.Println("no adapters found")
			}
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("adapter %d:\n", i)
		perr := printAdapter(adapter, depth)
		adapter.Release()
		if perr != nil {
			return perr
		}
	}
}

func printAdapter(a dxgi.Adapter, depth bool) error {
	desc, err := a.Desc()
	if err != nil {
		return err
	}
	kind := "hardware"
	if desc.Software {
		kind = "software"
	}
	fmt.Printf("  %s (%s)\n", desc.Description, kind)
	fmt.Printf("  vendor %04x device %04x luid %s\n", desc.VendorID, desc.DeviceID, desc.LUID)

	fmt.Println("  formats:")
	for _, f := range dxgi.PassthroughFormats(wireFormats(), depth) {
		fmt.Printf("    %s\n", f)
	}
	return nil
}

// wireFormats is the full set a native compositor could offer; the filter
// decides what of it a D3D client would actually see.
func wireFormats() []uint64 {
	all := []gputypes.TextureFormat{
		gputypes.TextureFormatRGBA8Unorm,
		gputypes.TextureFormatRGBA8UnormSrgb,
		gputypes.TextureFormatBGRA8Unorm,
		gputypes.TextureFormatBGRA8UnormSrgb,
		gputypes.TextureFormatRGBA16Float,
		gputypes.TextureFormatRGBA32Float,
		gputypes.TextureFormatRGB10A2Unorm,
		gputypes.TextureFormatRG11B10Ufloat,
		gputypes.TextureFormatDepth16Unorm,
		gputypes.TextureFormatDepth32Float,
		gputypes.TextureFormatDepth24PlusStencil8,
	}
	out := make([]uint64, len(all))
	for i, f := range all {
		out[i] = uint64(f)
	}
	return out
}
