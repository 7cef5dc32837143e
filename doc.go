// Package xrcomp provides the client-side compositor glue used to connect
// Direct3D 11 and Direct3D 12 applications to a native (service-side)
// compositor across process boundaries.
//
// The root package carries the pieces shared by every bridge: the process
// wide logger, the Options configuration, and a registry through which the
// d3d11 and d3d12 sub-packages make their bridges discoverable.
//
// The actual synchronization and allocation machinery lives in the
// sub-packages:
//
//   - xrt: the API-neutral compositor and swapchain interfaces
//   - dxgi: pixel formats and adapter resolution
//   - d3d: fence waits, keyed mutex ownership, handle import helpers
//   - d3d11, d3d12: the client compositor bridges
//
// All platform calls are confined to files built only on Windows; the
// orchestration logic builds and is tested everywhere.
package xrcomp
