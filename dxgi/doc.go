// Package dxgi resolves graphics adapters and translates pixel formats
// between DXGI codes and the API-neutral wire codes the native compositor
// speaks.
//
// Adapter selection works over the [Factory] interface so the policy
// (GPU-preference ordering, LUID lookup with a linear-scan fallback) can be
// exercised without a Windows machine; NewFactory returns the real DXGI
// implementation on Windows.
package dxgi
