// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package xrcomp

import (
	"errors"
	"sort"
	"sync"

	"github.com/gogpu/xrcomp/xrt"
)

// BridgeConfig carries everything a bridge factory needs to wrap a native
// compositor.
type BridgeConfig struct {
	// Native is the service-side compositor the bridge will wrap.
	Native xrt.NativeCompositor

	// Device is the bridge-specific client device object. The d3d11
	// bridge expects a d3d11.Device and its immediate context; the d3d12
	// bridge expects a d3d12.Device and a d3d12.Queue. See each
	// sub-package's Register call for the concrete type it accepts.
	Device any

	// Options configures the bridge. Nil means NewOptions().
	Options *Options
}

// BridgeFactory creates a client compositor wrapping cfg.Native.
// Implementations should validate cfg and return descriptive errors.
type BridgeFactory func(cfg BridgeConfig) (xrt.Compositor, error)

// RegistryEntry represents a registered client compositor bridge.
type RegistryEntry struct {
	// Name is the unique identifier for this bridge.
	Name string

	// Priority determines selection order (higher = preferred).
	// Standard priorities:
	//   - 100: native graphics API bridges (d3d12)
	//   - 50: bridges that allocate through a helper device (d3d11)
	Priority int

	// Factory creates compositor instances.
	Factory BridgeFactory

	// Available reports if the bridge can run on this system.
	Available func() bool
}

// globalRegistry is the default registry.
var globalRegistry = &Registry{}

// Registry manages registered client compositor bridges.
//
// The registry lets graphics-API bridges register themselves from their
// own packages without the core importing them.
//
// Example registration:
//
//	func init() {
//	    xrcomp.Register("d3d11", 50, newBridge, bridgeAvailable)
//	}
//
// Example usage:
//
//	xc, err := xrcomp.NewCompositorByName("d3d11", cfg)
//	// or auto-select best available:
//	xc, err := xrcomp.NewCompositor(cfg)
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and NewCompositor.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*RegistryEntry),
	}
}

// Register adds a bridge to the global registry.
//
// If available is nil, the bridge is assumed always available.
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, factory BridgeFactory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a bridge from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns all registered bridge names sorted by priority (highest first).
func List() []string {
	return globalRegistry.List()
}

// Available returns names of all available bridges sorted by priority.
func Available() []string {
	return globalRegistry.Available()
}

// Get returns information about a specific bridge.
func Get(name string) (*RegistryEntry, bool) {
	return globalRegistry.Get(name)
}

// NewCompositor creates a client compositor using the best available bridge.
// Returns an error if no bridge is available.
func NewCompositor(cfg BridgeConfig) (xrt.Compositor, error) {
	return globalRegistry.NewCompositor(cfg)
}

// NewCompositorByName creates a client compositor using a specific bridge.
func NewCompositorByName(name string, cfg BridgeConfig) (xrt.Compositor, error) {
	return globalRegistry.NewCompositorByName(name, cfg)
}

// Register adds a bridge to this registry.
func (r *Registry) Register(name string, priority int, factory BridgeFactory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}

	if available == nil {
		available = func() bool { return true }
	}

	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a bridge from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// List returns all registered bridge names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(false)
}

// Available returns names of all available bridges sorted by priority.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(true)
}

// Get returns information about a specific bridge.
func (r *Registry) Get(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}

	// Return a copy to prevent modification
	entryCopy := *entry
	return &entryCopy, true
}

// NewCompositor creates a compositor using the best available bridge.
func (r *Registry) NewCompositor(cfg BridgeConfig) (xrt.Compositor, error) {
	r.mu.RLock()
	available := r.sortedNames(true)
	r.mu.RUnlock()

	if len(available) == 0 {
		return nil, ErrNoBridgeAvailable
	}

	// Try each available bridge in priority order
	var lastErr error
	for _, name := range available {
		xc, err := r.NewCompositorByName(name, cfg)
		if err == nil {
			return xc, nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoBridgeAvailable
}

// NewCompositorByName creates a compositor using a specific bridge.
func (r *Registry) NewCompositorByName(name string, cfg BridgeConfig) (xrt.Compositor, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &BridgeNotFoundError{Name: name}
	}

	if !entry.Available() {
		return nil, &BridgeUnavailableError{Name: name}
	}

	if cfg.Options == nil {
		cfg.Options = NewOptions()
	}
	return entry.Factory(cfg)
}

// sortedNames returns bridge names sorted by priority (highest first).
// If onlyAvailable is true, filters to available bridges only.
// Must be called with lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	if len(r.entries) == 0 {
		return nil
	}

	type entry struct {
		name     string
		priority int
	}

	entries := make([]entry, 0, len(r.entries))
	for name, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, entry{name: name, priority: e.Priority})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].priority > entries[j].priority
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// Errors.
var (
	// ErrNoBridgeAvailable is returned when no compositor bridges are
	// registered or available on the current system.
	ErrNoBridgeAvailable = errors.New("xrcomp: no bridge available")
)

// BridgeNotFoundError indicates a named bridge is not registered.
type BridgeNotFoundError struct {
	Name string
}

func (e *BridgeNotFoundError) Error() string {
	return "xrcomp: bridge not found: " + e.Name
}

// BridgeUnavailableError indicates a bridge exists but is not available.
type BridgeUnavailableError struct {
	Name string
}

func (e *BridgeUnavailableError) Error() string {
	return "xrcomp: bridge unavailable: " + e.Name
}
