package xrt

// NativeHandle is an OS handle to a shareable graphics buffer. On Windows
// this is an NT handle. Zero is never a valid handle.
type NativeHandle uintptr

// InvalidNativeHandle is the zero, never-valid buffer handle.
const InvalidNativeHandle NativeHandle = 0

// Valid reports whether the handle may refer to a buffer.
func (h NativeHandle) Valid() bool { return h != InvalidNativeHandle }

// GraphicsSyncHandle is an OS handle to a shareable synchronization
// primitive (a shared fence). Zero is never a valid handle.
type GraphicsSyncHandle uintptr

// InvalidSyncHandle is the zero, never-valid sync handle.
const InvalidSyncHandle GraphicsSyncHandle = 0

// Valid reports whether the handle may refer to a sync primitive.
func (h GraphicsSyncHandle) Valid() bool { return h != InvalidSyncHandle }

// ImageNative describes one shareable image as it crosses the process
// boundary to the native compositor.
type ImageNative struct {
	Handle NativeHandle

	// Size is the allocation size when known, otherwise zero.
	Size uint64

	// UseDedicatedAllocation asks the importer to back the image with a
	// dedicated memory object.
	UseDedicatedAllocation bool
}

// HandleOps duplicates and closes OS buffer handles. The bridges never
// hand their own handle to another device or process: every import gets a
// duplicate, and whoever receives the duplicate owns it.
//
// The process-global implementation is returned by SystemHandles; tests
// substitute their own.
type HandleOps interface {
	// Duplicate returns a new handle referring to the same buffer.
	Duplicate(h NativeHandle) (NativeHandle, error)

	// Close releases a handle. Closing InvalidNativeHandle is an error.
	Close(h NativeHandle) error
}
