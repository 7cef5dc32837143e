// Package d3d holds the synchronization glue shared by the d3d11 and
// d3d12 client bridges: CPU fence waits, keyed mutex ownership tracking,
// and handle-duplicating swapchain import.
package d3d
