// Package xrt defines the API-neutral compositor interfaces shared by the
// client bridges and the native compositor they wrap.
//
// A client bridge implements [Compositor] on top of a [NativeCompositor]:
// the bridge allocates shareable images with its own graphics API, hands
// duplicated handles to the native side, and keeps both sides' access to
// the images serialized. Everything graphics-API specific stays out of
// this package.
package xrt
