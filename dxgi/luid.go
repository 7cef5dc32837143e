package dxgi

import "fmt"

// LUID is a locally unique identifier for a graphics adapter. Unlike an
// adapter index it is stable for the lifetime of the machine session and
// shared across graphics APIs, so it is how a device in one API finds the
// same physical adapter in another.
type LUID struct {
	LowPart  uint32
	HighPart int32
}

func (l LUID) String() string {
	return fmt.Sprintf("%08x:%08x", uint32(l.HighPart), l.LowPart)
}
