//go:build !windows

package d3d

import "errors"

// NewEvent creates an unsignaled auto-reset OS event. Only Windows has
// the event object the fences signal; elsewhere this always fails.
func NewEvent() (Event, error) {
	return nil, errors.New("d3d: os events not supported on this platform")
}
