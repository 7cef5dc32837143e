//go:build !windows

package dxgi

import "errors"

// NewFactory creates the system DXGI factory. DXGI only exists on
// Windows; elsewhere this always fails.
func NewFactory() (Factory, error) {
	return nil, errors.New("dxgi: not supported on this platform")
}
