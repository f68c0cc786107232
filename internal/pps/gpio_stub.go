//go:build !linux || (!arm && !arm64)

package pps

import (
	"fmt"
	"io"
	"time"
)

// Stub implementation for non-Linux and/or non-ARM platforms.
func openPPS(pin int, onPulse func(time.Time)) (io.Closer, error) {
	return nil, fmt.Errorf("pps: gpio unsupported on this platform")
}
