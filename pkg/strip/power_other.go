//go:build !linux

package strip

import "fmt"

// PowerLine is a GPIO output held high while the strip is in use
type PowerLine struct{}

// RequestPowerLine is only available on Linux
func RequestPowerLine(chip string, offset int) (*PowerLine, error) {
	return nil, fmt.Errorf("gpio character devices are not supported on this platform")
}

// Close is a no-op
func (p *PowerLine) Close() error {
	return nil
}
