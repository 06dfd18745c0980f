//go:build !linux

package strip

import "fmt"

// OpenSPI is only available on Linux
func OpenSPI(cfg SPIConfig, count int) (*SPI, error) {
	return nil, fmt.Errorf("spidev is not supported on this platform")
}
