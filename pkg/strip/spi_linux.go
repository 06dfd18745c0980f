//go:build linux

package strip

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// _IOW('k', 4, __u32) from linux/spi/spidev.h
const spiIOCWrMaxSpeedHz = 0x40046b04

// OpenSPI opens a spidev device for a strip of count elements. The SPI
// clock runs at three times the LED bit rate.
func OpenSPI(cfg SPIConfig, count int) (*SPI, error) {
	if cfg.FreqHz <= 0 {
		return nil, fmt.Errorf("invalid frequency: %d", cfg.FreqHz)
	}

	bufsiz, err := readBufsiz(spidevBufsizPath)
	if err != nil {
		return nil, err
	}
	if err := checkSPIFrame(count, bufsiz); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(cfg.Device, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", cfg.Device, err)
	}

	speed := cfg.FreqHz * spiBitsPerBit
	if err := unix.IoctlSetPointerInt(int(f.Fd()), spiIOCWrMaxSpeedHz, speed); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set SPI speed to %d Hz: %w", speed, err)
	}

	s, err := newSPI(f, cfg, count)
	if err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}
