//go:build !ws281x

package strip

import "errors"

// OpenWS281x needs the rpi_ws281x C library; build with -tags ws281x
func OpenWS281x(cfg WS281xConfig, count int) (*WS281x, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return nil, errors.New("ws281x support not built in, rebuild with -tags ws281x")
}
