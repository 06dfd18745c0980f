//go:build ws281x

package strip

import (
	"fmt"
	"strings"

	ws2811 "github.com/rpi-ws281x/rpi-ws281x-go"
)

var stripTypes = map[string]int{
	"RGB": ws2811.WS2811StripRGB,
	"RBG": ws2811.WS2811StripRBG,
	"GRB": ws2811.WS2811StripGRB,
	"GBR": ws2811.WS2811StripGBR,
	"BRG": ws2811.WS2811StripBRG,
	"BGR": ws2811.WS2811StripBGR,
}

// OpenWS281x initialises the rpi_ws281x engine for a strip of count elements
func OpenWS281x(cfg WS281xConfig, count int) (*WS281x, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opt := ws2811.DefaultOptions
	opt.Frequency = cfg.FreqHz
	opt.DmaNum = cfg.DMA
	opt.Channels = make([]ws2811.ChannelOption, cfg.Channel+1)
	ch := &opt.Channels[cfg.Channel]
	*ch = ws2811.DefaultOptions.Channels[0]
	ch.GpioPin = cfg.GPIOPin
	ch.LedCount = count
	ch.Brightness = cfg.Brightness
	ch.Invert = cfg.Invert
	ch.StripeType = stripTypes[strings.ToUpper(cfg.ColorOrder)]

	dev, err := ws2811.MakeWS2811(&opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create WS2811: %w", err)
	}
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize WS2811: %w", err)
	}
	return newWS281x(dev, cfg.Channel, count)
}
