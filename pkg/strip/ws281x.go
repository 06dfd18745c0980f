package strip

import (
	"fmt"
	"sync"
)

// WS281xConfig holds the settings of a strip driven by the rpi_ws281x
// PWM/PCM/SPI engine
type WS281xConfig struct {
	GPIOPin    int
	FreqHz     int
	DMA        int
	Channel    int
	Brightness int
	Invert     bool
	ColorOrder string
}

// Validate checks the settings the engine would otherwise reject at Init
func (c WS281xConfig) Validate() error {
	if c.GPIOPin <= 0 {
		return fmt.Errorf("invalid GPIO pin: %d", c.GPIOPin)
	}
	if c.FreqHz <= 0 {
		return fmt.Errorf("invalid frequency: %d", c.FreqHz)
	}
	if c.DMA < 0 || c.DMA > 14 {
		return fmt.Errorf("invalid DMA channel: %d", c.DMA)
	}
	if c.Channel < 0 || c.Channel > 1 {
		return fmt.Errorf("invalid PWM channel: %d", c.Channel)
	}
	if c.Brightness < 0 || c.Brightness > 255 {
		return fmt.Errorf("brightness must be between 0 and 255")
	}
	_, err := parseColorOrder(c.ColorOrder)
	return err
}

// ledDevice is the part of *ws2811.WS2811 the driver uses
type ledDevice interface {
	Leds(channel int) []uint32
	Render() error
	Fini()
}

// WS281x stages elements in the engine's LED buffer and renders them on Show
type WS281x struct {
	dev     ledDevice
	channel int
	count   int
	mu      sync.Mutex
	closed  bool
}

func newWS281x(dev ledDevice, channel, count int) (*WS281x, error) {
	if n := len(dev.Leds(channel)); n < count {
		dev.Fini()
		return nil, fmt.Errorf("channel %d has %d LEDs, want %d", channel, n, count)
	}
	return &WS281x{dev: dev, channel: channel, count: count}, nil
}

// SetElement stages one element as 0x00RRGGBB; the engine applies colour
// order, brightness and inversion when it renders
func (w *WS281x) SetElement(index int, r, g, b uint8) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if index < 0 || index >= w.count {
		return fmt.Errorf("index out of bounds: %d", index)
	}
	w.dev.Leds(w.channel)[index] = uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	return nil
}

// Show renders the staged strip
func (w *WS281x) Show() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}
	if err := w.dev.Render(); err != nil {
		return fmt.Errorf("failed to render strip: %w", err)
	}
	return nil
}

// Close releases the engine. The strip keeps its last frame.
func (w *WS281x) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	w.dev.Fini()
	return nil
}
