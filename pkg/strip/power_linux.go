//go:build linux

package strip

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// PowerLine is a GPIO output held high while the strip is in use, for
// example the enable pin of a level shifter or supply relay.
type PowerLine struct {
	line *gpiocdev.Line
}

// RequestPowerLine requests offset on chip as an output and drives it high
func RequestPowerLine(chip string, offset int) (*PowerLine, error) {
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsOutput(1),
		gpiocdev.WithConsumer("ledserver"))
	if err != nil {
		return nil, fmt.Errorf("failed to request line %s:%d: %w", chip, offset, err)
	}
	return &PowerLine{line: line}, nil
}

// Close drives the line low and releases it
func (p *PowerLine) Close() error {
	if err := p.line.SetValue(0); err != nil {
		p.line.Close()
		return fmt.Errorf("failed to drop power line: %w", err)
	}
	return p.line.Close()
}
