package strip

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fcurrie/serpentine-led-golang/internal/types"
)

// powered closes its power line after the driver it wraps
type powered struct {
	types.Driver
	power io.Closer
}

func (p *powered) Close() error {
	return errors.Join(p.Driver.Close(), p.power.Close())
}

// NewFactory returns a driver factory for cfg.Kind. When a power line is
// configured it is requested with every driver and released on Close.
func NewFactory(cfg types.DriverConfig, log *slog.Logger) (types.DriverFactory, error) {
	var open types.DriverFactory
	switch cfg.Kind {
	case "ws281x":
		wsCfg := WS281xConfig{
			GPIOPin:    cfg.GPIOPin,
			FreqHz:     cfg.FreqHz,
			DMA:        cfg.DMA,
			Channel:    cfg.Channel,
			Brightness: cfg.Brightness,
			Invert:     cfg.Invert,
			ColorOrder: cfg.ColorOrder,
		}
		if err := wsCfg.Validate(); err != nil {
			return nil, err
		}
		open = func(count int) (types.Driver, error) {
			return OpenWS281x(wsCfg, count)
		}
	case "spi":
		spiCfg := SPIConfig{
			Device:     cfg.Device,
			FreqHz:     cfg.FreqHz,
			Brightness: cfg.Brightness,
			ColorOrder: cfg.ColorOrder,
			Invert:     cfg.Invert,
		}
		if _, err := parseColorOrder(spiCfg.ColorOrder); err != nil {
			return nil, err
		}
		open = func(count int) (types.Driver, error) {
			return OpenSPI(spiCfg, count)
		}
	case "memory":
		open = func(count int) (types.Driver, error) {
			return NewMemory(count), nil
		}
	default:
		return nil, fmt.Errorf("unknown driver kind %q", cfg.Kind)
	}

	if cfg.PowerChip == "" || cfg.PowerLine < 0 {
		return logged(open, cfg.Kind, log), nil
	}

	inner := open
	open = func(count int) (types.Driver, error) {
		power, err := RequestPowerLine(cfg.PowerChip, cfg.PowerLine)
		if err != nil {
			return nil, err
		}
		d, err := inner(count)
		if err != nil {
			power.Close()
			return nil, err
		}
		return &powered{Driver: d, power: power}, nil
	}
	return logged(open, cfg.Kind, log), nil
}

func logged(open types.DriverFactory, kind string, log *slog.Logger) types.DriverFactory {
	return func(count int) (types.Driver, error) {
		d, err := open(count)
		if err != nil {
			return nil, err
		}
		log.Debug("opened driver", "kind", kind, "elements", count)
		return d, nil
	}
}
