package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/fcurrie/serpentine-led-golang/internal/types"
)

// Config represents the application configuration
type Config struct {
	Server   types.ServerConfig  `json:"server" yaml:"server"`
	Driver   types.DriverConfig  `json:"driver" yaml:"driver"`
	Patterns types.PatternConfig `json:"patterns" yaml:"patterns"`
	Admin    types.AdminConfig   `json:"admin" yaml:"admin"`
	Log      types.LogConfig     `json:"log" yaml:"log"`
}

// LoadConfig loads the configuration from a file on top of the defaults.
// Files ending in .yaml or .yml are read as YAML, anything else as JSON
// with comments allowed.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(jsonc.ToJSON(data), config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: types.ServerConfig{
			Host:        "0.0.0.0",
			Port:        65432,
			MaxElements: 65536,
		},
		Driver: types.DriverConfig{
			Kind:       "ws281x",
			Device:     "/dev/spidev0.0",
			GPIOPin:    18,
			FreqHz:     800000,
			DMA:        10,
			Channel:    0,
			Brightness: 5,
			ColorOrder: "GRB",
			PowerLine:  -1,
		},
		Patterns: types.PatternConfig{
			HoldMS:  500,
			SweepMS: 20,
		},
		Log: types.LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks that every value is usable
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	if c.Server.ReadTimeoutMS < 0 {
		return fmt.Errorf("read timeout must not be negative")
	}
	if c.Server.MaxElements <= 0 {
		return fmt.Errorf("max elements must be positive")
	}

	switch c.Driver.Kind {
	case "ws281x":
		if c.Driver.GPIOPin <= 0 {
			return fmt.Errorf("invalid GPIO pin: %d", c.Driver.GPIOPin)
		}
		if c.Driver.DMA < 0 || c.Driver.DMA > 14 {
			return fmt.Errorf("invalid DMA channel: %d", c.Driver.DMA)
		}
		if c.Driver.Channel < 0 || c.Driver.Channel > 1 {
			return fmt.Errorf("invalid PWM channel: %d", c.Driver.Channel)
		}
	case "spi", "memory":
	default:
		return fmt.Errorf("unknown driver kind %q", c.Driver.Kind)
	}
	if c.Driver.Brightness < 0 || c.Driver.Brightness > 255 {
		return fmt.Errorf("brightness must be between 0 and 255")
	}
	if c.Driver.FreqHz <= 0 {
		return fmt.Errorf("driver frequency must be positive")
	}
	if len(c.Driver.ColorOrder) != 3 {
		return fmt.Errorf("color order must name three channels, got %q", c.Driver.ColorOrder)
	}

	if c.Patterns.HoldMS < 0 || c.Patterns.SweepMS < 0 {
		return fmt.Errorf("pattern delays must not be negative")
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// ListenAddr returns the protocol listen address
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ReadTimeout returns the per-message read timeout, zero when disabled
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeoutMS) * time.Millisecond
}

// HoldDelay returns how long each colour of the test pattern is held
func (c *Config) HoldDelay() time.Duration {
	return time.Duration(c.Patterns.HoldMS) * time.Millisecond
}

// SweepDelay returns the delay between rainbow sweep frames
func (c *Config) SweepDelay() time.Duration {
	return time.Duration(c.Patterns.SweepMS) * time.Millisecond
}

// ParseLevel maps a level name onto a slog level
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// NewLogger builds the process logger from the log section
func (c *Config) NewLogger() *slog.Logger {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if c.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
