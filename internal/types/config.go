package types

// ServerConfig represents the configuration for the protocol listener
type ServerConfig struct {
	Host          string `json:"host" yaml:"host"`
	Port          int    `json:"port" yaml:"port"`
	ReadTimeoutMS int    `json:"read_timeout_ms" yaml:"read_timeout_ms"`
	MaxElements   int    `json:"max_elements" yaml:"max_elements"`
}

// DriverConfig represents the configuration for the element driver.
// None of it is visible on the wire.
type DriverConfig struct {
	Kind       string `json:"kind" yaml:"kind"`
	Device     string `json:"device" yaml:"device"`
	GPIOPin    int    `json:"gpio_pin" yaml:"gpio_pin"`
	FreqHz     int    `json:"freq_hz" yaml:"freq_hz"`
	DMA        int    `json:"dma" yaml:"dma"`
	Channel    int    `json:"channel" yaml:"channel"`
	Brightness int    `json:"brightness" yaml:"brightness"`
	Invert     bool   `json:"invert" yaml:"invert"`
	ColorOrder string `json:"color_order" yaml:"color_order"`
	PowerChip  string `json:"power_chip" yaml:"power_chip"`
	PowerLine  int    `json:"power_line" yaml:"power_line"`
}

// PatternConfig represents the timing of the built-in patterns
type PatternConfig struct {
	HoldMS  int `json:"hold_ms" yaml:"hold_ms"`
	SweepMS int `json:"sweep_ms" yaml:"sweep_ms"`
}

// AdminConfig represents the configuration for the admin HTTP endpoint
type AdminConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// LogConfig represents the logging configuration
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}
