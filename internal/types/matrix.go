package types

// RGB is a single element colour with 8-bit channels.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// Driver is the physical element driver behind a matrix.
// Indices are physical positions along the strip, not logical pixels.
type Driver interface {
	// SetElement stages the colour of one physical element
	SetElement(index int, r, g, b uint8) error
	// Show flushes every staged element to the hardware
	Show() error
	// Close releases the driver
	Close() error
}

// DriverFactory opens a driver for a strip of count elements.
type DriverFactory func(count int) (Driver, error)
