package display

import (
	"context"
	"fmt"
	"time"

	"github.com/fcurrie/serpentine-led-golang/internal/types"
)

const (
	// DefaultHoldDelay is how long each test pattern colour stays lit
	DefaultHoldDelay = 500 * time.Millisecond
	// DefaultSweepDelay is the pause between rainbow sweep frames
	DefaultSweepDelay = 20 * time.Millisecond
	// SweepFrames is the number of frames in one rainbow sweep
	SweepFrames = 256
)

// RGBSweep is the colour sequence of test pattern 1
var RGBSweep = []types.RGB{
	{R: 255, G: 0, B: 0},
	{R: 0, G: 0, B: 255},
	{R: 0, G: 255, B: 0},
}

// Options tunes pattern timing
type Options struct {
	HoldDelay  time.Duration
	SweepDelay time.Duration
}

// DefaultOptions returns the stock pattern timing
func DefaultOptions() Options {
	return Options{
		HoldDelay:  DefaultHoldDelay,
		SweepDelay: DefaultSweepDelay,
	}
}

// Matrix renders frames and patterns onto a serpentine-wired strip.
// It is not safe for concurrent use; the driver behind it is not reentrant.
type Matrix struct {
	geom   Geometry
	driver types.Driver
	opts   Options
}

// NewMatrix opens a driver sized for geom
func NewMatrix(geom Geometry, open types.DriverFactory, opts Options) (*Matrix, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}

	driver, err := open(geom.Elements())
	if err != nil {
		return nil, fmt.Errorf("failed to open driver for %s matrix: %w", geom, err)
	}

	return &Matrix{
		geom:   geom,
		driver: driver,
		opts:   opts,
	}, nil
}

// Geometry returns the matrix dimensions
func (m *Matrix) Geometry() Geometry {
	return m.geom
}

// Close releases the driver
func (m *Matrix) Close() error {
	return m.driver.Close()
}

// Render writes every pixel of the frame once, in logical row-major order,
// and then shows the result.
func (m *Matrix) Render(frame *FrameBuffer) error {
	if frame.Geometry() != m.geom {
		return fmt.Errorf("%w: frame is %s, matrix is %s", ErrFrameSize, frame.Geometry(), m.geom)
	}

	for row := 0; row < m.geom.Rows; row++ {
		for col := 0; col < m.geom.Cols; col++ {
			p := frame.Pixel(row, col)
			if err := m.set(m.geom.Index(row, col), p); err != nil {
				return err
			}
		}
	}
	return m.show()
}

// Clear turns every element off
func (m *Matrix) Clear() error {
	return m.fill(types.RGB{})
}

// TestPattern fills the matrix with each colour in turn, holding each one.
// It blocks for the whole sequence unless ctx is cancelled.
func (m *Matrix) TestPattern(ctx context.Context, colors []types.RGB) error {
	for _, c := range colors {
		if err := m.fill(c); err != nil {
			return err
		}
		if err := sleep(ctx, m.opts.HoldDelay); err != nil {
			return err
		}
	}
	return nil
}

// RainbowSweep cycles the colour wheel across the matrix for SweepFrames
// frames. The wheel position follows the logical row-major index, so the
// sweep reads the same way on every row.
func (m *Matrix) RainbowSweep(ctx context.Context) error {
	for j := 0; j < SweepFrames; j++ {
		for row := 0; row < m.geom.Rows; row++ {
			for col := 0; col < m.geom.Cols; col++ {
				i := row*m.geom.Cols + col
				if err := m.set(m.geom.Index(row, col), Wheel((i+j)&255)); err != nil {
					return err
				}
			}
		}
		if err := m.show(); err != nil {
			return err
		}
		if err := sleep(ctx, m.opts.SweepDelay); err != nil {
			return err
		}
	}
	return nil
}

func (m *Matrix) fill(c types.RGB) error {
	for i := 0; i < m.geom.Elements(); i++ {
		if err := m.set(i, c); err != nil {
			return err
		}
	}
	return m.show()
}

func (m *Matrix) set(index int, c types.RGB) error {
	if err := m.driver.SetElement(index, c.R, c.G, c.B); err != nil {
		return fmt.Errorf("failed to set element %d: %w", index, err)
	}
	return nil
}

func (m *Matrix) show() error {
	if err := m.driver.Show(); err != nil {
		return fmt.Errorf("failed to show: %w", err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
