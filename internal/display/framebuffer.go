package display

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/fcurrie/serpentine-led-golang/internal/types"
)

// ErrFrameSize is returned when frame bytes do not cover the geometry exactly
var ErrFrameSize = errors.New("frame size does not match geometry")

// FrameBuffer is a row-major grid of RGB pixels
type FrameBuffer struct {
	geom Geometry
	pix  []uint8
}

// NewFrameBuffer wraps raw row-major RGB bytes. The slice is used in place.
func NewFrameBuffer(geom Geometry, pix []byte) (*FrameBuffer, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	if len(pix) != geom.FrameSize() {
		return nil, fmt.Errorf("%w: got %d bytes, want %d for %s",
			ErrFrameSize, len(pix), geom.FrameSize(), geom)
	}
	return &FrameBuffer{geom: geom, pix: pix}, nil
}

// Geometry returns the size of the frame
func (f *FrameBuffer) Geometry() Geometry {
	return f.geom
}

// Pixel returns the colour at a logical position
func (f *FrameBuffer) Pixel(row, col int) types.RGB {
	i := (row*f.geom.Cols + col) * 3
	return types.RGB{R: f.pix[i], G: f.pix[i+1], B: f.pix[i+2]}
}

// ColorModel implements image.Image
func (f *FrameBuffer) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image with x as column and y as row
func (f *FrameBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.geom.Cols, f.geom.Rows)
}

// At implements image.Image
func (f *FrameBuffer) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(f.Bounds()) {
		return color.RGBA{}
	}
	p := f.Pixel(y, x)
	return color.RGBA{R: p.R, G: p.G, B: p.B, A: 255}
}
