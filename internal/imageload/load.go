// Package imageload turns image files into ImageData payloads.
package imageload

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
)

// Load reads an image file and returns it as a rows x cols row-major RGB
// payload. SVG files are rasterised at the target size, raster formats
// are scaled to it. Transparent areas come out black.
func Load(path string, rows, cols int) ([]byte, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid dimensions: %dx%d", rows, cols)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var img *image.RGBA
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		img, err = RasterizeSVG(f, rows, cols)
	} else {
		img, err = decode(f, rows, cols)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return Payload(img), nil
}

func decode(r io.Reader, rows, cols int) (*image.RGBA, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return Fit(src, rows, cols), nil
}

// RasterizeSVG draws an SVG document stretched over rows x cols pixels
func RasterizeSVG(r io.Reader, rows, cols int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}
	icon.SetTarget(0, 0, float64(cols), float64(rows))

	dst := image.NewRGBA(image.Rect(0, 0, cols, rows))
	scanner := rasterx.NewScannerGV(cols, rows, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(cols, rows, scanner), 1)
	return dst, nil
}

// Fit scales src to exactly rows x cols pixels
func Fit(src image.Image, rows, cols int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, cols, rows))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Payload flattens img into row-major RGB triples. The alpha-premultiplied
// channels are used as is, which composites over black.
func Payload(img *image.RGBA) []byte {
	b := img.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy()*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			out = append(out, c.R, c.G, c.B)
		}
	}
	return out
}
