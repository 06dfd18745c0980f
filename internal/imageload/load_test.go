package imageload

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frame.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create png: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return path
}

func uniform(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestLoadPNG(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		rows, cols int
	}{
		{"same size", 3, 2, 2, 3},
		{"downscale", 64, 32, 8, 16},
		{"upscale", 2, 2, 5, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePNG(t, uniform(tt.w, tt.h, color.RGBA{R: 255, A: 255}))

			payload, err := Load(path, tt.rows, tt.cols)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if len(payload) != tt.rows*tt.cols*3 {
				t.Fatalf("Load() payload = %d bytes, want %d", len(payload), tt.rows*tt.cols*3)
			}
			for i := 0; i < len(payload); i += 3 {
				if payload[i] != 255 || payload[i+1] != 0 || payload[i+2] != 0 {
					t.Fatalf("pixel %d = %v, want red", i/3, payload[i:i+3])
				}
			}
		})
	}
}

func TestLoadTransparentIsBlack(t *testing.T) {
	path := writePNG(t, uniform(2, 2, color.RGBA{}))
	payload, err := Load(path, 2, 2)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for i, b := range payload {
		if b != 0 {
			t.Fatalf("byte %d = %d, want 0", i, b)
		}
	}
}

func TestRasterizeSVG(t *testing.T) {
	const doc = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 10 10">
  <rect x="0" y="0" width="10" height="10" fill="#00ff00"/>
</svg>`

	img, err := RasterizeSVG(strings.NewReader(doc), 4, 6)
	if err != nil {
		t.Fatalf("RasterizeSVG() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 4 {
		t.Fatalf("RasterizeSVG() bounds = %v, want 6x4", b)
	}
	c := img.RGBAAt(3, 2)
	if c.R != 0 || c.B != 0 || c.G < 250 {
		t.Errorf("centre pixel = %v, want green", c)
	}

	path := filepath.Join(t.TempDir(), "logo.SVG")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("Failed to write svg: %v", err)
	}
	payload, err := Load(path, 4, 6)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(payload) != 4*6*3 {
		t.Errorf("Load() payload = %d bytes, want %d", len(payload), 4*6*3)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "notes.txt")
	os.WriteFile(text, []byte("not an image"), 0o644)
	badSVG := filepath.Join(dir, "bad.svg")
	os.WriteFile(badSVG, []byte("<svg"), 0o644)

	tests := []struct {
		name       string
		path       string
		rows, cols int
	}{
		{"missing", filepath.Join(dir, "nope.png"), 2, 2},
		{"not an image", text, 2, 2},
		{"broken svg", badSVG, 2, 2},
		{"zero rows", text, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path, tt.rows, tt.cols); err == nil {
				t.Error("Load() error = nil, want error")
			}
		})
	}
}
