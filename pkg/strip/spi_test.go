package strip

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type bufferCloser struct {
	bytes.Buffer
	closed bool
	err    error
}

func (b *bufferCloser) Write(p []byte) (int, error) {
	if b.err != nil {
		return 0, b.err
	}
	return b.Buffer.Write(p)
}

func (b *bufferCloser) Close() error {
	b.closed = true
	return nil
}

var (
	spiOne  = []byte{0xDB, 0x6D, 0xB6}
	spiZero = []byte{0x92, 0x49, 0x24}
)

func TestEncodeSPI(t *testing.T) {
	tests := []struct {
		name string
		in   byte
		want []byte
	}{
		{"all ones", 0xFF, spiOne},
		{"all zeros", 0x00, spiZero},
		{"high bit", 0x80, []byte{0xD2, 0x49, 0x24}},
		{"low bit", 0x01, []byte{0x92, 0x49, 0x26}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := make([]byte, 3+spiResetBytes)
			encodeSPI(dst, []byte{tt.in}, false)
			if !bytes.Equal(dst[:3], tt.want) {
				t.Errorf("encodeSPI(%#x) = % x, want % x", tt.in, dst[:3], tt.want)
			}
			if !bytes.Equal(dst[3:], make([]byte, spiResetBytes)) {
				t.Errorf("encodeSPI(%#x) reset tail is not zero", tt.in)
			}
		})
	}

	t.Run("invert", func(t *testing.T) {
		dst := make([]byte, 3+spiResetBytes)
		encodeSPI(dst, []byte{0xFF}, true)
		for i, want := range spiOne {
			if dst[i] != ^want {
				t.Errorf("inverted byte %d = %#x, want %#x", i, dst[i], ^want)
			}
		}
		if dst[len(dst)-1] != 0xFF {
			t.Errorf("inverted reset tail = %#x, want 0xff", dst[len(dst)-1])
		}
	})
}

func TestSPIShow(t *testing.T) {
	w := &bufferCloser{}
	s, err := newSPI(w, SPIConfig{Brightness: 255, ColorOrder: "GRB"}, 2)
	if err != nil {
		t.Fatalf("newSPI() error = %v", err)
	}

	if err := s.SetElement(0, 255, 0, 0); err != nil {
		t.Fatalf("SetElement() error = %v", err)
	}
	if err := s.SetElement(2, 1, 1, 1); err == nil {
		t.Error("SetElement() past the end did not return error")
	}
	if err := s.Show(); err != nil {
		t.Fatalf("Show() error = %v", err)
	}

	got := w.Bytes()
	if len(got) != 2*3*spiBitsPerBit+spiResetBytes {
		t.Fatalf("frame length = %d, want %d", len(got), 2*3*spiBitsPerBit+spiResetBytes)
	}
	want := bytes.Join([][]byte{spiZero, spiOne, spiZero}, nil)
	if !bytes.Equal(got[:9], want) {
		t.Errorf("first element = % x, want % x (green, red, blue)", got[:9], want)
	}
	for i := 9; i < 18; i += 3 {
		if !bytes.Equal(got[i:i+3], spiZero) {
			t.Errorf("second element byte at %d = % x, want zero", i, got[i:i+3])
		}
	}

	if err := s.Close(); err != nil || !w.closed {
		t.Errorf("Close() error = %v, closed = %v", err, w.closed)
	}
}

func TestSPIWriteError(t *testing.T) {
	boom := errors.New("boom")
	s, err := newSPI(&bufferCloser{err: boom}, SPIConfig{Brightness: 10, ColorOrder: "RGB"}, 1)
	if err != nil {
		t.Fatalf("newSPI() error = %v", err)
	}
	if err := s.Show(); !errors.Is(err, boom) {
		t.Errorf("Show() error = %v, want %v", err, boom)
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		c          uint8
		brightness int
		want       uint8
	}{
		{255, 255, 255},
		{255, 5, 5},
		{128, 127, 64},
		{200, 0, 0},
	}
	for _, tt := range tests {
		if got := scale(tt.c, tt.brightness); got != tt.want {
			t.Errorf("scale(%d, %d) = %d, want %d", tt.c, tt.brightness, got, tt.want)
		}
	}
}

func TestParseColorOrder(t *testing.T) {
	tests := []struct {
		name    string
		want    [3]int
		wantErr bool
	}{
		{"RGB", [3]int{0, 1, 2}, false},
		{"grb", [3]int{1, 0, 2}, false},
		{"BRG", [3]int{2, 0, 1}, false},
		{"RRB", [3]int{}, true},
		{"RGBW", [3]int{}, true},
		{"RGX", [3]int{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseColorOrder(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseColorOrder() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseColorOrder() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewSPIInvalid(t *testing.T) {
	if _, err := newSPI(&bufferCloser{}, SPIConfig{ColorOrder: "GRB"}, 0); err == nil {
		t.Error("newSPI() with zero elements did not return error")
	}
	if _, err := newSPI(&bufferCloser{}, SPIConfig{ColorOrder: "GRB", Brightness: 256}, 1); err == nil {
		t.Error("newSPI() with brightness 256 did not return error")
	}
}

func TestCheckSPIFrame(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		bufsiz  int
		wantErr bool
	}{
		{"fits default bufsiz", 445, 4096, false},
		{"one over default bufsiz", 446, 4096, true},
		{"16x32 on default bufsiz", 512, 4096, true},
		{"32x32 with raised bufsiz", 1024, 65536, false},
		{"unknown bufsiz", 1024, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkSPIFrame(tt.count, tt.bufsiz)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkSPIFrame(%d, %d) error = %v, wantErr %v", tt.count, tt.bufsiz, err, tt.wantErr)
			}
		})
	}
}

func TestSPIFrameSizeMatchesShow(t *testing.T) {
	w := &bufferCloser{}
	s, err := newSPI(w, SPIConfig{ColorOrder: "GRB"}, 7)
	if err != nil {
		t.Fatalf("newSPI() error = %v", err)
	}
	if err := s.Show(); err != nil {
		t.Fatalf("Show() error = %v", err)
	}
	if w.Len() != spiFrameSize(7) {
		t.Errorf("Show() wrote %d bytes, spiFrameSize(7) = %d", w.Len(), spiFrameSize(7))
	}
}

func TestReadBufsiz(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "bufsiz")
	if err := os.WriteFile(path, []byte("4096\n"), 0o644); err != nil {
		t.Fatalf("Failed to write bufsiz: %v", err)
	}
	if got, err := readBufsiz(path); err != nil || got != 4096 {
		t.Errorf("readBufsiz() = %d, %v, want 4096", got, err)
	}

	if got, err := readBufsiz(filepath.Join(dir, "missing")); err != nil || got != 0 {
		t.Errorf("readBufsiz(missing) = %d, %v, want 0, nil", got, err)
	}

	bad := filepath.Join(dir, "bad")
	if err := os.WriteFile(bad, []byte("lots"), 0o644); err != nil {
		t.Fatalf("Failed to write bad bufsiz: %v", err)
	}
	if _, err := readBufsiz(bad); err == nil {
		t.Error("readBufsiz(bad) error = nil, want parse error")
	}
}
