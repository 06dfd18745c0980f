package strip

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
)

const (
	// SPI bits sent per WS2812 data bit
	spiBitsPerBit = 3
	// Zero bytes appended to latch a frame, a little over 280us at 2.4MHz
	spiResetBytes = 90
)

// spidevBufsizPath holds the largest transfer spidev accepts in one write
const spidevBufsizPath = "/sys/module/spidev/parameters/bufsiz"

// SPIConfig holds the settings of a WS2812 strip driven from SPI MOSI
type SPIConfig struct {
	Device     string
	FreqHz     int
	Brightness int
	ColorOrder string
	Invert     bool
}

// SPI drives a WS2812 strip by shaping the data line with SPI bytes
type SPI struct {
	w          io.WriteCloser
	pixels     []byte
	order      [3]int
	brightness int
	invert     bool
	mu         sync.Mutex
	buf        []byte
}

func newSPI(w io.WriteCloser, cfg SPIConfig, count int) (*SPI, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid element count: %d", count)
	}
	if cfg.Brightness < 0 || cfg.Brightness > 255 {
		return nil, fmt.Errorf("brightness must be between 0 and 255")
	}
	order, err := parseColorOrder(cfg.ColorOrder)
	if err != nil {
		return nil, err
	}

	return &SPI{
		w:          w,
		pixels:     make([]byte, count*3),
		order:      order,
		brightness: cfg.Brightness,
		invert:     cfg.Invert,
		buf:        make([]byte, spiFrameSize(count)),
	}, nil
}

// SetElement stages one element in wire colour order
func (s *SPI) SetElement(index int, r, g, b uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index*3 >= len(s.pixels) {
		return fmt.Errorf("index out of bounds: %d", index)
	}
	rgb := [3]uint8{r, g, b}
	off := index * 3
	for i, ch := range s.order {
		s.pixels[off+i] = scale(rgb[ch], s.brightness)
	}
	return nil
}

// Show encodes the staged strip and writes it to the SPI device
func (s *SPI) Show() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	encodeSPI(s.buf, s.pixels, s.invert)
	if _, err := s.w.Write(s.buf); err != nil {
		return fmt.Errorf("failed to write SPI frame: %w", err)
	}
	return nil
}

// Close closes the SPI device
func (s *SPI) Close() error {
	return s.w.Close()
}

// spiFrameSize is the number of bytes one Show writes for count elements
func spiFrameSize(count int) int {
	return count*3*spiBitsPerBit + spiResetBytes
}

// checkSPIFrame fails when a frame for count elements does not fit in a
// single spidev transfer. A bufsiz of zero means unknown and passes.
func checkSPIFrame(count, bufsiz int) error {
	if bufsiz <= 0 {
		return nil
	}
	if n := spiFrameSize(count); n > bufsiz {
		limit := (bufsiz - spiResetBytes) / (3 * spiBitsPerBit)
		return fmt.Errorf("%d elements need %d byte SPI transfers, spidev bufsiz is %d (max %d elements); raise spidev.bufsiz",
			count, n, bufsiz, limit)
	}
	return nil
}

// readBufsiz reads the spidev bufsiz module parameter. A missing file
// reports zero.
func readBufsiz(path string) (int, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return n, nil
}

// encodeSPI expands every data bit into three SPI bits, 1 as 110 and
// 0 as 100, and zero-fills the tail so the strip latches. dst must hold
// len(src)*3 bytes plus the reset tail.
func encodeSPI(dst, src []byte, invert bool) {
	n := 0
	for _, b := range src {
		var v uint32
		for bit := 7; bit >= 0; bit-- {
			if b&(1<<bit) != 0 {
				v = v<<3 | 0b110
			} else {
				v = v<<3 | 0b100
			}
		}
		dst[n] = byte(v >> 16)
		dst[n+1] = byte(v >> 8)
		dst[n+2] = byte(v)
		n += 3
	}
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
	if invert {
		for i := range dst {
			dst[i] = ^dst[i]
		}
	}
}

// scale applies global brightness the way ws281x strips do
func scale(c uint8, brightness int) uint8 {
	return uint8((int(c) * (brightness + 1)) >> 8)
}

// parseColorOrder turns "GRB" style names into indices of r, g, b
func parseColorOrder(name string) ([3]int, error) {
	var order [3]int
	name = strings.ToUpper(name)
	if len(name) != 3 {
		return order, fmt.Errorf("invalid color order %q", name)
	}

	seen := map[byte]bool{}
	for i := 0; i < 3; i++ {
		switch name[i] {
		case 'R':
			order[i] = 0
		case 'G':
			order[i] = 1
		case 'B':
			order[i] = 2
		default:
			return order, fmt.Errorf("invalid color order %q", name)
		}
		if seen[name[i]] {
			return order, fmt.Errorf("invalid color order %q", name)
		}
		seen[name[i]] = true
	}
	return order, nil
}
