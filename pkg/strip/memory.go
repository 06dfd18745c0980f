package strip

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fcurrie/serpentine-led-golang/internal/types"
)

// ErrClosed is returned by drivers used after Close
var ErrClosed = errors.New("driver closed")

// Memory is a driver that keeps the strip in memory. It backs the "memory"
// driver kind and is handy on machines without a strip attached.
type Memory struct {
	mu     sync.Mutex
	pixels []types.RGB
	staged []types.RGB
	shows  int
	closed bool
}

// NewMemory creates an in-memory strip of count elements, all off
func NewMemory(count int) *Memory {
	return &Memory{
		pixels: make([]types.RGB, count),
		staged: make([]types.RGB, count),
	}
}

// SetElement stages one element
func (m *Memory) SetElement(index int, r, g, b uint8) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if index < 0 || index >= len(m.staged) {
		return fmt.Errorf("index out of bounds: %d", index)
	}
	m.staged[index] = types.RGB{R: r, G: g, B: b}
	return nil
}

// Show copies the staged elements to the visible strip
func (m *Memory) Show() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	copy(m.pixels, m.staged)
	m.shows++
	return nil
}

// Close marks the strip closed
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Pixels returns a copy of the visible strip
func (m *Memory) Pixels() []types.RGB {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]types.RGB, len(m.pixels))
	copy(out, m.pixels)
	return out
}

// Shows returns how many times the strip was shown
func (m *Memory) Shows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shows
}

// Closed reports whether Close has been called
func (m *Memory) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
