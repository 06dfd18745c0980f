package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// AppendSetup appends a Setup message to b
func AppendSetup(b []byte, rows, cols uint32) []byte {
	b = appendHeader(b, TypeSetup, rows)
	return binary.BigEndian.AppendUint32(b, cols)
}

// AppendImage appends an ImageData message carrying payload to b
func AppendImage(b []byte, payload []byte) []byte {
	b = appendHeader(b, TypeImageData, uint32(len(payload)))
	return append(b, payload...)
}

// AppendTestPattern appends a TestPattern message to b
func AppendTestPattern(b []byte, code uint32) []byte {
	return appendHeader(b, TypeTestPattern, code)
}

func appendHeader(b []byte, typ MessageType, value uint32) []byte {
	b = binary.BigEndian.AppendUint32(b, uint32(typ))
	return binary.BigEndian.AppendUint32(b, value)
}

// Client writes messages to a matrix server
type Client struct {
	w   io.Writer
	buf []byte
}

// NewClient returns a client writing to w
func NewClient(w io.Writer) *Client {
	return &Client{w: w}
}

// Setup sends the matrix geometry
func (c *Client) Setup(rows, cols uint32) error {
	return c.send(AppendSetup(c.buf[:0], rows, cols))
}

// Image sends one row-major RGB frame
func (c *Client) Image(payload []byte) error {
	if uint64(len(payload)) > math.MaxUint32 {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}
	return c.send(AppendImage(c.buf[:0], payload))
}

// TestPattern asks the server to run a built-in pattern
func (c *Client) TestPattern(code uint32) error {
	return c.send(AppendTestPattern(c.buf[:0], code))
}

func (c *Client) send(msg []byte) error {
	c.buf = msg
	if _, err := c.w.Write(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
