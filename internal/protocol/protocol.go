// Package protocol implements the matrix framing protocol.
//
// Every message starts with an 8 byte header of two big-endian uint32
// values, the message type and a type-specific value:
//
//	0 Setup        value = rows, followed by a 4 byte cols field
//	1 ImageData    value = payload length, followed by the payload
//	2 TestPattern  value = pattern code
//
// ImageData payloads are row-major RGB triples, 3 bytes per pixel.
package protocol

import (
	"errors"
	"fmt"
)

// MessageType identifies a message on the wire
type MessageType uint32

const (
	TypeSetup       MessageType = 0
	TypeImageData   MessageType = 1
	TypeTestPattern MessageType = 2
)

// Pattern codes carried by TestPattern
const (
	PatternRGBSweep     uint32 = 1
	PatternRainbowSweep uint32 = 2
)

const (
	// HeaderSize is the size of every message header
	HeaderSize = 8
	// SetupExtraSize is the size of the cols field that follows a Setup header
	SetupExtraSize = 4
)

func (t MessageType) String() string {
	switch t {
	case TypeSetup:
		return "setup"
	case TypeImageData:
		return "image_data"
	case TypeTestPattern:
		return "test_pattern"
	default:
		return "unknown"
	}
}

// Message is one decoded protocol message
type Message interface {
	Type() MessageType
}

// Setup configures the matrix geometry
type Setup struct {
	Rows uint32
	Cols uint32
}

// ImageData carries one row-major RGB frame. Size is the length announced
// in the header. Payload is nil when the decoder skipped an oversized frame.
type ImageData struct {
	Size    uint32
	Payload []byte
}

// Skipped reports whether the payload was discarded unread
func (m ImageData) Skipped() bool {
	return m.Payload == nil && m.Size > 0
}

// TestPattern asks for a built-in pattern
type TestPattern struct {
	Code uint32
}

// Unknown is a header with an unrecognised message type
type Unknown struct {
	MessageType MessageType
	Value       uint32
}

func (Setup) Type() MessageType       { return TypeSetup }
func (ImageData) Type() MessageType   { return TypeImageData }
func (TestPattern) Type() MessageType { return TypeTestPattern }
func (u Unknown) Type() MessageType   { return u.MessageType }

var (
	// ErrFraming matches every error after which byte boundaries can no
	// longer be trusted
	ErrFraming = errors.New("framing error")
	// ErrPayloadTooLarge is returned for payloads that do not fit the
	// 32-bit length field
	ErrPayloadTooLarge = errors.New("payload too large")
)

// FrameError reports a message cut short by the peer or the transport
type FrameError struct {
	Stage string
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("framing error reading %s: %v", e.Stage, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// Is makes every FrameError match ErrFraming
func (e *FrameError) Is(target error) bool {
	return target == ErrFraming
}
