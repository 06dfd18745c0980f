package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/fcurrie/serpentine-led-golang/internal/protocol"
)

// Rejections. The offending message is dropped and the connection carries
// on with the next header.
var (
	ErrUnconfigured    = errors.New("matrix not configured")
	ErrPayloadSize     = errors.New("payload size does not match matrix")
	ErrInvalidGeometry = errors.New("invalid matrix geometry")
	ErrUnknownPattern  = errors.New("unknown test pattern")
	ErrUnknownMessage  = errors.New("unknown message type")
)

// PayloadSizeError reports an ImageData payload of the wrong length
type PayloadSizeError struct {
	Got  int
	Want int
}

func (e *PayloadSizeError) Error() string {
	return fmt.Sprintf("payload size does not match matrix: got %d bytes, want %d", e.Got, e.Want)
}

// Is makes every PayloadSizeError match ErrPayloadSize
func (e *PayloadSizeError) Is(target error) bool {
	return target == ErrPayloadSize
}

var rejections = []struct {
	err    error
	reason string
}{
	{ErrUnconfigured, "unconfigured"},
	{ErrPayloadSize, "payload_size"},
	{ErrInvalidGeometry, "invalid_geometry"},
	{ErrUnknownPattern, "unknown_pattern"},
	{ErrUnknownMessage, "unknown_message"},
}

// rejection reports whether err only rejects a message, and why
func rejection(err error) (string, bool) {
	for _, r := range rejections {
		if errors.Is(err, r.err) {
			return r.reason, true
		}
	}
	return "", false
}

// disconnectCause labels why a connection ended
func disconnectCause(err error) string {
	var netErr net.Error
	switch {
	case err == nil:
		return "closed"
	case errors.Is(err, context.Canceled):
		return "shutdown"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.Is(err, protocol.ErrFraming):
		return "framing"
	default:
		return "error"
	}
}
