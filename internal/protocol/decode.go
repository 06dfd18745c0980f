package protocol

import (
	"encoding/binary"
	"errors"
	"io"
)

// Decoder reads messages from a byte stream
type Decoder struct {
	r          io.Reader
	maxPayload uint32
	hdr        [HeaderSize]byte
}

// NewDecoder returns a decoder that skips ImageData payloads longer than
// maxPayload bytes instead of buffering them
func NewDecoder(r io.Reader, maxPayload uint32) *Decoder {
	return &Decoder{r: r, maxPayload: maxPayload}
}

// Next reads the next message. It returns io.EOF when the stream ends
// cleanly on a message boundary. Any other error leaves the stream
// position undefined.
func (d *Decoder) Next() (Message, error) {
	if _, err := io.ReadFull(d.r, d.hdr[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, &FrameError{Stage: "header", Err: err}
	}

	typ := MessageType(binary.BigEndian.Uint32(d.hdr[0:4]))
	value := binary.BigEndian.Uint32(d.hdr[4:8])

	switch typ {
	case TypeSetup:
		var extra [SetupExtraSize]byte
		if _, err := io.ReadFull(d.r, extra[:]); err != nil {
			return nil, &FrameError{Stage: "setup cols", Err: eof(err)}
		}
		return Setup{Rows: value, Cols: binary.BigEndian.Uint32(extra[:])}, nil

	case TypeImageData:
		if value > d.maxPayload {
			if _, err := io.CopyN(io.Discard, d.r, int64(value)); err != nil {
				return nil, &FrameError{Stage: "image payload", Err: eof(err)}
			}
			return ImageData{Size: value}, nil
		}
		payload := make([]byte, value)
		if _, err := io.ReadFull(d.r, payload); err != nil {
			return nil, &FrameError{Stage: "image payload", Err: eof(err)}
		}
		return ImageData{Size: value, Payload: payload}, nil

	case TypeTestPattern:
		return TestPattern{Code: value}, nil

	default:
		return Unknown{MessageType: typ, Value: value}, nil
	}
}

// eof turns a clean EOF inside a message into an unexpected one
func eof(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
