package socket

import (
	"encoding/binary"
	"io"
	"math"
	"syscall"

	"github.com/pkg/errors"
)

// Wire format of one frame:
//
//	id (4 bytes) | length (4 bytes) | payload (length bytes)
//
// Both header fields use the byte order configured with ByteOrderOption,
// little-endian by default. There is no delimiter, checksum or version tag
// between frames; a receiver trusts the declared length.
const (
	// HeaderSize is the encoded size of the id and length fields.
	HeaderSize = 8

	// StopListeningID is reserved for the control message that asks the
	// listener to stop. It always carries an empty payload and is never
	// accepted for application data.
	StopListeningID uint32 = math.MaxUint32
)

// ErrShortHeader is returned by ReadMessage when the stream ends inside a header.
var ErrShortHeader = errors.New("short frame header")

// Message is one decoded frame.
type Message struct {
	ID      uint32
	Payload []byte
}

// Length returns the payload length.
func (m Message) Length() int {
	return len(m.Payload)
}

// Body returns the raw payload.
func (m Message) Body() []byte {
	return m.Payload
}

// IsStop reports whether m is the stop-listening control message.
func (m Message) IsStop() bool {
	return m.ID == StopListeningID
}

// EncodeHeader encodes id and size in the given byte order.
func EncodeHeader(order binary.ByteOrder, id, size uint32) [HeaderSize]byte {
	var b [HeaderSize]byte
	order.PutUint32(b[0:4], id)
	order.PutUint32(b[4:8], size)
	return b
}

// DecodeHeader is the inverse of EncodeHeader.
func DecodeHeader(order binary.ByteOrder, b []byte) (id, size uint32, err error) {
	if len(b) != HeaderSize {
		return 0, 0, errors.Errorf("invalid header length: %d", len(b))
	}
	return order.Uint32(b[0:4]), order.Uint32(b[4:8]), nil
}

// AppendFrame appends the encoded frame for m to dst.
func AppendFrame(dst []byte, order binary.ByteOrder, m Message) []byte {
	h := EncodeHeader(order, m.ID, uint32(len(m.Payload)))
	dst = append(dst, h[:]...)
	return append(dst, m.Payload...)
}

// ReadMessage reads exactly one frame from r. It returns io.EOF when r ends
// cleanly between frames, ErrShortHeader when it ends inside a header and
// ErrPayloadTooLarge when the declared length exceeds maxPayload.
func ReadMessage(r io.Reader, order binary.ByteOrder, maxPayload int) (Message, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Message{}, ErrShortHeader
		}
		return Message{}, err
	}

	id, size, _ := DecodeHeader(order, header[:])
	if uint64(size) > uint64(maxPayload) {
		return Message{}, errors.Wrapf(ErrPayloadTooLarge, "frame %d declares %d bytes", id, size)
	}

	payload := make([]byte, size)
	if size > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return Message{}, errors.Wrapf(err, "read payload of frame %d", id)
		}
	}

	return Message{ID: id, Payload: payload}, nil
}

// writeFull writes p to w, calling Write again on the unsent suffix until
// everything is accepted. Interrupted calls are retried; any other error, or
// a call that makes no progress, stops the loop. It returns the number of
// bytes accepted.
func writeFull(w Stream, p []byte) (int, error) {
	written := 0
	for written < len(p) {
		n, err := w.Write(p[written:])
		if n > 0 {
			written += n
		}
		if err != nil {
			if errors.Is(err, syscall.EINTR) {
				continue
			}
			return written, err
		}
		if n <= 0 {
			return written, io.ErrShortWrite
		}
	}
	return written, nil
}
