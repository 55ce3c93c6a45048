package socket

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
)

func TestFrame_RoundTrip(t *testing.T) {
	messages := []Message{
		{ID: 0, Payload: []byte{}},
		{ID: 1, Payload: []byte("a")},
		{ID: 42, Payload: bytes.Repeat([]byte{0xAB}, 37)},
		{ID: 0xDEADBEEF, Payload: []byte{0, 1, 2, 3, 255}},
		{ID: StopListeningID - 1, Payload: bytes.Repeat([]byte("payload"), 1000)},
	}

	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		var wire []byte
		for _, m := range messages {
			wire = AppendFrame(wire, order, m)
		}

		got := decodeAll(t, wire, order)
		if len(got) != len(messages) {
			t.Fatalf("%v: frames = %d, want %d", order, len(got), len(messages))
		}
		for i := range messages {
			if got[i].ID != messages[i].ID {
				t.Errorf("%v: frame %d id = %d, want %d", order, i, got[i].ID, messages[i].ID)
			}
			if !bytes.Equal(got[i].Payload, messages[i].Payload) {
				t.Errorf("%v: frame %d payload mismatch", order, i)
			}
		}
	}
}

func TestEncodeHeader_FixedByteOrder(t *testing.T) {
	le := EncodeHeader(binary.LittleEndian, 0x11223344, 0x05)
	if want := [HeaderSize]byte{0x44, 0x33, 0x22, 0x11, 0x05, 0, 0, 0}; le != want {
		t.Errorf("little-endian header = %v, want %v", le, want)
	}

	be := EncodeHeader(binary.BigEndian, 0x11223344, 0x05)
	if want := [HeaderSize]byte{0x11, 0x22, 0x33, 0x44, 0, 0, 0, 0x05}; be != want {
		t.Errorf("big-endian header = %v, want %v", be, want)
	}
}

func TestDecodeHeader_InvalidLength(t *testing.T) {
	if _, _, err := DecodeHeader(binary.LittleEndian, make([]byte, 7)); err == nil {
		t.Error("expected error for 7-byte header")
	}
}

func TestAppendFrame_EmptyPayload(t *testing.T) {
	wire := AppendFrame(nil, binary.LittleEndian, Message{ID: 9})
	if len(wire) != HeaderSize {
		t.Fatalf("frame length = %d, want %d", len(wire), HeaderSize)
	}
	if _, size, _ := DecodeHeader(binary.LittleEndian, wire); size != 0 {
		t.Errorf("length field = %d, want 0", size)
	}
}

func TestReadMessage_EOF(t *testing.T) {
	_, err := ReadMessage(bytes.NewReader(nil), binary.LittleEndian, 1024)
	if err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestReadMessage_ShortHeader(t *testing.T) {
	_, err := ReadMessage(bytes.NewReader([]byte{1, 2, 3}), binary.LittleEndian, 1024)
	if !errors.Is(err, ErrShortHeader) {
		t.Fatalf("expected ErrShortHeader, got %v", err)
	}
}

func TestReadMessage_TruncatedPayload(t *testing.T) {
	wire := AppendFrame(nil, binary.LittleEndian, Message{ID: 1, Payload: []byte("hello")})
	_, err := ReadMessage(bytes.NewReader(wire[:len(wire)-2]), binary.LittleEndian, 1024)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestReadMessage_HeaderOnlyPayloadMissing(t *testing.T) {
	h := EncodeHeader(binary.LittleEndian, 1, 10)
	_, err := ReadMessage(bytes.NewReader(h[:]), binary.LittleEndian, 1024)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
}

func TestReadMessage_PayloadTooLarge(t *testing.T) {
	h := EncodeHeader(binary.LittleEndian, 1, 2048)
	_, err := ReadMessage(bytes.NewReader(h[:]), binary.LittleEndian, 1024)
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func TestMessage_Accessors(t *testing.T) {
	m := Message{ID: 3, Payload: []byte("abc")}
	if m.Length() != 3 {
		t.Errorf("Length = %d, want 3", m.Length())
	}
	if string(m.Body()) != "abc" {
		t.Errorf("Body = %q", m.Body())
	}
	if m.IsStop() {
		t.Error("IsStop = true for ordinary message")
	}
}

// chunkWriter accepts at most n bytes per call, like a socket with a full buffer.
type chunkWriter struct {
	n   int
	buf bytes.Buffer
}

func (w *chunkWriter) Write(p []byte) (int, error) {
	if len(p) > w.n {
		p = p[:w.n]
	}
	return w.buf.Write(p)
}

func (w *chunkWriter) Close() error { return nil }

func TestWriteFull(t *testing.T) {
	w := &chunkWriter{n: 2}
	data := []byte("abcdefg")

	n, err := writeFull(w, data)
	if err != nil {
		t.Fatalf("writeFull failed: %v", err)
	}
	if n != len(data) || w.buf.String() != "abcdefg" {
		t.Errorf("wrote %d bytes %q", n, w.buf.String())
	}
}

func TestWriteFull_Empty(t *testing.T) {
	w := &chunkWriter{n: 2}
	n, err := writeFull(w, nil)
	if err != nil || n != 0 {
		t.Errorf("writeFull(nil) = %d, %v", n, err)
	}
}
