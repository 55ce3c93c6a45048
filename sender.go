// Package socket implements a point-to-point message transport over a
// local stream socket. A Sender connects to an already-listening peer and
// writes discrete, length-prefixed frames tagged with a numeric id; a
// Listener decodes the same frame format on the other end.
package socket

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// State is the lifecycle state of a Sender.
type State int

const (
	// StateUninitialized means no connection has been established.
	StateUninitialized State = iota
	// StateReady means frames can be sent.
	StateReady
	// StateDesynchronized means a frame was partially written. The peer's
	// framing can no longer be trusted, so Send fails until Connect
	// establishes a fresh connection.
	StateDesynchronized
	// StateClosed is terminal.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateDesynchronized:
		return "desynchronized"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Sender owns one connection and writes frames to it. Send calls from
// multiple goroutines are serialized so frames never interleave on the wire.
//
// The zero value is an uninitialized Sender with default options.
type Sender struct {
	mu         sync.Mutex
	opts       options
	configured bool

	stream   Stream
	endpoint string
	state    State
}

// NewSender returns an uninitialized Sender. Call Connect before Send.
func NewSender(opt ...Option) *Sender {
	return &Sender{opts: newOptions(opt), configured: true}
}

// Dial creates a Sender and connects it to endpoint.
func Dial(endpoint string, opt ...Option) (*Sender, error) {
	s := NewSender(opt...)
	if err := s.Connect(endpoint); err != nil {
		return nil, err
	}
	return s, nil
}

// init applies defaults for a zero-value Sender. Must hold s.mu.
func (s *Sender) init() {
	if !s.configured {
		checkOptions(&s.opts)
		s.configured = true
	}
}

// Connect makes a single attempt to connect to endpoint, which must
// already be listening. It is valid on an uninitialized Sender and on a
// desynchronized one, whose old connection is released first.
func (s *Sender) Connect(endpoint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()

	switch s.state {
	case StateReady:
		return newError(opConnect, s.endpoint, ErrAlreadyConnected, nil)
	case StateClosed:
		return newError(opConnect, s.endpoint, ErrClosed, nil)
	case StateDesynchronized:
		s.releaseLocked()
		s.state = StateUninitialized
	}

	if err := validateEndpoint(opConnect, endpoint); err != nil {
		return err
	}

	s.opts.logger.Debug("connecting to listener", "endpoint", endpoint)
	stream, err := s.opts.dialer(endpoint)
	if err != nil {
		s.opts.logger.Debug("connect failed", "endpoint", endpoint, "error", err)
		if KindOf(err) == 0 {
			err = newError(opConnect, endpoint, ErrConnect, err)
		}
		return err
	}

	s.stream = stream
	s.endpoint = endpoint
	s.state = StateReady
	s.opts.logger.Info("connection established", "endpoint", endpoint)
	return nil
}

// Send writes one frame carrying id and payload. An empty payload is valid
// and produces a header-only frame. StopListeningID is rejected; use
// RequestPeerStop for it.
//
// Send blocks until the whole frame is written or the write fails. If the
// failure happens after part of the frame reached the stream, the Sender
// becomes desynchronized and must be reconnected.
func (s *Sender) Send(id uint32, payload []byte) error {
	if id == StopListeningID {
		return newError(opSend, s.Endpoint(), ErrReservedID, nil)
	}
	return s.send(id, payload)
}

// SendSized is Send with an explicit payload size, which must equal
// len(payload).
func (s *Sender) SendSized(id uint32, payload []byte, size uint32) error {
	if uint64(size) != uint64(len(payload)) {
		return newError(opSend, s.Endpoint(), ErrSizeMismatch,
			errors.Errorf("size %d, payload %d bytes", size, len(payload)))
	}
	return s.Send(id, payload)
}

// RequestPeerStop sends the empty StopListeningID frame, asking the
// listener to stop.
func (s *Sender) RequestPeerStop() error {
	return s.send(StopListeningID, nil)
}

func (s *Sender) send(id uint32, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()

	switch s.state {
	case StateReady:
	case StateDesynchronized:
		return newError(opSend, s.endpoint, ErrDesynchronized, nil)
	default:
		s.opts.logger.Debug("send on unconnected sender", "state", s.state)
		return newError(opSend, s.endpoint, ErrNotInitialized, nil)
	}

	if len(payload) > s.opts.maxPayload {
		return newError(opSend, s.endpoint, ErrPayloadTooLarge,
			errors.Errorf("%d bytes, limit is %d", len(payload), s.opts.maxPayload))
	}

	size := uint32(len(payload))
	s.opts.logger.Debug("sending message", "endpoint", s.endpoint, "id", id, "size", size)

	written, err := s.writeFrame(EncodeHeader(s.opts.order, id, size), payload)
	if err != nil {
		if written > 0 {
			s.state = StateDesynchronized
		}
		s.opts.logger.Warn("send failed", "endpoint", s.endpoint, "id", id, "size", size,
			"written", written, "desynchronized", written > 0, "error", err)
		if IsBrokenPipe(err) {
			s.opts.logger.Debug("connection broken by peer", "endpoint", s.endpoint)
		}
		return newError(opSend, s.endpoint, ErrWriteFailed, err)
	}

	return nil
}

// writeFrame writes the id, length and payload segments in order and
// returns the total number of bytes accepted by the stream.
func (s *Sender) writeFrame(header [HeaderSize]byte, payload []byte) (int, error) {
	segments := [...]struct {
		name string
		data []byte
	}{
		{"id", header[0:4]},
		{"length", header[4:8]},
		{"payload", payload},
	}

	total := 0
	for _, seg := range segments {
		n, err := writeFull(s.stream, seg.data)
		total += n
		if err != nil {
			return total, errors.Wrapf(err, "write %s", seg.name)
		}
	}
	return total, nil
}

// Close releases the connection. It waits for an in-flight Send and is
// safe to call multiple times; the connection is closed exactly once.
// A closed Sender cannot be reconnected.
func (s *Sender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()

	if s.state == StateClosed {
		return nil
	}
	s.state = StateClosed
	if s.stream == nil {
		return nil
	}

	if err := s.releaseLocked(); err != nil {
		return errors.Wrap(err, "close")
	}
	s.opts.logger.Info("connection closed", "endpoint", s.endpoint)
	return nil
}

// releaseLocked closes and forgets the stream. Must hold s.mu.
func (s *Sender) releaseLocked() error {
	if s.stream == nil {
		return nil
	}
	err := s.stream.Close()
	s.stream = nil
	if err != nil {
		s.opts.logger.Debug("close error", "endpoint", s.endpoint, "error", err)
	}
	return err
}

// Endpoint returns the endpoint of the last successful Connect.
func (s *Sender) Endpoint() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endpoint
}

// State returns the current lifecycle state.
func (s *Sender) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
