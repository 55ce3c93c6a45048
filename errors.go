package socket

import (
	"fmt"
	"syscall"

	"github.com/pkg/errors"
)

// Kind classifies a failure by the stage that produced it.
type Kind int

const (
	// KindConfig marks an invalid endpoint or call argument, detected before any I/O.
	KindConfig Kind = iota + 1
	// KindConnection marks a socket allocation, connect or bind failure.
	KindConnection
	// KindTransmission marks a frame that could not be fully written.
	KindTransmission
	// KindMisuse marks a call made in the wrong state.
	KindMisuse
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindConnection:
		return "connection"
	case KindTransmission:
		return "transmission"
	case KindMisuse:
		return "misuse"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Errors reported by Sender and Listener. Every returned error is an *Error
// whose Reason is one of these, so errors.Is works against them.
var (
	ErrInvalidEndpoint = errors.New("invalid endpoint")
	ErrEndpointTooLong = errors.New("endpoint exceeds local address length limit")
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrSizeMismatch    = errors.New("size does not match payload length")

	ErrSocket  = errors.New("socket allocation failed")
	ErrConnect = errors.New("connect failed")
	ErrListen  = errors.New("listen failed")

	ErrWriteFailed    = errors.New("write failed")
	ErrDesynchronized = errors.New("stream desynchronized by a partially written frame")

	ErrNotInitialized   = errors.New("not initialized")
	ErrAlreadyConnected = errors.New("already connected")
	ErrClosed           = errors.New("closed")
	ErrReservedID       = errors.New("message id is reserved for control messages")
)

var reasonKinds = map[error]Kind{
	ErrInvalidEndpoint:  KindConfig,
	ErrEndpointTooLong:  KindConfig,
	ErrPayloadTooLarge:  KindConfig,
	ErrSizeMismatch:     KindConfig,
	ErrSocket:           KindConnection,
	ErrConnect:          KindConnection,
	ErrListen:           KindConnection,
	ErrWriteFailed:      KindTransmission,
	ErrDesynchronized:   KindTransmission,
	ErrNotInitialized:   KindMisuse,
	ErrAlreadyConnected: KindMisuse,
	ErrClosed:           KindMisuse,
	ErrReservedID:       KindMisuse,
}

// Error describes a failed operation.
type Error struct {
	Op       string // "connect", "send", "listen"
	Endpoint string
	Kind     Kind
	Reason   error // one of the Err* values above
	Err      error // underlying cause, nil when the failure was detected locally
}

func newError(op, endpoint string, reason, cause error) *Error {
	return &Error{
		Op:       op,
		Endpoint: endpoint,
		Kind:     reasonKinds[reason],
		Reason:   reason,
		Err:      cause,
	}
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Endpoint != "" {
		msg += " " + e.Endpoint
	}
	msg += ": " + e.Reason.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is the Reason of e.
func (e *Error) Is(target error) bool {
	return target == e.Reason
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or 0 when err was not produced by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsBrokenPipe reports whether err was caused by writing to a peer that has
// closed its end of the connection.
func IsBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE)
}
