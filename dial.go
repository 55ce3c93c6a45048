package socket

import (
	"os"

	"github.com/pkg/errors"
)

const (
	opConnect = "connect"
	opSend    = "send"
	opListen  = "listen"
)

// Stream is the connected byte stream a Sender writes frames to.
// Unlike io.Writer, Write may accept fewer bytes than offered without
// returning an error; the Sender keeps writing the remainder.
type Stream interface {
	Write(p []byte) (int, error)
	Close() error
}

// validateEndpoint rejects endpoints that cannot name a local socket address.
func validateEndpoint(op, endpoint string) error {
	if endpoint == "" {
		return newError(op, endpoint, ErrInvalidEndpoint, nil)
	}
	if len(endpoint) > maxEndpointLen {
		return newError(op, endpoint, ErrEndpointTooLong,
			errors.Errorf("%d bytes, limit is %d", len(endpoint), maxEndpointLen))
	}
	return nil
}

// classifyDialError maps a dial failure to ErrSocket when the socket itself
// could not be allocated and to ErrConnect otherwise.
func classifyDialError(endpoint string, err error) error {
	var sysErr *os.SyscallError
	if errors.As(err, &sysErr) && sysErr.Syscall == "socket" {
		return newError(opConnect, endpoint, ErrSocket, err)
	}
	return newError(opConnect, endpoint, ErrConnect, err)
}
