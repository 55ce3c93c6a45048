//go:build linux || darwin || freebsd || netbsd || openbsd

package socket

import (
	"net"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// maxEndpointLen leaves room for the terminating NUL that C peers expect in sun_path.
var maxEndpointLen = len(unix.RawSockaddrUnix{}.Path) - 1

// dialUnix makes a single connection attempt to a listening Unix domain
// stream socket. The socket is released by the net package when connect fails.
func dialUnix(endpoint string) (Stream, error) {
	conn, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: endpoint, Net: "unix"})
	if err != nil {
		return nil, classifyDialError(endpoint, err)
	}

	raw, err := conn.SyscallConn()
	if err != nil {
		conn.Close()
		return nil, newError(opConnect, endpoint, ErrSocket, err)
	}

	if err = disableSigpipe(raw); err != nil {
		conn.Close()
		return nil, newError(opConnect, endpoint, ErrSocket, err)
	}

	return &unixStream{conn: conn, raw: raw}, nil
}

// unixStream writes with send(2) so that a closed peer yields EPIPE
// instead of SIGPIPE.
type unixStream struct {
	conn *net.UnixConn
	raw  syscall.RawConn
}

// Write performs one send call. It may accept fewer bytes than len(p).
func (s *unixStream) Write(p []byte) (int, error) {
	var (
		n      int
		sysErr error
	)
	err := s.raw.Write(func(fd uintptr) bool {
		n, sysErr = unix.SendmsgN(int(fd), p, nil, nil, sendFlags)
		return sysErr != unix.EAGAIN
	})
	if err != nil {
		return 0, err
	}
	if sysErr != nil {
		return 0, os.NewSyscallError("sendmsg", sysErr)
	}
	return n, nil
}

func (s *unixStream) Close() error {
	return s.conn.Close()
}
