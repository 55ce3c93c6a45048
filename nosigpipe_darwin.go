package socket

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// Darwin has no MSG_NOSIGNAL; the socket option covers every send instead.
const sendFlags = 0

func disableSigpipe(raw syscall.RawConn) error {
	var sockErr error
	err := raw.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_NOSIGPIPE, 1)
	})
	if err != nil {
		return err
	}
	if sockErr != nil {
		return os.NewSyscallError("setsockopt", sockErr)
	}
	return nil
}
