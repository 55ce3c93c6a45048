//go:build linux || freebsd || netbsd || openbsd

package socket

import (
	"syscall"

	"golang.org/x/sys/unix"
)

const sendFlags = unix.MSG_NOSIGNAL

// disableSigpipe is a no-op where every send can carry MSG_NOSIGNAL.
func disableSigpipe(syscall.RawConn) error {
	return nil
}
