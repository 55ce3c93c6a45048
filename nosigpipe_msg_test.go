//go:build linux || freebsd || netbsd || openbsd

package socket

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestSendFlags_NoSignal(t *testing.T) {
	if sendFlags&unix.MSG_NOSIGNAL == 0 {
		t.Errorf("sendFlags = %#x, want MSG_NOSIGNAL set", sendFlags)
	}
	if err := disableSigpipe(nil); err != nil {
		t.Errorf("disableSigpipe: %v", err)
	}
}
