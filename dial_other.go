//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package socket

import "github.com/pkg/errors"

// sun_path size on most platforms, minus the terminating NUL.
var maxEndpointLen = 103

func dialUnix(endpoint string) (Stream, error) {
	return nil, newError(opConnect, endpoint, ErrSocket,
		errors.New("no-signal unix socket writes are not supported on this platform"))
}
