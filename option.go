package socket

import (
	"encoding/binary"
)

// defaultMaxPayload is the default maximum payload of a single frame (16MB).
const defaultMaxPayload = 16 * 1024 * 1024

// Dialer establishes a connected Stream to endpoint. The endpoint has
// already been validated when a Dialer is called.
type Dialer func(endpoint string) (Stream, error)

// options holds the configuration shared by Sender and Listener.
type options struct {
	logger     Logger
	order      binary.ByteOrder
	maxPayload int    // maximum payload of a single frame
	dialer     Dialer // establishes the connection, Sender only
}

// Option is a function that configures a Sender or Listener.
type Option func(*options)

// LoggerOption sets the logger.
// If not set, the default slog logger will be used.
func LoggerOption(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// ByteOrderOption sets the byte order of the frame header fields.
// Both ends must agree on it. The default is little-endian.
func ByteOrderOption(order binary.ByteOrder) Option {
	return func(o *options) {
		o.order = order
	}
}

// MessageMaxSize sets the maximum payload size of a single frame.
// Larger payloads are rejected by Send and by the listener's decoder.
func MessageMaxSize(size int) Option {
	return func(o *options) {
		o.maxPayload = size
	}
}

// DialerOption replaces the function used to establish the connection.
// The default dials a Unix domain stream socket.
func DialerOption(dialer Dialer) Option {
	return func(o *options) {
		o.dialer = dialer
	}
}

func newOptions(opt []Option) options {
	var opts options
	for _, o := range opt {
		o(&opts)
	}
	checkOptions(&opts)
	return opts
}

// checkOptions sets default values for unset options.
func checkOptions(opts *options) {
	if opts.logger == nil {
		opts.logger = defaultLogger()
	}

	if opts.order == nil {
		opts.order = binary.LittleEndian
	}

	if opts.maxPayload <= 0 || uint64(opts.maxPayload) > uint64(^uint32(0)) {
		opts.maxPayload = defaultMaxPayload
	}

	if opts.dialer == nil {
		opts.dialer = dialUnix
	}
}
