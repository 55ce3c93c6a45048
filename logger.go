package socket

import "log/slog"

// Logger receives the transport's lifecycle events as key-value pairs.
// A Sender logs connect attempts and failures at Debug, established and
// closed connections at Info, and failed sends at Warn with the frame id,
// size and bytes written. A Listener logs start and stop at Info, each
// received frame at Debug, and read or accept errors at Warn and Error.
//
// *slog.Logger satisfies it; cmd/ipcctl adapts a zerolog logger.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, args ...any)
	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, args ...any)
	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, args ...any)
	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, args ...any)
}

// defaultLogger is used when no LoggerOption is given.
func defaultLogger() Logger {
	return slog.Default()
}
