package main

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// zerologAdapter satisfies socket.Logger.
type zerologAdapter struct {
	logger zerolog.Logger
}

func (a zerologAdapter) Debug(msg string, args ...any) { a.logger.Debug().Fields(args).Msg(msg) }
func (a zerologAdapter) Info(msg string, args ...any)  { a.logger.Info().Fields(args).Msg(msg) }
func (a zerologAdapter) Warn(msg string, args ...any)  { a.logger.Warn().Fields(args).Msg(msg) }
func (a zerologAdapter) Error(msg string, args ...any) { a.logger.Error().Fields(args).Msg(msg) }

func newLogger(out io.Writer, level string, noColor bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}
	lvl, ok := parseLevel(level)
	if !ok {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(output).Level(lvl).With().Timestamp().Str("app", "ipcctl").Logger()
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}
