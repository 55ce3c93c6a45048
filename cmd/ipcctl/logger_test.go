package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	socket "github.com/Zereker/unixipc"
)

func TestZerologAdapterImplementsLogger(t *testing.T) {
	var _ socket.Logger = zerologAdapter{}
}

func TestZerologAdapterWritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := zerologAdapter{logger: newLogger(&buf, "debug", true)}

	logger.Info("connection established", "endpoint", "/tmp/a.sock")
	logger.Warn("send failed", "id", uint32(7), "error", errors.New("broken pipe"))

	out := buf.String()
	for _, want := range []string{"connection established", "endpoint=/tmp/a.sock", "send failed", "id=7", "broken pipe"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestZerologAdapterRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := zerologAdapter{logger: newLogger(&buf, "warn", true)}

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Error("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("below-level message logged:\n%s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("error message missing:\n%s", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want zerolog.Level
		ok   bool
	}{
		{"", zerolog.InfoLevel, false},
		{"trace", zerolog.TraceLevel, true},
		{" DEBUG ", zerolog.DebugLevel, true},
		{"warning", zerolog.WarnLevel, true},
		{"error", zerolog.ErrorLevel, true},
		{"off", zerolog.Disabled, true},
		{"loud", zerolog.InfoLevel, false},
	}
	for _, tt := range tests {
		got, ok := parseLevel(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("parseLevel(%q) = %v, %v; want %v, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}
