package socket

import (
	"encoding/binary"
	"log/slog"
	"testing"
)

func TestLoggerOption(t *testing.T) {
	logger := &mockLogger{}
	opt := LoggerOption(logger)

	var opts options
	opt(&opts)

	if opts.logger != logger {
		t.Error("logger not set correctly")
	}
}

func TestByteOrderOption(t *testing.T) {
	opt := ByteOrderOption(binary.BigEndian)

	var opts options
	opt(&opts)

	if opts.order != binary.BigEndian {
		t.Errorf("order = %v, want %v", opts.order, binary.BigEndian)
	}
}

func TestMessageMaxSize(t *testing.T) {
	opt := MessageMaxSize(4096)

	var opts options
	opt(&opts)

	if opts.maxPayload != 4096 {
		t.Errorf("maxPayload = %d, want 4096", opts.maxPayload)
	}
}

func TestDialerOption(t *testing.T) {
	called := false
	opt := DialerOption(func(string) (Stream, error) {
		called = true
		return nil, nil
	})

	var opts options
	opt(&opts)

	if opts.dialer == nil {
		t.Fatal("dialer not set")
	}
	opts.dialer("x")
	if !called {
		t.Error("dialer not called")
	}
}

func TestCheckOptions_DefaultValues(t *testing.T) {
	var opts options
	checkOptions(&opts)

	if opts.logger != slog.Default() {
		t.Error("logger is not the slog default")
	}
	if opts.order != binary.LittleEndian {
		t.Errorf("order = %v, want little-endian", opts.order)
	}
	if opts.maxPayload != defaultMaxPayload {
		t.Errorf("maxPayload = %d, want %d", opts.maxPayload, defaultMaxPayload)
	}
	if opts.dialer == nil {
		t.Error("dialer is nil")
	}
}

func TestCheckOptions_NegativeMaxPayload(t *testing.T) {
	opts := options{maxPayload: -1}
	checkOptions(&opts)

	if opts.maxPayload != defaultMaxPayload {
		t.Errorf("maxPayload = %d, want %d", opts.maxPayload, defaultMaxPayload)
	}
}

func TestNewOptions_AppliesInOrder(t *testing.T) {
	opts := newOptions([]Option{MessageMaxSize(10), MessageMaxSize(20)})

	if opts.maxPayload != 20 {
		t.Errorf("maxPayload = %d, want 20", opts.maxPayload)
	}
}
