package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	socket "github.com/Zereker/unixipc"
)

const (
	envLogLevel = "IPCCTL_LOG_LEVEL"

	defaultEndpoint = "/tmp/ipcctl.sock"
)

type fileConfig struct {
	Endpoint   string `toml:"endpoint"`
	ByteOrder  string `toml:"byte_order"`
	MaxPayload int    `toml:"max_payload"`
	LogLevel   string `toml:"log_level"`
}

type config struct {
	Endpoint   string
	ByteOrder  string
	MaxPayload int
	LogLevel   string
}

func defaultConfig() config {
	return config{
		Endpoint:  defaultEndpoint,
		ByteOrder: "little",
		LogLevel:  "info",
	}
}

// loadConfig reads path over the defaults. An empty path yields the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load ipcctl config: %w", err)
	}

	if meta.IsDefined("endpoint") {
		if v := strings.TrimSpace(raw.Endpoint); v != "" {
			cfg.Endpoint = v
		}
	}

	if meta.IsDefined("byte_order") {
		cfg.ByteOrder = strings.TrimSpace(raw.ByteOrder)
	}

	if meta.IsDefined("max_payload") {
		if raw.MaxPayload < 0 {
			return config{}, fmt.Errorf("parse max_payload: must not be negative, got %d", raw.MaxPayload)
		}
		cfg.MaxPayload = raw.MaxPayload
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load ipcctl config: unknown key %q", undecoded[0].String())
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *config) {
	if v := strings.TrimSpace(os.Getenv(envLogLevel)); v != "" {
		cfg.LogLevel = v
	}
}

func parseByteOrder(raw string) (binary.ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "little", "little-endian", "le":
		return binary.LittleEndian, nil
	case "big", "big-endian", "be":
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("unknown byte order %q", raw)
	}
}

// options converts cfg into socket options.
func (c config) options(logger socket.Logger) ([]socket.Option, error) {
	order, err := parseByteOrder(c.ByteOrder)
	if err != nil {
		return nil, err
	}
	opts := []socket.Option{
		socket.LoggerOption(logger),
		socket.ByteOrderOption(order),
	}
	if c.MaxPayload > 0 {
		opts = append(opts, socket.MessageMaxSize(c.MaxPayload))
	}
	return opts, nil
}
