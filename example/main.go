package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	socket "github.com/Zereker/unixipc"
)

// Message ids agreed between the two sides of this example.
const (
	msgGreeting uint32 = iota + 1
	msgReading
)

func main() {
	dir, err := os.MkdirTemp("", "ipc-example")
	if err != nil {
		slog.Error("failed to create temp dir", "error", err)
		return
	}
	defer os.RemoveAll(dir)
	endpoint := filepath.Join(dir, "example.sock")

	ln, err := socket.Listen(endpoint)
	if err != nil {
		slog.Error("failed to listen", "error", err)
		return
	}

	done := make(chan error, 1)
	go func() {
		done <- ln.Serve(context.Background(), socket.HandlerFunc(func(msg socket.Message) error {
			slog.Info("received", "id", msg.ID, "size", msg.Length(), "payload", string(msg.Body()))
			return nil
		}))
	}()

	sender, err := socket.Dial(endpoint)
	if err != nil {
		slog.Error("failed to dial", "error", err)
		return
	}
	defer sender.Close()

	if err = sender.Send(msgGreeting, []byte("hello")); err != nil {
		slog.Error("send failed", "error", err)
	}
	if err = sender.Send(msgReading, []byte("21.5C")); err != nil {
		slog.Error("send failed", "error", err)
	}
	if err = sender.RequestPeerStop(); err != nil {
		slog.Error("stop failed", "error", err)
	}

	if err = <-done; err != nil {
		slog.Error("listener failed", "error", err)
	}
}
