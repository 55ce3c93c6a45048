package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	socket "github.com/Zereker/unixipc"
)

func newListenCmd(a *app) *cobra.Command {
	var showPayload bool

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Print received frames until a stop message or SIGINT/SIGTERM",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ln, err := socket.Listen(a.cfg.Endpoint, a.opts...)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", a.cfg.Endpoint, err)
			}
			defer ln.Close()

			var mu sync.Mutex
			out := cmd.OutOrStdout()
			err = ln.Serve(ctx, socket.HandlerFunc(func(msg socket.Message) error {
				mu.Lock()
				defer mu.Unlock()
				if showPayload {
					_, err := fmt.Fprintf(out, "id=%d size=%d payload=%q\n", msg.ID, msg.Length(), msg.Body())
					return err
				}
				_, err := fmt.Fprintf(out, "id=%d size=%d\n", msg.ID, msg.Length())
				return err
			}))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&showPayload, "payload", false, "print payloads as quoted strings")
	return cmd
}
