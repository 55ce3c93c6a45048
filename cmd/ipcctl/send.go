package main

import (
	"fmt"

	"github.com/spf13/cobra"

	socket "github.com/Zereker/unixipc"
)

func newSendCmd(a *app) *cobra.Command {
	var (
		id   uint32
		data string
		file string
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send one frame to a listening endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("id") {
				return fmt.Errorf("--id flag is required")
			}
			payload, err := readPayload(data, file)
			if err != nil {
				return err
			}

			sender, err := a.dial()
			if err != nil {
				return err
			}
			defer sender.Close()

			if err = sender.Send(id, payload); err != nil {
				if socket.IsBrokenPipe(err) {
					return fmt.Errorf("listener went away: %w", err)
				}
				return fmt.Errorf("failed to send: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent id=%d size=%d\n", id, len(payload))
			return nil
		},
	}

	cmd.Flags().Uint32Var(&id, "id", 0, "message id (required)")
	cmd.Flags().StringVar(&data, "data", "", "payload text")
	cmd.Flags().StringVar(&file, "file", "", "read the payload from a file")
	return cmd
}
