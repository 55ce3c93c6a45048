package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Ask the listener to stop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sender, err := a.dial()
			if err != nil {
				return err
			}
			defer sender.Close()

			if err = sender.RequestPeerStop(); err != nil {
				return fmt.Errorf("failed to send stop: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "stop requested")
			return nil
		},
	}
}
