package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewTimeCommand creates the time command.
func NewTimeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "time",
		Short: "Read the time counter through the configured path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.machine()
			if err != nil {
				return err
			}
			t := m.client.GetTime()
			fmt.Fprintf(cmd.OutOrStdout(), "time=%d (0x%x) traps=%d\n", t, t, len(m.fw.Calls()))
			return nil
		},
	}
}
