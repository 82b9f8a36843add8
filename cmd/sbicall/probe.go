package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carved4/go-sbicall/pkg/extid"
)

// NewProbeCommand creates the probe command.
func NewProbeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Query the base extension and list implemented extensions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.machine()
			if err != nil {
				return err
			}
			c := m.client
			out := cmd.OutOrStdout()

			ver, err := c.SpecVersion()
			if err != nil {
				return err
			}
			impl, err := c.ImplID()
			if err != nil {
				return err
			}
			implVer, err := c.ImplVersion()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "spec v%s impl 0x%x version 0x%x\n", ver, impl, implVer)
			fmt.Fprintf(out, "mode %s: %s\n", c.Config().Mode, c.Capabilities())
			for _, id := range extid.Known() {
				ok, err := c.ProbeExtension(id)
				if err != nil {
					return err
				}
				mark := "-"
				if ok {
					mark = "+"
				}
				fmt.Fprintf(out, "  %s %-8s 0x%x\n", mark, extid.Name(id), id)
			}
			return nil
		},
	}
}
