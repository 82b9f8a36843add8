package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carved4/go-sbicall/pkg/resolve"
)

// NewImageCommand creates the image command.
func NewImageCommand(opts *RootOptions) *cobra.Command {
	var symbol string
	cmd := &cobra.Command{
		Use:   "image <file>",
		Short: "Resolve the entry point of a secondary hart boot image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			img, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			im, err := resolve.Parse(img, cfg.Width)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "entry 0x%x\n", im.Entry())
			for _, s := range im.Segments() {
				fmt.Fprintf(out, "  load paddr=0x%x vaddr=0x%x filesz=0x%x memsz=0x%x\n",
					s.Paddr, s.Vaddr, s.Filesz, s.Memsz)
			}
			if symbol != "" {
				addr, err := im.Symbol(symbol)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s 0x%x\n", symbol, addr)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&symbol, "symbol", "", "also resolve this symbol")
	return cmd
}
