package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/carved4/go-sbicall/pkg/ecall"
	"github.com/carved4/go-sbicall/pkg/errors"
	"github.com/carved4/go-sbicall/pkg/extid"
	"github.com/carved4/go-sbicall/pkg/sbi"
)

type service struct {
	args int
	run  func(c *sbi.Client, a []uint64) (uintptr, error)
}

var services = map[string]service{
	"set-timer": {1, func(c *sbi.Client, a []uint64) (uintptr, error) {
		return 0, c.SetTimer(a[0])
	}},
	"send-ipi": {2, func(c *sbi.Client, a []uint64) (uintptr, error) {
		return c.SendIPI(uintptr(a[0]), uintptr(a[1]))
	}},
	"system-reset": {2, func(c *sbi.Client, a []uint64) (uintptr, error) {
		return c.SystemReset(uint32(a[0]), uint32(a[1]))
	}},
	"boot-secondary": {3, func(c *sbi.Client, a []uint64) (uintptr, error) {
		return c.BootSecondary(uint32(a[0]), uintptr(a[1]), uintptr(a[2]))
	}},
	"hart-status": {1, func(c *sbi.Client, a []uint64) (uintptr, error) {
		s, err := c.HartStatus(uint32(a[0]))
		return uintptr(s), err
	}},
	"probe": {1, func(c *sbi.Client, a []uint64) (uintptr, error) {
		ok, err := c.ProbeExtension(uintptr(a[0]))
		return ecall.Word(ok), err
	}},
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <service> [args...]",
		Short: "Show the registers a service call loads",
		Long: `Issue one service call against the emulated firmware and print the
register layout that was trapped, followed by the two return registers.

Services: set-timer TIME, send-ipi MASK BASE, system-reset TYPE REASON,
boot-secondary HART ADDR OPAQUE, hart-status HART, probe EXT.

Example:
  sbicall encode --width rv32 set-timer 0x100000005
  sbicall encode boot-secondary 2 0x80200000 0x1234`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.machine()
			if err != nil {
				return err
			}
			return encode(cmd.OutOrStdout(), m, args[0], args[1:])
		},
	}
}

func encode(w io.Writer, m *machine, name string, raw []string) error {
	svc, ok := services[name]
	if !ok {
		return fmt.Errorf("unknown service %q", name)
	}
	if len(raw) != svc.args {
		return fmt.Errorf("%s takes %d arguments, got %d", name, svc.args, len(raw))
	}
	vals := make([]uint64, len(raw))
	for i, s := range raw {
		if name == "probe" {
			if id, err := extid.FromName(s); err == nil {
				vals[i] = uint64(id)
				continue
			}
		}
		v, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return fmt.Errorf("argument %d: %w", i+1, err)
		}
		vals[i] = v
	}

	v, err := svc.run(m.client, vals)
	if errors.Is(err, errors.ErrUnavailable) {
		return err
	}
	calls := m.fw.Calls()
	if len(calls) == 0 {
		return fmt.Errorf("%s did not trap", name)
	}
	call := calls[len(calls)-1]
	fmt.Fprintf(w, "%s (%s, %s)\n", name, m.client.Config().Mode, m.client.Config().Width)
	for _, r := range call.Registers() {
		fmt.Fprintf(w, "  %-3s 0x%x\n", r.Name, r.Value)
	}
	fmt.Fprintf(w, "  ext %s\n", extid.Name(call.Ext))
	status := "ok"
	if err != nil {
		status = err.Error()
	}
	fmt.Fprintf(w, "returned value=0x%x status=%s\n", v, status)
	return nil
}
