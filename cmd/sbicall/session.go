package main

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/carved4/go-sbicall/pkg/sbi"
)

// NewSessionCommand creates the session command.
func NewSessionCommand(opts *RootOptions) *cobra.Command {
	var (
		entry   uint64
		timeout uint64
		reset   bool
	)
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Run a scripted boot: release harts, IPI them, arm the timer",
		Long: `Run the calls a kernel makes while bringing up an SMP system and print
the resulting per-extension counters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.machine()
			if err != nil {
				return err
			}
			reg := prometheus.NewRegistry()
			if err := m.metrics.Register(reg); err != nil {
				return err
			}
			if err := session(cmd.OutOrStdout(), m, opts.Harts, uintptr(entry), timeout, reset); err != nil {
				return err
			}
			return dumpMetrics(cmd.OutOrStdout(), reg)
		},
	}
	cmd.Flags().Uint64Var(&entry, "entry", 0x80200000, "secondary hart entry address")
	cmd.Flags().Uint64Var(&timeout, "tick", 10_000, "timer interval in counter ticks")
	cmd.Flags().BoolVar(&reset, "reset", false, "finish with a system shutdown")
	return cmd
}

func session(w io.Writer, m *machine, harts int, entry uintptr, tick uint64, reset bool) error {
	c := m.client

	var started []uint32
	if c.Capabilities().Has(sbi.CapHartStart) {
		for hart := uint32(1); hart < uint32(harts); hart++ {
			if _, err := c.BootSecondary(hart, entry, uintptr(hart)); err != nil {
				return fmt.Errorf("hart %d: %w", hart, err)
			}
			started = append(started, hart)
		}
	} else {
		fmt.Fprintf(w, "hart bring-up unavailable in %s mode\n", c.Config().Mode)
	}
	fmt.Fprintf(w, "started harts %v\n", started)

	if len(started) > 0 {
		mask, base, rest := sbi.Harts(started...)
		if _, err := c.SendIPI(mask, base); err != nil {
			return fmt.Errorf("ipi: %w", err)
		}
		for _, hart := range rest {
			if _, err := c.SendIPI(1, uintptr(hart)); err != nil {
				return fmt.Errorf("ipi hart %d: %w", hart, err)
			}
		}
	}

	now := c.GetTime()
	if err := c.SetTimer(now + tick); err != nil {
		return fmt.Errorf("set timer: %w", err)
	}
	fmt.Fprintf(w, "time 0x%x, timer armed for 0x%x\n", now, m.fw.Deadline())

	if reset {
		if _, err := c.SystemReset(sbi.ResetShutdown, sbi.ReasonNone); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		fmt.Fprintln(w, "shutdown requested")
	}
	return nil
}

// dumpMetrics writes g in the Prometheus text exposition format.
func dumpMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, f := range families {
		if _, err := expfmt.MetricFamilyToText(w, f); err != nil {
			return err
		}
	}
	return nil
}
