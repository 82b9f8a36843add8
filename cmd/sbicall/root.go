package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/carved4/go-sbicall/pkg/metrics"
	"github.com/carved4/go-sbicall/pkg/sbi"
	"github.com/carved4/go-sbicall/pkg/timeval"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Config  string
	Mode    string
	Width   string
	Harts   int
	Verbose bool
}

// NewRootCommand creates the root command for the sbicall CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sbicall",
		Short: "Drive SBI firmware calls against an emulated machine",
		Long: `sbicall issues supervisor binary interface calls through the same
client a kernel uses, against an in-process firmware, and shows how each
call is laid out in registers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Mode, "mode", "", "firmware interface mode (direct|delegated)")
	cmd.PersistentFlags().StringVar(&opts.Width, "width", "", "register width (rv32|rv64)")
	cmd.PersistentFlags().IntVar(&opts.Harts, "harts", 4, "number of harts in the emulated machine")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log every trap")

	cmd.AddCommand(NewEncodeCommand(opts))
	cmd.AddCommand(NewTimeCommand(opts))
	cmd.AddCommand(NewProbeCommand(opts))
	cmd.AddCommand(NewImageCommand(opts))
	cmd.AddCommand(NewSessionCommand(opts))

	return cmd
}

func (o *RootOptions) config() (sbi.Config, error) {
	cfg := sbi.DefaultConfig()
	if o.Config != "" {
		var err error
		if cfg, err = sbi.LoadConfig(o.Config); err != nil {
			return cfg, err
		}
	}
	if o.Mode != "" {
		m, err := sbi.ParseMode(o.Mode)
		if err != nil {
			return cfg, err
		}
		cfg.Mode = m
	}
	if o.Width != "" {
		w, err := timeval.ParseWidth(o.Width)
		if err != nil {
			return cfg, err
		}
		cfg.Width = w
	}
	return cfg, cfg.Validate()
}

func (o *RootOptions) logger() *slog.Logger {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// machine is an emulated board plus a client wired to it.
type machine struct {
	fw      *virt
	client  *sbi.Client
	metrics *metrics.Collector
}

func (o *RootOptions) machine() (*machine, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	log := o.logger()
	fw := newVirt(o.Harts, cfg.Width, log)
	col := metrics.New()
	client, err := sbi.New(cfg,
		sbi.WithTrapper(fw),
		sbi.WithCounter(fw),
		sbi.WithLogger(log),
		sbi.WithObserver(col))
	if err != nil {
		return nil, err
	}
	return &machine{fw: fw, client: client, metrics: col}, nil
}
