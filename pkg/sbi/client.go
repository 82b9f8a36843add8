// Package sbi implements the supervisor side of the RISC-V SBI services a
// kernel needs: timer programming, time reads, IPIs, system reset and
// secondary hart bring-up.
//
// A Client holds no mutable state and may be shared by every hart.
package sbi

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/carved4/go-sbicall/pkg/csr"
	"github.com/carved4/go-sbicall/pkg/ecall"
	"github.com/carved4/go-sbicall/pkg/errors"
	"github.com/carved4/go-sbicall/pkg/extid"
	"github.com/carved4/go-sbicall/pkg/timeval"
)

// TimePath says which mechanism produced a time value.
type TimePath int

const (
	TimeFirmware TimePath = iota
	TimeCounter
	TimeSplitCounter
)

func (p TimePath) String() string {
	switch p {
	case TimeFirmware:
		return "firmware"
	case TimeCounter:
		return "counter"
	case TimeSplitCounter:
		return "split-counter"
	}
	return fmt.Sprintf("TimePath(%d)", int(p))
}

// Observer is notified of every trap and time read.
type Observer interface {
	ObserveCall(c *ecall.Call, r ecall.Ret)
	ObserveTime(path TimePath, retries int)
}

type Option func(*Client)

// WithTrapper replaces the native ECALL trapper.
func WithTrapper(t ecall.Trapper) Option {
	return func(c *Client) { c.trapper = t }
}

// WithCounter replaces the time CSR used on 64-bit harts.
func WithCounter(ctr csr.Counter) Option {
	return func(c *Client) { c.counter = ctr }
}

// WithSplitCounter replaces the time/timeh pair used on 32-bit harts.
func WithSplitCounter(s timeval.SplitCounter) Option {
	return func(c *Client) { c.split = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.obs = o }
}

type Client struct {
	cfg     Config
	caps    Capability
	trapper ecall.Trapper
	counter csr.Counter
	split   timeval.SplitCounter
	log     *slog.Logger
	obs     Observer
}

func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		cfg:  cfg,
		caps: cfg.Capabilities(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.trapper == nil {
		c.trapper = ecall.Native()
	}
	if c.counter == nil {
		c.counter = csr.Hardware()
	}
	if c.split == nil {
		c.split = csr.Split(c.counter)
	}
	if c.log == nil {
		c.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c, nil
}

func (c *Client) Config() Config { return c.cfg }

func (c *Client) Capabilities() Capability { return c.caps }

// Trap issues one call and returns both registers.
func (c *Client) Trap(call *ecall.Call) ecall.Ret {
	r := c.trapper.Trap(call)
	c.log.Debug("sbi call",
		"ext", extid.Name(call.Ext),
		"fid", call.Fid,
		"args", call.Args,
		"error", r.Status(),
		"value", r.Value)
	if c.obs != nil {
		c.obs.ObserveCall(call, r)
	}
	return r
}

// Do issues call and decodes the status register.
func (c *Client) Do(call *ecall.Call) (uintptr, error) {
	r := c.Trap(call)
	return r.Value, errors.FromStatus(r.Error)
}

func (c *Client) call(ext, fid uintptr, args ...uintptr) (uintptr, error) {
	return c.Do(ecall.NewCall(ext, fid, args...))
}

func (c *Client) require(want Capability) error {
	if !c.caps.Has(want) {
		return fmt.Errorf("%w: %s in %s mode", errors.ErrUnavailable, want, c.cfg.Mode)
	}
	return nil
}
