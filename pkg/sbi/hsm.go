package sbi

import (
	"fmt"

	"github.com/carved4/go-sbicall/pkg/extid"
	"github.com/carved4/go-sbicall/pkg/resolve"
)

const (
	fidHartStart     = 0
	fidHartStop      = 1
	fidHartGetStatus = 2
)

// HartState is the HSM state of a hart.
type HartState uintptr

const (
	HartStarted HartState = iota
	HartStopped
	HartStartPending
	HartStopPending
	HartSuspended
	HartSuspendPending
	HartResumePending
)

var hartStateNames = [...]string{
	"started", "stopped", "start-pending", "stop-pending",
	"suspended", "suspend-pending", "resume-pending",
}

func (s HartState) String() string {
	if int(s) < len(hartStateNames) {
		return hartStateNames[s]
	}
	return fmt.Sprintf("HartState(%d)", uintptr(s))
}

// BootSecondary releases a parked hart to start at addr with a1 in its a1
// register (a0 holds hartid). Failures such as an already running hart or
// an invalid id come back as the firmware status.
func (c *Client) BootSecondary(hartid uint32, addr, a1 uintptr) (uintptr, error) {
	if err := c.require(CapHartStart); err != nil {
		return 0, err
	}
	c.log.Debug("starting hart", "hart", hartid, "addr", fmt.Sprintf("0x%x", addr))
	return c.call(extid.HSM, fidHartStart, uintptr(hartid), addr, a1)
}

// BootImage starts hartid at the entry point of an ELF image that has
// already been loaded at its physical addresses.
func (c *Client) BootImage(hartid uint32, img []byte, a1 uintptr) (uintptr, error) {
	if err := c.require(CapHartStart); err != nil {
		return 0, err
	}
	im, err := resolve.Parse(img, c.cfg.Width)
	if err != nil {
		return 0, err
	}
	return c.BootSecondary(hartid, im.Entry(), a1)
}

// HartStop stops the calling hart. It only returns on failure.
func (c *Client) HartStop() error {
	if err := c.require(CapHartStop); err != nil {
		return err
	}
	_, err := c.call(extid.HSM, fidHartStop)
	return err
}

func (c *Client) HartStatus(hartid uint32) (HartState, error) {
	if err := c.require(CapHartStatus); err != nil {
		return 0, err
	}
	v, err := c.call(extid.HSM, fidHartGetStatus, uintptr(hartid))
	if err != nil {
		return 0, fmt.Errorf("hart %d status: %w", hartid, err)
	}
	return HartState(v), nil
}
