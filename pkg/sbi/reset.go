package sbi

import "github.com/carved4/go-sbicall/pkg/extid"

const fidSystemReset = 0

// Reset types
const (
	ResetShutdown   uint32 = 0
	ResetColdReboot uint32 = 1
	ResetWarmReboot uint32 = 2
)

// Reset reasons
const (
	ReasonNone          uint32 = 0
	ReasonSystemFailure uint32 = 1
)

// SystemReset asks firmware to shut down or reboot. It does not return on
// success; if it does, the value and decoded status are returned. In
// Delegated mode it fails with errors.ErrUnavailable without trapping.
func (c *Client) SystemReset(typ, reason uint32) (uintptr, error) {
	if err := c.require(CapSystemReset); err != nil {
		return 0, err
	}
	c.log.Info("system reset", "type", typ, "reason", reason)
	return c.call(extid.SRST, fidSystemReset, uintptr(typ), uintptr(reason))
}
