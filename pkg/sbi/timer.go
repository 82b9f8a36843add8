package sbi

import (
	"github.com/carved4/go-sbicall/pkg/ecall"
	"github.com/carved4/go-sbicall/pkg/extid"
	"github.com/carved4/go-sbicall/pkg/timeval"
)

const (
	fidSetTimer        = 0
	fidGetFirmwareTime = 0
)

// SetTimer programs the next timer interrupt for when the time counter
// reaches stime. On 32-bit harts stime is passed as (low, high).
//
// The returned error carries the firmware status. Most firmware never
// fails this call and callers commonly ignore it.
func (c *Client) SetTimer(stime uint64) error {
	_, err := c.call(extid.Time, fidSetTimer, timeval.Encode(c.cfg.Width, stime)...)
	return err
}

// GetTime returns the time counter. The firmware extension is used when
// configured, then the time CSR on 64-bit harts, then the time/timeh pair.
func (c *Client) GetTime() uint64 {
	switch {
	case c.caps.Has(CapFirmwareTime):
		r := c.Trap(ecall.NewCall(extid.Firmware, fidGetFirmwareTime))
		if r.Error != 0 {
			c.log.Warn("firmware time read failed", "error", r.Status())
		}
		c.observeTime(TimeFirmware, 0)
		return uint64(r.Value)
	case c.cfg.Width == timeval.Wide:
		v := c.counter.Time()
		c.observeTime(TimeCounter, 0)
		return v
	default:
		v, retries := timeval.ReadStableCount(c.split)
		c.observeTime(TimeSplitCounter, retries)
		return v
	}
}

func (c *Client) observeTime(p TimePath, retries int) {
	if c.obs != nil {
		c.obs.ObserveTime(p, retries)
	}
}
