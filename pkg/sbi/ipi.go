package sbi

import (
	"math/bits"

	"github.com/carved4/go-sbicall/pkg/extid"
)

const fidSendIPI = 0

// SendIPI interrupts every hart whose bit is set in hmask. Bit 0 of hmask
// is hart hbase. The value register is returned unchanged.
func (c *Client) SendIPI(hmask, hbase uintptr) (uintptr, error) {
	return c.call(extid.IPI, fidSendIPI, hmask, hbase)
}

// Harts builds an IPI (hmask, hbase) pair covering harts. Harts further
// than one word from the lowest id are dropped and returned as rest.
func Harts(harts ...uint32) (hmask, hbase uintptr, rest []uint32) {
	if len(harts) == 0 {
		return 0, 0, nil
	}
	base := harts[0]
	for _, h := range harts[1:] {
		if h < base {
			base = h
		}
	}
	for _, h := range harts {
		if h-base >= bits.UintSize {
			rest = append(rest, h)
			continue
		}
		hmask |= 1 << (h - base)
	}
	return hmask, uintptr(base), rest
}
