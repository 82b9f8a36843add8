//go:build !riscv64

package ecall

import "github.com/carved4/go-sbicall/pkg/errors"

type native struct{}

func (native) Trap(c *Call) Ret {
	panic(errors.ErrNoFirmware)
}

// Native returns a trapper that panics: there is no SBI firmware to trap
// into on this architecture. Use ecalltest.Firmware instead.
func Native() Trapper {
	return native{}
}
