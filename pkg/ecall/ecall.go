// Package ecall is the only place that knows the SBI register layout.
//
// A call loads the extension id into a7, the function id into a6 and up to
// six argument words into a0..a5, then traps into firmware with ECALL. On
// return a0 holds the SBI status and a1 the value.
package ecall

import "fmt"

// MaxArgs is the number of argument registers (a0..a5).
const MaxArgs = 6

// Call describes one firmware service invocation.
type Call struct {
	Ext  uintptr
	Fid  uintptr
	Args [MaxArgs]uintptr
}

// Ret holds both return registers.
type Ret struct {
	Error uintptr // a0
	Value uintptr // a1
}

// Status returns a0 as the signed SBI status code.
func (r Ret) Status() int64 {
	return int64(int(r.Error))
}

// Trapper executes a call descriptor against firmware.
type Trapper interface {
	Trap(c *Call) Ret
}

// TrapperFunc adapts a function to a Trapper.
type TrapperFunc func(c *Call) Ret

func (f TrapperFunc) Trap(c *Call) Ret { return f(c) }

// NewCall builds a descriptor, leaving unused argument slots zero.
func NewCall(ext, fid uintptr, args ...uintptr) *Call {
	if len(args) > MaxArgs {
		panic(fmt.Sprintf("too many arguments: %d (max %d)", len(args), MaxArgs))
	}
	c := &Call{Ext: ext, Fid: fid}
	copy(c.Args[:], args)
	return c
}

func (c *Call) String() string {
	return fmt.Sprintf("ext=0x%x fid=%d a0=0x%x a1=0x%x a2=0x%x a3=0x%x a4=0x%x a5=0x%x",
		c.Ext, c.Fid, c.Args[0], c.Args[1], c.Args[2], c.Args[3], c.Args[4], c.Args[5])
}

// Registers returns the call as (register name, value) pairs in ABI order.
func (c *Call) Registers() []Register {
	regs := []Register{
		{"a7", c.Ext},
		{"a6", c.Fid},
	}
	for i, a := range c.Args {
		regs = append(regs, Register{fmt.Sprintf("a%d", i), a})
	}
	return regs
}

type Register struct {
	Name  string
	Value uintptr
}
