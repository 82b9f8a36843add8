//go:build riscv64

package ecall

// trap loads c into a0..a7, executes ECALL and stores a0/a1 into r.
//
//go:noescape
func trap(c *Call, r *Ret)

type native struct{}

func (native) Trap(c *Call) Ret {
	var r Ret
	trap(c, &r)
	return r
}

// Native returns the trapper that issues ECALL on this hart.
func Native() Trapper {
	return native{}
}
