//go:build riscv64

package csr

// rdtime reads the time CSR.
//
//go:noescape
func rdtime() uint64

type hardware struct{}

func (hardware) Time() uint64 {
	return rdtime()
}
