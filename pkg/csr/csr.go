// Package csr reads the supervisor time counter.
package csr

import "github.com/carved4/go-sbicall/pkg/timeval"

// Counter is a free-running 64-bit time counter.
type Counter interface {
	Time() uint64
}

// CounterFunc adapts a function to a Counter.
type CounterFunc func() uint64

func (f CounterFunc) Time() uint64 { return f() }

// Hardware returns the counter backing the time CSR on this hart.
func Hardware() Counter {
	return hardware{}
}

type split struct {
	c Counter
}

// Split exposes c as the time/timeh register pair of a 32-bit hart. Each
// half is a separate read of c.
func Split(c Counter) timeval.SplitCounter {
	return split{c}
}

func (s split) ReadHigh() uint32 {
	_, hi := timeval.Split(s.c.Time())
	return hi
}

func (s split) ReadLow() uint32 {
	lo, _ := timeval.Split(s.c.Time())
	return lo
}
