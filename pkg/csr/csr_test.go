package csr

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carved4/go-sbicall/pkg/timeval"
)

func TestHardwareMonotonic(t *testing.T) {
	c := Hardware()
	prev := c.Time()
	for i := 0; i < 1000; i++ {
		now := c.Time()
		assert.GreaterOrEqual(t, now, prev)
		prev = now
	}
}

func TestSplitReadsHalves(t *testing.T) {
	v := uint64(0x5_FFFFFFF0)
	s := Split(CounterFunc(func() uint64 { return v }))
	assert.Equal(t, uint32(5), s.ReadHigh())
	assert.Equal(t, uint32(0xFFFFFFF0), s.ReadLow())
	assert.Equal(t, v, timeval.ReadStable(s))
}
