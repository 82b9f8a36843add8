package timeval

// SplitCounter is a 64-bit counter exposed as two 32-bit registers that
// cannot be read atomically, like time and timeh on rv32.
type SplitCounter interface {
	ReadHigh() uint32
	ReadLow() uint32
}

// Stable reports whether a (high, low, high) sample is consistent: the
// high half did not change while low was read.
func Stable(hi1, lo, hi2 uint32) bool {
	return hi1 == hi2
}

// ReadStable reads high, low and high again until the two high reads
// agree, then joins the halves. There is no retry bound.
func ReadStable(c SplitCounter) uint64 {
	v, _ := ReadStableCount(c)
	return v
}

// ReadStableCount is ReadStable that also reports how many samples were
// discarded because low rolled over mid-read.
func ReadStableCount(c SplitCounter) (v uint64, retries int) {
	for {
		hi := c.ReadHigh()
		lo := c.ReadLow()
		if Stable(hi, lo, c.ReadHigh()) {
			return Join(lo, hi), retries
		}
		retries++
	}
}
