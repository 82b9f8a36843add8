package main

import (
	"log/slog"
	"sync"
	"time"

	"github.com/carved4/go-sbicall/pkg/ecall"
	"github.com/carved4/go-sbicall/pkg/ecall/ecalltest"
	"github.com/carved4/go-sbicall/pkg/errors"
	"github.com/carved4/go-sbicall/pkg/extid"
	"github.com/carved4/go-sbicall/pkg/sbi"
	"github.com/carved4/go-sbicall/pkg/timeval"
)

const (
	virtSpecVersion = 0x02000000 // v2.0
	virtImplID      = 0x4753
	virtImplVersion = 0x00010000
	virtTimebase    = 10_000_000 // Hz
)

// virt is an in-process SBI firmware for a small multi-hart board. Hart 0
// is the boot hart; the others start parked.
type virt struct {
	*ecalltest.Firmware

	width timeval.Width
	start time.Time
	log   *slog.Logger

	mu       sync.Mutex
	deadline uint64
	harts    []sbi.HartState
	entry    map[uint32]uintptr
	ipis     map[uint32]int
	resets   [][2]uint32
}

func newVirt(harts int, w timeval.Width, log *slog.Logger) *virt {
	v := &virt{
		Firmware: ecalltest.New(),
		width:    w,
		start:    time.Now(),
		log:      log,
		harts:    make([]sbi.HartState, harts),
		entry:    make(map[uint32]uintptr),
		ipis:     make(map[uint32]int),
	}
	for i := range v.harts {
		v.harts[i] = sbi.HartStopped
	}
	if harts > 0 {
		v.harts[0] = sbi.HartStarted
	}

	v.HandleExt(extid.Base, v.base)
	v.Handle(extid.Time, 0, v.setTimer)
	v.Handle(extid.Firmware, 0, func(*ecall.Call) ecall.Ret {
		return ecalltest.Value(uintptr(v.Time()))
	})
	v.Handle(extid.IPI, 0, v.sendIPI)
	v.HandleExt(extid.HSM, v.hsm)
	v.Handle(extid.SRST, 0, v.reset)
	return v
}

// Time implements csr.Counter.
func (v *virt) Time() uint64 {
	return uint64(time.Since(v.start) / (time.Second / virtTimebase))
}

func (v *virt) base(c *ecall.Call) ecall.Ret {
	switch c.Fid {
	case 0:
		return ecalltest.Value(virtSpecVersion)
	case 1:
		return ecalltest.Value(virtImplID)
	case 2:
		return ecalltest.Value(virtImplVersion)
	case 3:
		if v.Implements(c.Args[0]) {
			return ecalltest.Value(1)
		}
		return ecalltest.Value(0)
	case 4, 5, 6:
		return ecalltest.Value(0)
	}
	return ecalltest.Status(errors.NotSupported)
}

func (v *virt) setTimer(c *ecall.Call) ecall.Ret {
	deadline := uint64(c.Args[0])
	if v.width == timeval.Narrow {
		deadline = timeval.Join(uint32(c.Args[0]), uint32(c.Args[1]))
	}
	v.mu.Lock()
	v.deadline = deadline
	v.mu.Unlock()
	return ecalltest.Value(0)
}

func (v *virt) sendIPI(c *ecall.Call) ecall.Ret {
	mask, base := c.Args[0], c.Args[1]
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := uintptr(0); mask != 0; i, mask = i+1, mask>>1 {
		if mask&1 == 0 {
			continue
		}
		hart := base + i
		if hart >= uintptr(len(v.harts)) {
			return ecalltest.Status(errors.InvalidParam)
		}
		v.ipis[uint32(hart)]++
	}
	return ecalltest.Value(0)
}

func (v *virt) hsm(c *ecall.Call) ecall.Ret {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch c.Fid {
	case 0: // start
		hart := c.Args[0]
		if hart >= uintptr(len(v.harts)) {
			return ecalltest.Status(errors.InvalidParam)
		}
		if v.harts[hart] != sbi.HartStopped {
			return ecalltest.Status(errors.AlreadyAvailable)
		}
		v.harts[hart] = sbi.HartStarted
		v.entry[uint32(hart)] = c.Args[1]
		v.log.Debug("hart released", "hart", hart, "entry", c.Args[1], "opaque", c.Args[2])
		return ecalltest.Value(0)
	case 1: // stop, from the boot hart in this model
		if v.harts[0] != sbi.HartStarted {
			return ecalltest.Status(errors.AlreadyStopped)
		}
		v.harts[0] = sbi.HartStopped
		return ecalltest.Value(0)
	case 2: // status
		hart := c.Args[0]
		if hart >= uintptr(len(v.harts)) {
			return ecalltest.Status(errors.InvalidParam)
		}
		return ecalltest.Value(uintptr(v.harts[hart]))
	}
	return ecalltest.Status(errors.NotSupported)
}

func (v *virt) reset(c *ecall.Call) ecall.Ret {
	v.mu.Lock()
	defer v.mu.Unlock()
	if c.Args[0] > uintptr(sbi.ResetWarmReboot) {
		return ecalltest.Status(errors.InvalidParam)
	}
	v.resets = append(v.resets, [2]uint32{uint32(c.Args[0]), uint32(c.Args[1])})
	return ecalltest.Value(0)
}

func (v *virt) Deadline() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.deadline
}

func (v *virt) IPIs(hart uint32) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ipis[hart]
}

func (v *virt) Resets() [][2]uint32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([][2]uint32(nil), v.resets...)
}
