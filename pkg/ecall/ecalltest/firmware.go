// Package ecalltest provides an in-process SBI firmware for driving the
// trampoline on hosts and in tests.
package ecalltest

import (
	"sync"

	"github.com/carved4/go-sbicall/pkg/ecall"
	"github.com/carved4/go-sbicall/pkg/errors"
)

// Handler services one trapped call and returns (a0, a1).
type Handler func(c *ecall.Call) ecall.Ret

type key struct {
	ext, fid uintptr
}

// Firmware records every trapped call and dispatches it to the handler
// registered for its extension and function.
type Firmware struct {
	mu       sync.Mutex
	calls    []ecall.Call
	byFid    map[key]Handler
	byExt    map[uintptr]Handler
	fallback Handler
}

func New() *Firmware {
	return &Firmware{
		byFid: make(map[key]Handler),
		byExt: make(map[uintptr]Handler),
	}
}

// Handle registers h for one extension function.
func (f *Firmware) Handle(ext, fid uintptr, h Handler) *Firmware {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byFid[key{ext, fid}] = h
	return f
}

// HandleExt registers h for every function of ext.
func (f *Firmware) HandleExt(ext uintptr, h Handler) *Firmware {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byExt[ext] = h
	return f
}

// Fallback sets the handler for calls nothing else claims.
func (f *Firmware) Fallback(h Handler) *Firmware {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fallback = h
	return f
}

// Implements reports whether any handler covers ext.
func (f *Firmware) Implements(ext uintptr) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byExt[ext]; ok {
		return true
	}
	for k := range f.byFid {
		if k.ext == ext {
			return true
		}
	}
	return false
}

func (f *Firmware) Trap(c *ecall.Call) ecall.Ret {
	f.mu.Lock()
	f.calls = append(f.calls, *c)
	h, ok := f.byFid[key{c.Ext, c.Fid}]
	if !ok {
		h, ok = f.byExt[c.Ext]
	}
	if !ok {
		h = f.fallback
	}
	f.mu.Unlock()

	if h == nil {
		return Status(errors.NotSupported)
	}
	return h(c)
}

// Calls returns a copy of the recorded calls in trap order.
func (f *Firmware) Calls() []ecall.Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ecall.Call(nil), f.calls...)
}

// Last returns the most recent call. It panics if nothing trapped yet.
func (f *Firmware) Last() ecall.Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		panic("ecalltest: no calls recorded")
	}
	return f.calls[len(f.calls)-1]
}

func (f *Firmware) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// Value returns a successful result carrying v.
func Value(v uintptr) ecall.Ret {
	return ecall.Ret{Value: v}
}

// Status returns a result with only a status code set.
func Status(code int64) ecall.Ret {
	return ecall.Ret{Error: uintptr(code)}
}

// Const returns a handler that always answers with r.
func Const(r ecall.Ret) Handler {
	return func(*ecall.Call) ecall.Ret { return r }
}
