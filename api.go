package sbicall

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/carved4/go-sbicall/pkg/ecall"
	"github.com/carved4/go-sbicall/pkg/errors"
	"github.com/carved4/go-sbicall/pkg/extid"
	"github.com/carved4/go-sbicall/pkg/sbi"
)

var (
	client     atomic.Pointer[sbi.Client]
	clientOnce sync.Once
)

// Init configures the client used by the package-level functions. Call it
// once during start-up, before other harts are released.
func Init(cfg sbi.Config, opts ...sbi.Option) error {
	c, err := sbi.New(cfg, opts...)
	if err != nil {
		return err
	}
	client.Store(c)
	return nil
}

// Default returns the package client, creating a native one with
// sbi.DefaultConfig if Init was never called.
func Default() *sbi.Client {
	clientOnce.Do(func() {
		if client.Load() != nil {
			return
		}
		c, err := sbi.New(sbi.DefaultConfig())
		if err != nil {
			panic(err)
		}
		client.CompareAndSwap(nil, c)
	})
	return client.Load()
}

// SetTimer requests a timer interrupt at stime.
func SetTimer(stime uint64) {
	_ = Default().SetTimer(stime)
}

func GetTime() uint64 {
	return Default().GetTime()
}

// SendIPI returns the raw value register. Use Default().SendIPI for the
// decoded status.
func SendIPI(hmask uint32, hbase uintptr) uintptr {
	v, _ := Default().SendIPI(uintptr(hmask), hbase)
	return v
}

func SystemReset(typ, reason uint32) uintptr {
	v, _ := Default().SystemReset(typ, reason)
	return v
}

func BootSecondary(hartid uint32, addr, a1 uintptr) uintptr {
	v, _ := Default().BootSecondary(hartid, addr, a1)
	return v
}

// Call issues an arbitrary SBI call. ext may be an extension name such as
// "HSM" or a numeric id.
func Call(ext interface{}, fid uintptr, args ...interface{}) (uintptr, error) {
	var id uintptr
	switch v := ext.(type) {
	case string:
		var err error
		if id, err = extid.FromName(v); err != nil {
			return 0, err
		}
	default:
		id = ecall.Word(v)
	}
	if len(args) > ecall.MaxArgs {
		return 0, fmt.Errorf("%w: %d arguments, at most %d fit in registers",
			errors.New(errors.InvalidParam), len(args), ecall.MaxArgs)
	}
	return Default().Do(ecall.CallArgs(id, fid, args...))
}
