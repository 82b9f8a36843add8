// Package timeval encodes 64-bit SBI time values for 32-bit and 64-bit
// register widths, and reads split time counters consistently.
package timeval

import (
	"fmt"
	"strings"
	"unsafe"
)

// Width is the register width used to pass time values.
type Width int

const (
	Wide   Width = 64
	Narrow Width = 32
)

// NativeWidth is the width of uintptr on this build.
func NativeWidth() Width {
	return Width(unsafe.Sizeof(uintptr(0)) * 8)
}

func (w Width) String() string {
	switch w {
	case Wide:
		return "rv64"
	case Narrow:
		return "rv32"
	}
	return fmt.Sprintf("Width(%d)", int(w))
}

func ParseWidth(s string) (Width, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "64", "rv64", "wide":
		return Wide, nil
	case "32", "rv32", "narrow":
		return Narrow, nil
	case "", "native":
		return NativeWidth(), nil
	}
	return 0, fmt.Errorf("unknown width %q", s)
}

func (w Width) MarshalText() ([]byte, error) {
	if w != Wide && w != Narrow {
		return nil, fmt.Errorf("unknown width %d", int(w))
	}
	return []byte(w.String()), nil
}

func (w *Width) UnmarshalText(b []byte) error {
	v, err := ParseWidth(string(b))
	if err != nil {
		return err
	}
	*w = v
	return nil
}

// Split returns the low and high 32-bit halves of v.
func Split(v uint64) (lo, hi uint32) {
	return uint32(v & 0xFFFFFFFF), uint32(v >> 32)
}

// Join combines two 32-bit halves into one 64-bit value.
func Join(lo, hi uint32) uint64 {
	return uint64(hi)<<32 | uint64(lo)
}

// EncodeWide passes v in a single argument word.
func EncodeWide(v uint64) []uintptr {
	return []uintptr{uintptr(v)}
}

// EncodeNarrow passes v as two argument words, low half first.
func EncodeNarrow(v uint64) []uintptr {
	lo, hi := Split(v)
	return []uintptr{uintptr(lo), uintptr(hi)}
}

// Encode picks the argument layout for w.
func Encode(w Width, v uint64) []uintptr {
	if w == Narrow {
		return EncodeNarrow(v)
	}
	return EncodeWide(v)
}
