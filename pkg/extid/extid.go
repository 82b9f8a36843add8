// Package extid maps SBI extension names to extension ids.
//
// Standard extensions after v0.2 are named by up to four ASCII characters
// packed big-endian into the id ("TIME" is 0x54494D45).
package extid

import (
	"fmt"
	"strings"
	"sync"
)

const (
	Base     uintptr = 0x10
	Time     uintptr = 0x54494D45 // "TIME"
	IPI      uintptr = 0x735049   // "sPI"
	RFence   uintptr = 0x52464E43 // "RFNC"
	HSM      uintptr = 0x48534D   // "HSM"
	SRST     uintptr = 0x53525354 // "SRST"
	PMU      uintptr = 0x504D55   // "PMU"
	DBCN     uintptr = 0x4442434E // "DBCN"
	Firmware uintptr = 0x0A000000 // first firmware-specific id
)

// Legacy v0.1 extensions use small ids and carry no name.
const (
	LegacySetTimer     uintptr = 0x00
	LegacyPutchar      uintptr = 0x01
	LegacyGetchar      uintptr = 0x02
	LegacySendIPI      uintptr = 0x04
	LegacySystemReset  uintptr = 0x08
	firmwareRangeLimit uintptr = 0x0AFFFFFF
)

var known = map[uintptr]string{
	Base:     "BASE",
	Time:     "TIME",
	IPI:      "sPI",
	RFence:   "RFNC",
	HSM:      "HSM",
	SRST:     "SRST",
	PMU:      "PMU",
	DBCN:     "DBCN",
	Firmware: "FIRMWARE",
}

var (
	cache   = make(map[string]uintptr)
	cacheMu sync.RWMutex
)

// FromName packs an up-to-four character name into an extension id.
// Well-known aliases such as "BASE" and "FIRMWARE" resolve to their ids.
func FromName(name string) (uintptr, error) {
	cacheMu.RLock()
	if id, ok := cache[name]; ok {
		cacheMu.RUnlock()
		return id, nil
	}
	cacheMu.RUnlock()

	id, err := pack(name)
	if err != nil {
		return 0, err
	}

	cacheMu.Lock()
	cache[name] = id
	cacheMu.Unlock()
	return id, nil
}

// aliases name extensions whose id is not the packed form of their name.
var aliases = map[string]uintptr{
	"BASE":     Base,
	"FIRMWARE": Firmware,
}

func pack(name string) (uintptr, error) {
	if id, ok := aliases[strings.ToUpper(name)]; ok {
		return id, nil
	}
	if name == "" || len(name) > 4 {
		return 0, fmt.Errorf("extension name %q must be 1-4 characters", name)
	}
	var id uint32
	for i := 0; i < len(name); i++ {
		b := name[i]
		if b < 0x20 || b > 0x7e {
			return 0, fmt.Errorf("extension name %q is not printable ASCII", name)
		}
		id = id<<8 | uint32(b)
	}
	return uintptr(id), nil
}

// Name returns a printable name for id.
func Name(id uintptr) string {
	if n, ok := known[id]; ok {
		return n
	}
	if id > Firmware && id <= firmwareRangeLimit {
		return fmt.Sprintf("FIRMWARE+0x%x", id-Firmware)
	}
	var b []byte
	for v := uint32(id); v != 0; v >>= 8 {
		c := byte(v)
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("0x%x", id)
		}
		b = append([]byte{c}, b...)
	}
	if len(b) == 0 {
		return fmt.Sprintf("0x%x", id)
	}
	return string(b)
}

// Known returns the well-known extension ids.
func Known() []uintptr {
	return []uintptr{Base, Time, IPI, RFence, HSM, SRST, PMU, DBCN, Firmware}
}
