package sbi

import (
	"fmt"

	"github.com/carved4/go-sbicall/pkg/extid"
)

const (
	fidGetSpecVersion = 0
	fidGetImplID      = 1
	fidGetImplVersion = 2
	fidProbeExtension = 3
	fidGetMvendorID   = 4
	fidGetMarchID     = 5
	fidGetMimpID      = 6
)

// Version is an SBI specification version.
type Version struct {
	Major, Minor uint32
}

// ParseVersion decodes the spec version word: major in bits 30:24 and
// minor in bits 23:0.
func ParseVersion(v uintptr) Version {
	return Version{
		Major: uint32(v>>24) & 0x7f,
		Minor: uint32(v) & 0xffffff,
	}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

func (c *Client) SpecVersion() (Version, error) {
	v, err := c.call(extid.Base, fidGetSpecVersion)
	if err != nil {
		return Version{}, err
	}
	return ParseVersion(v), nil
}

func (c *Client) ImplID() (uintptr, error) {
	return c.call(extid.Base, fidGetImplID)
}

func (c *Client) ImplVersion() (uintptr, error) {
	return c.call(extid.Base, fidGetImplVersion)
}

// ProbeExtension reports whether firmware implements ext.
func (c *Client) ProbeExtension(ext uintptr) (bool, error) {
	v, err := c.call(extid.Base, fidProbeExtension, ext)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// MachineIDs are the mvendorid, marchid and mimpid CSRs as seen by firmware.
type MachineIDs struct {
	VendorID, ArchID, ImpID uintptr
}

func (c *Client) MachineIDs() (MachineIDs, error) {
	var ids MachineIDs
	var err error
	if ids.VendorID, err = c.call(extid.Base, fidGetMvendorID); err != nil {
		return ids, err
	}
	if ids.ArchID, err = c.call(extid.Base, fidGetMarchID); err != nil {
		return ids, err
	}
	if ids.ImpID, err = c.call(extid.Base, fidGetMimpID); err != nil {
		return ids, err
	}
	return ids, nil
}
