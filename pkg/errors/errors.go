package errors

import (
	stderrors "errors"
	"fmt"
)

// SBI status codes returned in a0
const (
	Success          = 0
	Failed           = -1
	NotSupported     = -2
	InvalidParam     = -3
	Denied           = -4
	InvalidAddress   = -5
	AlreadyAvailable = -6
	AlreadyStarted   = -7
	AlreadyStopped   = -8
	NoShmem          = -9
)

var (
	// ErrUnavailable is returned when a service is not exposed by the
	// configured firmware-interface mode. No trap is issued.
	ErrUnavailable = stderrors.New("sbi: service unavailable in this mode")
	// ErrNoFirmware is raised by the native trapper on hosts without an
	// ecall path into SBI firmware.
	ErrNoFirmware = stderrors.New("sbi: no firmware on this architecture")
	ErrBadImage   = stderrors.New("sbi: bad boot image")
	ErrBadConfig  = stderrors.New("sbi: bad config")
)

var names = map[int64]string{
	Failed:           "failed",
	NotSupported:     "not supported",
	InvalidParam:     "invalid parameter",
	Denied:           "denied",
	InvalidAddress:   "invalid address",
	AlreadyAvailable: "already available",
	AlreadyStarted:   "already started",
	AlreadyStopped:   "already stopped",
	NoShmem:          "shared memory not available",
}

type SBIError struct {
	Code int64
}

func (e *SBIError) Error() string {
	if n, ok := names[e.Code]; ok {
		return "sbi: " + n
	}
	return fmt.Sprintf("sbi: error %d", e.Code)
}

// New creates a new SBIError
func New(code int64) error {
	return &SBIError{Code: code}
}

// FromStatus decodes the raw a0 register. It returns nil for Success.
func FromStatus(a0 uintptr) error {
	// a0 is a signed long in the calling convention
	code := int64(int(a0))
	if code == Success {
		return nil
	}
	return &SBIError{Code: code}
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code int64) bool {
	var sbiErr *SBIError
	if stderrors.As(err, &sbiErr) {
		return sbiErr.Code == code
	}
	return false
}

func Is(err, target error) bool { return stderrors.Is(err, target) }
