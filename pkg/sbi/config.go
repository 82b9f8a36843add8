package sbi

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/carved4/go-sbicall/pkg/errors"
	"github.com/carved4/go-sbicall/pkg/timeval"
)

// Mode selects how calls reach firmware.
type Mode int

const (
	// Direct traps straight into SBI firmware. Every service is available.
	Direct Mode = iota
	// Delegated routes calls through a helper that proxies them to
	// firmware. Reset and hart management are not available, and time can
	// be read through the firmware extension.
	Delegated
)

func (m Mode) String() string {
	switch m {
	case Direct:
		return "direct"
	case Delegated:
		return "delegated"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "direct", "":
		return Direct, nil
	case "delegated", "nuttsbi":
		return Delegated, nil
	}
	return 0, fmt.Errorf("%w: unknown mode %q", errors.ErrBadConfig, s)
}

func (m Mode) MarshalText() ([]byte, error) {
	if m != Direct && m != Delegated {
		return nil, fmt.Errorf("%w: unknown mode %d", errors.ErrBadConfig, int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Config is the firmware-interface configuration, resolved once at start-up.
type Config struct {
	Mode  Mode          `yaml:"mode"`
	Width timeval.Width `yaml:"width"`
	// FirmwareTime reads the time counter through the firmware extension
	// instead of the time CSR. Only valid in Delegated mode.
	FirmwareTime bool `yaml:"firmware_time"`
}

func DefaultConfig() Config {
	return Config{
		Mode:  Direct,
		Width: timeval.NativeWidth(),
	}
}

func (c Config) Validate() error {
	if c.Mode != Direct && c.Mode != Delegated {
		return fmt.Errorf("%w: unknown mode %d", errors.ErrBadConfig, int(c.Mode))
	}
	if c.Width != timeval.Narrow && c.Width != timeval.Wide {
		return fmt.Errorf("%w: unsupported width %d", errors.ErrBadConfig, int(c.Width))
	}
	if c.Width > timeval.NativeWidth() {
		return fmt.Errorf("%w: %v time values do not fit %v registers", errors.ErrBadConfig, c.Width, timeval.NativeWidth())
	}
	if c.FirmwareTime && c.Mode != Delegated {
		return fmt.Errorf("%w: firmware_time requires delegated mode", errors.ErrBadConfig)
	}
	return nil
}

// ParseConfig decodes YAML on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", errors.ErrBadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

// Capability is a set of services.
type Capability uint

const (
	CapSetTimer Capability = 1 << iota
	CapGetTime
	CapSendIPI
	CapSystemReset
	CapHartStart
	CapHartStop
	CapHartStatus
	CapFirmwareTime
)

var capNames = []string{
	"set-timer", "get-time", "send-ipi", "system-reset",
	"hart-start", "hart-stop", "hart-status", "firmware-time",
}

func (c Capability) Has(x Capability) bool {
	return c&x == x
}

func (c Capability) String() string {
	var names []string
	for i, n := range capNames {
		if c&(1<<i) != 0 {
			names = append(names, n)
		}
	}
	return strings.Join(names, ",")
}

// Capabilities lists the services available in the configured mode.
func (c Config) Capabilities() Capability {
	caps := CapSetTimer | CapGetTime | CapSendIPI
	switch c.Mode {
	case Direct:
		caps |= CapSystemReset | CapHartStart | CapHartStop | CapHartStatus
	case Delegated:
		if c.FirmwareTime {
			caps |= CapFirmwareTime
		}
	}
	return caps
}
