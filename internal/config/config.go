// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Board   BoardConfig   `yaml:"board"`
	Bus     BusConfig     `yaml:"bus"`
	Console ConsoleConfig `yaml:"console"`
	EDID    EDIDConfig    `yaml:"edid"`
	State   StateConfig   `yaml:"state"`
}

// ---- BOARD ----

type BoardConfig struct {
	// SystemClockHz is the CPU/CSR clock. The status service fires once
	// per SystemClockHz ticks.
	SystemClockHz uint64 `yaml:"system_clock_hz"`

	// DRAM front-end geometry used for bandwidth math.
	DFIINPhases     uint32 `yaml:"dfii_nphases"`
	DFIIPixDataSize uint32 `yaml:"dfii_pix_data_size"`

	// HPDSpin is the number of idle iterations HPD is held low.
	HPDSpin int `yaml:"hpd_spin"`

	Present PresenceConfig `yaml:"present"`
}

// PresenceConfig mirrors the board build options.
// Missing keys mean "absent".
type PresenceConfig struct {
	HDMIIn0      bool `yaml:"hdmi_in0"`
	HDMIIn1      bool `yaml:"hdmi_in1"`
	HDMIOut0     bool `yaml:"hdmi_out0"`
	HDMIOut1     bool `yaml:"hdmi_out1"`
	Encoder      bool `yaml:"encoder"`
	DDRBandwidth bool `yaml:"ddr_bandwidth"`
	DNA          bool `yaml:"dna"`
	MDIO         bool `yaml:"mdio"`
	OpsisEEPROM  bool `yaml:"opsis_eeprom"`
	TofeEEPROM   bool `yaml:"tofe_eeprom"`
	FX2          bool `yaml:"fx2"`
	EDIDOut0     bool `yaml:"edid_out0"`
	EDIDOut1     bool `yaml:"edid_out1"`
}

// ---- REGISTER BUS ----

const (
	BusSim       = "sim"
	BusModbusTCP = "modbus-tcp"
	BusModbusRTU = "modbus-rtu"
)

type BusConfig struct {
	Kind      string `yaml:"kind"`
	Endpoint  string `yaml:"endpoint"` // host:port or serial device
	BaudRate  int    `yaml:"baud_rate"`
	SlaveID   uint8  `yaml:"slave_id"`
	TimeoutMs int    `yaml:"timeout_ms"`
	Base      uint32 `yaml:"base"`
}

// ---- CONSOLE ----

type ConsoleConfig struct {
	// Serial is a tty device path, or "stdin" for the local terminal.
	// Empty disables the serial console.
	Serial   string `yaml:"serial"`
	BaudRate int    `yaml:"baud_rate"`

	// TelnetListen is host:port; empty disables telnet.
	TelnetListen string `yaml:"telnet_listen"`

	PollIntervalMs int `yaml:"poll_interval_ms"`
}

// ---- EDID ----

type EDIDConfig struct {
	Manufacturer string `yaml:"manufacturer"`
	ProductCode  string `yaml:"product_code"`
	Year         int    `yaml:"year"`
	Name         string `yaml:"name"`
}

// ---- PERSISTED STATE ----

type StateConfig struct {
	Path string `yaml:"path"`
}

// Load reads and decodes a YAML configuration file.
// It does not validate.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return &cfg, nil
}
