// internal/config/validate.go
package config

import (
	"fmt"
	"net"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil configuration")
	}

	// ------------------------------------------------------------
	// REGISTER BUS
	// ------------------------------------------------------------

	switch cfg.Bus.Kind {
	case "", BusSim:
	case BusModbusTCP:
		if _, _, err := net.SplitHostPort(cfg.Bus.Endpoint); err != nil {
			return fmt.Errorf("bus: modbus-tcp endpoint %q: %w", cfg.Bus.Endpoint, err)
		}
	case BusModbusRTU:
		if cfg.Bus.Endpoint == "" {
			return fmt.Errorf("bus: modbus-rtu requires a serial device endpoint")
		}
	default:
		return fmt.Errorf("bus: unknown kind %q", cfg.Bus.Kind)
	}

	if cfg.Bus.Base%4 != 0 {
		return fmt.Errorf("bus: base 0x%08x is not word aligned", cfg.Bus.Base)
	}
	if cfg.Bus.TimeoutMs < 0 {
		return fmt.Errorf("bus: timeout_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// BOARD
	// ------------------------------------------------------------

	if cfg.Board.HPDSpin < 0 {
		return fmt.Errorf("board: hpd_spin must be >= 0")
	}
	if cfg.Board.DFIIPixDataSize > 16 {
		return fmt.Errorf("board: dfii_pix_data_size %d out of range", cfg.Board.DFIIPixDataSize)
	}

	p := cfg.Board.Present
	if p.EDIDOut0 && !p.HDMIOut0 {
		return fmt.Errorf("board: edid_out0 requires hdmi_out0")
	}
	if p.EDIDOut1 && !p.HDMIOut1 {
		return fmt.Errorf("board: edid_out1 requires hdmi_out1")
	}

	// ------------------------------------------------------------
	// CONSOLE
	// ------------------------------------------------------------

	if cfg.Console.Serial == "" && cfg.Console.TelnetListen == "" {
		return fmt.Errorf("console: at least one of serial or telnet_listen is required")
	}
	if cfg.Console.TelnetListen != "" {
		if _, _, err := net.SplitHostPort(cfg.Console.TelnetListen); err != nil {
			return fmt.Errorf("console: telnet_listen %q: %w", cfg.Console.TelnetListen, err)
		}
	}
	if cfg.Console.PollIntervalMs < 0 {
		return fmt.Errorf("console: poll_interval_ms must be >= 0")
	}

	// ------------------------------------------------------------
	// EDID IDENTITY
	// ------------------------------------------------------------

	if m := cfg.EDID.Manufacturer; m != "" {
		if len(m) != 3 {
			return fmt.Errorf("edid: manufacturer %q must be three letters", m)
		}
		for i := 0; i < 3; i++ {
			if m[i] < 'A' || m[i] > 'Z' {
				return fmt.Errorf("edid: manufacturer %q must be upper-case A-Z", m)
			}
		}
	}
	if pc := cfg.EDID.ProductCode; pc != "" && len(pc) != 2 {
		return fmt.Errorf("edid: product_code %q must be two bytes", pc)
	}
	if y := cfg.EDID.Year; y != 0 && (y < 1990 || y > 1990+255) {
		return fmt.Errorf("edid: year %d out of range", y)
	}
	for i := 0; i < len(cfg.EDID.Name); i++ {
		if c := cfg.EDID.Name[i]; c < 0x20 || c > 0x7E {
			return fmt.Errorf("edid: name must contain printable ASCII only")
		}
	}

	return nil
}
