// internal/config/normalize.go
package config

// Defaults for an Opsis build.
const (
	DefaultSystemClockHz   = 50_000_000
	DefaultDFIINPhases     = 4
	DefaultDFIIPixDataSize = 4
	DefaultHPDSpin         = 65536
	DefaultBaudRate        = 115200
	DefaultBusTimeoutMs    = 500
	DefaultPollIntervalMs  = 1
	DefaultStatePath       = "opsis-state.yaml"

	edidNameMax = 13
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Board.SystemClockHz == 0 {
		cfg.Board.SystemClockHz = DefaultSystemClockHz
	}
	if cfg.Board.DFIINPhases == 0 {
		cfg.Board.DFIINPhases = DefaultDFIINPhases
	}
	if cfg.Board.DFIIPixDataSize == 0 {
		cfg.Board.DFIIPixDataSize = DefaultDFIIPixDataSize
	}
	if cfg.Board.HPDSpin == 0 {
		cfg.Board.HPDSpin = DefaultHPDSpin
	}

	if cfg.Bus.Kind == "" {
		cfg.Bus.Kind = BusSim
	}
	if cfg.Bus.TimeoutMs == 0 {
		cfg.Bus.TimeoutMs = DefaultBusTimeoutMs
	}
	if cfg.Bus.Kind == BusModbusRTU && cfg.Bus.BaudRate == 0 {
		cfg.Bus.BaudRate = DefaultBaudRate
	}

	if cfg.Console.BaudRate == 0 {
		cfg.Console.BaudRate = DefaultBaudRate
	}
	if cfg.Console.PollIntervalMs == 0 {
		cfg.Console.PollIntervalMs = DefaultPollIntervalMs
	}

	if cfg.EDID.Manufacturer == "" {
		cfg.EDID.Manufacturer = "TSD"
	}
	if cfg.EDID.ProductCode == "" {
		cfg.EDID.ProductCode = "\x34\x12"
	}
	if cfg.EDID.Year == 0 {
		cfg.EDID.Year = 2016
	}
	if cfg.EDID.Name == "" {
		cfg.EDID.Name = "HDMI2USB"
	}
	// Monitor name descriptor holds at most 13 characters.
	if len(cfg.EDID.Name) > edidNameMax {
		cfg.EDID.Name = cfg.EDID.Name[:edidNameMax]
	}

	if cfg.State.Path == "" {
		cfg.State.Path = DefaultStatePath
	}
}
