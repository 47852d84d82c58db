// internal/board/presence.go
package board

import (
	"errors"

	"github.com/tamzrod/opsis-console/internal/config"
)

// Subsystem names as they appear in console diagnostics.
const (
	NameHDMIIn0     = "hdmi_in0"
	NameHDMIIn1     = "hdmi_in1"
	NameHDMIOut0    = "hdmi_out0"
	NameHDMIOut1    = "hdmi_out1"
	NameEncoder     = "encoder"
	NameDDR         = "ddr_bandwidth"
	NameDNA         = "dna"
	NameMDIO        = "mdio"
	NameOpsisEEPROM = "opsis_eeprom"
	NameTofeEEPROM  = "tofe_eeprom"
	NameFX2         = "fx2"
)

// Presence records which optional subsystems this build carries.
// Immutable after boot.
type Presence struct {
	HDMIIn0      bool
	HDMIIn1      bool
	HDMIOut0     bool
	HDMIOut1     bool
	Encoder      bool
	DDRBandwidth bool
	DNA          bool
	MDIO         bool
	OpsisEEPROM  bool
	TofeEEPROM   bool
	FX2          bool
	EDIDOut0     bool
	EDIDOut1     bool
}

// PresenceFrom converts the configuration section.
func PresenceFrom(p config.PresenceConfig) Presence {
	return Presence{
		HDMIIn0:      p.HDMIIn0,
		HDMIIn1:      p.HDMIIn1,
		HDMIOut0:     p.HDMIOut0,
		HDMIOut1:     p.HDMIOut1,
		Encoder:      p.Encoder,
		DDRBandwidth: p.DDRBandwidth,
		DNA:          p.DNA,
		MDIO:         p.MDIO,
		OpsisEEPROM:  p.OpsisEEPROM,
		TofeEEPROM:   p.TofeEEPROM,
		FX2:          p.FX2,
		EDIDOut0:     p.EDIDOut0 && p.HDMIOut0,
		EDIDOut1:     p.EDIDOut1 && p.HDMIOut1,
	}
}

// Full is every subsystem present.
func Full() Presence {
	return Presence{
		HDMIIn0: true, HDMIIn1: true, HDMIOut0: true, HDMIOut1: true,
		Encoder: true, DDRBandwidth: true, DNA: true, MDIO: true,
		OpsisEEPROM: true, TofeEEPROM: true, FX2: true,
		EDIDOut0: true, EDIDOut1: true,
	}
}

// ErrMissing matches every MissingError.
var ErrMissing = errors.New("subsystem missing")

// MissingError reports an absent subsystem.
type MissingError struct {
	Name string
}

func (e *MissingError) Error() string { return e.Name + " is missing." }

func (e *MissingError) Is(target error) bool { return target == ErrMissing }

// InputName is the subsystem name of HDMI input i.
func InputName(i int) string {
	if i == 1 {
		return NameHDMIIn1
	}
	return NameHDMIIn0
}

// OutputName is the subsystem name of HDMI output i.
func OutputName(i int) string {
	if i == 1 {
		return NameHDMIOut1
	}
	return NameHDMIOut0
}

// Missing returns the error for an absent subsystem.
func Missing(name string) error { return &MissingError{Name: name} }
