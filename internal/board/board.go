// internal/board/board.go
package board

import (
	"github.com/tamzrod/opsis-console/internal/csr"
)

// Board groups the subsystem handles of one board build.
// Handles of absent subsystems are nil.
type Board struct {
	Presence Presence

	In0  *HDMIIn
	In1  *HDMIIn
	Out0 *HDMIOut
	Out1 *HDMIOut

	Encoder     *Encoder
	DDR         *DDR
	DNA         *DNA
	MDIO        *MDIO
	OpsisEEPROM *EEPROM
	TofeEEPROM  *EEPROM
	FX2         *FX2

	// always present
	PLL  *PLL
	Ctrl *Ctrl
}

// New wires a handle for every present subsystem on bus.
func New(bus csr.Bus, p Presence) *Board {
	b := &Board{
		Presence: p,
		PLL:      &PLL{bus: bus, base: pllBase},
		Ctrl:     &Ctrl{bus: bus, base: ctrlBase},
	}

	if p.HDMIIn0 {
		b.In0 = &HDMIIn{bus: bus, base: hdmiIn0Base, index: 0}
	}
	if p.HDMIIn1 {
		b.In1 = &HDMIIn{bus: bus, base: hdmiIn1Base, index: 1}
	}
	if p.HDMIOut0 {
		b.Out0 = &HDMIOut{bus: bus, base: hdmiOut0Base, index: 0, ddc: p.EDIDOut0}
	}
	if p.HDMIOut1 {
		b.Out1 = &HDMIOut{bus: bus, base: hdmiOut1Base, index: 1, ddc: p.EDIDOut1}
	}
	if p.Encoder {
		b.Encoder = &Encoder{bus: bus, base: encoderBase}
	}
	if p.DDRBandwidth {
		b.DDR = &DDR{bus: bus, base: ddrBase}
	}
	if p.DNA {
		b.DNA = &DNA{bus: bus, base: dnaBase}
	}
	if p.MDIO {
		b.MDIO = &MDIO{bus: bus, base: mdioBase}
	}
	if p.OpsisEEPROM {
		b.OpsisEEPROM = &EEPROM{bus: bus, base: opsisEEPROMBase, name: NameOpsisEEPROM}
	}
	if p.TofeEEPROM {
		b.TofeEEPROM = &EEPROM{bus: bus, base: tofeEEPROMBase, name: NameTofeEEPROM}
	}
	if p.FX2 {
		b.FX2 = &FX2{bus: bus, base: fx2Base}
	}
	return b
}

// Require returns a MissingError when the named subsystem is absent.
func (b *Board) Require(name string) error {
	var ok bool
	switch name {
	case NameHDMIIn0:
		ok = b.In0 != nil
	case NameHDMIIn1:
		ok = b.In1 != nil
	case NameHDMIOut0:
		ok = b.Out0 != nil
	case NameHDMIOut1:
		ok = b.Out1 != nil
	case NameEncoder:
		ok = b.Encoder != nil
	case NameDDR:
		ok = b.DDR != nil
	case NameDNA:
		ok = b.DNA != nil
	case NameMDIO:
		ok = b.MDIO != nil
	case NameOpsisEEPROM:
		ok = b.OpsisEEPROM != nil
	case NameTofeEEPROM:
		ok = b.TofeEEPROM != nil
	case NameFX2:
		ok = b.FX2 != nil
	}
	if !ok {
		return Missing(name)
	}
	return nil
}

// Input returns the handle for input i, nil when absent or out of range.
func (b *Board) Input(i int) *HDMIIn {
	switch i {
	case 0:
		return b.In0
	case 1:
		return b.In1
	}
	return nil
}

// Output returns the handle for output i, nil when absent or out of range.
func (b *Board) Output(i int) *HDMIOut {
	switch i {
	case 0:
		return b.Out0
	case 1:
		return b.Out1
	}
	return nil
}
