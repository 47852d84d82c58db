// internal/board/regs.go
package board

// CSR map of the Opsis build. Bases are byte addresses; every register is
// one 32-bit word. Multi-byte fields are laid out one byte per word.

const CSRBase uint32 = 0xe0000000

// ---- BASES ----

const (
	ctrlBase        = CSRBase + 0x0000
	ddrBase         = CSRBase + 0x4000
	dnaBase         = CSRBase + 0x5000
	hdmiIn0Base     = CSRBase + 0xa000
	hdmiIn1Base     = CSRBase + 0xb000
	hdmiOut0Base    = CSRBase + 0xc000
	hdmiOut1Base    = CSRBase + 0xd000
	encoderBase     = CSRBase + 0xe000
	pllBase         = CSRBase + 0xf000
	mdioBase        = CSRBase + 0x10000
	opsisEEPROMBase = CSRBase + 0x11000
	tofeEEPROMBase  = CSRBase + 0x12000
	fx2Base         = CSRBase + 0x13000
)

// ---- CTRL ----

const regCtrlReset = 0x00

// ---- DDR BANDWIDTH ----

const (
	regDDRUpdate  = 0x00
	regDDRNReads  = 0x04
	regDDRNWrites = 0x08
)

// ---- DNA ----

const DNASize = 8

// ---- HDMI INPUT ----

const (
	regInHPDEn   = 0x00
	regInHRes    = 0x04
	regInVRes    = 0x08
	regInFreq    = 0x0c
	regInEDIDMem = 0x400 // 128 words
)

// ---- HDMI OUTPUT ----

const (
	regOutInitiatorEnable = 0x00
	regOutUnderflowEnable = 0x04
	regOutUnderflowUpdate = 0x08
	regOutUnderflowCount  = 0x0c
	regOutSource          = 0x10
	regOutHActive         = 0x14
	regOutVActive         = 0x18
	regOutDDCData         = 0x400 // 128 words, monitor EDID via DDC
)

// ---- ENCODER ----

const (
	regEncEnable  = 0x00
	regEncQuality = 0x04
	regEncFPS     = 0x08
	regEncSource  = 0x0c
)

// ---- PLL ----

const PLLRegisters = 32

// ---- MDIO (PHY register window) ----

const MDIORegisters = 32

const (
	mdioBMCR   = 0
	mdioBMSR   = 1
	mdioPHYID1 = 2
	mdioPHYID2 = 3

	bmsrLinkStatus = 1 << 2
	bmcrSpeed1000  = 1 << 6
	bmcrSpeed100   = 1 << 13
	bmcrFullDuplex = 1 << 8
)

// ---- EEPROM ----

const EEPROMSize = 256

// ---- FX2 ----

const (
	regFX2Reset    = 0x00
	regFX2Firmware = 0x04
)
