// internal/board/misc.go
package board

import (
	"fmt"
	"io"

	"github.com/tamzrod/opsis-console/internal/csr"
)

// ---- DDR BANDWIDTH ----

// DDR is the SDRAM controller bandwidth monitor.
type DDR struct {
	bus  csr.Bus
	base uint32
}

// Bandwidth latches the counters and returns read and write bursts
// seen in the last measurement window.
func (d *DDR) Bandwidth() (nreads, nwrites uint32, err error) {
	if err = d.bus.Write(d.base+regDDRUpdate, 1); err != nil {
		return 0, 0, fmt.Errorf("ddr update: %w", err)
	}
	if nreads, err = d.bus.Read(d.base + regDDRNReads); err != nil {
		return 0, 0, fmt.Errorf("ddr nreads: %w", err)
	}
	if nwrites, err = d.bus.Read(d.base + regDDRNWrites); err != nil {
		return 0, 0, fmt.Errorf("ddr nwrites: %w", err)
	}
	return nreads, nwrites, nil
}

// BurstBits is the number of bits moved by one DFI burst.
func BurstBits(nphases, pixDataSize uint32) uint32 {
	return (2 * nphases) << pixDataSize
}

// Mbps converts a burst count measured over a 2^24 cycle window.
func Mbps(n uint32, clockHz uint64, burstBits uint32) uint32 {
	shift := 24 - int(log2(burstBits))
	v := uint64(n) * clockHz
	if shift >= 0 {
		v >>= uint(shift)
	} else {
		v <<= uint(-shift)
	}
	return uint32(v / 1_000_000)
}

// log2 of zero is zero.
func log2(v uint32) uint32 {
	var r uint32
	for v >>= 1; v != 0; v >>= 1 {
		r++
	}
	return r
}

// ---- DNA ----

type DNA struct {
	bus  csr.Bus
	base uint32
}

// ID returns the FPGA device DNA, most significant byte first.
func (d *DNA) ID() ([]byte, error) {
	return csr.ReadBytes(d.bus, d.base, DNASize)
}

// ---- PLL ----

type PLL struct {
	bus  csr.Bus
	base uint32
}

// Dump prints the PLL dynamic reconfiguration registers.
func (p *PLL) Dump(w io.Writer) error {
	for i := 0; i < PLLRegisters; i++ {
		v, err := p.bus.Read(p.base + uint32(4*i))
		if err != nil {
			return fmt.Errorf("pll reg %d: %w", i, err)
		}
		if i%8 == 0 {
			fmt.Fprintf(w, "%02x:", i)
		}
		fmt.Fprintf(w, " %04x", v&0xffff)
		if i%8 == 7 {
			fmt.Fprint(w, "\r\n")
		}
	}
	return nil
}

// ---- MDIO ----

// MDIO is a window onto the Ethernet PHY's management registers.
type MDIO struct {
	bus  csr.Bus
	base uint32
}

func (m *MDIO) Read(reg int) (uint16, error) {
	v, err := m.bus.Read(m.base + uint32(4*reg))
	if err != nil {
		return 0, fmt.Errorf("mdio reg %d: %w", reg, err)
	}
	return uint16(v), nil
}

func (m *MDIO) Dump(w io.Writer) error {
	for i := 0; i < MDIORegisters; i++ {
		v, err := m.Read(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "reg %2d: 0x%04x\r\n", i, v)
	}
	return nil
}

// Status prints link, speed and duplex.
func (m *MDIO) Status(w io.Writer) error {
	bmcr, err := m.Read(mdioBMCR)
	if err != nil {
		return err
	}
	bmsr, err := m.Read(mdioBMSR)
	if err != nil {
		return err
	}

	link := "down"
	if bmsr&bmsrLinkStatus != 0 {
		link = "up"
	}
	speed := 10
	switch {
	case bmcr&bmcrSpeed1000 != 0:
		speed = 1000
	case bmcr&bmcrSpeed100 != 0:
		speed = 100
	}
	duplex := "half"
	if bmcr&bmcrFullDuplex != 0 {
		duplex = "full"
	}
	_, err = fmt.Fprintf(w, "link: %s  speed: %dMbps  duplex: %s\r\n", link, speed, duplex)
	return err
}

// ---- EEPROM ----

type EEPROM struct {
	bus  csr.Bus
	base uint32
	name string
}

func (e *EEPROM) Dump(w io.Writer) error {
	data, err := csr.ReadBytes(e.bus, e.base, EEPROMSize)
	if err != nil {
		return fmt.Errorf("%s: %w", e.name, err)
	}
	for i := 0; i < len(data); i += 16 {
		fmt.Fprintf(w, "%02x: % x\r\n", i, data[i:i+16])
	}
	return nil
}

// ---- FX2 ----

// FX2 firmware images selectable on reboot.
const (
	FX2USBJTAG  uint32 = 0
	FX2HDMI2USB uint32 = 1
)

type FX2 struct {
	bus  csr.Bus
	base uint32
}

// Reboot holds the FX2 in reset, selects fw and releases it.
func (f *FX2) Reboot(fw uint32) error {
	if err := f.bus.Write(f.base+regFX2Reset, 1); err != nil {
		return err
	}
	if err := f.bus.Write(f.base+regFX2Firmware, fw); err != nil {
		return err
	}
	return f.bus.Write(f.base+regFX2Reset, 0)
}

func (f *FX2) Debug(w io.Writer) error {
	rst, err := f.bus.Read(f.base + regFX2Reset)
	if err != nil {
		return err
	}
	fw, err := f.bus.Read(f.base + regFX2Firmware)
	if err != nil {
		return err
	}
	name := "usbjtag"
	if fw == FX2HDMI2USB {
		name = "hdmi2usb"
	}
	_, err = fmt.Fprintf(w, "fx2 reset: %d  firmware: %s\r\n", rst, name)
	return err
}

// ---- CTRL ----

type Ctrl struct {
	bus  csr.Bus
	base uint32
}

// Reboot resets the soft CPU.
func (c *Ctrl) Reboot() error {
	return c.bus.Write(c.base+regCtrlReset, 1)
}
