// internal/board/board_test.go
package board

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/tamzrod/opsis-console/internal/config"
	"github.com/tamzrod/opsis-console/internal/edid"
)

func newSimBoard(p Presence) (*Board, *Sim) {
	sim := NewSim(p)
	return New(sim, p), sim
}

func TestNew_AbsentHandlesAreNil(t *testing.T) {
	b, _ := newSimBoard(Presence{HDMIIn0: true, HDMIOut1: true})

	if b.In0 == nil || b.Out1 == nil {
		t.Fatalf("present handles missing")
	}
	if b.In1 != nil || b.Out0 != nil || b.Encoder != nil || b.DDR != nil {
		t.Fatalf("absent handles should be nil")
	}
	if b.PLL == nil || b.Ctrl == nil {
		t.Fatalf("pll and ctrl are always present")
	}
	if b.Input(1) != nil || b.Output(0) != nil || b.Output(7) != nil {
		t.Fatalf("Input/Output should follow presence")
	}
}

func TestRequire(t *testing.T) {
	b, _ := newSimBoard(Presence{Encoder: true})

	if err := b.Require(NameEncoder); err != nil {
		t.Fatalf("encoder present: %v", err)
	}

	err := b.Require(NameHDMIIn1)
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
	if err.Error() != "hdmi_in1 is missing." {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestRequire_EveryName(t *testing.T) {
	names := []string{
		NameHDMIIn0, NameHDMIIn1, NameHDMIOut0, NameHDMIOut1, NameEncoder, NameDDR,
		NameDNA, NameMDIO, NameOpsisEEPROM, NameTofeEEPROM, NameFX2,
	}

	full, _ := newSimBoard(Full())
	empty, _ := newSimBoard(Presence{})
	for _, name := range names {
		if err := full.Require(name); err != nil {
			t.Fatalf("%s on full board: %v", name, err)
		}
		if err := empty.Require(name); err == nil || err.Error() != name+" is missing." {
			t.Fatalf("%s on empty board: %v", name, err)
		}
	}
}

func TestPortNames(t *testing.T) {
	if InputName(0) != NameHDMIIn0 || InputName(1) != NameHDMIIn1 {
		t.Fatalf("input names: %s %s", InputName(0), InputName(1))
	}
	if OutputName(0) != NameHDMIOut0 || OutputName(1) != NameHDMIOut1 {
		t.Fatalf("output names: %s %s", OutputName(0), OutputName(1))
	}

	b, _ := newSimBoard(Full())
	if b.Out1.Name() != "hdmi_out1" {
		t.Fatalf("output handle name: %s", b.Out1.Name())
	}
}

func TestPresenceFrom_EDIDNeedsOutput(t *testing.T) {
	p := PresenceFrom(config.PresenceConfig{EDIDOut0: true, HDMIOut1: true, EDIDOut1: true})
	if p.EDIDOut0 {
		t.Fatalf("edid_out0 without hdmi_out0 should be dropped")
	}
	if !p.EDIDOut1 {
		t.Fatalf("edid_out1 should be kept")
	}
}

func TestHDMIIn_HPDRescansEDID(t *testing.T) {
	b, _ := newSimBoard(Full())

	e, err := edid.Generate("TSD", [2]byte{0x34, 0x12}, 2016, "HDMI2USB", SimMonitor)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.In0.WriteEDID(e); err != nil {
		t.Fatalf("WriteEDID: %v", err)
	}

	h, v, _ := b.In0.Resolution()
	if h != 0 || v != 0 {
		t.Fatalf("resolution before hotplug: %dx%d", h, v)
	}

	b.In0.SetHPD(false)
	b.In0.SetHPD(true)

	h, v, err = b.In0.Resolution()
	if err != nil || h != 1280 || v != 720 {
		t.Fatalf("resolution after hotplug: %dx%d (%v)", h, v, err)
	}
	f, _ := b.In0.Frequency()
	if f != 74_250_000 {
		t.Fatalf("frequency: got %d", f)
	}

	back, _ := b.In0.EDID()
	if !bytes.Equal(back, e) {
		t.Fatalf("EDID readback differs")
	}
}

func TestHDMIIn_WriteEDIDRejectsInvalid(t *testing.T) {
	b, _ := newSimBoard(Full())
	if err := b.In1.WriteEDID(make([]byte, edid.Size)); !errors.Is(err, edid.ErrHeader) {
		t.Fatalf("expected ErrHeader, got %v", err)
	}
}

func TestHDMIOut_UnderflowDiscipline(t *testing.T) {
	b, sim := newSimBoard(Full())

	// first read arms the counter
	if n, _ := b.Out0.Underflows(); n != 0 {
		t.Fatalf("first read: got %d", n)
	}

	sim.InjectUnderflows(0, 7)
	n, err := b.Out0.Underflows()
	if err != nil || n != 7 {
		t.Fatalf("got %d (%v), want 7", n, err)
	}

	// the read cleared the counter
	if n, _ := b.Out0.Underflows(); n != 0 {
		t.Fatalf("counter not cleared: %d", n)
	}

	// output1 is independent
	sim.InjectUnderflows(1, 3)
	if n, _ := b.Out1.Underflows(); n != 0 {
		t.Fatalf("unarmed counter counted: %d", n)
	}
}

func TestHDMIOut_EnableAndEDID(t *testing.T) {
	p := Full()
	p.EDIDOut1 = false
	b, _ := newSimBoard(p)

	if on, _ := b.Out0.Enabled(); on {
		t.Fatalf("outputs start disabled")
	}
	b.Out0.SetEnabled(true)
	if on, _ := b.Out0.Enabled(); !on {
		t.Fatalf("SetEnabled(true) not visible")
	}

	mon, err := b.Out0.ReadEDID()
	if err != nil {
		t.Fatalf("ReadEDID: %v", err)
	}
	info, err := edid.Decode(mon)
	if err != nil || info.Name != "SIM MONITOR" {
		t.Fatalf("monitor EDID: %+v %v", info, err)
	}

	if b.Out1.HasEDID() {
		t.Fatalf("output1 has no DDC")
	}
	if _, err := b.Out1.ReadEDID(); err == nil {
		t.Fatalf("expected error reading EDID without DDC")
	}
}

func TestDDR_BandwidthLatch(t *testing.T) {
	b, sim := newSimBoard(Full())

	sim.SetTraffic(1000, 500)
	nr, nw, err := b.DDR.Bandwidth()
	if err != nil || nr != 1000 || nw != 500 {
		t.Fatalf("got %d/%d (%v)", nr, nw, err)
	}
}

func TestMbps(t *testing.T) {
	bb := BurstBits(4, 4)
	if bb != 128 {
		t.Fatalf("burst bits: got %d", bb)
	}

	// 2^17 bursts of 128 bits in a 2^24 cycle window at 50 MHz
	if got := Mbps(1<<17, 50_000_000, bb); got != 50 {
		t.Fatalf("Mbps: got %d, want 50", got)
	}
	if got := Mbps(0, 50_000_000, bb); got != 0 {
		t.Fatalf("Mbps(0): got %d", got)
	}
	if log2(0) != 0 || log2(1) != 0 || log2(128) != 7 {
		t.Fatalf("log2 broken")
	}
}

func TestDumps(t *testing.T) {
	b, _ := newSimBoard(Full())

	var out bytes.Buffer
	if err := b.MDIO.Status(&out); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "link: up  speed: 1000Mbps  duplex: full\r\n" {
		t.Fatalf("mdio status: %q", got)
	}

	out.Reset()
	b.OpsisEEPROM.Dump(&out)
	if !strings.HasPrefix(out.String(), "00: 00 01 02 03") {
		t.Fatalf("eeprom dump: %q", out.String())
	}
	if n := strings.Count(out.String(), "\r\n"); n != EEPROMSize/16 {
		t.Fatalf("eeprom dump lines: %d", n)
	}

	out.Reset()
	b.PLL.Dump(&out)
	if n := strings.Count(out.String(), "\r\n"); n != PLLRegisters/8 {
		t.Fatalf("pll dump lines: %d", n)
	}

	id, _ := b.DNA.ID()
	if !bytes.Equal(id, SimDNA) {
		t.Fatalf("dna: % x", id)
	}
}

func TestFX2AndReboot(t *testing.T) {
	b, sim := newSimBoard(Full())

	b.FX2.Reboot(FX2HDMI2USB)
	var out bytes.Buffer
	b.FX2.Debug(&out)
	if got := out.String(); got != "fx2 reset: 0  firmware: hdmi2usb\r\n" {
		t.Fatalf("fx2 debug: %q", got)
	}

	b.Ctrl.Reboot()
	if sim.Resets() != 1 {
		t.Fatalf("reset not seen")
	}
}

func TestOpenBus_Sim(t *testing.T) {
	bus, closeBus, err := OpenBus(config.BusConfig{Kind: config.BusSim}, Full())
	if err != nil {
		t.Fatalf("OpenBus: %v", err)
	}
	defer closeBus()
	if _, ok := bus.(*Sim); !ok {
		t.Fatalf("sim kind should give a *Sim, got %T", bus)
	}
}
