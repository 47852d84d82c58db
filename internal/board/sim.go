// internal/board/sim.go
package board

import (
	"sync"

	"github.com/tamzrod/opsis-console/internal/csr"
	"github.com/tamzrod/opsis-console/internal/edid"
)

// Sim is an in-memory board. It gives the registers used by the console
// enough behaviour to exercise it without hardware:
//
//   - an HPD rising edge on an input "re-reads" the input EDID and reports
//     its detailed timing as the detected resolution and pixel clock
//   - output underflow counters follow the enable/update/clear protocol
//   - the DDR monitor latches injected traffic on update
//   - outputs with DDC present a fixed monitor EDID
type Sim struct {
	*csr.Memory

	mu        sync.Mutex
	underflow [2]underflowCounter
	nreads    uint32
	nwrites   uint32
	resets    int
}

type underflowCounter struct {
	enabled bool
	count   uint32
}

// SimDNA is the device DNA reported by the simulator.
var SimDNA = []byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef}

// SimMonitor is the timing advertised by monitors on simulated outputs.
var SimMonitor = edid.Timing{
	PixelClock: 7425,
	HActive:    1280, HBlanking: 370, HSyncOffset: 110, HSyncWidth: 40,
	VActive: 720, VBlanking: 30, VSyncOffset: 5, VSyncWidth: 5,
	Flags: edid.HSyncPos | edid.VSyncPos,
}

// NewSim builds a simulated board with the subsystems in p.
func NewSim(p Presence) *Sim {
	s := &Sim{Memory: csr.NewMemory()}

	ins := []struct {
		present bool
		base    uint32
	}{{p.HDMIIn0, hdmiIn0Base}, {p.HDMIIn1, hdmiIn1Base}}
	for _, in := range ins {
		if in.present {
			s.wireInput(in.base)
		}
	}

	outs := []struct {
		present, ddc bool
		base         uint32
	}{{p.HDMIOut0, p.EDIDOut0, hdmiOut0Base}, {p.HDMIOut1, p.EDIDOut1, hdmiOut1Base}}
	for i, out := range outs {
		if out.present {
			s.wireOutput(i, out.base, out.ddc)
		}
	}

	if p.DDRBandwidth {
		s.OnWrite(ddrBase+regDDRUpdate, func(v uint32) {
			if v == 0 {
				return
			}
			s.mu.Lock()
			nr, nw := s.nreads, s.nwrites
			s.mu.Unlock()
			s.Poke(ddrBase+regDDRNReads, nr)
			s.Poke(ddrBase+regDDRNWrites, nw)
		})
	}
	if p.DNA {
		for i, b := range SimDNA {
			s.Poke(dnaBase+uint32(4*i), uint32(b))
		}
	}
	if p.MDIO {
		s.Poke(mdioBase+4*mdioBMCR, bmcrSpeed1000|bmcrFullDuplex)
		s.Poke(mdioBase+4*mdioBMSR, bmsrLinkStatus|0x7809)
		s.Poke(mdioBase+4*mdioPHYID1, 0x0022)
		s.Poke(mdioBase+4*mdioPHYID2, 0x1622)
	}
	for _, e := range []struct {
		present bool
		base    uint32
	}{{p.OpsisEEPROM, opsisEEPROMBase}, {p.TofeEEPROM, tofeEEPROMBase}} {
		if !e.present {
			continue
		}
		for i := 0; i < EEPROMSize; i++ {
			s.Poke(e.base+uint32(4*i), uint32(i))
		}
	}

	s.OnWrite(ctrlBase+regCtrlReset, func(v uint32) {
		if v != 0 {
			s.mu.Lock()
			s.resets++
			s.mu.Unlock()
		}
	})
	return s
}

func (s *Sim) wireInput(base uint32) {
	var last uint32
	s.OnWrite(base+regInHPDEn, func(v uint32) {
		s.mu.Lock()
		rising := last == 0 && v != 0
		last = v
		s.mu.Unlock()
		if !rising {
			return
		}
		buf := make([]byte, edid.Size)
		for i := range buf {
			buf[i] = byte(s.Peek(base + regInEDIDMem + uint32(4*i)))
		}
		info, err := edid.Decode(buf)
		if err != nil || !info.HasTiming {
			s.Poke(base+regInHRes, 0)
			s.Poke(base+regInVRes, 0)
			s.Poke(base+regInFreq, 0)
			return
		}
		s.Poke(base+regInHRes, info.Timing.HActive)
		s.Poke(base+regInVRes, info.Timing.VActive)
		s.Poke(base+regInFreq, info.Timing.PixelClock*10_000)
	})
}

func (s *Sim) wireOutput(i int, base uint32, ddc bool) {
	s.OnWrite(base+regOutUnderflowEnable, func(v uint32) {
		s.mu.Lock()
		defer s.mu.Unlock()
		u := &s.underflow[i]
		u.enabled = v != 0
		if !u.enabled {
			u.count = 0
		}
	})
	s.OnWrite(base+regOutUnderflowUpdate, func(v uint32) {
		if v == 0 {
			return
		}
		s.mu.Lock()
		n := s.underflow[i].count
		s.mu.Unlock()
		s.Poke(base+regOutUnderflowCount, n)
	})

	if !ddc {
		return
	}
	mon, err := edid.Generate("SIM", [2]byte{0x01, 0x00}, 2016, "SIM MONITOR", SimMonitor)
	if err != nil {
		// fixed inputs, cannot fail
		panic(err)
	}
	for j, b := range mon {
		s.Poke(base+regOutDDCData+uint32(4*j), uint32(b))
	}
}

// InjectUnderflows adds n underflows to output i while its counter is armed.
func (s *Sim) InjectUnderflows(i int, n uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u := &s.underflow[i]; u.enabled {
		u.count += n
	}
}

// SetTraffic sets the burst counts latched by the next DDR update.
func (s *Sim) SetTraffic(nreads, nwrites uint32) {
	s.mu.Lock()
	s.nreads, s.nwrites = nreads, nwrites
	s.mu.Unlock()
}

// Resets counts CPU reset requests.
func (s *Sim) Resets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resets
}
