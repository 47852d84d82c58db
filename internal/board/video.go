// internal/board/video.go
package board

import (
	"fmt"

	"github.com/tamzrod/opsis-console/internal/csr"
	"github.com/tamzrod/opsis-console/internal/edid"
)

// ---- HDMI INPUT ----

// HDMIIn is one HDMI capture port.
type HDMIIn struct {
	bus   csr.Bus
	base  uint32
	index int

	// Debug mirrors the per-input debug switch of the console.
	Debug bool
}

// Resolution returns the detected active area.
func (h *HDMIIn) Resolution() (uint32, uint32, error) {
	hres, err := h.bus.Read(h.base + regInHRes)
	if err != nil {
		return 0, 0, fmt.Errorf("hdmi_in%d hres: %w", h.index, err)
	}
	vres, err := h.bus.Read(h.base + regInVRes)
	if err != nil {
		return 0, 0, fmt.Errorf("hdmi_in%d vres: %w", h.index, err)
	}
	return hres, vres, nil
}

// Frequency returns the measured pixel clock in Hz.
func (h *HDMIIn) Frequency() (uint32, error) {
	v, err := h.bus.Read(h.base + regInFreq)
	if err != nil {
		return 0, fmt.Errorf("hdmi_in%d freq: %w", h.index, err)
	}
	return v, nil
}

// SetHPD drives the hotplug detect line.
func (h *HDMIIn) SetHPD(on bool) error {
	return h.bus.Write(h.base+regInHPDEn, b2u(on))
}

// WriteEDID loads the EDID served to the source on this port.
func (h *HDMIIn) WriteEDID(buf []byte) error {
	if err := edid.Validate(buf); err != nil {
		return fmt.Errorf("hdmi_in%d: %w", h.index, err)
	}
	return csr.WriteBytes(h.bus, h.base+regInEDIDMem, buf)
}

// EDID reads back the EDID memory.
func (h *HDMIIn) EDID() ([]byte, error) {
	return csr.ReadBytes(h.bus, h.base+regInEDIDMem, edid.Size)
}

// ---- HDMI OUTPUT ----

// HDMIOut is one HDMI output port.
type HDMIOut struct {
	bus   csr.Bus
	base  uint32
	index int
	ddc   bool
}

func (o *HDMIOut) Name() string { return OutputName(o.index) }

// Enabled reports the framebuffer initiator state.
func (o *HDMIOut) Enabled() (bool, error) {
	v, err := o.bus.Read(o.base + regOutInitiatorEnable)
	if err != nil {
		return false, fmt.Errorf("%s enable: %w", o.Name(), err)
	}
	return v != 0, nil
}

func (o *HDMIOut) SetEnabled(on bool) error {
	return o.bus.Write(o.base+regOutInitiatorEnable, b2u(on))
}

// Underflows latches and returns the underflow counter, then re-arms it.
func (o *HDMIOut) Underflows() (uint32, error) {
	if err := o.bus.Write(o.base+regOutUnderflowEnable, 1); err != nil {
		return 0, err
	}
	if err := o.bus.Write(o.base+regOutUnderflowUpdate, 1); err != nil {
		return 0, err
	}
	n, err := o.bus.Read(o.base + regOutUnderflowCount)
	if err != nil {
		return 0, fmt.Errorf("%s underflows: %w", o.Name(), err)
	}
	// clear and arm again
	if err := o.bus.Write(o.base+regOutUnderflowEnable, 0); err != nil {
		return 0, err
	}
	if err := o.bus.Write(o.base+regOutUnderflowEnable, 1); err != nil {
		return 0, err
	}
	return n, nil
}

// SetSource selects the pipeline feeding this output.
func (o *HDMIOut) SetSource(src uint32) error {
	return o.bus.Write(o.base+regOutSource, src)
}

// SetTiming programs the active area of the output.
func (o *HDMIOut) SetTiming(hActive, vActive uint32) error {
	if err := o.bus.Write(o.base+regOutHActive, hActive); err != nil {
		return err
	}
	return o.bus.Write(o.base+regOutVActive, vActive)
}

// HasEDID reports whether the port has a DDC bus.
func (o *HDMIOut) HasEDID() bool { return o.ddc }

// ReadEDID fetches the attached monitor's EDID over DDC.
func (o *HDMIOut) ReadEDID() ([]byte, error) {
	if !o.ddc {
		return nil, fmt.Errorf("%s: no DDC bus", o.Name())
	}
	return csr.ReadBytes(o.bus, o.base+regOutDDCData, edid.Size)
}

// ---- ENCODER ----

// Encoder is the JPEG encoder feeding the USB video interface.
type Encoder struct {
	bus  csr.Bus
	base uint32
}

func (e *Encoder) Enabled() (bool, error) {
	v, err := e.bus.Read(e.base + regEncEnable)
	return v != 0, err
}

func (e *Encoder) Enable(on bool) error {
	return e.bus.Write(e.base+regEncEnable, b2u(on))
}

func (e *Encoder) Quality() (uint32, error) { return e.bus.Read(e.base + regEncQuality) }

func (e *Encoder) FPS() (uint32, error) { return e.bus.Read(e.base + regEncFPS) }

func (e *Encoder) SetQuality(q int) error {
	return e.bus.Write(e.base+regEncQuality, uint32(q))
}

func (e *Encoder) SetFPS(fps int) error {
	return e.bus.Write(e.base+regEncFPS, uint32(fps))
}

func (e *Encoder) SetSource(src uint32) error {
	return e.bus.Write(e.base+regEncSource, src)
}

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
