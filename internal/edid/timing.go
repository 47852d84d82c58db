// internal/edid/timing.go
package edid

import (
	"fmt"
	"strings"
)

// Timing flag bits, as carried in the detailed timing descriptor.
const (
	HSyncPos  uint8 = 0b00000010
	HSyncNeg  uint8 = 0b00000000
	VSyncPos  uint8 = 0b00000100
	VSyncNeg  uint8 = 0b00000000
	Interlace uint8 = 0b10000000
	Digital   uint8 = 0b00011000
)

// Timing is one video mode.
type Timing struct {
	PixelClock uint32 // tens of kHz

	HActive     uint32
	HBlanking   uint32
	HSyncOffset uint32
	HSyncWidth  uint32

	VActive     uint32
	VBlanking   uint32
	VSyncOffset uint32
	VSyncWidth  uint32

	Flags uint8

	// EstablishedTiming is copied into the established timings I byte.
	EstablishedTiming uint8
	Comment           string
}

func (t Timing) HTotal() uint32 { return t.HActive + t.HBlanking }
func (t Timing) VTotal() uint32 { return t.VActive + t.VBlanking }

// RefreshRate returns the vertical refresh in Hz, scaled by 100.
// Zero totals yield 0.
func (t Timing) RefreshRate() uint32 {
	total := uint64(t.HTotal()) * uint64(t.VTotal())
	if total == 0 {
		return 0
	}
	return uint32(uint64(t.PixelClock) * 10000 * 100 / total)
}

// Check verifies the sync pulses fit inside the blanking intervals.
func (t Timing) Check() error {
	if t.HTotal() == 0 || t.VTotal() == 0 {
		return fmt.Errorf("edid: timing %dx%d has empty total", t.HActive, t.VActive)
	}
	if t.HSyncOffset+t.HSyncWidth > t.HBlanking {
		return fmt.Errorf("edid: horizontal sync (%d+%d) exceeds blanking %d",
			t.HSyncOffset, t.HSyncWidth, t.HBlanking)
	}
	if t.VSyncOffset+t.VSyncWidth > t.VBlanking {
		return fmt.Errorf("edid: vertical sync (%d+%d) exceeds blanking %d",
			t.VSyncOffset, t.VSyncWidth, t.VBlanking)
	}
	return nil
}

// FlagString renders the polarity and interlace flags, e.g. "+HSync -VSync".
func FlagString(flags uint8) string {
	var parts []string
	if flags&HSyncPos != 0 {
		parts = append(parts, "+HSync")
	} else {
		parts = append(parts, "-HSync")
	}
	if flags&VSyncPos != 0 {
		parts = append(parts, "+VSync")
	} else {
		parts = append(parts, "-VSync")
	}
	if flags&Interlace != 0 {
		parts = append(parts, "Interlace")
	}
	return strings.Join(parts, " ")
}

// String is "<h>x<v> @<r.rr>Hz".
func (t Timing) String() string {
	r := t.RefreshRate()
	return fmt.Sprintf("%dx%d @%d.%02dHz", t.HActive, t.VActive, r/100, r%100)
}
