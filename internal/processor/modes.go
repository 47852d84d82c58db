// internal/processor/modes.go
package processor

import (
	"github.com/tamzrod/opsis-console/internal/edid"
)

// DescLen is the size of one mode descriptor, terminator included.
const DescLen = 32

// Modes is the table of video modes the pipeline can be started in.
var Modes = []edid.Timing{
	{
		PixelClock: 2518,
		HActive:    640, HBlanking: 160, HSyncOffset: 16, HSyncWidth: 96,
		VActive: 480, VBlanking: 45, VSyncOffset: 10, VSyncWidth: 2,
		EstablishedTiming: 0x20,
		Comment:           "(VESA)",
	},
	{
		PixelClock: 2700,
		HActive:    720, HBlanking: 138, HSyncOffset: 16, HSyncWidth: 62,
		VActive: 480, VBlanking: 45, VSyncOffset: 9, VSyncWidth: 6,
		Comment: "(CEA 480p)",
	},
	{
		PixelClock: 2700,
		HActive:    720, HBlanking: 144, HSyncOffset: 12, HSyncWidth: 64,
		VActive: 576, VBlanking: 49, VSyncOffset: 5, VSyncWidth: 5,
		Comment: "(CEA 576p)",
	},
	{
		PixelClock: 4000,
		HActive:    800, HBlanking: 256, HSyncOffset: 40, HSyncWidth: 128,
		VActive: 600, VBlanking: 28, VSyncOffset: 1, VSyncWidth: 4,
		Flags:             edid.HSyncPos | edid.VSyncPos,
		EstablishedTiming: 0x01,
		Comment:           "(VESA)",
	},
	{
		PixelClock: 6500,
		HActive:    1024, HBlanking: 320, HSyncOffset: 24, HSyncWidth: 136,
		VActive: 768, VBlanking: 38, VSyncOffset: 3, VSyncWidth: 6,
		Comment: "(VESA)",
	},
	{
		PixelClock: 7425,
		HActive:    1280, HBlanking: 370, HSyncOffset: 110, HSyncWidth: 40,
		VActive: 720, VBlanking: 30, VSyncOffset: 5, VSyncWidth: 5,
		Flags:   edid.HSyncPos | edid.VSyncPos,
		Comment: "(CEA 720p)",
	},
	{
		PixelClock: 7425,
		HActive:    1280, HBlanking: 700, HSyncOffset: 440, HSyncWidth: 40,
		VActive: 720, VBlanking: 30, VSyncOffset: 5, VSyncWidth: 5,
		Flags:   edid.HSyncPos | edid.VSyncPos,
		Comment: "(CEA 720p)",
	},
	{
		PixelClock: 7425,
		HActive:    1920, HBlanking: 280, HSyncOffset: 88, HSyncWidth: 44,
		VActive: 1080, VBlanking: 45, VSyncOffset: 4, VSyncWidth: 5,
		Flags:   edid.HSyncPos | edid.VSyncPos,
		Comment: "(CEA 1080p)",
	},
}

// ModeCount is the number of entries in Modes.
func ModeCount() int { return len(Modes) }

// describe renders the descriptor of t, at most DescLen-1 bytes.
func describe(t edid.Timing) string {
	s := t.String()
	if t.Comment != "" {
		s += " " + t.Comment
	}
	if len(s) > DescLen-1 {
		s = s[:DescLen-1]
	}
	return s
}

// ListModes fills buf with ModeCount descriptors of DescLen bytes each,
// zero padded. buf must hold ModeCount()*DescLen bytes.
func ListModes(buf []byte) {
	for i, t := range Modes {
		slot := buf[i*DescLen : (i+1)*DescLen]
		for j := range slot {
			slot[j] = 0
		}
		copy(slot, describe(t))
	}
}

// Descriptor extracts descriptor i from a buffer filled by ListModes.
func Descriptor(buf []byte, i int) string {
	slot := buf[i*DescLen : (i+1)*DescLen]
	for j, c := range slot {
		if c == 0 {
			return string(slot[:j])
		}
	}
	return string(slot)
}
