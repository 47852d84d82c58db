// internal/edid/decode.go
package edid

import (
	"fmt"
	"io"
	"strings"
)

// Info is the subset of an EDID block the console reports.
type Info struct {
	Manufacturer string
	ProductCode  [2]byte
	Year         int
	Version      int
	Revision     int
	Established  uint8

	// Timing is the first detailed timing descriptor.
	Timing    Timing
	HasTiming bool

	Name string
}

// Decode validates buf and extracts its identity and preferred timing.
func Decode(buf []byte) (*Info, error) {
	if err := Validate(buf); err != nil {
		return nil, err
	}

	info := &Info{
		ProductCode: [2]byte{buf[offProductCode], buf[offProductCode+1]},
		Year:        int(buf[offYear]) + 1990,
		Version:     int(buf[offVersion]),
		Revision:    int(buf[offRevision]),
		Established: buf[offEstablished],
	}

	m := uint16(buf[offManufacturer])<<8 | uint16(buf[offManufacturer+1])
	info.Manufacturer = string([]byte{
		byte((m>>10)&0x1F) + 'A' - 1,
		byte((m>>5)&0x1F) + 'A' - 1,
		byte(m&0x1F) + 'A' - 1,
	})

	for i := 0; i < 4; i++ {
		d := buf[offDescriptors+i*descriptorLen : offDescriptors+(i+1)*descriptorLen]
		if d[0] != 0 || d[1] != 0 {
			if !info.HasTiming {
				info.Timing = parseDetailedTiming(d)
				info.HasTiming = true
			}
			continue
		}
		if d[3] == DescriptorMonitorName {
			info.Name = parseText(d[5:])
		}
	}

	return info, nil
}

func parseDetailedTiming(d []byte) Timing {
	return Timing{
		PixelClock:  uint32(d[0]) | uint32(d[1])<<8,
		HActive:     uint32(d[2]) | uint32(d[4]>>4)<<8,
		HBlanking:   uint32(d[3]) | uint32(d[4]&0x0F)<<8,
		VActive:     uint32(d[5]) | uint32(d[7]>>4)<<8,
		VBlanking:   uint32(d[6]) | uint32(d[7]&0x0F)<<8,
		HSyncOffset: uint32(d[8]) | uint32((d[11]>>6)&0x03)<<8,
		HSyncWidth:  uint32(d[9]) | uint32((d[11]>>4)&0x03)<<8,
		VSyncOffset: uint32(d[10]>>4) | uint32((d[11]>>2)&0x03)<<4,
		VSyncWidth:  uint32(d[10]&0x0F) | uint32(d[11]&0x03)<<4,
		Flags:       d[17] &^ Digital,
	}
}

func parseText(b []byte) string {
	s := string(b)
	if i := strings.IndexByte(s, 0x0A); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, " ")
}

// Print writes a human readable dump of buf, console style (\r\n).
func Print(w io.Writer, buf []byte) error {
	for i := 0; i < len(buf); i += 16 {
		end := i + 16
		if end > len(buf) {
			end = len(buf)
		}
		if _, err := fmt.Fprintf(w, "%02x: % x\r\n", i, buf[i:end]); err != nil {
			return err
		}
	}

	info, err := Decode(buf)
	if err != nil {
		_, werr := fmt.Fprintf(w, "invalid EDID: %v\r\n", err)
		if werr != nil {
			return werr
		}
		return err
	}

	fmt.Fprintf(w, "Manufacturer: %s  Product: %02x%02x  Year: %d  EDID %d.%d\r\n",
		info.Manufacturer, info.ProductCode[1], info.ProductCode[0],
		info.Year, info.Version, info.Revision)
	if info.Name != "" {
		fmt.Fprintf(w, "Name: %s\r\n", info.Name)
	}
	if info.HasTiming {
		t := info.Timing
		_, err = fmt.Fprintf(w, "Timing: %s (%d.%02d MHz) %s\r\n",
			t, t.PixelClock/100, t.PixelClock%100, FlagString(t.Flags))
	}
	return err
}
