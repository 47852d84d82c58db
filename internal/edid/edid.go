// internal/edid/edid.go
package edid

import (
	"errors"
	"fmt"
)

// Size is the length of one EDID block.
const Size = 128

// Descriptor tags.
const (
	DescriptorDummy        byte = 0x10
	DescriptorMonitorName  byte = 0xFC
	DescriptorMonitorRange byte = 0xFD

	maxDescriptorData = 13
)

var header = [8]byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00}

var (
	ErrLength   = errors.New("edid: block must be 128 bytes")
	ErrHeader   = errors.New("edid: bad header")
	ErrChecksum = errors.New("edid: checksum mismatch")
)

// ---- BLOCK LAYOUT ----

const (
	offManufacturer = 8
	offProductCode  = 10
	offSerial       = 12
	offWeek         = 16
	offYear         = 17
	offVersion      = 18
	offRevision     = 19
	offVideoInput   = 20
	offEstablished  = 35
	offStandard     = 38
	offDescriptors  = 54
	descriptorLen   = 18
	offExtensions   = 126
	offChecksum     = 127
)

// Monitor range limits advertised in the range descriptor.
const (
	rangeVMinHz    = 50
	rangeVMaxHz    = 70
	rangeHMinKHz   = 30
	rangeHMaxKHz   = 70
	rangePclkMax10 = 15 // 150 MHz, in 10 MHz units
)

// Validate checks length, header and checksum.
func Validate(buf []byte) error {
	if len(buf) != Size {
		return ErrLength
	}
	for i := range header {
		if buf[i] != header[i] {
			return ErrHeader
		}
	}
	var sum byte
	for _, b := range buf {
		sum += b
	}
	if sum != 0 {
		return ErrChecksum
	}
	return nil
}

// Generate builds a 128-byte block for a sink that supports exactly timing.
//
// mfg is three letters A-Z, productCode is copied verbatim (little-endian
// as supplied), year is the manufacture year.
func Generate(mfg string, productCode [2]byte, year int, name string, t Timing) ([]byte, error) {
	if len(mfg) != 3 {
		return nil, fmt.Errorf("edid: manufacturer %q must be three letters", mfg)
	}
	var letters [3]byte
	for i := 0; i < 3; i++ {
		c := mfg[i]
		if c < 'A' || c > 'Z' {
			return nil, fmt.Errorf("edid: manufacturer %q must be upper-case A-Z", mfg)
		}
		letters[i] = c - 'A' + 1
	}
	if year < 1990 || year > 1990+255 {
		return nil, fmt.Errorf("edid: year %d outside 1990-2245", year)
	}
	if err := checkFields(t); err != nil {
		return nil, err
	}

	e := make([]byte, Size)
	copy(e, header[:])

	// three 5-bit letters, big-endian
	e[offManufacturer] = letters[0]<<2 | letters[1]>>3
	e[offManufacturer+1] = (letters[1]&0x07)<<5 | letters[2]

	e[offProductCode] = productCode[0]
	e[offProductCode+1] = productCode[1]

	// serial number stays zero
	e[offWeek] = 0
	e[offYear] = byte(year - 1990)
	e[offVersion] = 1
	e[offRevision] = 3
	e[offVideoInput] = Digital

	e[offEstablished] = t.EstablishedTiming
	for i := offStandard; i < offDescriptors; i++ {
		e[i] = 0x01
	}

	d := offDescriptors
	putDetailedTiming(e[d:d+descriptorLen], t)
	d += descriptorLen
	putMonitorRange(e[d : d+descriptorLen])
	d += descriptorLen
	putMonitorName(e[d:d+descriptorLen], name)
	d += descriptorLen
	putDummy(e[d : d+descriptorLen])

	e[offExtensions] = 0
	e[offChecksum] = checksum(e[:offChecksum])
	return e, nil
}

func checksum(b []byte) byte {
	var sum byte
	for _, v := range b {
		sum += v
	}
	return byte(256 - int(sum))
}

// ---- DESCRIPTORS ----

// Widths of the detailed timing descriptor fields.
const (
	maxPixelClock = 0xFFFF // 16 bits, zero marks a non-timing descriptor
	maxActive     = 0xFFF  // 12 bits
	maxHSync      = 0x3FF  // 10 bits
	maxVSync      = 0x3F   // 6 bits
)

// checkFields rejects timings the detailed timing descriptor cannot hold.
func checkFields(t Timing) error {
	if t.PixelClock == 0 || t.PixelClock > maxPixelClock {
		return fmt.Errorf("edid: pixel clock %d outside 1-%d (10 kHz units)", t.PixelClock, maxPixelClock)
	}
	fields := []struct {
		name string
		v    uint32
		max  uint32
	}{
		{"h_active", t.HActive, maxActive},
		{"h_blanking", t.HBlanking, maxActive},
		{"v_active", t.VActive, maxActive},
		{"v_blanking", t.VBlanking, maxActive},
		{"h_sync_offset", t.HSyncOffset, maxHSync},
		{"h_sync_width", t.HSyncWidth, maxHSync},
		{"v_sync_offset", t.VSyncOffset, maxVSync},
		{"v_sync_width", t.VSyncWidth, maxVSync},
	}
	for _, f := range fields {
		if f.v > f.max {
			return fmt.Errorf("edid: %s %d exceeds %d", f.name, f.v, f.max)
		}
	}
	return nil
}

func putDetailedTiming(d []byte, t Timing) {
	d[0] = byte(t.PixelClock)
	d[1] = byte(t.PixelClock >> 8)

	d[2] = byte(t.HActive)
	d[3] = byte(t.HBlanking)
	d[4] = byte((t.HActive>>8)&0x0F)<<4 | byte((t.HBlanking>>8)&0x0F)

	d[5] = byte(t.VActive)
	d[6] = byte(t.VBlanking)
	d[7] = byte((t.VActive>>8)&0x0F)<<4 | byte((t.VBlanking>>8)&0x0F)

	d[8] = byte(t.HSyncOffset)
	d[9] = byte(t.HSyncWidth)
	d[10] = byte(t.VSyncOffset&0x0F)<<4 | byte(t.VSyncWidth&0x0F)
	d[11] = byte((t.HSyncOffset>>8)&0x03)<<6 |
		byte((t.HSyncWidth>>8)&0x03)<<4 |
		byte((t.VSyncOffset>>4)&0x03)<<2 |
		byte((t.VSyncWidth>>4)&0x03)

	// image size and borders left at zero
	d[17] = Digital | t.Flags
}

func putDescriptorHeader(d []byte, tag byte) {
	d[0], d[1], d[2] = 0, 0, 0
	d[3] = tag
	d[4] = 0
}

func putMonitorName(d []byte, name string) {
	putDescriptorHeader(d, DescriptorMonitorName)

	data := d[5:]
	n := 0
	for i := 0; i < len(name) && n < maxDescriptorData; i++ {
		c := name[i]
		if c < 0x20 || c > 0x7E {
			continue
		}
		data[n] = c
		n++
	}
	if n < maxDescriptorData {
		data[n] = 0x0A
		n++
	}
	for ; n < maxDescriptorData; n++ {
		data[n] = 0x20
	}
}

func putMonitorRange(d []byte) {
	putDescriptorHeader(d, DescriptorMonitorRange)
	d[5] = rangeVMinHz
	d[6] = rangeVMaxHz
	d[7] = rangeHMinKHz
	d[8] = rangeHMaxKHz
	d[9] = rangePclkMax10
	d[10] = 0 // no secondary timing formula
	d[11] = 0x0A
	for i := 12; i < descriptorLen; i++ {
		d[i] = 0x20
	}
}

func putDummy(d []byte) {
	putDescriptorHeader(d, DescriptorDummy)
	for i := 5; i < descriptorLen; i++ {
		d[i] = 0
	}
}
