// internal/csr/bus.go
package csr

import "errors"

// Bus is word access to the board's CSR space.
// Addresses are byte addresses of 32-bit registers.
type Bus interface {
	Read(addr uint32) (uint32, error)
	Write(addr uint32, value uint32) error
}

// ErrUnaligned is returned for addresses that are not word aligned.
var ErrUnaligned = errors.New("csr: unaligned address")

// ReadBytes reads n consecutive byte-wide CSRs starting at addr.
// LiteX exposes multi-byte fields one byte per 32-bit word.
func ReadBytes(b Bus, addr uint32, n int) ([]byte, error) {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		v, err := b.Read(addr + uint32(4*i))
		if err != nil {
			return nil, err
		}
		out[i] = byte(v)
	}
	return out, nil
}

// WriteBytes is the inverse of ReadBytes.
func WriteBytes(b Bus, addr uint32, data []byte) error {
	for i, v := range data {
		if err := b.Write(addr+uint32(4*i), uint32(v)); err != nil {
			return err
		}
	}
	return nil
}
