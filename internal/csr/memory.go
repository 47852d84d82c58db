// internal/csr/memory.go
package csr

import "sync"

// Memory is an in-process register file.
// Hooks let a simulator give individual registers behaviour.
type Memory struct {
	mu      sync.Mutex
	regs    map[uint32]uint32
	onRead  map[uint32]func() uint32
	onWrite map[uint32]func(uint32)
}

func NewMemory() *Memory {
	return &Memory{
		regs:    map[uint32]uint32{},
		onRead:  map[uint32]func() uint32{},
		onWrite: map[uint32]func(uint32){},
	}
}

// OnRead makes reads of addr return fn().
func (m *Memory) OnRead(addr uint32, fn func() uint32) {
	m.mu.Lock()
	m.onRead[addr] = fn
	m.mu.Unlock()
}

// OnWrite calls fn after every write of addr.
func (m *Memory) OnWrite(addr uint32, fn func(uint32)) {
	m.mu.Lock()
	m.onWrite[addr] = fn
	m.mu.Unlock()
}

// Peek reads the stored value without hooks.
func (m *Memory) Peek(addr uint32) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regs[addr]
}

// Poke stores a value without hooks.
func (m *Memory) Poke(addr uint32, v uint32) {
	m.mu.Lock()
	m.regs[addr] = v
	m.mu.Unlock()
}

func (m *Memory) Read(addr uint32) (uint32, error) {
	if addr%4 != 0 {
		return 0, ErrUnaligned
	}
	m.mu.Lock()
	fn := m.onRead[addr]
	v := m.regs[addr]
	m.mu.Unlock()

	// hooks run unlocked so they may touch other registers
	if fn != nil {
		return fn(), nil
	}
	return v, nil
}

func (m *Memory) Write(addr uint32, value uint32) error {
	if addr%4 != 0 {
		return ErrUnaligned
	}
	m.mu.Lock()
	m.regs[addr] = value
	fn := m.onWrite[addr]
	m.mu.Unlock()

	if fn != nil {
		fn(value)
	}
	return nil
}
