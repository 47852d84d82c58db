// internal/csr/modbus/client.go
package modbus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// Client implements csr.Bus over a Modbus bridge.
// Each 32-bit CSR is a pair of holding registers, high half first:
//
//	reg = 2 * (addr - base) / 4
//
// It serializes requests because one handler carries one transaction.
type Client struct {
	mu      sync.Mutex
	handler io.Closer
	client  modbus.Client
	base    uint32
}

// Config is minimal transport config.
type Config struct {
	// RTU selects a serial bridge; Endpoint is then a device path.
	RTU      bool
	Endpoint string
	BaudRate int
	SlaveID  uint8
	Timeout  time.Duration
	Base     uint32
}

// New creates a connected bridge client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("csr modbus: endpoint required")
	}

	var (
		handler modbus.ClientHandler
		closer  io.Closer
	)

	if cfg.RTU {
		h := modbus.NewRTUClientHandler(cfg.Endpoint)
		h.BaudRate = cfg.BaudRate
		h.DataBits = 8
		h.Parity = "N"
		h.StopBits = 1
		h.SlaveId = cfg.SlaveID
		h.Timeout = cfg.Timeout
		if err := h.Connect(); err != nil {
			return nil, fmt.Errorf("csr modbus: connect %s: %w", cfg.Endpoint, err)
		}
		handler, closer = h, h
	} else {
		h := modbus.NewTCPClientHandler(cfg.Endpoint)
		h.SlaveId = cfg.SlaveID
		h.Timeout = cfg.Timeout
		if err := h.Connect(); err != nil {
			return nil, fmt.Errorf("csr modbus: connect %s: %w", cfg.Endpoint, err)
		}
		handler, closer = h, h
	}

	return &Client{
		handler: closer,
		client:  modbus.NewClient(handler),
		base:    cfg.Base,
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// ---- csr.Bus interface ----

func (c *Client) Read(addr uint32) (uint32, error) {
	reg, err := c.register(addr)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	b, err := c.client.ReadHoldingRegisters(reg, 2)
	if err != nil {
		return 0, fmt.Errorf("csr modbus: read 0x%08x: %w", addr, err)
	}
	return decodeWord(b)
}

func (c *Client) Write(addr uint32, value uint32) error {
	reg, err := c.register(addr)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.client.WriteMultipleRegisters(reg, 2, encodeWord(value)); err != nil {
		return fmt.Errorf("csr modbus: write 0x%08x: %w", addr, err)
	}
	return nil
}

// ---- helpers (pure geometry) ----

func (c *Client) register(addr uint32) (uint16, error) {
	return registerFor(c.base, addr)
}

func registerFor(base, addr uint32) (uint16, error) {
	if addr%4 != 0 {
		return 0, fmt.Errorf("csr modbus: unaligned address 0x%08x", addr)
	}
	if addr < base {
		return 0, fmt.Errorf("csr modbus: address 0x%08x below base 0x%08x", addr, base)
	}
	reg := uint64(addr-base) / 4 * 2
	if reg > 0xFFFE {
		return 0, fmt.Errorf("csr modbus: address 0x%08x outside bridge window", addr)
	}
	return uint16(reg), nil
}

func encodeWord(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func decodeWord(b []byte) (uint32, error) {
	if len(b) < 4 {
		return 0, fmt.Errorf("csr modbus: short response (%d bytes)", len(b))
	}
	return binary.BigEndian.Uint32(b[:4]), nil
}
