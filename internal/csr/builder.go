// internal/csr/builder.go
package csr

import (
	"fmt"
	"time"

	cfg "github.com/tamzrod/opsis-console/internal/config"
	cmodbus "github.com/tamzrod/opsis-console/internal/csr/modbus"
)

// Build constructs the register bus named by the configuration.
// For the simulator the returned Bus is a *Memory; the caller attaches
// behaviour to it.
func Build(c cfg.BusConfig) (Bus, func() error, error) {
	switch c.Kind {
	case "", cfg.BusSim:
		return NewMemory(), func() error { return nil }, nil

	case cfg.BusModbusTCP, cfg.BusModbusRTU:
		cl, err := cmodbus.New(cmodbus.Config{
			RTU:      c.Kind == cfg.BusModbusRTU,
			Endpoint: c.Endpoint,
			BaudRate: c.BaudRate,
			SlaveID:  c.SlaveID,
			Timeout:  time.Duration(c.TimeoutMs) * time.Millisecond,
			Base:     c.Base,
		})
		if err != nil {
			return nil, nil, err
		}
		return cl, cl.Close, nil
	}

	return nil, nil, fmt.Errorf("csr: unknown bus kind %q", c.Kind)
}
