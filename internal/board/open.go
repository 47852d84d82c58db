// internal/board/open.go
package board

import (
	"github.com/tamzrod/opsis-console/internal/config"
	"github.com/tamzrod/opsis-console/internal/csr"
)

// OpenBus returns the register bus for c. The sim kind gets a simulated
// board carrying the subsystems in p.
func OpenBus(c config.BusConfig, p Presence) (csr.Bus, func() error, error) {
	if c.Kind == "" || c.Kind == config.BusSim {
		return NewSim(p), func() error { return nil }, nil
	}
	return csr.Build(c)
}
