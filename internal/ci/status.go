// internal/ci/status.go
package ci

import (
	"github.com/tamzrod/opsis-console/internal/status"
)

func (c *Console) statusEnable() {
	c.puts("Enabling status")
	c.statusEnabled = true
}

func (c *Console) statusDisable() {
	c.puts("Disabling status")
	c.statusEnabled = false
}

// statusPrint prints one status block.
func (c *Console) statusPrint() {
	s, err := c.status.Collect()
	if err != nil {
		c.fail(err)
		return
	}
	status.Format(c.io, s)
}

// statusService prints the block, then a blank line, once per second
// while periodic status is on.
func (c *Console) statusService() {
	if !elapsed(c.clock, &c.lastStatus, c.clockHz) {
		return
	}
	if c.statusEnabled {
		c.statusPrint()
		c.puts("")
	}
}
