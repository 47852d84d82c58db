// internal/ci/clock.go
package ci

import "time"

// Clock is a free-running system clock tick counter.
type Clock interface {
	Ticks() uint64
}

// SystemClock counts ticks of a hz clock since it was created.
type SystemClock struct {
	hz    uint64
	start time.Time
}

func NewSystemClock(hz uint64) *SystemClock {
	return &SystemClock{hz: hz, start: time.Now()}
}

func (c *SystemClock) Ticks() uint64 {
	d := uint64(time.Since(c.start))
	return d/1e9*c.hz + d%1e9*c.hz/1e9
}

// elapsed returns true once per interval ticks, moving *last to now
// when it does.
func elapsed(clk Clock, last *uint64, interval uint64) bool {
	now := clk.Ticks()
	if now-*last >= interval {
		*last = now
		return true
	}
	return false
}
