// internal/ci/console.go
package ci

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/tamzrod/opsis-console/internal/board"
	"github.com/tamzrod/opsis-console/internal/config"
	"github.com/tamzrod/opsis-console/internal/processor"
	"github.com/tamzrod/opsis-console/internal/status"
	"github.com/tamzrod/opsis-console/internal/transport"
)

// Prompt is printed after every command.
const Prompt = "RUNTIME>"

// Transport is the active console transport.
type Transport interface {
	transport.Input
	io.Writer
	TelnetActive() bool
}

// Processor is the video pipeline the console drives.
type Processor interface {
	status.Pipeline
	ListModes(buf []byte)
	Start(mode int) error
	Update() error
	SetHDMIOut0Source(processor.Source)
	SetHDMIOut1Source(processor.Source)
	SetEncoderSource(processor.Source)
}

// Store persists configuration keys.
type Store interface {
	Set(key config.Key, value int) error
}

// Config wires a Console.
type Config struct {
	Transport Transport
	Board     *board.Board
	Processor Processor
	Store     Store
	Clock     Clock

	// ClockHz is the tick rate of Clock; status fires once per ClockHz ticks.
	ClockHz   uint64
	BurstBits uint32
	HPDSpin   int

	Log *slog.Logger
}

// Console is the command interpreter. All of its state is owned by the
// goroutine calling Service.
type Console struct {
	io     Transport
	board  *board.Board
	proc   Processor
	store  Store
	clock  Clock
	status *status.Collector

	clockHz uint64
	hpdSpin int
	log     *slog.Logger

	statusEnabled bool
	lastStatus    uint64
	editor        lineEditor
}

func New(cfg Config) *Console {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	c := &Console{
		io:      cfg.Transport,
		board:   cfg.Board,
		proc:    cfg.Processor,
		store:   cfg.Store,
		clock:   cfg.Clock,
		clockHz: cfg.ClockHz,
		hpdSpin: cfg.HPDSpin,
		log:     log.With("unit", "ci"),
	}
	c.status = &status.Collector{
		Board:     cfg.Board,
		Pipeline:  cfg.Processor,
		ClockHz:   cfg.ClockHz,
		BurstBits: cfg.BurstBits,
	}
	return c
}

// StatusEnabled reports the periodic status flag.
func (c *Console) StatusEnabled() bool { return c.statusEnabled }

// ---- OUTPUT ----

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.io, format, args...)
}

// puts prints s and a line end.
func (c *Console) puts(s string) {
	io.WriteString(c.io, s+"\r\n")
}

// require prints "<name> is missing." and reports false when the named
// subsystem is absent.
func (c *Console) require(name string) bool {
	if err := c.board.Require(name); err != nil {
		c.puts(err.Error())
		return false
	}
	return true
}

// fail reports a subsystem error and carries on.
func (c *Console) fail(err error) {
	c.log.Error("command failed", "err", err)
	c.printf("Error: %v\r\n", err)
}

// Prompt prints the prompt.
func (c *Console) Prompt() {
	io.WriteString(c.io, Prompt)
}

// ---- SERVICE ----

// Service does one round of console work: one status poll, at most one
// input character and at most one command. It never blocks on input.
func (c *Console) Service() {
	c.statusService()

	line := c.editor.feed(c.io, c.io, c.io.TelnetActive())
	if line == nil {
		return
	}
	c.dispatch(line)
	c.Prompt()
}

// Run calls Service until ctx is done, resting poll between rounds
// that found no input. A prompt is printed whenever the active transport
// changes.
func (c *Console) Run(ctx context.Context, poll time.Duration) {
	if poll <= 0 {
		poll = time.Millisecond
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	telnet := c.io.TelnetActive()
	c.Prompt()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if now := c.io.TelnetActive(); now != telnet {
			telnet = now
			c.log.Info("console transport changed", "telnet", telnet)
			c.editor = lineEditor{}
			c.Prompt()
		}

		c.Service()
		if c.io.PollReady() {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
