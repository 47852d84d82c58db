// internal/status/collect.go
package status

import (
	"github.com/tamzrod/opsis-console/internal/board"
	"github.com/tamzrod/opsis-console/internal/processor"
)

// Pipeline is the processor state shown in the block.
type Pipeline interface {
	HActive() uint32
	VActive() uint32
	Refresh() uint32
	HDMIOut0Source() processor.Source
	HDMIOut1Source() processor.Source
	EncoderSource() processor.Source
	SourceName(processor.Source) string
}

// Collector reads a Snapshot from the board.
type Collector struct {
	Board     *board.Board
	Pipeline  Pipeline
	ClockHz   uint64
	BurstBits uint32
}

// Collect reads every present status source. Reading an output's
// underflow counter re-arms it.
func (c *Collector) Collect() (Snapshot, error) {
	var s Snapshot

	for i := 0; i < 2; i++ {
		in := c.Board.Input(i)
		if in == nil {
			continue
		}
		h, v, err := in.Resolution()
		if err != nil {
			return s, err
		}
		f, err := in.Frequency()
		if err != nil {
			return s, err
		}
		s.Inputs[i] = Input{Present: true, HRes: h, VRes: v, FreqHz: f}
	}

	sources := [2]processor.Source{c.Pipeline.HDMIOut0Source(), c.Pipeline.HDMIOut1Source()}
	for i := 0; i < 2; i++ {
		out := c.Board.Output(i)
		if out == nil {
			continue
		}
		o := Output{Present: true}
		on, err := out.Enabled()
		if err != nil {
			return s, err
		}
		if on {
			n, err := out.Underflows()
			if err != nil {
				return s, err
			}
			o.Enabled = true
			o.HActive = c.Pipeline.HActive()
			o.VActive = c.Pipeline.VActive()
			o.Refresh = c.Pipeline.Refresh()
			o.Source = c.Pipeline.SourceName(sources[i])
			o.Underflows = n
		}
		s.Outputs[i] = o
	}

	if enc := c.Board.Encoder; enc != nil {
		e := Encoder{Present: true}
		on, err := enc.Enabled()
		if err != nil {
			return s, err
		}
		if on {
			if e.FPS, err = enc.FPS(); err != nil {
				return s, err
			}
			if e.Quality, err = enc.Quality(); err != nil {
				return s, err
			}
			e.Enabled = true
			e.HActive = c.Pipeline.HActive()
			e.VActive = c.Pipeline.VActive()
			e.Source = c.Pipeline.SourceName(c.Pipeline.EncoderSource())
		}
		s.Encoder = e
	}

	if c.Board.DDR != nil {
		d, err := c.DDR()
		if err != nil {
			return s, err
		}
		s.DDR = d
	}
	return s, nil
}

// DDR latches and converts the bandwidth counters.
func (c *Collector) DDR() (DDR, error) {
	if err := c.Board.Require(board.NameDDR); err != nil {
		return DDR{}, err
	}
	nr, nw, err := c.Board.DDR.Bandwidth()
	if err != nil {
		return DDR{}, err
	}
	return DDR{
		Present:   true,
		ReadMbps:  board.Mbps(nr, c.ClockHz, c.BurstBits),
		WriteMbps: board.Mbps(nw, c.ClockHz, c.BurstBits),
	}, nil
}
