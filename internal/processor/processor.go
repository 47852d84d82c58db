// internal/processor/processor.go
package processor

import (
	"fmt"
	"log/slog"

	"github.com/tamzrod/opsis-console/internal/board"
	"github.com/tamzrod/opsis-console/internal/edid"
)

// Source is a video producer.
type Source int

const (
	SourceHDMIIn0 Source = iota
	SourceHDMIIn1
	SourcePattern // last valid source
)

// Sink is a video consumer.
type Sink int

const (
	SinkHDMIOut0 Sink = iota
	SinkHDMIOut1
	SinkEncoder
)

var sourceNames = [...]string{
	SourceHDMIIn0: "input0",
	SourceHDMIIn1: "input1",
	SourcePattern: "pattern",
}

// SourceName returns the console name of s.
func SourceName(s Source) string {
	if s < 0 || s > SourcePattern {
		return "unknown"
	}
	return sourceNames[s]
}

// Identity is what the generated input EDID says about the board.
type Identity struct {
	Manufacturer string
	ProductCode  [2]byte
	Year         int
	Name         string
}

// Processor owns the current video mode and routing of the pipeline.
type Processor struct {
	board *board.Board
	id    Identity
	log   *slog.Logger

	mode    int
	hActive uint32
	vActive uint32
	refresh uint32

	out0Source    Source
	out1Source    Source
	encoderSource Source
}

// New returns a processor with every sink fed from input0 and no mode started.
func New(b *board.Board, id Identity, log *slog.Logger) *Processor {
	if log == nil {
		log = slog.Default()
	}
	return &Processor{
		board: b,
		id:    id,
		log:   log,
		mode:  -1,
	}
}

// ListModes fills buf; see the package level ListModes.
func (p *Processor) ListModes(buf []byte) { ListModes(buf) }

// Start reprograms the pipeline for mode: the timing is recorded, every
// present input is given a fresh EDID describing it and re-plugged, the
// outputs are resized, and routing is applied.
func (p *Processor) Start(mode int) error {
	if mode < 0 || mode >= ModeCount() {
		return fmt.Errorf("processor: mode %d out of range", mode)
	}
	t := Modes[mode]

	e, err := edid.Generate(p.id.Manufacturer, p.id.ProductCode, p.id.Year, p.id.Name, t)
	if err != nil {
		return fmt.Errorf("processor: mode %d: %w", mode, err)
	}

	p.mode = mode
	p.hActive = t.HActive
	p.vActive = t.VActive
	p.refresh = t.RefreshRate() / 100

	for i := 0; i < 2; i++ {
		in := p.board.Input(i)
		if in == nil {
			continue
		}
		if err := in.SetHPD(false); err != nil {
			return err
		}
		if err := in.WriteEDID(e); err != nil {
			return err
		}
		if err := in.SetHPD(true); err != nil {
			return err
		}
	}
	for i := 0; i < 2; i++ {
		out := p.board.Output(i)
		if out == nil {
			continue
		}
		if err := out.SetTiming(t.HActive, t.VActive); err != nil {
			return err
		}
	}

	p.log.Info("video mode started", "mode", mode, "timing", describe(t))
	return p.Update()
}

// Update writes the routing slots to the hardware.
func (p *Processor) Update() error {
	if out := p.board.Out0; out != nil {
		if err := out.SetSource(uint32(p.out0Source)); err != nil {
			return fmt.Errorf("processor: route output0: %w", err)
		}
	}
	if out := p.board.Out1; out != nil {
		if err := out.SetSource(uint32(p.out1Source)); err != nil {
			return fmt.Errorf("processor: route output1: %w", err)
		}
	}
	if enc := p.board.Encoder; enc != nil {
		if err := enc.SetSource(uint32(p.encoderSource)); err != nil {
			return fmt.Errorf("processor: route encoder: %w", err)
		}
	}
	return nil
}

func (p *Processor) SetHDMIOut0Source(s Source) { p.out0Source = s }
func (p *Processor) SetHDMIOut1Source(s Source) { p.out1Source = s }
func (p *Processor) SetEncoderSource(s Source)  { p.encoderSource = s }

func (p *Processor) SourceName(s Source) string { return SourceName(s) }

func (p *Processor) Mode() int       { return p.mode }
func (p *Processor) HActive() uint32 { return p.hActive }
func (p *Processor) VActive() uint32 { return p.vActive }
func (p *Processor) Refresh() uint32 { return p.refresh }

func (p *Processor) HDMIOut0Source() Source { return p.out0Source }
func (p *Processor) HDMIOut1Source() Source { return p.out1Source }
func (p *Processor) EncoderSource() Source  { return p.encoderSource }
