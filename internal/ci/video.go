// internal/ci/video.go
package ci

import (
	"github.com/tamzrod/opsis-console/internal/board"
	"github.com/tamzrod/opsis-console/internal/config"
	"github.com/tamzrod/opsis-console/internal/processor"
)

// ---- VIDEO MATRIX ----

func parseSource(tok string) (processor.Source, bool) {
	switch tok {
	case "input0":
		return processor.SourceHDMIIn0, true
	case "input1":
		return processor.SourceHDMIIn1, true
	case "pattern":
		return processor.SourcePattern, true
	}
	return 0, false
}

func parseSink(tok string) (processor.Sink, bool) {
	switch tok {
	case "output0":
		return processor.SinkHDMIOut0, true
	case "output1":
		return processor.SinkHDMIOut1, true
	case "encoder":
		return processor.SinkEncoder, true
	}
	return 0, false
}

func (c *Console) videoMatrixList() {
	p := c.board.Presence
	c.puts("Video sources:")
	if p.HDMIIn0 {
		c.puts("input0:")
		c.puts("  HDMI input 0")
	}
	if p.HDMIIn1 {
		c.puts("input1:")
		c.puts("  HDMI input 1")
	}
	c.puts("pattern:")
	c.puts("  Video pattern")
	c.puts(" ")
	c.puts("Video sinks:")
	if p.HDMIOut0 {
		c.puts("output0:")
		c.puts("  HDMI output 0")
	}
	if p.HDMIOut1 {
		c.puts("output1:")
		c.puts("  HDMI output 1")
	}
	if p.Encoder {
		c.puts("encoder:")
		c.puts("  JPEG encoder (USB output)")
	}
	c.puts(" ")
}

// videoMatrixConnect parses both names before touching anything; if
// either is unknown only the matrix help is shown.
func (c *Console) videoMatrixConnect(srcTok, sinkTok string) {
	src, srcOK := parseSource(srcTok)
	if !srcOK {
		c.printf("Unknown video source: '%s'\r\n", srcTok)
	}
	sink, sinkOK := parseSink(sinkTok)
	if !sinkOK {
		c.printf("Unknown video sink: '%s'\r\n", sinkTok)
	}
	if !srcOK || !sinkOK {
		c.helpVideoMatrix()
		return
	}
	c.connect(src, sink)
}

// connect routes src to sink and commits with a single processor update.
func (c *Console) connect(src processor.Source, sink processor.Sink) {
	if src < processor.SourceHDMIIn0 || src > processor.SourcePattern {
		return
	}
	name := c.proc.SourceName(src)

	switch sink {
	case processor.SinkHDMIOut0, processor.SinkHDMIOut1:
		if !c.require(board.OutputName(int(sink))) {
			return
		}
		c.printf("Connecting %s to output%d\r\n", name, int(sink))
		if sink == processor.SinkHDMIOut0 {
			c.proc.SetHDMIOut0Source(src)
		} else {
			c.proc.SetHDMIOut1Source(src)
		}
	case processor.SinkEncoder:
		if !c.require(board.NameEncoder) {
			return
		}
		c.printf("Connecting %s to encoder\r\n", name)
		c.proc.SetEncoderSource(src)
	default:
		return
	}

	if err := c.proc.Update(); err != nil {
		c.fail(err)
	}
}

// ---- VIDEO MODE ----

func (c *Console) videoModeList() {
	buf := make([]byte, processor.ModeCount()*processor.DescLen)
	c.proc.ListModes(buf)
	c.puts("Available video modes:")
	for i := 0; i < processor.ModeCount(); i++ {
		c.printf("mode %d: %s\r\n", i, processor.Descriptor(buf, i))
	}
	c.puts("")
}

// videoModeSet persists and starts mode. Out of range modes are ignored.
func (c *Console) videoModeSet(mode int) {
	if mode < 0 || mode >= processor.ModeCount() {
		c.log.Warn("video mode out of range, ignored", "mode", mode, "count", processor.ModeCount())
		return
	}

	buf := make([]byte, processor.ModeCount()*processor.DescLen)
	c.proc.ListModes(buf)
	c.printf("Setting video mode to %s\r\n", processor.Descriptor(buf, mode))

	if err := c.store.Set(config.KeyResolution, mode); err != nil {
		c.fail(err)
	}
	if err := c.proc.Start(mode); err != nil {
		c.fail(err)
	}
}

// ---- HPD ----

// spinSink keeps the HPD delay loop from being optimised away.
var spinSink int

func (c *Console) spin() {
	for i := 0; i < c.hpdSpin; i++ {
		spinSink++
	}
}

// hdpToggle pulses hotplug detect on input source so the attached
// source re-reads the EDID.
func (c *Console) hdpToggle(source int) {
	c.printf("Toggling HDP on output%d\r\n", source)
	for i := 0; i < 2; i++ {
		if !c.require(board.InputName(i)) || source != i {
			continue
		}
		in := c.board.Input(i)
		if err := in.SetHPD(false); err != nil {
			c.fail(err)
			return
		}
		c.spin()
		if err := in.SetHPD(true); err != nil {
			c.fail(err)
			return
		}
	}
}

// ---- OUTPUTS / ENCODER ----

func (c *Console) output(cmd, arg string) {
	i := 0
	if cmd == "output1" {
		i = 1
	}
	if !c.require(board.OutputName(i)) {
		return
	}
	out := c.board.Output(i)

	var on bool
	switch arg {
	case "on":
		on = true
		c.printf("Enabling %s\r\n", cmd)
	case "off":
		c.printf("Disabling %s\r\n", cmd)
	default:
		c.helpOutput(i)
		return
	}
	if err := out.SetEnabled(on); err != nil {
		c.fail(err)
	}
}

func (c *Console) encoder(tok *tokenizer) {
	if !c.require(board.NameEncoder) {
		return
	}
	enc := c.board.Encoder

	var err error
	switch tok.next() {
	case "on":
		c.puts("Enabling encoder")
		err = enc.Enable(true)
	case "off":
		c.puts("Disabling encoder")
		err = enc.Enable(false)
	case "quality":
		q := c.parseInt("encoder quality", tok.next())
		c.printf("Setting encoder quality to %d\r\n", q)
		err = enc.SetQuality(q)
	case "fps":
		f := c.parseInt("encoder fps", tok.next())
		c.printf("Setting encoder fps to %d\r\n", f)
		err = enc.SetFPS(f)
	default:
		c.helpEncoder()
	}
	if err != nil {
		c.fail(err)
	}
}
