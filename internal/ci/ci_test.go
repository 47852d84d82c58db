// internal/ci/ci_test.go
package ci

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/tamzrod/opsis-console/internal/board"
	"github.com/tamzrod/opsis-console/internal/config"
	"github.com/tamzrod/opsis-console/internal/edid"
	"github.com/tamzrod/opsis-console/internal/processor"
)

// ---- fakes ----

type fakeTransport struct {
	in     []byte
	out    bytes.Buffer
	telnet bool
}

func (f *fakeTransport) PollReady() bool { return len(f.in) > 0 }

func (f *fakeTransport) ReadChar() byte {
	if len(f.in) == 0 {
		return 0
	}
	c := f.in[0]
	f.in = f.in[1:]
	return c
}

func (f *fakeTransport) Write(p []byte) (int, error) { return f.out.Write(p) }
func (f *fakeTransport) TelnetActive() bool          { return f.telnet }

// calls is the ordered log of collaborator calls.
type calls []string

func (c *calls) add(format string, args ...any) { *c = append(*c, fmt.Sprintf(format, args...)) }

type fakeProcessor struct {
	log  *calls
	out0 processor.Source
	out1 processor.Source
	enc  processor.Source
}

func (p *fakeProcessor) ListModes(buf []byte) { processor.ListModes(buf) }

func (p *fakeProcessor) Start(mode int) error {
	p.log.add("start(%d)", mode)
	return nil
}

func (p *fakeProcessor) Update() error {
	p.log.add("update")
	return nil
}

func (p *fakeProcessor) SetHDMIOut0Source(s processor.Source) {
	p.out0 = s
	p.log.add("out0=%s", processor.SourceName(s))
}

func (p *fakeProcessor) SetHDMIOut1Source(s processor.Source) {
	p.out1 = s
	p.log.add("out1=%s", processor.SourceName(s))
}

func (p *fakeProcessor) SetEncoderSource(s processor.Source) {
	p.enc = s
	p.log.add("encoder=%s", processor.SourceName(s))
}

func (p *fakeProcessor) HActive() uint32                      { return 1280 }
func (p *fakeProcessor) VActive() uint32                      { return 720 }
func (p *fakeProcessor) Refresh() uint32                      { return 60 }
func (p *fakeProcessor) HDMIOut0Source() processor.Source     { return p.out0 }
func (p *fakeProcessor) HDMIOut1Source() processor.Source     { return p.out1 }
func (p *fakeProcessor) EncoderSource() processor.Source      { return p.enc }
func (p *fakeProcessor) SourceName(s processor.Source) string { return processor.SourceName(s) }

type fakeStore struct{ log *calls }

func (s *fakeStore) Set(key config.Key, value int) error {
	s.log.add("config_set(%s,%d)", key, value)
	return nil
}

type fakeClock struct{ now uint64 }

func (c *fakeClock) Ticks() uint64 { return c.now }

// ---- harness ----

const testHz = 1000

type harness struct {
	con   *Console
	tr    *fakeTransport
	calls *calls
	clock *fakeClock
	board *board.Board
	sim   *board.Sim
}

func newHarness(t *testing.T, p board.Presence) *harness {
	t.Helper()
	sim := board.NewSim(p)
	b := board.New(sim, p)
	log := &calls{}
	h := &harness{
		tr:    &fakeTransport{telnet: true},
		calls: log,
		clock: &fakeClock{},
		board: b,
		sim:   sim,
	}
	h.con = New(Config{
		Transport: h.tr,
		Board:     b,
		Processor: &fakeProcessor{log: log},
		Store:     &fakeStore{log: log},
		Clock:     h.clock,
		ClockHz:   testHz,
		BurstBits: board.BurstBits(4, 4),
		HPDSpin:   16,
	})
	return h
}

// run types line and services the console once per character.
func (h *harness) run(line string) string {
	h.tr.out.Reset()
	h.tr.in = append(h.tr.in, line...)
	for h.tr.PollReady() {
		h.con.Service()
	}
	return h.tr.out.String()
}

// ---- end to end ----

func TestHelp(t *testing.T) {
	h := newHarness(t, board.Full())
	out := h.run("help\n")

	if !strings.HasPrefix(out, "Available commands:\r\n") {
		t.Fatalf("missing header: %q", out)
	}
	if !strings.HasSuffix(out, "\r\n\r\n"+Prompt) {
		t.Fatalf("missing blank line and prompt: %q", out)
	}
	for _, want := range []string{
		"help                           - this command\r\n",
		"video_matrix connect <source>  - connect video source to video sink\r\n",
		"output1 off                    - disable output1\r\n",
		"encoder fps <fps>              - configure target fps\r\n",
		"mdio_status                    - show mdio status\r\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("help lacks %q", want)
		}
	}
}

func TestHelp_HidesAbsentSubsystems(t *testing.T) {
	h := newHarness(t, board.Presence{HDMIIn0: true, HDMIOut0: true})
	out := h.run("help\n")

	for _, absent := range []string{"output1", "encoder", "mdio", "debug ddr", "debug dna"} {
		if strings.Contains(out, absent) {
			t.Fatalf("help mentions absent %q", absent)
		}
	}
	if !strings.Contains(out, "output0 on") {
		t.Fatalf("help lacks output0")
	}
}

func TestHelp_Subcommand(t *testing.T) {
	h := newHarness(t, board.Full())
	out := h.run("help video_mode\n")

	want := "Available commands:\r\n" +
		"video_mode list                - list available video modes\r\n" +
		"video_mode <mode>              - select video mode\r\n" +
		"\r\n" + Prompt
	if out != want {
		t.Fatalf("got %q", out)
	}
}

func TestConnect(t *testing.T) {
	h := newHarness(t, board.Full())
	out := h.run("video_matrix connect input0 output1\n")

	if out != "Connecting input0 to output1\r\n"+Prompt {
		t.Fatalf("output: %q", out)
	}
	if got := strings.Join(*h.calls, ","); got != "out1=input0,update" {
		t.Fatalf("calls: %s", got)
	}
}

func TestConnect_EveryPair(t *testing.T) {
	for _, src := range []string{"input0", "input1", "pattern"} {
		for _, sink := range []string{"output0", "output1", "encoder"} {
			h := newHarness(t, board.Full())
			h.run("video_matrix connect " + src + " " + sink + "\n")

			slot := map[string]string{"output0": "out0", "output1": "out1", "encoder": "encoder"}[sink]
			want := slot + "=" + src + ",update"
			if got := strings.Join(*h.calls, ","); got != want {
				t.Fatalf("%s -> %s: calls %s, want %s", src, sink, got, want)
			}
		}
	}
}

func TestConnect_UnknownSource(t *testing.T) {
	h := newHarness(t, board.Full())
	out := h.run("video_matrix connect bogus output0\n")

	if !strings.HasPrefix(out, "Unknown video source: 'bogus'\r\nvideo_matrix list") {
		t.Fatalf("output: %q", out)
	}
	if len(*h.calls) != 0 {
		t.Fatalf("unexpected calls: %v", *h.calls)
	}
}

func TestConnect_UnknownBoth(t *testing.T) {
	h := newHarness(t, board.Full())
	out := h.run("video_matrix connect\n")

	if !strings.HasPrefix(out, "Unknown video source: ''\r\nUnknown video sink: ''\r\n") {
		t.Fatalf("output: %q", out)
	}
	if len(*h.calls) != 0 {
		t.Fatalf("unexpected calls: %v", *h.calls)
	}
}

func TestConnect_MissingSink(t *testing.T) {
	h := newHarness(t, board.Presence{HDMIOut0: true})
	out := h.run("video_matrix connect pattern encoder\n")

	if out != "encoder is missing.\r\n"+Prompt {
		t.Fatalf("output: %q", out)
	}
	if len(*h.calls) != 0 {
		t.Fatalf("unexpected calls: %v", *h.calls)
	}
}

func TestVideoModeSet(t *testing.T) {
	h := newHarness(t, board.Full())
	out := h.run("video_mode 2\n")

	buf := make([]byte, processor.ModeCount()*processor.DescLen)
	processor.ListModes(buf)
	if out != "Setting video mode to "+processor.Descriptor(buf, 2)+"\r\n"+Prompt {
		t.Fatalf("output: %q", out)
	}
	if got := strings.Join(*h.calls, ","); got != "config_set(resolution,2),start(2)" {
		t.Fatalf("calls: %s", got)
	}
}

func TestVideoModeSet_OutOfRangeIsSilent(t *testing.T) {
	h := newHarness(t, board.Full())
	for _, arg := range []string{"99", "-1"} {
		out := h.run("video_mode " + arg + "\n")
		if out != Prompt {
			t.Fatalf("%s: output %q", arg, out)
		}
	}
	if len(*h.calls) != 0 {
		t.Fatalf("unexpected calls: %v", *h.calls)
	}
}

func TestVideoModeSet_NonNumericIsModeZero(t *testing.T) {
	h := newHarness(t, board.Full())
	h.run("video_mode abc\n")
	if got := strings.Join(*h.calls, ","); got != "config_set(resolution,0),start(0)" {
		t.Fatalf("calls: %s", got)
	}
}

func TestVideoModeList(t *testing.T) {
	h := newHarness(t, board.Full())
	out := h.run("video_mode list\n")

	if !strings.HasPrefix(out, "Available video modes:\r\nmode 0: 640x480 @59.95Hz (VESA)\r\n") {
		t.Fatalf("output: %q", out)
	}
	if n := strings.Count(out, "mode "); n != processor.ModeCount() {
		t.Fatalf("listed %d modes", n)
	}
	if !strings.HasSuffix(out, "\r\n\r\n"+Prompt) {
		t.Fatalf("missing blank line: %q", out)
	}
}

func TestStatusPeriodic(t *testing.T) {
	h := newHarness(t, board.Full())

	if out := h.run("status on\n"); out != "Enabling status\r\n"+Prompt {
		t.Fatalf("output: %q", out)
	}
	if !h.con.StatusEnabled() {
		t.Fatalf("status not enabled")
	}

	// not yet a second
	h.tr.out.Reset()
	h.clock.now = testHz - 1
	h.con.Service()
	if h.tr.out.Len() != 0 {
		t.Fatalf("fired early: %q", h.tr.out.String())
	}

	h.clock.now = testHz
	h.con.Service()
	out := h.tr.out.String()
	if !strings.HasPrefix(out, "input0:  ") || !strings.HasSuffix(out, "Mbps\r\n\r\n") {
		t.Fatalf("block: %q", out)
	}

	// once per interval
	h.tr.out.Reset()
	h.con.Service()
	if h.tr.out.Len() != 0 {
		t.Fatalf("fired twice in one interval")
	}
}

func TestStatusOnce(t *testing.T) {
	h := newHarness(t, board.Full())
	out := h.run("status\n")

	want := "input0:  0x0 (@   0.00 MHz)\r\n" +
		"input1:  0x0 (@   0.00 MHz)\r\n" +
		"output0: off\r\n" +
		"output1: off\r\n" +
		"encoder: off\r\n" +
		"ddr: read:    0Mbps  write:    0Mbps  all:    0Mbps\r\n" +
		Prompt
	if out != want {
		t.Fatalf("got %q\nwant %q", out, want)
	}
}

func TestStatusOnce_EnabledOutput(t *testing.T) {
	h := newHarness(t, board.Presence{HDMIOut0: true})
	h.run("output0 on\n")
	h.run("video_matrix connect pattern output0\n")

	out := h.run("status\n")
	if out != "output0: 1280x720@60Hz from pattern (underflows: 0)\r\n"+Prompt {
		t.Fatalf("got %q", out)
	}
}

func TestUnknownCommandQuietsStatus(t *testing.T) {
	h := newHarness(t, board.Full())
	h.run("status on\n")

	if out := h.run("xyz\n"); out != Prompt {
		t.Fatalf("output: %q", out)
	}
	if h.con.StatusEnabled() {
		t.Fatalf("status still enabled")
	}
}

func TestEmptyLineOnlyPrompts(t *testing.T) {
	h := newHarness(t, board.Full())
	h.run("status on\n")

	if out := h.run("\n"); out != Prompt {
		t.Fatalf("output: %q", out)
	}
	if !h.con.StatusEnabled() {
		t.Fatalf("empty line disabled status")
	}
}

func TestStatusOff(t *testing.T) {
	h := newHarness(t, board.Full())
	h.run("status on\n")
	if out := h.run("status off\n"); out != "Disabling status\r\n"+Prompt {
		t.Fatalf("output: %q", out)
	}
	if h.con.StatusEnabled() {
		t.Fatalf("status still enabled")
	}
}

func TestOutputsAndEncoder(t *testing.T) {
	h := newHarness(t, board.Full())

	if out := h.run("output1 on\n"); out != "Enabling output1\r\n"+Prompt {
		t.Fatalf("output: %q", out)
	}
	if on, _ := h.board.Out1.Enabled(); !on {
		t.Fatalf("output1 not enabled")
	}
	h.run("output1 off\n")
	if on, _ := h.board.Out1.Enabled(); on {
		t.Fatalf("output1 not disabled")
	}
	if out := h.run("output0\n"); !strings.HasPrefix(out, "output0 on ") {
		t.Fatalf("bare output0 should show help: %q", out)
	}

	if out := h.run("encoder quality 85\n"); out != "Setting encoder quality to 85\r\n"+Prompt {
		t.Fatalf("output: %q", out)
	}
	if q, _ := h.board.Encoder.Quality(); q != 85 {
		t.Fatalf("quality: %d", q)
	}
	h.run("encoder fps 30\n")
	h.run("encoder on\n")
	if on, _ := h.board.Encoder.Enabled(); !on {
		t.Fatalf("encoder not enabled")
	}

	out := h.run("status\n")
	if !strings.Contains(out, "encoder: 1280x720 @ 30fps from input0 (q: 85)\r\n") {
		t.Fatalf("status: %q", out)
	}
}

func TestMissingSubsystems(t *testing.T) {
	h := newHarness(t, board.Presence{})

	cases := map[string]string{
		"output0 on\n":                          "hdmi_out0 is missing.\r\n",
		"output1 off\n":                         "hdmi_out1 is missing.\r\n",
		"encoder on\n":                          "encoder is missing.\r\n",
		"mdio_status\n":                         "mdio is missing.\r\n",
		"debug ddr\n":                           "ddr_bandwidth is missing.\r\n",
		"debug dna\n":                           "dna is missing.\r\n",
		"debug input0\n":                        "hdmi_in0 is missing.\r\n",
		"debug input1\n":                        "hdmi_in1 is missing.\r\n",
		"debug opsis_eeprom\n":                  "opsis_eeprom is missing.\r\n",
		"debug tofe_eeprom\n":                   "tofe_eeprom is missing.\r\n",
		"debug fx2_reboot x\n":                  "fx2 is missing.\r\n",
		"debug edid output0\n":                  "output0 port has no EDID capabilities\r\n",
		"video_matrix connect input0 output1\n": "hdmi_out1 is missing.\r\n",
		"hdp_toggle 0\n":                        "Toggling HDP on output0\r\nhdmi_in0 is missing.\r\nhdmi_in1 is missing.\r\n",
	}
	for in, want := range cases {
		if out := h.run(in); out != want+Prompt {
			t.Fatalf("%q: got %q, want %q", in, out, want+Prompt)
		}
	}
}

func TestHDPToggle(t *testing.T) {
	h := newHarness(t, board.Full())

	tm := processor.Modes[3]
	e, err := edid.Generate("TSD", [2]byte{}, 2016, "T", tm)
	if err != nil {
		t.Fatal(err)
	}
	if err := h.board.In1.WriteEDID(e); err != nil {
		t.Fatal(err)
	}

	out := h.run("hdp_toggle 1\n")
	if out != "Toggling HDP on output1\r\n"+Prompt {
		t.Fatalf("output: %q", out)
	}

	// the simulated source re-read the EDID on the pulse
	hres, vres, _ := h.board.In1.Resolution()
	if hres != tm.HActive || vres != tm.VActive {
		t.Fatalf("input1 sees %dx%d", hres, vres)
	}
	if hres, _, _ := h.board.In0.Resolution(); hres != 0 {
		t.Fatalf("input0 was pulsed too")
	}
}

func TestDebug(t *testing.T) {
	h := newHarness(t, board.Full())

	if out := h.run("debug input0\n"); out != "HDMI Input 0 debug on\r\n"+Prompt {
		t.Fatalf("output: %q", out)
	}
	if !h.board.In0.Debug {
		t.Fatalf("debug flag not set")
	}
	if out := h.run("debug input0\n"); out != "HDMI Input 0 debug off\r\n"+Prompt {
		t.Fatalf("output: %q", out)
	}

	if out := h.run("debug dna\n"); out != "Board's DNA: 0123456789abcdef\r\n"+Prompt {
		t.Fatalf("output: %q", out)
	}

	h.sim.SetTraffic(1<<7, 0)
	if out := h.run("debug ddr\n"); !strings.HasPrefix(out, "read:") {
		t.Fatalf("output: %q", out)
	}

	out := h.run("debug edid output0\n")
	if !strings.Contains(out, "Name: SIM MONITOR\r\n") {
		t.Fatalf("edid dump: %q", out)
	}

	if out := h.run("debug fx2_reboot hdmi2usb\n"); out != "Rebooting FX2 into hdmi2usb\r\n"+Prompt {
		t.Fatalf("output: %q", out)
	}
	if out := h.run("debug fx2_reboot\n"); !strings.HasPrefix(out, "fx2 reset: 0  firmware: hdmi2usb") {
		t.Fatalf("output: %q", out)
	}

	if out := h.run("debug\n"); !strings.HasPrefix(out, "debug pll ") {
		t.Fatalf("bare debug should show help: %q", out)
	}
}

func TestDebug_FX2HDMI2USBNeedsEncoder(t *testing.T) {
	h := newHarness(t, board.Presence{FX2: true})
	out := h.run("debug fx2_reboot hdmi2usb\n")
	if !strings.HasPrefix(out, "fx2 reset:") {
		t.Fatalf("hdmi2usb without encoder should print debug: %q", out)
	}
}

func TestReboot(t *testing.T) {
	h := newHarness(t, board.Full())
	if out := h.run("reboot\n"); out != Prompt {
		t.Fatalf("output: %q", out)
	}
	if h.sim.Resets() != 1 {
		t.Fatalf("no reset")
	}
}

// ---- line editor ----

func TestLineEditor_SerialEcho(t *testing.T) {
	h := newHarness(t, board.Full())
	h.tr.telnet = false

	out := h.run("stx\x7fatus\r")
	if !strings.HasPrefix(out, "stx\x08 \x08atus\r\ninput0:") {
		t.Fatalf("echo: %q", out)
	}
}

func TestLineEditor_TelnetIgnoresCR(t *testing.T) {
	h := newHarness(t, board.Full())

	out := h.run("video_mode 3\r")
	if out != "" {
		t.Fatalf("CR terminated a telnet line: %q", out)
	}
	out = h.run("\n")
	if !strings.HasPrefix(out, "Setting video mode to 800x600") {
		t.Fatalf("output: %q", out)
	}
}

func TestLineEditor_OneCharPerService(t *testing.T) {
	h := newHarness(t, board.Full())
	h.tr.in = []byte("ab\n")

	h.con.Service()
	if len(h.tr.in) != 2 {
		t.Fatalf("consumed %d characters", 3-len(h.tr.in))
	}
}

func TestLineEditor_Bounded(t *testing.T) {
	var e lineEditor
	tr := &fakeTransport{telnet: true}
	tr.in = append(bytes.Repeat([]byte{'a'}, 100), '\n')

	var line []byte
	for tr.PollReady() {
		if l := e.feed(tr, &tr.out, true); l != nil {
			line = l
		}
	}
	if len(line) != LineSize-1 {
		t.Fatalf("line length %d", len(line))
	}
	if e.buf[LineSize-1] != 0 {
		t.Fatalf("line not terminated")
	}
	if e.ptr != 0 {
		t.Fatalf("cursor not reset")
	}
}

func TestLineEditor_BackspaceAtStart(t *testing.T) {
	var e lineEditor
	tr := &fakeTransport{in: []byte("\x08\x07x\n")}

	var line []byte
	for tr.PollReady() {
		if l := e.feed(tr, &tr.out, false); l != nil {
			line = l
		}
	}
	if string(line) != "x" {
		t.Fatalf("line %q", line)
	}
	if tr.out.String() != "x\r\n" {
		t.Fatalf("echo %q", tr.out.String())
	}
}

// ---- tokenizer / atoi ----

func TestTokenizer(t *testing.T) {
	line := []byte("video_matrix connect  input0")
	tok := &tokenizer{tail: line}

	for _, want := range []string{"video_matrix", "connect", "", "input0", "", ""} {
		if got := tok.next(); got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
	if line[12] != 0 || line[20] != 0 {
		t.Fatalf("spaces not overwritten: %q", line)
	}
}

func TestAtoi(t *testing.T) {
	cases := []struct {
		in string
		n  int
		ok bool
	}{
		{"2", 2, true},
		{"042", 42, true},
		{"-1", -1, true},
		{"", 0, false},
		{"abc", 0, false},
		{"12abc", 12, false},
		{"0x10", 0, false},
	}
	for _, c := range cases {
		n, ok := atoi(c.in)
		if n != c.n || ok != c.ok {
			t.Fatalf("atoi(%q) = %d,%v, want %d,%v", c.in, n, ok, c.n, c.ok)
		}
	}
}

// ---- scheduler ----

func TestElapsed(t *testing.T) {
	clk := &fakeClock{}
	var last uint64

	if elapsed(clk, &last, 10) {
		t.Fatalf("fired at 0")
	}
	clk.now = 10
	if !elapsed(clk, &last, 10) || last != 10 {
		t.Fatalf("did not fire at interval")
	}
	clk.now = 19
	if elapsed(clk, &last, 10) {
		t.Fatalf("fired early")
	}
	clk.now = 35
	if !elapsed(clk, &last, 10) || last != 35 {
		t.Fatalf("late tick lost")
	}
}
