// internal/ci/help.go
package ci

import "fmt"

// helpColumn is where the dash of a help line sits.
const helpColumn = 31

func (c *Console) helpLine(cmd, desc string) {
	c.puts(fmt.Sprintf("%-*s- %s", helpColumn, cmd, desc))
}

func (c *Console) helpVideoMatrix() {
	c.helpLine("video_matrix list", "list available video sinks and sources")
	c.helpLine("video_matrix connect <source>", "connect video source to video sink")
	c.puts("                     <sink>")
}

func (c *Console) helpVideoMode() {
	c.helpLine("video_mode list", "list available video modes")
	c.helpLine("video_mode <mode>", "select video mode")
}

func (c *Console) helpHDPToggle() {
	c.helpLine("hdp_toggle <source>", "toggle HDP on source for EDID rescan")
}

func (c *Console) helpStatus() {
	c.helpLine("status", "print status message once")
	c.helpLine("status <on/off>", "repeatedly print status message")
}

func (c *Console) helpOutput(i int) {
	c.helpLine(fmt.Sprintf("output%d on", i), fmt.Sprintf("enable output%d", i))
	c.helpLine(fmt.Sprintf("output%d off", i), fmt.Sprintf("disable output%d", i))
}

func (c *Console) helpEncoder() {
	c.helpLine("encoder on", "enable encoder")
	c.helpLine("encoder off", "disable encoder")
	c.helpLine("encoder quality <quality>", "select quality")
	c.helpLine("encoder fps <fps>", "configure target fps")
}

func (c *Console) helpDebug() {
	p := c.board.Presence
	c.helpLine("debug pll", "dump pll configuration")
	if p.DDRBandwidth {
		c.helpLine("debug ddr", "show DDR bandwidth")
	}
	if p.DNA {
		c.helpLine("debug dna", "show Board's DNA")
	}
	if p.EDIDOut0 || p.EDIDOut1 {
		c.helpLine("debug edid <output>", "dump monitor EDID")
	}
	if p.HDMIIn0 {
		c.helpLine("debug input0", "toggle HDMI input 0 debug")
	}
	if p.HDMIIn1 {
		c.helpLine("debug input1", "toggle HDMI input 1 debug")
	}
	if p.OpsisEEPROM {
		c.helpLine("debug opsis_eeprom", "dump Opsis EEPROM")
	}
	if p.TofeEEPROM {
		c.helpLine("debug tofe_eeprom", "dump TOFE EEPROM")
	}
	if p.FX2 {
		c.helpLine("debug fx2_reboot <firmware>", "reboot FX2 (usbjtag, hdmi2usb)")
	}
}

// help prints the full command list; sections of absent subsystems are left out.
func (c *Console) help() {
	p := c.board.Presence
	c.helpLine("help", "this command")
	c.helpLine("reboot", "reboot CPU")
	if p.MDIO {
		c.helpLine("mdio_dump", "dump mdio registers")
		c.helpLine("mdio_status", "show mdio status")
	}
	c.puts("")
	c.helpStatus()
	c.puts("")
	c.helpVideoMatrix()
	c.puts("")
	c.helpVideoMode()
	c.puts("")
	c.helpHDPToggle()
	c.puts("")
	if p.HDMIOut0 {
		c.helpOutput(0)
		c.puts("")
	}
	if p.HDMIOut1 {
		c.helpOutput(1)
		c.puts("")
	}
	if p.Encoder {
		c.helpEncoder()
		c.puts("")
	}
	c.helpDebug()
}

// helpFor prints the help of one command, or the full help.
func (c *Console) helpFor(cmd string) {
	p := c.board.Presence
	switch {
	case cmd == "video_matrix":
		c.helpVideoMatrix()
	case cmd == "video_mode":
		c.helpVideoMode()
	case cmd == "hdp_toggle":
		c.helpHDPToggle()
	case cmd == "status":
		c.helpStatus()
	case cmd == "output0" && p.HDMIOut0:
		c.helpOutput(0)
	case cmd == "output1" && p.HDMIOut1:
		c.helpOutput(1)
	case cmd == "encoder" && p.Encoder:
		c.helpEncoder()
	case cmd == "debug":
		c.helpDebug()
	default:
		c.help()
	}
}
