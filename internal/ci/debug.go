// internal/ci/debug.go
package ci

import (
	"errors"

	"github.com/tamzrod/opsis-console/internal/board"
	"github.com/tamzrod/opsis-console/internal/edid"
	"github.com/tamzrod/opsis-console/internal/status"
)

func (c *Console) mdio(cmd string) {
	if !c.require(board.NameMDIO) {
		return
	}
	m := c.board.MDIO
	var err error
	if cmd == "mdio_status" {
		err = m.Status(c.io)
	} else {
		err = m.Dump(c.io)
	}
	if err != nil {
		c.fail(err)
	}
}

func (c *Console) debug(tok *tokenizer) {
	var err error

	switch sub := tok.next(); sub {
	case "pll":
		err = c.board.PLL.Dump(c.io)

	case "input0", "input1":
		i := int(sub[len(sub)-1] - '0')
		if !c.require(board.InputName(i)) {
			return
		}
		in := c.board.Input(i)
		in.Debug = !in.Debug
		state := "off"
		if in.Debug {
			state = "on"
		}
		c.printf("HDMI Input %d debug %s\r\n", i, state)

	case "ddr":
		var d status.DDR
		if d, err = c.status.DDR(); err == nil {
			status.FormatDDR(c.io, d)
		}

	case "dna":
		if err = c.board.Require(board.NameDNA); err != nil {
			break
		}
		var id []byte
		if id, err = c.board.DNA.ID(); err == nil {
			c.printf("Board's DNA: %x\r\n", id)
		}

	case "opsis_eeprom":
		if err = c.board.Require(board.NameOpsisEEPROM); err != nil {
			break
		}
		err = c.board.OpsisEEPROM.Dump(c.io)

	case "tofe_eeprom":
		if err = c.board.Require(board.NameTofeEEPROM); err != nil {
			break
		}
		err = c.board.TofeEEPROM.Dump(c.io)

	case "fx2_reboot":
		err = c.fx2Reboot(tok.next())

	case "edid":
		c.debugEDID(tok.next())
		return

	default:
		c.helpDebug()
		return
	}

	if err != nil {
		var missing *board.MissingError
		if errors.As(err, &missing) {
			c.puts(missing.Error())
			return
		}
		c.fail(err)
	}
}

func (c *Console) fx2Reboot(fw string) error {
	if err := c.board.Require(board.NameFX2); err != nil {
		return err
	}
	f := c.board.FX2
	switch {
	case fw == "usbjtag":
		c.puts("Rebooting FX2 into usbjtag")
		return f.Reboot(board.FX2USBJTAG)
	case fw == "hdmi2usb" && c.board.Encoder != nil:
		c.puts("Rebooting FX2 into hdmi2usb")
		return f.Reboot(board.FX2HDMI2USB)
	}
	return f.Debug(c.io)
}

// debugEDID dumps the EDID of the monitor attached to an output.
func (c *Console) debugEDID(port string) {
	var out *board.HDMIOut
	switch port {
	case "output0":
		out = c.board.Out0
	case "output1":
		out = c.board.Out1
	}
	if out == nil || !out.HasEDID() {
		c.printf("%s port has no EDID capabilities\r\n", port)
		return
	}

	buf, err := out.ReadEDID()
	if err != nil {
		c.fail(err)
		return
	}
	if err := edid.Print(c.io, buf); err != nil {
		c.log.Warn("monitor EDID invalid", "port", port, "err", err)
	}
}
