// internal/ci/dispatch.go
package ci

// dispatch runs one command line. Keyword matches are exact; a missing
// argument reads as "" and so falls through to the command's help.
func (c *Console) dispatch(line []byte) {
	tok := &tokenizer{tail: line}
	cmd := tok.next()

	switch cmd {
	case "help":
		c.puts("Available commands:")
		c.helpFor(tok.next())
		c.puts("")

	case "reboot":
		if err := c.board.Ctrl.Reboot(); err != nil {
			c.fail(err)
		}

	case "mdio_status", "mdio_dump":
		c.mdio(cmd)

	case "video_matrix":
		switch tok.next() {
		case "list":
			c.videoMatrixList()
		case "connect":
			c.videoMatrixConnect(tok.next(), tok.next())
		default:
			c.helpVideoMatrix()
		}

	case "video_mode":
		arg := tok.next()
		if arg == "list" {
			c.videoModeList()
		} else {
			c.videoModeSet(c.parseInt(cmd, arg))
		}

	case "hdp_toggle":
		c.hdpToggle(c.parseInt(cmd, tok.next()))

	case "output0", "output1":
		c.output(cmd, tok.next())

	case "encoder":
		c.encoder(tok)

	case "status":
		switch tok.next() {
		case "on":
			c.statusEnable()
		case "off":
			c.statusDisable()
		default:
			c.statusPrint()
		}

	case "debug":
		c.debug(tok)

	default:
		// any other input quiets the periodic status
		if cmd != "" && c.statusEnabled {
			c.statusEnabled = false
			c.log.Debug("periodic status disabled by input", "input", cmd)
		}
	}
}
