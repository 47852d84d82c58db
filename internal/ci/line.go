// internal/ci/line.go
package ci

import (
	"bytes"
	"io"

	"github.com/tamzrod/opsis-console/internal/transport"
)

// LineSize is the line buffer capacity, terminator included.
const LineSize = 64

// lineEditor accumulates one command line across Service calls.
type lineEditor struct {
	buf [LineSize]byte
	ptr int
}

// feed consumes at most one character from in. It returns the completed
// line, zero terminated in the editor's buffer, or nil when no line is
// complete yet. The returned slice excludes the terminator and is valid
// until the next feed.
//
// The serial console echoes typed characters and erases on backspace;
// a Telnet terminal echoes for itself.
func (e *lineEditor) feed(in transport.Input, echo io.Writer, telnet bool) []byte {
	if !in.PollReady() {
		return nil
	}
	c := in.ReadChar()

	switch c {
	case 0x7f, 0x08:
		if e.ptr > 0 {
			e.ptr--
			if !telnet {
				io.WriteString(echo, "\x08 \x08")
			}
		}
		return nil
	case 0x07:
		return nil
	case '\r':
		if telnet {
			return nil
		}
		return e.terminate(echo)
	case '\n':
		if telnet {
			return e.terminate(nil)
		}
		return e.terminate(echo)
	}

	if e.ptr >= LineSize-1 {
		return nil
	}
	if !telnet {
		echo.Write([]byte{c})
	}
	e.buf[e.ptr] = c
	e.ptr++
	return nil
}

func (e *lineEditor) terminate(echo io.Writer) []byte {
	n := e.ptr
	e.buf[n] = 0
	e.ptr = 0
	if echo != nil {
		io.WriteString(echo, "\r\n")
	}
	return e.buf[:n]
}

// ---- TOKENIZER ----

// tokenizer splits a line on single spaces. It consumes the line: every
// space it passes is overwritten with a terminator.
type tokenizer struct {
	tail []byte
}

// next returns the token up to the next space, or the whole remaining
// tail. An exhausted tokenizer yields "".
func (t *tokenizer) next() string {
	i := bytes.IndexByte(t.tail, ' ')
	if i < 0 {
		tok := string(t.tail)
		t.tail = t.tail[len(t.tail):]
		return tok
	}
	t.tail[i] = 0
	tok := string(t.tail[:i])
	t.tail = t.tail[i+1:]
	return tok
}
