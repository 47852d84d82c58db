// internal/transport/serial.go
package transport

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/goburrow/serial"
	"golang.org/x/term"
)

// StdinDevice selects the daemon's own terminal as the serial console.
const StdinDevice = "stdin"

// readTimeout lets the reader notice Close on a quiet line.
const readTimeout = 200 * time.Millisecond

// Serial is the local console. Typed characters are echoed by the console.
type Serial struct {
	*queue

	rw  io.ReadWriter
	log *slog.Logger

	closeOnce sync.Once
	closer    func() error
	done      chan struct{}
}

// OpenSerial opens device at baud, 8N1, or the daemon's terminal in raw
// mode when device is StdinDevice.
func OpenSerial(device string, baud int, log *slog.Logger) (*Serial, error) {
	if device == StdinDevice {
		return openStdio(log)
	}

	port, err := serial.Open(&serial.Config{
		Address:  device,
		BaudRate: baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  readTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("serial %s: %w", device, err)
	}
	log.Info("serial console open", "device", device, "baud", baud)
	return NewSerial(port, port.Close, log), nil
}

func openStdio(log *slog.Logger) (*Serial, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		log.Warn("stdin is not a terminal, console left in cooked mode")
		return NewSerial(stdio{}, nil, log), nil
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("serial stdin: raw mode: %w", err)
	}
	log.Info("serial console on stdin")
	restore := func() error { return term.Restore(fd, old) }
	return NewSerial(stdio{}, restore, log), nil
}

type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

// NewSerial starts reading rw. closer, if any, runs once on Close.
func NewSerial(rw io.ReadWriter, closer func() error, log *slog.Logger) *Serial {
	if log == nil {
		log = slog.Default()
	}
	s := &Serial{
		queue:  newQueue(),
		rw:     rw,
		log:    log,
		closer: closer,
		done:   make(chan struct{}),
	}
	go s.readLoop()
	return s
}

func (s *Serial) readLoop() {
	buf := make([]byte, 64)
	for {
		n, err := s.rw.Read(buf)
		for _, c := range buf[:n] {
			if !s.push(c) {
				s.log.Debug("serial input overrun, byte dropped")
			}
		}
		select {
		case <-s.done:
			return
		default:
		}
		if errors.Is(err, serial.ErrTimeout) {
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.Error("serial read failed", "err", err)
			}
			return
		}
	}
}

// Write sends p without waiting for the console loop.
func (s *Serial) Write(p []byte) (int, error) {
	return s.rw.Write(p)
}

func (s *Serial) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		if s.closer != nil {
			err = s.closer()
		}
	})
	return err
}
