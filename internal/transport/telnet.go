// internal/transport/telnet.go
package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
)

// Telnet protocol bytes.
const (
	tnIAC  byte = 255
	tnDONT byte = 254
	tnDO   byte = 253
	tnWONT byte = 252
	tnWILL byte = 251
	tnSB   byte = 250
	tnSE   byte = 240
)

// Line states.
const (
	tnStateData = iota
	tnStateCR   // CR seen, drop a following NUL
	tnStateIAC
	tnStateWILL
	tnStateWONT
	tnStateDO
	tnStateDONT
	tnStateSB
	tnStateSBIAC
)

const writeTimeout = time.Second

const busyMessage = "Console busy\r\n"

// Telnet serves a single console session. While a session is connected it
// is the active transport. Echo is left to the remote terminal.
type Telnet struct {
	*queue

	listener net.Listener
	log      *slog.Logger

	mu   sync.Mutex
	conn net.Conn

	wg        sync.WaitGroup
	shutdown  chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// ListenTelnet opens the listener. Call Serve to accept sessions.
func ListenTelnet(address string, log *slog.Logger) (*Telnet, error) {
	if log == nil {
		log = slog.Default()
	}
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on address %s: %w", address, err)
	}
	log.Info("telnet console listening", "addr", listener.Addr().String())

	return &Telnet{
		queue:    newQueue(),
		listener: listener,
		log:      log,
		shutdown: make(chan struct{}),
	}, nil
}

// Addr is the bound listen address.
func (t *Telnet) Addr() net.Addr { return t.listener.Addr() }

// Serve accepts sessions until ctx is done or Close is called.
func (t *Telnet) Serve(ctx context.Context) {
	go func() {
		select {
		case <-ctx.Done():
			t.Close()
		case <-t.shutdown:
		}
	}()

	for {
		conn, err := t.listener.Accept()
		if err != nil {
			select {
			case <-t.shutdown:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			t.log.Warn("telnet accept failed", "err", err)
			continue
		}

		t.mu.Lock()
		busy := t.conn != nil
		if !busy {
			t.conn = conn
		}
		t.mu.Unlock()

		if busy {
			t.log.Info("telnet session refused, console busy", "remote", conn.RemoteAddr().String())
			conn.Write([]byte(busyMessage))
			conn.Close()
			continue
		}

		t.log.Info("telnet session connected", "remote", conn.RemoteAddr().String())
		t.queue.drain()
		t.wg.Add(1)
		go t.handleClient(conn)
	}
}

// Active reports whether a session is connected.
func (t *Telnet) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil
}

// Write sends p to the session, escaping IAC. Without a session the
// bytes are discarded.
func (t *Telnet) Write(p []byte) (int, error) {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return len(p), nil
	}

	out := make([]byte, 0, len(p))
	for _, c := range p {
		if c == tnIAC {
			out = append(out, tnIAC)
		}
		out = append(out, c)
	}

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if _, err := conn.Write(out); err != nil {
		t.log.Warn("telnet write failed, dropping session", "err", err)
		t.drop(conn)
		return 0, err
	}
	return len(p), nil
}

// Close stops the listener and the current session.
func (t *Telnet) Close() error {
	t.closeOnce.Do(func() {
		close(t.shutdown)
		t.closeErr = t.listener.Close()

		t.mu.Lock()
		conn := t.conn
		t.mu.Unlock()
		if conn != nil {
			conn.Close()
		}

		done := make(chan struct{})
		go func() {
			t.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.log.Warn("timed out waiting for telnet session to finish")
		}
	})
	return t.closeErr
}

func (t *Telnet) drop(conn net.Conn) {
	t.mu.Lock()
	if t.conn == conn {
		t.conn = nil
	}
	t.mu.Unlock()
	conn.Close()
}

// handleClient strips protocol sequences and queues data bytes.
// Option requests are refused.
func (t *Telnet) handleClient(conn net.Conn) {
	defer t.wg.Done()
	defer func() {
		t.drop(conn)
		t.log.Info("telnet session closed", "remote", conn.RemoteAddr().String())
	}()

	s := &tnState{conn: conn}
	buffer := make([]byte, 1024)
	for {
		num, err := conn.Read(buffer)
		if err != nil {
			return
		}
		for _, c := range s.filter(buffer[:num]) {
			if !t.push(c) {
				t.log.Debug("telnet input overrun, byte dropped")
			}
		}
	}
}

type tnState struct {
	state int
	conn  interface{ Write([]byte) (int, error) }
}

// filter runs the line state machine over in and returns the data bytes.
func (s *tnState) filter(in []byte) []byte {
	var out []byte
	for _, input := range in {
		switch s.state {
		case tnStateCR:
			s.state = tnStateData
			if input == 0 {
				continue
			}
			fallthrough
		case tnStateData:
			switch input {
			case tnIAC:
				s.state = tnStateIAC
			case '\r':
				out = append(out, input)
				s.state = tnStateCR
			default:
				out = append(out, input)
			}

		case tnStateIAC:
			switch input {
			case tnIAC:
				out = append(out, tnIAC)
				s.state = tnStateData
			case tnWILL:
				s.state = tnStateWILL
			case tnWONT:
				s.state = tnStateWONT
			case tnDO:
				s.state = tnStateDO
			case tnDONT:
				s.state = tnStateDONT
			case tnSB:
				s.state = tnStateSB
			default:
				// single byte command (GA, NOP, BRK ...)
				s.state = tnStateData
			}

		case tnStateWILL:
			s.sendOption(tnDONT, input)
			s.state = tnStateData
		case tnStateDO:
			s.sendOption(tnWONT, input)
			s.state = tnStateData
		case tnStateWONT, tnStateDONT:
			s.state = tnStateData

		case tnStateSB:
			if input == tnIAC {
				s.state = tnStateSBIAC
			}
		case tnStateSBIAC:
			if input == tnSE {
				s.state = tnStateData
			} else {
				s.state = tnStateSB
			}
		}
	}
	return out
}

func (s *tnState) sendOption(verb, option byte) {
	if s.conn != nil {
		_, _ = s.conn.Write([]byte{tnIAC, verb, option})
	}
}
