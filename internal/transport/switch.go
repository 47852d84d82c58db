// internal/transport/switch.go
package transport

// Switch routes console I/O to the active transport: the Telnet session
// while one is connected, the serial console otherwise. Either may be nil.
type Switch struct {
	Serial Port
	Telnet interface {
		Port
		Active() bool
	}
}

// TelnetActive is the telnet-active flag.
func (s *Switch) TelnetActive() bool {
	return s.Telnet != nil && s.Telnet.Active()
}

func (s *Switch) active() Port {
	if s.TelnetActive() {
		return s.Telnet
	}
	if s.Serial != nil {
		return s.Serial
	}
	return nil
}

func (s *Switch) PollReady() bool {
	p := s.active()
	return p != nil && p.PollReady()
}

func (s *Switch) ReadChar() byte {
	if p := s.active(); p != nil {
		return p.ReadChar()
	}
	return 0
}

// Write goes to the active transport only.
func (s *Switch) Write(b []byte) (int, error) {
	if p := s.active(); p != nil {
		return p.Write(b)
	}
	return len(b), nil
}
