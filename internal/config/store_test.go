// internal/config/store_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStore_SetPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")

	s, err := OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	if _, ok := s.Get(KeyResolution); ok {
		t.Fatalf("fresh store should be empty")
	}

	if err := s.Set(KeyResolution, 5); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reopened, err := OpenStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	v, ok := reopened.Get(KeyResolution)
	if !ok || v != 5 {
		t.Fatalf("expected resolution=5, got %d (ok=%v)", v, ok)
	}
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	if err := os.WriteFile(path, []byte("resolution: [1,2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenStore(path); err == nil {
		t.Fatalf("expected decode error, got nil")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	doc := `
board:
  system_clock_hz: 100000000
  present:
    hdmi_in0: true
    encoder: true
bus:
  kind: modbus-tcp
  endpoint: 10.0.0.2:502
console:
  telnet_listen: ":2323"
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Board.SystemClockHz != 100000000 {
		t.Fatalf("system clock: got %d", cfg.Board.SystemClockHz)
	}
	if !cfg.Board.Present.HDMIIn0 || !cfg.Board.Present.Encoder || cfg.Board.Present.HDMIIn1 {
		t.Fatalf("presence decoded wrong: %+v", cfg.Board.Present)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
