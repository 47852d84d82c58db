// internal/config/store.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Key identifies one persisted value.
type Key int

const (
	KeyResolution Key = iota
	keyCount
)

var keyNames = [keyCount]string{
	KeyResolution: "resolution",
}

func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return fmt.Sprintf("key(%d)", int(k))
	}
	return keyNames[k]
}

// Store persists integer key/value pairs across restarts.
// Every Set rewrites the whole file (temp file + rename).
type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]int
}

// OpenStore loads the store at path. A missing file is an empty store.
func OpenStore(path string) (*Store, error) {
	s := &Store{path: path, values: map[string]int{}}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("state: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &s.values); err != nil {
		return nil, fmt.Errorf("state: decode %s: %w", path, err)
	}
	if s.values == nil {
		s.values = map[string]int{}
	}
	return s, nil
}

// Get returns the stored value for key.
func (s *Store) Get(key Key) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key.String()]
	return v, ok
}

// Set stores value under key and flushes the file.
func (s *Store) Set(key Key, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key.String()] = value

	b, err := yaml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("state: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*")
	if err != nil {
		return fmt.Errorf("state: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("state: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("state: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("state: rename: %w", err)
	}
	return nil
}
