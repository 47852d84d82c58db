// internal/logger/logger.go
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Handler writes one line per record: time, level, message, then key=value attributes.
// Records go to out (if any) and to stderr when debug is set or the level is
// above debug.
type Handler struct {
	out    io.Writer
	stderr io.Writer
	level  slog.Leveler
	attrs  []slog.Attr
	mu     *sync.Mutex
	debug  bool
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.level != nil {
		min = h.level.Level()
	}
	return level >= min
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	n := *h
	n.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &n
}

// Groups are flattened; group names are dropped from keys.
func (h *Handler) WithGroup(_ string) slog.Handler {
	n := *h
	return &n
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	strs := []string{r.Time.Format("2006/01/02 15:04:05"), r.Level.String() + ":", r.Message}

	for _, a := range h.attrs {
		strs = append(strs, a.Key+"="+a.Value.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		strs = append(strs, a.Key+"="+a.Value.String())
		return true
	})
	b := []byte(strings.Join(strs, " ") + "\n")

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write(b)
	}
	if h.debug || r.Level > slog.LevelDebug {
		if _, werr := h.stderr.Write(b); werr != nil {
			err = werr
		}
	}
	return err
}

// NewHandler builds a handler. file may be nil.
func NewHandler(file io.Writer, level slog.Leveler, debug bool) *Handler {
	return &Handler{
		out:    file,
		stderr: os.Stderr,
		level:  level,
		mu:     &sync.Mutex{},
		debug:  debug,
	}
}
