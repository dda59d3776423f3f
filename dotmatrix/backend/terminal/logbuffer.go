package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

type logEntry struct {
	time    time.Time
	level   slog.Level
	message string
}

func (e logEntry) String() string {
	var level string
	switch {
	case e.level >= slog.LevelError:
		level = "ERR"
	case e.level >= slog.LevelWarn:
		level = "WRN"
	case e.level >= slog.LevelInfo:
		level = "INF"
	default:
		level = "DBG"
	}
	return fmt.Sprintf("%s [%s] %s", e.time.Format("15:04:05"), level, e.message)
}

// logBuffer is a ring of the most recent log entries.
type logBuffer struct {
	mu      sync.Mutex
	entries []logEntry
	next    int
	count   int
}

func newLogBuffer(size int) *logBuffer {
	return &logBuffer{entries: make([]logEntry, size)}
}

func (b *logBuffer) add(e logEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[b.next] = e
	b.next = (b.next + 1) % len(b.entries)
	b.count = min(b.count+1, len(b.entries))
}

// recent returns up to n entries, newest first.
func (b *logBuffer) recent(n int) []logEntry {
	b.mu.Lock()
	defer b.mu.Unlock()

	n = min(n, b.count)
	out := make([]logEntry, n)
	for i := range n {
		out[i] = b.entries[(b.next-1-i+len(b.entries))%len(b.entries)]
	}
	return out
}

// logHandler is a slog.Handler feeding the log pane, since the screen owns the terminal.
type logHandler struct {
	buffer *logBuffer
	level  slog.Level
	attrs  []slog.Attr
}

func (h *logHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *logHandler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder
	sb.WriteString(record.Message)
	write := func(a slog.Attr) bool {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	record.Attrs(write)

	h.buffer.add(logEntry{time: record.Time, level: record.Level, message: sb.String()})
	return nil
}

func (h *logHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &logHandler{
		buffer: h.buffer,
		level:  h.level,
		attrs:  append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

// WithGroup is not supported, groups are flattened.
func (h *logHandler) WithGroup(string) slog.Handler {
	return h
}
