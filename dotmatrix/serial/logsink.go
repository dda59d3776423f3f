package serial

import (
	"io"
	"log/slog"

	"github.com/valerio/go-dotmatrix/dotmatrix/addr"
	"github.com/valerio/go-dotmatrix/dotmatrix/bit"
)

// LogSink is a serial port with nothing on the other end. Outgoing bytes are
// logged as text lines and optionally copied to a writer, which is how test
// ROMs report their results.
type LogSink struct {
	sb, sc byte
	logger *slog.Logger
	out    io.Writer

	// received value on SB after a transfer, no peer means 0xFF
	defaultRX byte

	line []byte
}

type LogSinkOption func(*LogSink)

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) LogSinkOption {
	return func(s *LogSink) { s.logger = logger }
}

// WithWriter copies every transferred byte to w.
func WithWriter(w io.Writer) LogSinkOption {
	return func(s *LogSink) { s.out = w }
}

// NewLogSink creates a new logging serial device.
func NewLogSink(opts ...LogSinkOption) *LogSink {
	s := &LogSink{
		defaultRX: 0xFF,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Write stores SB or SC. It reports true when the write completed a transfer,
// in which case the serial interrupt should be requested.
func (s *LogSink) Write(address uint16, value byte) bool {
	switch address {
	case addr.SB:
		s.sb = value
	case addr.SC:
		s.sc = value
		return s.transfer()
	}
	return false
}

func (s *LogSink) Read(address uint16) byte {
	switch address {
	case addr.SB:
		return s.sb
	case addr.SC:
		return s.sc | 0x7E
	default:
		return 0xFF
	}
}

// Flush logs any partial line.
func (s *LogSink) Flush() {
	if len(s.line) > 0 {
		s.logger.Info("serial", "line", string(s.line))
		s.line = s.line[:0]
	}
}

// transfer runs when bit 7 (start) and bit 0 (internal clock) of SC are set.
// Transfers complete immediately.
func (s *LogSink) transfer() bool {
	if !bit.IsSet(7, s.sc) || !bit.IsSet(0, s.sc) {
		return false
	}

	b := s.sb
	if s.out != nil {
		if _, err := s.out.Write([]byte{b}); err != nil {
			s.logger.Warn("serial writer failed", "error", err)
			s.out = nil
		}
	}

	if b == 0 || b == '\n' || b == '\r' {
		s.Flush()
	} else {
		s.line = append(s.line, b)
	}

	s.sb = s.defaultRX
	s.sc = bit.Reset(7, s.sc)
	return true
}
