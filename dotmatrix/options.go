package dotmatrix

import "io"

type config struct {
	bootROM    []byte
	sampleRate int
	serialOut  io.Writer
}

// Option configures a DMG at construction.
type Option func(*config)

// WithBootROM overlays a boot image on 0x0000-0x00FF until the program unmaps it.
func WithBootROM(data []byte) Option {
	return func(c *config) { c.bootROM = data }
}

// WithSampleRate enables audio sample collection at rate Hz. Samples are
// not collected unless this is set.
func WithSampleRate(rate int) Option {
	return func(c *config) { c.sampleRate = rate }
}

// WithSerialWriter copies every byte sent over the serial port to w.
func WithSerialWriter(w io.Writer) Option {
	return func(c *config) { c.serialOut = w }
}
