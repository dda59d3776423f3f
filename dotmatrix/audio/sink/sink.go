// Package sink provides host outputs for the APU's interleaved stereo samples.
package sink

// Sink consumes interleaved stereo float samples (left, right, left, ...).
type Sink interface {
	WriteSamples(samples []float32) error
	Close() error
}
