package sink

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavBitDepth = 16
	wavChannels = 2
	wavPCM      = 1
)

// WavRecorder encodes samples into a 16-bit PCM stereo WAV stream.
type WavRecorder struct {
	enc    *wav.Encoder
	buf    *audio.IntBuffer
	closer io.Closer
}

// NewWavRecorder records into w. The header is finalised on Close, which
// needs w to be seekable.
func NewWavRecorder(w io.WriteSeeker, sampleRate int) *WavRecorder {
	return &WavRecorder{
		enc: wav.NewEncoder(w, sampleRate, wavBitDepth, wavChannels, wavPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: wavChannels, SampleRate: sampleRate},
			SourceBitDepth: wavBitDepth,
		},
	}
}

// CreateWavFile creates path and records into it.
func CreateWavFile(path string, sampleRate int) (*WavRecorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating wav file: %w", err)
	}
	r := NewWavRecorder(f, sampleRate)
	r.closer = f
	return r, nil
}

func (r *WavRecorder) WriteSamples(samples []float32) error {
	if len(samples) == 0 {
		return nil
	}

	r.buf.Data = r.buf.Data[:0]
	for _, s := range samples {
		r.buf.Data = append(r.buf.Data, toPCM16(s))
	}
	if err := r.enc.Write(r.buf); err != nil {
		return fmt.Errorf("writing wav samples: %w", err)
	}
	return nil
}

// Close writes the final header and closes the file if the recorder created it.
func (r *WavRecorder) Close() error {
	err := r.enc.Close()
	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("closing wav recorder: %w", err)
	}
	return nil
}

func toPCM16(s float32) int {
	s = max(-1, min(1, s))
	return int(math.Round(float64(s) * math.MaxInt16))
}
