//go:build !headless

package sink

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// Player streams samples to the default audio device.
type Player struct {
	ctx    *oto.Context
	player *oto.Player

	mu      sync.Mutex
	queue   []float32
	maxSize int
}

// NewPlayer opens the audio device. Only one Player may exist per process.
func NewPlayer(sampleRate int) (*Player, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-ready

	p := &Player{
		ctx: ctx,
		// half a second of stereo audio
		maxSize: sampleRate,
	}
	p.player = ctx.NewPlayer(p)
	p.player.Play()
	return p, nil
}

// WriteSamples queues samples for playback. When the device falls behind,
// the oldest samples are dropped.
func (p *Player) WriteSamples(samples []float32) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.queue = append(p.queue, samples...)
	if over := len(p.queue) - p.maxSize; over > 0 {
		over += over % 2
		p.queue = p.queue[over:]
	}
	return nil
}

// Read implements io.Reader for the device, padding with silence on underrun.
func (p *Player) Read(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(buf) / 4
	for i := range n {
		var s float32
		if i < len(p.queue) {
			s = p.queue[i]
		}
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(s))
	}
	p.queue = p.queue[min(n, len(p.queue)):]
	return n * 4, nil
}

func (p *Player) Close() error {
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("closing audio player: %w", err)
	}
	return nil
}
