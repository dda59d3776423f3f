//go:build headless

package sink

// Player discards samples in headless builds, which link no audio device.
type Player struct{}

func NewPlayer(sampleRate int) (*Player, error) {
	return &Player{}, nil
}

func (p *Player) WriteSamples(samples []float32) error {
	return nil
}

func (p *Player) Close() error {
	return nil
}
