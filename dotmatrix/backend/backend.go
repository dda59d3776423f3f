package backend

import (
	"github.com/valerio/go-dotmatrix/dotmatrix/joypad"
	"github.com/valerio/go-dotmatrix/dotmatrix/video"
)

// Backend is a host platform presenting frames and collecting input.
type Backend interface {
	// Init prepares the backend. It must be called before Update.
	Init(config Config) error

	// Update presents a completed frame and processes pending platform
	// events, delivering key changes through Config.OnKey. It reports
	// whether the user asked to quit.
	Update(frame *video.FrameBuffer) (quit bool, err error)

	// Cleanup releases platform resources.
	Cleanup() error
}

// Config holds the settings shared by all backends.
type Config struct {
	Title string

	// OnKey receives joypad key transitions. May be nil.
	OnKey func(key joypad.Key, pressed bool)

	// Mixer enables voice mute controls on backends that have them. May be nil.
	Mixer Mixer
}

// Mixer is the voice mute surface of the APU.
type Mixer interface {
	ToggleVoice(index int)
	SoloVoice(index int)
	UnmuteAll()
	VoiceStatus() [3]bool
}

// Key forwards a key transition to the configured callback, if any.
func (c Config) Key(key joypad.Key, pressed bool) {
	if c.OnKey != nil {
		c.OnKey(key, pressed)
	}
}
