package dotmatrix

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-dotmatrix/dotmatrix/addr"
	"github.com/valerio/go-dotmatrix/dotmatrix/audio"
	"github.com/valerio/go-dotmatrix/dotmatrix/joypad"
	"github.com/valerio/go-dotmatrix/dotmatrix/memory"
	"github.com/valerio/go-dotmatrix/dotmatrix/serial"
	"github.com/valerio/go-dotmatrix/dotmatrix/timing"
	"github.com/valerio/go-dotmatrix/dotmatrix/video"
)

// DMG is the host-facing emulator: a loaded cartridge, the bus driving it
// and the frame and audio sample plumbing around it.
type DMG struct {
	bus     *Bus
	cart    *memory.Cartridge
	limiter timing.Limiter

	frames uint64

	// dots per collected sample pair, zero when collection is off
	samplePeriod float64
	sampleAcc    float64
	samples      []float32
}

// New creates an emulator running the given ROM image.
func New(rom []byte, opts ...Option) (*DMG, error) {
	cart, err := memory.NewCartridgeWithData(rom)
	if err != nil {
		return nil, err
	}
	return newWithCartridge(cart, opts...)
}

// NewWithFile creates an emulator running the ROM image at path.
func NewWithFile(path string, opts ...Option) (*DMG, error) {
	cart, err := memory.LoadCartridge(path)
	if err != nil {
		return nil, err
	}
	return newWithCartridge(cart, opts...)
}

func newWithCartridge(cart *memory.Cartridge, opts ...Option) (*DMG, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.bootROM != nil {
		if err := memory.ValidateBootROM(cfg.bootROM); err != nil {
			return nil, err
		}
	}

	mapper, err := memory.NewMapper(cart)
	if err != nil {
		return nil, err
	}

	var serialOpts []serial.LogSinkOption
	if cfg.serialOut != nil {
		serialOpts = append(serialOpts, serial.WithWriter(cfg.serialOut))
	}

	d := &DMG{
		bus:     NewBus(mapper, cfg.bootROM, serial.NewLogSink(serialOpts...)),
		cart:    cart,
		limiter: timing.NewNoOpLimiter(),
	}
	if cfg.sampleRate > 0 {
		d.samplePeriod = float64(timing.ClockRate) / float64(cfg.sampleRate)
	}

	slog.Debug("Emulator ready",
		"title", cart.Title,
		"boot_rom", cfg.bootROM != nil,
		"sample_rate", cfg.sampleRate)

	return d, nil
}

// SetFrameLimiter sets the pacing applied after each frame, measured in the
// dots the frame took. nil disables pacing.
func (d *DMG) SetFrameLimiter(l timing.Limiter) {
	if l == nil {
		l = timing.NewNoOpLimiter()
	}
	d.limiter = l
}

// RunUntilFrame steps the machine until the PPU completes a frame. With the
// LCD off no frame ever completes, so it returns after one frame's worth of
// steps instead.
func (d *DMG) RunUntilFrame() error {
	ppu := d.bus.PPU
	steps := 0
	for {
		steps++
		if err := d.bus.Step(); err != nil {
			slog.Error("Execution stopped",
				"title", d.cart.Title,
				"pc", fmt.Sprintf("0x%04X", d.bus.CPU.PC()),
				"opcode", fmt.Sprintf("0x%02X", d.bus.CPU.LastOpcode()),
				"frame", d.frames)
			return fmt.Errorf("frame %d: %w", d.frames, err)
		}
		d.collectSamples()

		if ppu.FrameReady() {
			ppu.ClearFrameReady()
			break
		}
		if steps >= StepsPerFrame && !ppu.Control().Enabled() {
			break
		}
	}

	d.frames++
	d.limiter.Wait(steps * DotsPerStep)
	return nil
}

func (d *DMG) collectSamples() {
	if d.samplePeriod == 0 {
		return
	}
	d.sampleAcc += DotsPerStep
	for d.sampleAcc >= d.samplePeriod {
		d.sampleAcc -= d.samplePeriod
		s := d.bus.APU.Sample()
		d.samples = append(d.samples, s[0], s[1])
	}
}

// DrainSamples returns the interleaved stereo samples collected since the last
// call. The slice is reused by later frames, so consume it before running again.
func (d *DMG) DrainSamples() []float32 {
	out := d.samples
	d.samples = d.samples[:0]
	return out
}

// GetCurrentFrame returns the framebuffer. It is single-buffered: the next
// RunUntilFrame overwrites it.
func (d *DMG) GetCurrentFrame() *video.FrameBuffer {
	return d.bus.PPU.FrameBuffer()
}

// Press holds a key, requesting the joypad interrupt when it pulls a selected line low.
func (d *DMG) Press(key joypad.Key) {
	if d.bus.Joypad.Press(key) {
		d.bus.requestInterrupt(addr.JoypadInterrupt)
	}
}

// Release lets go of a key.
func (d *DMG) Release(key joypad.Key) {
	d.bus.Joypad.Release(key)
}

// Frames returns the number of frames run so far.
func (d *DMG) Frames() uint64 {
	return d.frames
}

// Cartridge returns the loaded cartridge header.
func (d *DMG) Cartridge() *memory.Cartridge {
	return d.cart
}

// APU exposes the audio unit, used by hosts for voice muting.
func (d *DMG) APU() *audio.APU {
	return d.bus.APU
}

// Bus exposes the machine for inspection.
func (d *DMG) Bus() *Bus {
	return d.bus
}

// Flush logs any buffered serial output.
func (d *DMG) Flush() {
	d.bus.Serial.Flush()
}
