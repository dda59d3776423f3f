package audio

import "github.com/valerio/go-dotmatrix/dotmatrix/addr"

const (
	pulseSteps = 8
	waveSteps  = 32

	pulseLengthTerminal = 64
	waveLengthTerminal  = 256

	maxFrequency = 0x7FF
)

// voice is the running state of one tone voice. Voices 0 and 1 are pulse
// voices; voice 2 is the wave voice. Configuration lives in the registers.
type voice struct {
	enabled bool
	muted   bool

	timer  int // dots until the next phase step
	phase  int // duty step (0-7) or wave sample index (0-31)
	length int // counts up to the terminal value

	volume   uint8
	envTimer uint8

	// voice 0 only
	sweepTimer uint8
	sweepTicks int
}

// base returns the NRx0 address of a voice; NRx1-NRx4 follow it.
func base(index int) uint16 {
	return addr.AudioStart + uint16(index)*5
}

func (a *APU) frequency(index int) uint16 {
	b := base(index)
	return uint16(a.reg(b+3)) | control(a.reg(b+4)).PeriodHigh()<<8
}

func (a *APU) setFrequency(index int, freq uint16) {
	b := base(index)
	a.setReg(b+3, uint8(freq))
	a.setReg(b+4, a.reg(b+4)&^0x07|uint8(freq>>8)&0x07)
}

// period returns the reload value of a voice's period timer, in dots.
func (a *APU) period(index int) int {
	p := int(2048-a.frequency(index)) * 2
	if index != waveVoice {
		p *= 2
	}
	return p
}

// trigger restarts a voice as on a write to NRx4 with bit 7 set.
func (a *APU) trigger(index int) {
	v := &a.voices[index]
	b := base(index)

	v.timer = a.period(index)
	v.phase = 0
	v.envTimer = 0

	if index == waveVoice {
		v.length = int(a.reg(b + 1))
		v.enabled = a.reg(b)&0x80 != 0
		return
	}

	v.length = int(lengthDuty(a.reg(b + 1)).Length())
	env := envelope(a.reg(b + 2))
	v.volume = env.Volume()
	v.enabled = env.DACOn()

	if index == 0 {
		v.sweepTimer = sweepReload(sweep(a.reg(b)))
		v.sweepTicks = 0
	}
}

func sweepReload(s sweep) uint8 {
	if s.Pace() == 0 {
		return 8
	}
	return s.Pace()
}

// tick advances a voice's period timer by one dot.
func (a *APU) tick(index int) {
	v := &a.voices[index]
	v.timer--
	if v.timer > 0 {
		return
	}

	steps := pulseSteps
	if index == waveVoice {
		steps = waveSteps
	}
	v.phase = (v.phase + 1) % steps
	v.timer = a.period(index)
}

func (a *APU) clockLength() {
	for i := range a.voices {
		v := &a.voices[i]
		if !v.enabled || !control(a.reg(base(i)+4)).LengthEnabled() {
			continue
		}

		terminal := pulseLengthTerminal
		if i == waveVoice {
			terminal = waveLengthTerminal
		}
		v.length++
		if v.length >= terminal {
			v.enabled = false
		}
	}
}

// clockSweep runs voice 0's frequency sweep. A zero shift leaves the
// frequency untouched.
func (a *APU) clockSweep() {
	v := &a.voices[0]
	s := sweep(a.reg(base(0)))
	if !v.enabled || s.Pace() == 0 {
		return
	}

	v.sweepTimer--
	if v.sweepTimer > 0 {
		return
	}
	v.sweepTimer = sweepReload(s)

	if s.Shift() == 0 {
		return
	}

	freq := a.frequency(0)
	delta := freq >> s.Shift()
	if s.Decrease() {
		freq -= delta
	} else {
		if freq+delta > maxFrequency {
			v.enabled = false
			return
		}
		freq += delta
	}
	a.setFrequency(0, freq)
	v.sweepTicks++
}

func (a *APU) clockEnvelope() {
	for i := range waveVoice {
		v := &a.voices[i]
		env := envelope(a.reg(base(i) + 2))
		if !v.enabled || env.Pace() == 0 {
			continue
		}

		v.envTimer++
		if v.envTimer < env.Pace() {
			continue
		}
		v.envTimer = 0

		if env.Increase() && v.volume < 15 {
			v.volume++
		} else if !env.Increase() && v.volume > 0 {
			v.volume--
		}
	}
}

// amplitude returns the voice's current output in [0, 1].
func (a *APU) amplitude(index int) float32 {
	v := &a.voices[index]

	if index == waveVoice {
		shift, ok := waveLevel(a.reg(addr.NR32)).Shift()
		if !ok {
			return 0
		}
		sample := a.reg(addr.WaveRAMStart + uint16(v.phase/2))
		if v.phase%2 == 0 {
			sample >>= 4
		}
		return float32(sample&0x0F>>shift) / 15
	}

	duty := lengthDuty(a.reg(base(index) + 1)).Duty()
	if dutyPatterns[duty]>>(7-v.phase)&1 == 0 {
		return 0
	}
	return float32(v.volume) / 15
}
