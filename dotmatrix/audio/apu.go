package audio

import (
	"github.com/valerio/go-dotmatrix/dotmatrix/addr"
	"github.com/valerio/go-dotmatrix/dotmatrix/bit"
)

const (
	voiceCount = 3
	waveVoice  = 2
)

// APU implements the Game Boy's Audio Processing Unit for the two pulse
// voices and the wave voice. Noise registers are stored and read back only.
// Reference: https://gbdev.io/pandocs/Audio.html
type APU struct {
	power     bool
	registers [0x30]byte // FF10-FF3F, wave RAM included

	voices [voiceCount]voice

	// frame sequencer step, advanced by SlowTick at 512 Hz
	step int
}

// New returns a powered off APU with all registers cleared.
func New() *APU {
	return &APU{}
}

// ResetToPostBoot loads the register state the boot ROM leaves behind:
// power on, voice 1 active but silent after the boot chime.
// Reference: https://gbdev.io/pandocs/Power_Up_Sequence.html#hardware-registers
func (a *APU) ResetToPostBoot() {
	*a = APU{power: true}

	a.setReg(addr.NR10, 0x80)
	a.setReg(addr.NR11, 0xBF)
	a.setReg(addr.NR12, 0xF3)
	a.setReg(addr.NR14, 0xBF)
	a.setReg(addr.NR21, 0x3F)
	a.setReg(addr.NR24, 0xBF)
	a.setReg(addr.NR30, 0x7F)
	a.setReg(addr.NR31, 0xFF)
	a.setReg(addr.NR32, 0x9F)
	a.setReg(addr.NR34, 0xBF)
	a.setReg(addr.NR41, 0xFF)
	a.setReg(addr.NR44, 0xBF)
	a.setReg(addr.NR50, 0x77)
	a.setReg(addr.NR51, 0xF3)

	a.voices[0].enabled = true
	a.voices[0].timer = a.period(0)
	a.voices[0].length = pulseLengthTerminal - 1
}

func (a *APU) reg(address uint16) uint8 {
	return a.registers[address-addr.AudioStart]
}

func (a *APU) setReg(address uint16, value uint8) {
	a.registers[address-addr.AudioStart] = value
}

// Tick advances the period timers of all active voices by one dot.
func (a *APU) Tick() {
	if !a.power {
		return
	}
	for i := range a.voices {
		if a.voices[i].enabled {
			a.tick(i)
		}
	}
}

// SlowTick advances the frame sequencer. The bus calls it on the falling
// edge of divider bit 12, 512 times per second.
//
//	Step   Length  Sweep  Envelope
//	0      Clock   Clock  Clock
//	1      -       -      -
//	2      Clock   -      -
//	3      -       -      -
//	4      Clock   Clock  -
//	5      -       -      -
//	6      Clock   -      -
//	7      -       -      -
func (a *APU) SlowTick() {
	if !a.power {
		return
	}
	if a.step%2 == 0 {
		a.clockLength()
	}
	if a.step%4 == 0 {
		a.clockSweep()
	}
	if a.step%8 == 0 {
		a.clockEnvelope()
	}
	a.step = (a.step + 1) % 8
}

// Read returns an audio register or wave RAM byte.
func (a *APU) Read(address uint16) uint8 {
	if address < addr.AudioStart || address > addr.AudioEnd {
		return 0xFF
	}
	if address >= addr.WaveRAMStart {
		return a.reg(address)
	}
	if address == addr.NR52 {
		return a.status()
	}
	return a.reg(address) | readMasks[address-addr.AudioStart]
}

// status builds NR52: power in bit 7, bits 4-6 read 1, active voices in bits 0-2.
func (a *APU) status() uint8 {
	value := readMasks[addr.NR52-addr.AudioStart]
	value = bit.SetTo(7, value, a.power)
	for i := range a.voices {
		value = bit.SetTo(uint8(i), value, a.voices[i].enabled)
	}
	return value
}

// Write stores an audio register. While powered off only NR52 and wave RAM
// accept writes.
func (a *APU) Write(address uint16, value uint8) {
	switch {
	case address < addr.AudioStart || address > addr.AudioEnd:
		return
	case address >= addr.WaveRAMStart:
		a.setReg(address, value)
		return
	case address == addr.NR52:
		a.setPower(bit.IsSet(7, value))
		return
	case !a.power || address > addr.NR52:
		return
	}

	a.setReg(address, value)

	switch address {
	case addr.NR11, addr.NR21:
		a.voices[voiceAt(address)].length = int(lengthDuty(value).Length())
	case addr.NR31:
		a.voices[waveVoice].length = int(value)
	case addr.NR12, addr.NR22:
		if !envelope(value).DACOn() {
			a.voices[voiceAt(address)].enabled = false
		}
	case addr.NR30:
		if !bit.IsSet(7, value) {
			a.voices[waveVoice].enabled = false
		}
	case addr.NR14, addr.NR24, addr.NR34:
		if control(value).Trigger() {
			a.trigger(voiceAt(address))
		}
	}
}

// voiceAt maps a voice register address to its voice index.
func voiceAt(address uint16) int {
	return int(address-addr.AudioStart) / 5
}

func (a *APU) setPower(on bool) {
	if a.power && !on {
		for i := range addr.NR52 - addr.AudioStart {
			a.registers[i] = 0
		}
		for i := range a.voices {
			a.voices[i] = voice{muted: a.voices[i].muted}
		}
	}
	if !a.power && on {
		a.step = 0
	}
	a.power = on
}

// Sample mixes the active voices into one stereo pair in [0, 1]: the
// average of the enabled voices, panned by NR51 and scaled by NR50.
func (a *APU) Sample() [2]float32 {
	if !a.power {
		return [2]float32{}
	}

	pan := panning(a.reg(addr.NR51))
	var left, right float32
	count := 0
	for i := range a.voices {
		if !a.voices[i].enabled || a.voices[i].muted {
			continue
		}
		count++
		amp := a.amplitude(i)
		if pan.Left(i) {
			left += amp
		}
		if pan.Right(i) {
			right += amp
		}
	}
	if count == 0 {
		return [2]float32{}
	}

	master := masterVolume(a.reg(addr.NR50))
	left = left / float32(count) * float32(master.Left()+1) / 8
	right = right / float32(count) * float32(master.Right()+1) / 8
	return [2]float32{left, right}
}

// Powered reports NR52 bit 7.
func (a *APU) Powered() bool {
	return a.power
}

// ToggleVoice mutes or unmutes voice index (0-2) in the mix.
func (a *APU) ToggleVoice(index int) {
	if index >= 0 && index < voiceCount {
		a.voices[index].muted = !a.voices[index].muted
	}
}

// SoloVoice mutes every voice except index.
func (a *APU) SoloVoice(index int) {
	for i := range a.voices {
		a.voices[i].muted = i != index
	}
}

// UnmuteAll clears every mute.
func (a *APU) UnmuteAll() {
	for i := range a.voices {
		a.voices[i].muted = false
	}
}

// VoiceStatus reports, per voice, whether it is enabled and audible.
func (a *APU) VoiceStatus() [voiceCount]bool {
	var status [voiceCount]bool
	for i, v := range a.voices {
		status[i] = v.enabled && !v.muted
	}
	return status
}
