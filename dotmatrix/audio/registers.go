package audio

import "github.com/valerio/go-dotmatrix/dotmatrix/bit"

// Typed views over the raw register bytes.
// Reference: https://gbdev.io/pandocs/Audio_Registers.html

// sweep is NR10.
type sweep uint8

func (s sweep) Pace() uint8    { return uint8(s) >> 4 & 0x07 }
func (s sweep) Decrease() bool { return bit.IsSet(3, uint8(s)) }
func (s sweep) Shift() uint8   { return uint8(s) & 0x07 }

// lengthDuty is NR11/NR21.
type lengthDuty uint8

func (l lengthDuty) Duty() uint8   { return uint8(l) >> 6 }
func (l lengthDuty) Length() uint8 { return uint8(l) & 0x3F }

// envelope is NR12/NR22/NR42.
type envelope uint8

func (e envelope) Volume() uint8  { return uint8(e) >> 4 }
func (e envelope) Increase() bool { return bit.IsSet(3, uint8(e)) }
func (e envelope) Pace() uint8    { return uint8(e) & 0x07 }

// DACOn reports whether the voice's DAC is powered: any of bits 3-7 set.
func (e envelope) DACOn() bool { return uint8(e)&0xF8 != 0 }

// control is NR14/NR24/NR34/NR44.
type control uint8

func (c control) Trigger() bool       { return bit.IsSet(7, uint8(c)) }
func (c control) LengthEnabled() bool { return bit.IsSet(6, uint8(c)) }
func (c control) PeriodHigh() uint16  { return uint16(c) & 0x07 }

// panning is NR51: bits 4-7 send voices 1-4 left, bits 0-3 right.
type panning uint8

func (p panning) Left(voice int) bool  { return bit.IsSet(uint8(4+voice), uint8(p)) }
func (p panning) Right(voice int) bool { return bit.IsSet(uint8(voice), uint8(p)) }

// masterVolume is NR50. VIN bits are stored but have no effect.
type masterVolume uint8

func (m masterVolume) Left() uint8  { return uint8(m) >> 4 & 0x07 }
func (m masterVolume) Right() uint8 { return uint8(m) & 0x07 }

// waveLevel is NR32 bits 6-5.
type waveLevel uint8

// Shift returns how far a wave sample is shifted right, and false when muted.
func (w waveLevel) Shift() (uint8, bool) {
	switch uint8(w) >> 5 & 0x03 {
	case 1:
		return 0, true
	case 2:
		return 1, true
	case 3:
		return 2, true
	default:
		return 0, false
	}
}

// readMasks holds the bits that always read back as 1 for FF10-FF2F.
// Write-only bits and unused registers read as 1. NR52 is handled separately.
var readMasks = [0x20]uint8{
	0x80, 0x3F, 0x00, 0xFF, 0xBF, // NR10-NR14
	0xFF, 0x3F, 0x00, 0xFF, 0xBF, // unused, NR21-NR24
	0x7F, 0xFF, 0x9F, 0xFF, 0xBF, // NR30-NR34
	0xFF, 0xFF, 0x00, 0x00, 0xBF, // unused, NR41-NR44
	0x00, 0x00, 0x70, // NR50, NR51, NR52
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, // FF27-FF2F
}

// dutyPatterns are the 8-step waveforms for the four duty settings, first step in bit 7.
var dutyPatterns = [4]uint8{
	0b00000001, // 12.5%
	0b10000001, // 25%
	0b10000111, // 50%
	0b01111110, // 75%
}
