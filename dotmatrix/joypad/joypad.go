package joypad

import "github.com/valerio/go-dotmatrix/dotmatrix/bit"

// Key represents a key on the joypad.
type Key uint8

const (
	Right Key = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

var keyNames = [...]string{"Right", "Left", "Up", "Down", "A", "B", "Select", "Start"}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return "Unknown"
}

const (
	selectDpad    = 4
	selectButtons = 5
)

// Joypad is the P1 latch. Both key groups and the selection lines are
// active-low: a cleared bit means pressed or selected.
type Joypad struct {
	buttons uint8
	dpad    uint8
	line    uint8
}

// New creates a joypad with no keys pressed and no group selected.
func New() *Joypad {
	return &Joypad{
		buttons: 0x0F,
		dpad:    0x0F,
		line:    0x30,
	}
}

// Read returns P1: bits 6-7 read 1, bits 4-5 echo the selection and the low
// nibble holds the selected groups.
func (j *Joypad) Read() uint8 {
	return 0xC0 | j.line | j.lowNibble()
}

func (j *Joypad) lowNibble() uint8 {
	nibble := uint8(0x0F)
	if !bit.IsSet(selectDpad, j.line) {
		nibble &= j.dpad
	}
	if !bit.IsSet(selectButtons, j.line) {
		nibble &= j.buttons
	}
	return nibble
}

// Write latches the group selection lines, the only writable bits.
func (j *Joypad) Write(value uint8) {
	j.line = value & 0x30
}

// Press marks key as held and reports whether a joypad interrupt should be
// requested, which happens when a selected line goes from high to low.
func (j *Joypad) Press(key Key) bool {
	before := j.lowNibble()
	if key < A {
		j.dpad = bit.Reset(uint8(key), j.dpad)
	} else {
		j.buttons = bit.Reset(uint8(key-A), j.buttons)
	}
	return before&^j.lowNibble() != 0
}

// Release marks key as no longer held.
func (j *Joypad) Release(key Key) {
	if key < A {
		j.dpad = bit.Set(uint8(key), j.dpad)
	} else {
		j.buttons = bit.Set(uint8(key-A), j.buttons)
	}
}
