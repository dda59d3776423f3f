package timer

import (
	"github.com/valerio/go-dotmatrix/dotmatrix/addr"
	"github.com/valerio/go-dotmatrix/dotmatrix/bit"
)

// tapLookup maps TAC input clock select (bits 1-0) to the bit of the
// 16-bit divider whose falling edge increments TIMA.
//
//	00 -> bit 9  (4096 Hz)
//	01 -> bit 3  (262144 Hz)
//	10 -> bit 5  (65536 Hz)
//	11 -> bit 7  (16384 Hz)
var tapLookup = [4]uint16{9, 3, 5, 7}

const enableBit = 2

// Timer is the DIV/TIMA/TMA/TAC block. The divider advances once per dot
// (4194304 Hz), DIV is its upper byte.
type Timer struct {
	divider    uint16
	lastOutput bool
	// set when TIMA wrapped; the reload and interrupt happen on the next tick
	overflowPending bool

	tima byte
	tma  byte
	tac  byte
}

// New returns a timer with every register cleared.
func New() *Timer {
	return &Timer{}
}

// Tick advances the divider by one and reports whether a timer interrupt is requested.
func (t *Timer) Tick() bool {
	requested := false
	if t.overflowPending {
		t.overflowPending = false
		t.tima = t.tma
		requested = true
	}

	t.divider++

	out := bit.IsSet(enableBit, t.tac) && bit.IsSet16(tapLookup[t.tac&0x03], t.divider)
	if t.lastOutput && !out {
		t.incrementTIMA()
	}
	t.lastOutput = out

	return requested
}

func (t *Timer) incrementTIMA() {
	t.tima++
	if t.tima == 0 {
		t.overflowPending = true
	}
}

// Divider returns the full internal divider.
func (t *Timer) Divider() uint16 {
	return t.divider
}

// SetDivider seeds the divider, used to start from the post-boot state.
func (t *Timer) SetDivider(value uint16) {
	t.divider = value
	t.lastOutput = false
}

func (t *Timer) Read(address uint16) byte {
	switch address {
	case addr.DIV:
		return bit.High(t.divider)
	case addr.TIMA:
		return t.tima
	case addr.TMA:
		return t.tma
	case addr.TAC:
		return 0xF8 | t.tac
	default:
		return 0xFF
	}
}

func (t *Timer) Write(address uint16, value byte) {
	switch address {
	case addr.DIV:
		// The edge this can cause on real hardware is not modeled.
		t.divider = 0
		t.lastOutput = false
	case addr.TIMA:
		t.tima = value
		t.overflowPending = false
	case addr.TMA:
		t.tma = value
	case addr.TAC:
		t.tac = value & 0x07
	}
}
