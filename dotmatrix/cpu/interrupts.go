package cpu

import "github.com/valerio/go-dotmatrix/dotmatrix/addr"

// Interrupts is the interrupt controller: IE, IF and the master enable (IME).
// Lower bit index means higher priority.
type Interrupts struct {
	enable uint8
	flag   uint8
	master bool
	// instruction boundaries left before an EI takes effect
	enableDelay uint8
}

// Request raises the IF bits in mask.
func (i *Interrupts) Request(mask addr.Interrupt) {
	i.flag |= uint8(mask & addr.InterruptMask)
}

// Pending returns the requested sources that are also enabled.
func (i *Interrupts) Pending() addr.Interrupt {
	return addr.Interrupt(i.enable&i.flag) & addr.InterruptMask
}

// MasterEnabled reports IME.
func (i *Interrupts) MasterEnabled() bool {
	return i.master
}

// ReadFlags returns IF, unused upper bits read as 1.
func (i *Interrupts) ReadFlags() uint8 {
	return i.flag | 0xE0
}

// WriteFlags stores IF.
func (i *Interrupts) WriteFlags(value uint8) {
	i.flag = value & uint8(addr.InterruptMask)
}

// ReadEnable returns IE.
func (i *Interrupts) ReadEnable() uint8 {
	return i.enable
}

// WriteEnable stores IE. All 8 bits are kept, only the low 5 have an effect.
func (i *Interrupts) WriteEnable(value uint8) {
	i.enable = value
}

// next returns the index of the highest priority pending source, or -1.
func (i *Interrupts) next() int {
	pending := i.Pending()
	for idx := range 5 {
		if pending&(1<<idx) != 0 {
			return idx
		}
	}
	return -1
}

func (i *Interrupts) acknowledge(idx int) {
	i.flag &^= 1 << idx
	i.master = false
}

// scheduleEnable turns IME on after the instruction following EI. A second
// EI while one is pending keeps the first deadline.
func (i *Interrupts) scheduleEnable() {
	if !i.master && i.enableDelay == 0 {
		i.enableDelay = 2
	}
}

func (i *Interrupts) disable() {
	i.master = false
	i.enableDelay = 0
}

// boundary runs at every instruction boundary and applies a scheduled EI.
func (i *Interrupts) boundary() {
	if i.enableDelay == 0 {
		return
	}
	i.enableDelay--
	if i.enableDelay == 0 {
		i.master = true
	}
}
