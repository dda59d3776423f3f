package cpu

import "github.com/valerio/go-dotmatrix/dotmatrix/bit"

// Reg names an 8-bit register, a 16-bit pair or SP/PC.
type Reg uint8

const (
	RegNone Reg = iota
	RegA
	RegF
	RegB
	RegC
	RegD
	RegE
	RegH
	RegL
	RegAF
	RegBC
	RegDE
	RegHL
	RegSP
	RegPC
)

var regNames = [...]string{"", "A", "F", "B", "C", "D", "E", "H", "L", "AF", "BC", "DE", "HL", "SP", "PC"}

func (r Reg) String() string {
	if int(r) < len(regNames) {
		return regNames[r]
	}
	return "?"
}

// Is16 reports whether r is a register pair, SP or PC.
func (r Reg) Is16() bool {
	return r >= RegAF
}

// Flag is one of the 4 possible flags used in the flag register (low part of AF)
type Flag uint8

const (
	zeroFlag      Flag = 0x80
	subFlag       Flag = 0x40
	halfCarryFlag Flag = 0x20
	carryFlag     Flag = 0x10
)

// RegisterFile holds the eight 8-bit registers, SP and PC.
// The low nibble of F always reads as zero.
type RegisterFile struct {
	a, f, b, c, d, e, h, l uint8
	sp, pc                 uint16
}

// Read returns the value of r, 8-bit registers are zero-extended.
func (r *RegisterFile) Read(reg Reg) uint16 {
	switch reg {
	case RegA:
		return uint16(r.a)
	case RegF:
		return uint16(r.f)
	case RegB:
		return uint16(r.b)
	case RegC:
		return uint16(r.c)
	case RegD:
		return uint16(r.d)
	case RegE:
		return uint16(r.e)
	case RegH:
		return uint16(r.h)
	case RegL:
		return uint16(r.l)
	case RegAF:
		return bit.Combine(r.a, r.f)
	case RegBC:
		return bit.Combine(r.b, r.c)
	case RegDE:
		return bit.Combine(r.d, r.e)
	case RegHL:
		return bit.Combine(r.h, r.l)
	case RegSP:
		return r.sp
	case RegPC:
		return r.pc
	default:
		return 0
	}
}

// Write stores value into r, 8-bit registers keep the low byte.
func (r *RegisterFile) Write(reg Reg, value uint16) {
	switch reg {
	case RegA:
		r.a = uint8(value)
	case RegF:
		r.f = uint8(value) & 0xF0
	case RegB:
		r.b = uint8(value)
	case RegC:
		r.c = uint8(value)
	case RegD:
		r.d = uint8(value)
	case RegE:
		r.e = uint8(value)
	case RegH:
		r.h = uint8(value)
	case RegL:
		r.l = uint8(value)
	case RegAF:
		r.a, r.f = bit.High(value), bit.Low(value)&0xF0
	case RegBC:
		r.b, r.c = bit.High(value), bit.Low(value)
	case RegDE:
		r.d, r.e = bit.High(value), bit.Low(value)
	case RegHL:
		r.h, r.l = bit.High(value), bit.Low(value)
	case RegSP:
		r.sp = value
	case RegPC:
		r.pc = value
	}
}

func (r *RegisterFile) flag(f Flag) bool {
	return r.f&uint8(f) != 0
}

func (r *RegisterFile) setFlag(f Flag, on bool) {
	if on {
		r.f |= uint8(f)
	} else {
		r.f &^= uint8(f)
	}
}

// setFlags replaces all four flags at once.
func (r *RegisterFile) setFlags(z, n, h, c bool) {
	r.f = 0
	r.setFlag(zeroFlag, z)
	r.setFlag(subFlag, n)
	r.setFlag(halfCarryFlag, h)
	r.setFlag(carryFlag, c)
}

func (r *RegisterFile) carry() uint8 {
	if r.flag(carryFlag) {
		return 1
	}
	return 0
}
