package cpu

import "github.com/valerio/go-dotmatrix/dotmatrix/bit"

// operation executes an instruction whose operand has been fetched and
// returns the extra cycles it needs on top of the addressing mode.
type operation func(c *CPU, bus Bus) int

var operations = [kindCount]operation{
	kindNOP:  (*CPU).opNOP,
	kindLD:   (*CPU).opLD,
	kindINC:  (*CPU).opINC,
	kindDEC:  (*CPU).opDEC,
	kindRLCA: (*CPU).opRLCA,
	kindRRCA: (*CPU).opRRCA,
	kindRLA:  (*CPU).opRLA,
	kindRRA:  (*CPU).opRRA,
	kindADD:  (*CPU).opADD,
	kindADC:  (*CPU).opADC,
	kindSUB:  (*CPU).opSUB,
	kindSBC:  (*CPU).opSBC,
	kindAND:  (*CPU).opAND,
	kindXOR:  (*CPU).opXOR,
	kindOR:   (*CPU).opOR,
	kindCP:   (*CPU).opCP,
	kindJR:   (*CPU).opJR,
	kindJP:   (*CPU).opJP,
	kindCALL: (*CPU).opCALL,
	kindRET:  (*CPU).opRET,
	kindRETI: (*CPU).opRETI,
	kindRST:  (*CPU).opRST,
	kindPUSH: (*CPU).opPUSH,
	kindPOP:  (*CPU).opPOP,
	kindDAA:  (*CPU).opDAA,
	kindCPL:  (*CPU).opCPL,
	kindSCF:  (*CPU).opSCF,
	kindCCF:  (*CPU).opCCF,
	kindHALT: (*CPU).opHALT,
	kindSTOP: (*CPU).opSTOP,
	kindDI:   (*CPU).opDI,
	kindEI:   (*CPU).opEI,
	kindCB:   (*CPU).opCB,
}

// writeResult stores an 8-bit result to the destination register or memory.
func (c *CPU) writeResult(bus Bus, value uint8) int {
	if c.destIsMem {
		bus.Write(c.destAddr, value)
		return 1
	}
	c.regs.Write(c.inst.dst, uint16(value))
	return 0
}

func (c *CPU) condition(cc cond) bool {
	switch cc {
	case condNZ:
		return !c.regs.flag(zeroFlag)
	case condZ:
		return c.regs.flag(zeroFlag)
	case condNC:
		return !c.regs.flag(carryFlag)
	case condC:
		return c.regs.flag(carryFlag)
	default:
		return true
	}
}

func (c *CPU) push(bus Bus, value uint16) {
	c.regs.sp--
	bus.Write(c.regs.sp, bit.High(value))
	c.regs.sp--
	bus.Write(c.regs.sp, bit.Low(value))
}

func (c *CPU) pop(bus Bus) uint16 {
	low := bus.Read(c.regs.sp)
	c.regs.sp++
	high := bus.Read(c.regs.sp)
	c.regs.sp++
	return bit.Combine(high, low)
}

// NOP
// #0x00:
func (c *CPU) opNOP(Bus) int { return 0 }

// LD dst,src in all its forms
func (c *CPU) opLD(bus Bus) int {
	in := c.inst
	switch {
	case c.destIsMem && in.src == RegSP:
		bus.Write(c.destAddr, bit.Low(c.data))
		bus.Write(c.destAddr+1, bit.High(c.data))
		return 2
	case c.destIsMem:
		bus.Write(c.destAddr, uint8(c.data))
		return 1
	case in.dst == RegSP && in.src == RegHL:
		c.regs.Write(RegSP, c.data)
		return 1
	default:
		c.regs.Write(in.dst, c.data)
		return 0
	}
}

// INC r8 / INC rr / INC (HL)
func (c *CPU) opINC(bus Bus) int {
	if !c.destIsMem && c.inst.dst.Is16() {
		c.regs.Write(c.inst.dst, c.data+1)
		return 1
	}
	value := uint8(c.data) + 1
	c.regs.setFlag(zeroFlag, value == 0)
	c.regs.setFlag(subFlag, false)
	c.regs.setFlag(halfCarryFlag, value&0x0F == 0)
	return c.writeResult(bus, value)
}

// DEC r8 / DEC rr / DEC (HL)
func (c *CPU) opDEC(bus Bus) int {
	if !c.destIsMem && c.inst.dst.Is16() {
		c.regs.Write(c.inst.dst, c.data-1)
		return 1
	}
	value := uint8(c.data) - 1
	c.regs.setFlag(zeroFlag, value == 0)
	c.regs.setFlag(subFlag, true)
	c.regs.setFlag(halfCarryFlag, value&0x0F == 0x0F)
	return c.writeResult(bus, value)
}

// RLCA
// #0x07:
func (c *CPU) opRLCA(Bus) int {
	a := c.regs.a
	c.regs.a = a<<1 | a>>7
	c.regs.setFlags(false, false, false, a&0x80 != 0)
	return 0
}

// RRCA
// #0x0F:
func (c *CPU) opRRCA(Bus) int {
	a := c.regs.a
	c.regs.a = a>>1 | a<<7
	c.regs.setFlags(false, false, false, a&0x01 != 0)
	return 0
}

// RLA
// #0x17:
func (c *CPU) opRLA(Bus) int {
	a := c.regs.a
	c.regs.a = a<<1 | c.regs.carry()
	c.regs.setFlags(false, false, false, a&0x80 != 0)
	return 0
}

// RRA
// #0x1F:
func (c *CPU) opRRA(Bus) int {
	a := c.regs.a
	c.regs.a = a>>1 | c.regs.carry()<<7
	c.regs.setFlags(false, false, false, a&0x01 != 0)
	return 0
}

// ADD A,x / ADD HL,rr / ADD SP,i8
func (c *CPU) opADD(Bus) int {
	switch c.inst.dst {
	case RegHL:
		hl := c.regs.Read(RegHL)
		sum := uint32(hl) + uint32(c.data)
		c.regs.setFlag(subFlag, false)
		c.regs.setFlag(halfCarryFlag, (hl&0x0FFF)+(c.data&0x0FFF) > 0x0FFF)
		c.regs.setFlag(carryFlag, sum > 0xFFFF)
		c.regs.Write(RegHL, uint16(sum))
		return 1
	case RegSP:
		// flags were set by the addressing mode
		c.regs.Write(RegSP, c.data)
		return 1
	}
	c.add(uint8(c.data), 0)
	return 0
}

func (c *CPU) opADC(Bus) int {
	c.add(uint8(c.data), c.regs.carry())
	return 0
}

func (c *CPU) opSUB(Bus) int {
	c.regs.a = c.sub(uint8(c.data), 0)
	return 0
}

func (c *CPU) opSBC(Bus) int {
	c.regs.a = c.sub(uint8(c.data), c.regs.carry())
	return 0
}

func (c *CPU) opCP(Bus) int {
	c.sub(uint8(c.data), 0)
	return 0
}

func (c *CPU) add(value, carry uint8) {
	a := c.regs.a
	sum := uint16(a) + uint16(value) + uint16(carry)
	c.regs.a = uint8(sum)
	c.regs.setFlags(uint8(sum) == 0, false, (a&0x0F)+(value&0x0F)+carry > 0x0F, sum > 0xFF)
}

// sub computes A - value - carry, sets the flags and returns the result.
func (c *CPU) sub(value, carry uint8) uint8 {
	a := c.regs.a
	diff := int(a) - int(value) - int(carry)
	result := uint8(diff)
	c.regs.setFlags(result == 0, true, int(a&0x0F)-int(value&0x0F)-int(carry) < 0, diff < 0)
	return result
}

func (c *CPU) opAND(Bus) int {
	c.regs.a &= uint8(c.data)
	c.regs.setFlags(c.regs.a == 0, false, true, false)
	return 0
}

func (c *CPU) opXOR(Bus) int {
	c.regs.a ^= uint8(c.data)
	c.regs.setFlags(c.regs.a == 0, false, false, false)
	return 0
}

func (c *CPU) opOR(Bus) int {
	c.regs.a |= uint8(c.data)
	c.regs.setFlags(c.regs.a == 0, false, false, false)
	return 0
}

// JR cc,i8
func (c *CPU) opJR(Bus) int {
	if !c.condition(c.inst.cond) {
		return 0
	}
	c.regs.pc += uint16(int8(uint8(c.data)))
	return 1
}

// JP cc,u16 / JP HL
func (c *CPU) opJP(Bus) int {
	if c.inst.mode == modeReg {
		c.regs.pc = c.data
		return 0
	}
	if !c.condition(c.inst.cond) {
		return 0
	}
	c.regs.pc = c.data
	return 1
}

// CALL cc,u16
func (c *CPU) opCALL(bus Bus) int {
	if !c.condition(c.inst.cond) {
		return 0
	}
	c.push(bus, c.regs.pc)
	c.regs.pc = c.data
	return 3
}

// RET cc
func (c *CPU) opRET(bus Bus) int {
	if c.inst.cond == condAlways {
		c.regs.pc = c.pop(bus)
		return 3
	}
	if !c.condition(c.inst.cond) {
		return 1
	}
	c.regs.pc = c.pop(bus)
	return 4
}

// RETI
// #0xD9:
func (c *CPU) opRETI(bus Bus) int {
	c.regs.pc = c.pop(bus)
	c.irq.master = true
	c.irq.enableDelay = 0
	return 3
}

// RST n
func (c *CPU) opRST(bus Bus) int {
	c.push(bus, c.regs.pc)
	c.regs.pc = uint16(c.inst.param)
	return 3
}

func (c *CPU) opPUSH(bus Bus) int {
	c.push(bus, c.data)
	return 3
}

func (c *CPU) opPOP(bus Bus) int {
	c.regs.Write(c.inst.dst, c.pop(bus))
	return 2
}

// DAA
// #0x27:
func (c *CPU) opDAA(Bus) int {
	a := c.regs.a
	carry := c.regs.flag(carryFlag)
	var adjust uint8

	if c.regs.flag(subFlag) {
		if c.regs.flag(halfCarryFlag) {
			adjust |= 0x06
		}
		if carry {
			adjust |= 0x60
		}
		a -= adjust
	} else {
		if c.regs.flag(halfCarryFlag) || a&0x0F > 0x09 {
			adjust |= 0x06
		}
		if carry || a > 0x99 {
			adjust |= 0x60
			carry = true
		}
		a += adjust
	}

	c.regs.a = a
	c.regs.setFlag(zeroFlag, a == 0)
	c.regs.setFlag(halfCarryFlag, false)
	c.regs.setFlag(carryFlag, carry)
	return 0
}

// CPL
// #0x2F:
func (c *CPU) opCPL(Bus) int {
	c.regs.a = ^c.regs.a
	c.regs.setFlag(subFlag, true)
	c.regs.setFlag(halfCarryFlag, true)
	return 0
}

// SCF
// #0x37:
func (c *CPU) opSCF(Bus) int {
	c.regs.setFlag(subFlag, false)
	c.regs.setFlag(halfCarryFlag, false)
	c.regs.setFlag(carryFlag, true)
	return 0
}

// CCF
// #0x3F:
func (c *CPU) opCCF(Bus) int {
	c.regs.setFlag(subFlag, false)
	c.regs.setFlag(halfCarryFlag, false)
	c.regs.setFlag(carryFlag, !c.regs.flag(carryFlag))
	return 0
}

// HALT
// #0x76:
// With IME clear and an interrupt already pending the CPU does not halt, and
// the next opcode byte is read twice.
func (c *CPU) opHALT(Bus) int {
	if !c.irq.master && c.irq.Pending() != 0 {
		c.haltBug = true
		return 0
	}
	c.halted = true
	return 0
}

// STOP
// #0x10:
// The padding byte is consumed by the addressing mode; otherwise a no-op.
func (c *CPU) opSTOP(Bus) int { return 0 }

// DI
// #0xF3:
func (c *CPU) opDI(Bus) int {
	c.irq.disable()
	return 0
}

// EI
// #0xFB:
func (c *CPU) opEI(Bus) int {
	c.irq.scheduleEnable()
	return 0
}
