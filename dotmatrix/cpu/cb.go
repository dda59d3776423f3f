package cpu

import "github.com/valerio/go-dotmatrix/dotmatrix/bit"

// opCB runs a CB-prefixed opcode, held in c.data. Layout: bits 7-6 pick the
// group (shift/rotate, BIT, RES, SET), bits 5-3 the sub-op or bit index and
// bits 2-0 the register, with 6 meaning (HL).
func (c *CPU) opCB(bus Bus) int {
	op := uint8(c.data)
	target := r8[op&0x07]
	index := (op >> 3) & 0x07

	var value uint8
	extra := 0
	address := c.regs.Read(RegHL)
	if target == RegHL {
		value = bus.Read(address)
		extra = 1
	} else {
		value = uint8(c.regs.Read(target))
	}

	switch op >> 6 {
	case 0:
		value = c.rotate(index, value)
	case 1:
		c.regs.setFlag(zeroFlag, !bit.IsSet(index, value))
		c.regs.setFlag(subFlag, false)
		c.regs.setFlag(halfCarryFlag, true)
		return extra
	case 2:
		value = bit.Reset(index, value)
	case 3:
		value = bit.Set(index, value)
	}

	if target == RegHL {
		bus.Write(address, value)
		return extra + 1
	}
	c.regs.Write(target, uint16(value))
	return 0
}

// rotate applies RLC, RRC, RL, RR, SLA, SRA, SWAP or SRL, selected by op.
func (c *CPU) rotate(op, value uint8) uint8 {
	var result uint8
	var carry bool

	switch op {
	case 0:
		result, carry = value<<1|value>>7, value&0x80 != 0
	case 1:
		result, carry = value>>1|value<<7, value&0x01 != 0
	case 2:
		result, carry = value<<1|c.regs.carry(), value&0x80 != 0
	case 3:
		result, carry = value>>1|c.regs.carry()<<7, value&0x01 != 0
	case 4:
		result, carry = value<<1, value&0x80 != 0
	case 5:
		result, carry = value>>1|value&0x80, value&0x01 != 0
	case 6:
		result = value<<4 | value>>4
	case 7:
		result, carry = value>>1, value&0x01 != 0
	}

	c.regs.setFlags(result == 0, false, false, carry)
	return result
}
