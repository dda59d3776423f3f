package cpu

// fetchOperands runs the addressing mode of the current instruction. It
// loads c.data and, for memory destinations, c.destAddr. The return value is
// the number of extra cycles spent on operand bytes and memory reads.
func (c *CPU) fetchOperands(bus Bus) int {
	in := c.inst
	c.destIsMem = false

	switch in.mode {
	case modeImplied:
		return 0
	case modeImm8:
		c.data = uint16(c.readImmediate(bus))
		return 1
	case modeImm16:
		c.data = c.readImmediateWord(bus)
		return 2
	case modeReg:
		c.data = c.regs.Read(in.src)
		return 0
	case modeRegToMem:
		c.data = c.regs.Read(in.src)
		c.setDest(c.regs.Read(in.dst))
		return 0
	case modeMem:
		c.data = uint16(bus.Read(c.regs.Read(in.src)))
		return 1
	case modeMemRMW:
		address := c.regs.Read(in.src)
		c.data = uint16(bus.Read(address))
		c.setDest(address)
		return 1
	case modeImm8ToMem:
		c.data = uint16(c.readImmediate(bus))
		c.setDest(c.regs.Read(in.dst))
		return 1
	case modeRegToMemInc, modeRegToMemDec:
		c.data = c.regs.Read(in.src)
		address := c.regs.Read(in.dst)
		c.setDest(address)
		c.regs.Write(in.dst, step(address, in.mode == modeRegToMemInc))
		return 0
	case modeMemInc, modeMemDec:
		address := c.regs.Read(in.src)
		c.data = uint16(bus.Read(address))
		c.regs.Write(in.src, step(address, in.mode == modeMemInc))
		return 1
	case modeHighImm8:
		c.data = uint16(bus.Read(0xFF00 | uint16(c.readImmediate(bus))))
		return 2
	case modeAbsImm16:
		c.data = uint16(bus.Read(c.readImmediateWord(bus)))
		return 3
	case modeRegToHighImm8:
		c.data = c.regs.Read(in.src)
		c.setDest(0xFF00 | uint16(c.readImmediate(bus)))
		return 1
	case modeRegToAbsImm16:
		c.data = c.regs.Read(in.src)
		c.setDest(c.readImmediateWord(bus))
		return 2
	case modeSPOffset:
		offset := c.readImmediate(bus)
		sp := c.regs.sp
		c.data = sp + uint16(int8(offset))
		c.regs.setFlags(false, false,
			(sp&0x0F)+uint16(offset&0x0F) > 0x0F,
			(sp&0xFF)+uint16(offset) > 0xFF)
		return 2
	case modeRegToHighReg:
		c.data = c.regs.Read(in.src)
		c.setDest(0xFF00 | c.regs.Read(in.dst))
		return 0
	case modeHighReg:
		c.data = uint16(bus.Read(0xFF00 | c.regs.Read(in.src)))
		return 1
	}

	return 0
}

func (c *CPU) setDest(address uint16) {
	c.destAddr = address
	c.destIsMem = true
}

func step(value uint16, up bool) uint16 {
	if up {
		return value + 1
	}
	return value - 1
}

// readImmediate reads the byte at PC and advances it.
func (c *CPU) readImmediate(bus Bus) uint8 {
	value := bus.Read(c.regs.pc)
	c.regs.pc++
	return value
}

// readImmediateWord reads a little endian word at PC and advances past it.
func (c *CPU) readImmediateWord(bus Bus) uint16 {
	low := c.readImmediate(bus)
	high := c.readImmediate(bus)
	return uint16(high)<<8 | uint16(low)
}
