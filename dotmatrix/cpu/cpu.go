package cpu

import "github.com/valerio/go-dotmatrix/dotmatrix/addr"

// Bus is the CPU's view of the address space.
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
}

// interruptCycles is the total cost of dispatching an interrupt.
const interruptCycles = 5

// CPU is the SM83 core. Step advances it by exactly one machine cycle;
// a multi-cycle instruction runs on its first cycle and then waits out the rest.
type CPU struct {
	regs RegisterFile
	irq  Interrupts

	halted  bool
	haltBug bool
	wait    int
	cycles  uint64

	// decoded state of the instruction being executed
	opcode    uint8
	inst      *Instruction
	data      uint16
	destAddr  uint16
	destIsMem bool
}

// New returns a CPU with every register cleared, as it is when a boot image runs from 0x0000.
func New() *CPU {
	return &CPU{}
}

// ResetToPostBoot loads the register values the DMG boot image leaves behind.
func (c *CPU) ResetToPostBoot() {
	c.regs.Write(RegAF, 0x01B0)
	c.regs.Write(RegBC, 0x0013)
	c.regs.Write(RegDE, 0x00D8)
	c.regs.Write(RegHL, 0x014D)
	c.regs.sp = 0xFFFE
	c.regs.pc = 0x0100
}

// Step advances the CPU by one machine cycle.
func (c *CPU) Step(bus Bus) error {
	c.cycles++
	if c.wait > 0 {
		c.wait--
		return nil
	}

	c.irq.boundary()
	if c.serviceInterrupt(bus) {
		return nil
	}
	if c.halted {
		return nil
	}

	return c.execute(bus)
}

// serviceInterrupt wakes a halted CPU on any pending and enabled source, and
// dispatches the highest priority one if IME is set.
func (c *CPU) serviceInterrupt(bus Bus) bool {
	idx := c.irq.next()
	if idx < 0 {
		return false
	}
	c.halted = false
	if !c.irq.master {
		return false
	}

	c.irq.acknowledge(idx)
	c.push(bus, c.regs.pc)
	c.regs.pc = addr.Vector(idx)
	c.wait = interruptCycles - 1
	return true
}

func (c *CPU) execute(bus Bus) error {
	pc := c.regs.pc
	c.opcode = bus.Read(pc)
	if c.haltBug {
		c.haltBug = false
	} else {
		c.regs.pc++
	}

	c.inst = &instructions[c.opcode]
	if !c.inst.Defined() {
		c.regs.pc = pc
		return &ExecutionError{Opcode: c.opcode, PC: pc}
	}

	cycles := c.fetchOperands(bus)
	cycles += operations[c.inst.kind](c, bus)
	c.wait += cycles
	return nil
}

// Interrupts exposes the interrupt controller, the bus maps IE and IF onto it.
func (c *CPU) Interrupts() *Interrupts {
	return &c.irq
}

// Halted reports whether the CPU is waiting for an interrupt.
func (c *CPU) Halted() bool {
	return c.halted
}

// Busy reports whether an instruction is still draining its cycles.
func (c *CPU) Busy() bool {
	return c.wait > 0
}

// Cycles returns the machine cycles stepped since creation.
func (c *CPU) Cycles() uint64 {
	return c.cycles
}

// PC returns the program counter.
func (c *CPU) PC() uint16 {
	return c.regs.pc
}

// SP returns the stack pointer.
func (c *CPU) SP() uint16 {
	return c.regs.sp
}

// LastOpcode returns the most recently fetched opcode.
func (c *CPU) LastOpcode() uint8 {
	return c.opcode
}
