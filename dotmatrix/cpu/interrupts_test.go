package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-dotmatrix/dotmatrix/addr"
)

func TestInterrupts_Registers(t *testing.T) {
	var irq Interrupts
	irq.WriteFlags(0xFF)
	assert.Equal(t, uint8(0xFF), irq.ReadFlags())
	irq.WriteFlags(0x00)
	assert.Equal(t, uint8(0xE0), irq.ReadFlags(), "upper bits read as 1")

	irq.WriteEnable(0xFF)
	assert.Equal(t, uint8(0xFF), irq.ReadEnable())

	irq.WriteEnable(uint8(addr.TimerInterrupt))
	irq.Request(addr.TimerInterrupt | addr.VBlankInterrupt)
	assert.Equal(t, addr.TimerInterrupt, irq.Pending())
	assert.Equal(t, 2, irq.next())
}

func TestCPU_InterruptDispatch(t *testing.T) {
	c, bus := newTestCPU(0x00)
	c.irq.master = true
	c.irq.WriteEnable(0x1F)
	c.irq.Request(addr.VBlankInterrupt)

	cycles := run(t, c, bus)

	assert.Equal(t, interruptCycles, cycles)
	assert.Equal(t, uint16(0x0040), c.PC())
	assert.Equal(t, uint16(0xFFFC), c.SP())
	assert.Equal(t, byte(0x01), bus.mem[0xFFFD])
	assert.Equal(t, byte(0x00), bus.mem[0xFFFC])
	assert.Equal(t, uint8(0xE0), c.irq.ReadFlags(), "serviced flag is cleared")
	assert.False(t, c.irq.MasterEnabled())
}

func TestCPU_InterruptPriority(t *testing.T) {
	tests := []struct {
		name      string
		requested addr.Interrupt
		vector    uint16
		remaining uint8
	}{
		{"vblank first", addr.VBlankInterrupt | addr.JoypadInterrupt, 0x40, uint8(addr.JoypadInterrupt)},
		{"stat before timer", addr.LCDSTATInterrupt | addr.TimerInterrupt, 0x48, uint8(addr.TimerInterrupt)},
		{"timer before joypad", addr.TimerInterrupt | addr.JoypadInterrupt, 0x50, uint8(addr.JoypadInterrupt)},
		{"serial alone", addr.SerialInterrupt, 0x58, 0},
		{"joypad alone", addr.JoypadInterrupt, 0x60, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, bus := newTestCPU(0x00)
			c.irq.master = true
			c.irq.WriteEnable(0x1F)
			c.irq.Request(tt.requested)

			run(t, c, bus)

			assert.Equal(t, tt.vector, c.PC())
			assert.Equal(t, tt.remaining|0xE0, c.irq.ReadFlags())
		})
	}
}

func TestCPU_InterruptNotDispatched(t *testing.T) {
	t.Run("source disabled in IE", func(t *testing.T) {
		c, bus := newTestCPU(0x00)
		c.irq.master = true
		c.irq.WriteEnable(uint8(addr.VBlankInterrupt))
		c.irq.Request(addr.TimerInterrupt)

		run(t, c, bus)
		assert.Equal(t, uint16(0x0101), c.PC())
	})

	t.Run("IME clear", func(t *testing.T) {
		c, bus := newTestCPU(0x00)
		c.irq.WriteEnable(0x1F)
		c.irq.Request(addr.VBlankInterrupt)

		run(t, c, bus)
		assert.Equal(t, uint16(0x0101), c.PC())
		assert.Equal(t, uint8(0xE1), c.irq.ReadFlags())
	})
}

func TestCPU_HaltWakesWithoutIME(t *testing.T) {
	c, bus := newTestCPU(0x76, 0x00)
	c.irq.WriteEnable(uint8(addr.VBlankInterrupt))

	run(t, c, bus)
	require.True(t, c.Halted())
	for range 10 {
		run(t, c, bus)
	}
	assert.True(t, c.Halted())
	assert.Equal(t, uint16(0x0101), c.PC())

	c.irq.Request(addr.VBlankInterrupt)
	run(t, c, bus)

	assert.False(t, c.Halted())
	assert.Equal(t, uint16(0x0102), c.PC(), "resumes after HALT without servicing")
	assert.Equal(t, uint8(0xE1), c.irq.ReadFlags())
}

func TestCPU_HaltWithIME(t *testing.T) {
	c, bus := newTestCPU(0xFB, 0x76, 0x00)
	c.irq.WriteEnable(uint8(addr.TimerInterrupt))

	runN(t, c, bus, 2)
	require.True(t, c.Halted())

	c.irq.Request(addr.TimerInterrupt)
	run(t, c, bus)

	assert.False(t, c.Halted())
	assert.Equal(t, uint16(0x0050), c.PC())
	assert.Equal(t, byte(0x01), bus.mem[0xFFFD])
	assert.Equal(t, byte(0x02), bus.mem[0xFFFC], "returns after HALT")
}

func TestCPU_EIDelay(t *testing.T) {
	c, bus := newTestCPU(0xFB, 0x00, 0x00)
	c.irq.WriteEnable(uint8(addr.VBlankInterrupt))
	c.irq.Request(addr.VBlankInterrupt)

	run(t, c, bus)
	assert.False(t, c.irq.MasterEnabled(), "EI has no immediate effect")

	run(t, c, bus)
	assert.Equal(t, uint16(0x0102), c.PC(), "instruction after EI still runs")

	run(t, c, bus)
	assert.Equal(t, uint16(0x0040), c.PC())
}

func TestCPU_RepeatedEIKeepsFirstDeadline(t *testing.T) {
	c, bus := newTestCPU(0xFB, 0xFB, 0x00, 0x00)
	c.irq.WriteEnable(uint8(addr.VBlankInterrupt))
	c.irq.Request(addr.VBlankInterrupt)

	runN(t, c, bus, 2)
	assert.Equal(t, uint16(0x0102), c.PC())

	run(t, c, bus)
	assert.Equal(t, uint16(0x0040), c.PC(), "dispatch right after the second EI")
	assert.Equal(t, byte(0x01), bus.mem[0xFFFD])
	assert.Equal(t, byte(0x02), bus.mem[0xFFFC])
}

func TestCPU_DICancelsPendingEI(t *testing.T) {
	c, bus := newTestCPU(0xFB, 0xF3, 0x00, 0x00)
	c.irq.WriteEnable(uint8(addr.VBlankInterrupt))
	c.irq.Request(addr.VBlankInterrupt)

	runN(t, c, bus, 3)

	assert.Equal(t, uint16(0x0103), c.PC())
	assert.False(t, c.irq.MasterEnabled())
}

func TestCPU_RETIEnablesImmediately(t *testing.T) {
	c, bus := newTestCPU(0xD9)
	bus.mem[0xFFFE] = 0x00
	bus.mem[0xFFFF] = 0x02
	c.regs.sp = 0xFFFE

	run(t, c, bus)

	assert.Equal(t, uint16(0x0200), c.PC())
	assert.True(t, c.irq.MasterEnabled())
}

func TestCPU_HaltBug(t *testing.T) {
	// INC A after a HALT that did not halt runs twice
	c, bus := newTestCPU(0x76, 0x3C, 0x00)
	c.irq.WriteEnable(uint8(addr.VBlankInterrupt))
	c.irq.Request(addr.VBlankInterrupt)

	run(t, c, bus)
	assert.False(t, c.Halted())

	run(t, c, bus)
	assert.Equal(t, uint16(0x0101), c.PC())
	assert.Equal(t, uint16(0x02), c.regs.Read(RegA))

	run(t, c, bus)
	assert.Equal(t, uint16(0x0102), c.PC())
	assert.Equal(t, uint16(0x03), c.regs.Read(RegA))
}

func TestCPU_StopSkipsPadding(t *testing.T) {
	c, bus := newTestCPU(0x10, 0x00, 0x3C)
	runN(t, c, bus, 2)
	assert.Equal(t, uint16(0x0103), c.PC())
	assert.Equal(t, uint16(0x02), c.regs.Read(RegA))
}
