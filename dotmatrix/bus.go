package dotmatrix

import (
	"log/slog"

	"github.com/valerio/go-dotmatrix/dotmatrix/addr"
	"github.com/valerio/go-dotmatrix/dotmatrix/audio"
	"github.com/valerio/go-dotmatrix/dotmatrix/bit"
	"github.com/valerio/go-dotmatrix/dotmatrix/cpu"
	"github.com/valerio/go-dotmatrix/dotmatrix/joypad"
	"github.com/valerio/go-dotmatrix/dotmatrix/memory"
	"github.com/valerio/go-dotmatrix/dotmatrix/serial"
	"github.com/valerio/go-dotmatrix/dotmatrix/timer"
	"github.com/valerio/go-dotmatrix/dotmatrix/video"
)

const (
	// DotsPerStep is the number of PPU dots in one master step (one machine cycle).
	DotsPerStep = 4
	// StepsPerFrame is the number of master steps in one full frame.
	StepsPerFrame = video.DotsPerFrame / DotsPerStep

	// falling edges of this divider bit clock the APU frame sequencer at 512 Hz
	frameSequencerBit = 12

	dmaLength = 0xA0

	// divider value the boot ROM leaves behind, DIV reads 0xAB
	postBootDivider = 0xABCC
)

// Bus owns every component and decodes the 16-bit address space. Step is the
// master clock: one CPU machine cycle and the four dots that go with it.
type Bus struct {
	CPU    *cpu.CPU
	PPU    *video.PPU
	APU    *audio.APU
	Timer  *timer.Timer
	Joypad *joypad.Joypad
	Serial *serial.LogSink

	mapper memory.Mapper

	bootROM    []byte
	bootMapped bool

	wram [0x2000]byte
	hram [0x7F]byte

	// last value written to the DMA register
	dma byte
}

// NewBus wires the components around a cartridge mapper. With a boot image the
// CPU starts at 0x0000 with the image overlaid on the cartridge; without one
// every component starts from the state the boot image would leave behind.
func NewBus(mapper memory.Mapper, bootROM []byte, serialPort *serial.LogSink) *Bus {
	if serialPort == nil {
		serialPort = serial.NewLogSink()
	}

	b := &Bus{
		CPU:    cpu.New(),
		PPU:    video.New(),
		APU:    audio.New(),
		Timer:  timer.New(),
		Joypad: joypad.New(),
		Serial: serialPort,
		mapper: mapper,
	}

	if len(bootROM) > 0 {
		b.bootROM = bootROM
		b.bootMapped = true
		return b
	}

	b.resetToPostBoot()
	return b
}

func (b *Bus) resetToPostBoot() {
	b.CPU.ResetToPostBoot()
	b.CPU.Interrupts().WriteFlags(uint8(addr.VBlankInterrupt))
	b.APU.ResetToPostBoot()
	b.Timer.SetDivider(postBootDivider)

	b.PPU.Write(addr.LCDC, 0x91)
	b.PPU.Write(addr.BGP, 0xFC)
	b.PPU.Write(addr.OBP0, 0xFF)
	b.PPU.Write(addr.OBP1, 0xFF)
}

// Step advances the machine by one master cycle. The CPU runs first, then
// each dot ticks the timer, the APU frame sequencer on a divider falling edge,
// the PPU and the APU voices. An execution error leaves the other components
// untouched for this cycle.
func (b *Bus) Step() error {
	if err := b.CPU.Step(b); err != nil {
		return err
	}

	for range DotsPerStep {
		before := b.Timer.Divider()
		if b.Timer.Tick() {
			b.requestInterrupt(addr.TimerInterrupt)
		}
		if bit.FallingEdge(frameSequencerBit, before, b.Timer.Divider()) {
			b.APU.SlowTick()
		}

		if irq := b.PPU.Step(); irq != 0 {
			b.requestInterrupt(irq)
		}
		b.APU.Tick()
	}

	return nil
}

func (b *Bus) requestInterrupt(irq addr.Interrupt) {
	b.CPU.Interrupts().Request(irq)
}

// BootROMMapped reports whether the boot image still overlays 0x0000-0x00FF.
func (b *Bus) BootROMMapped() bool {
	return b.bootMapped
}

func (b *Bus) Read(address uint16) byte {
	switch {
	case address <= addr.BootROMEnd && b.bootMapped:
		if int(address) < len(b.bootROM) {
			return b.bootROM[address]
		}
		return 0xFF
	case address <= addr.ROMEnd:
		return b.mapper.Read(address)
	case address <= addr.VRAMEnd:
		return b.PPU.Read(address)
	case address <= addr.ExternalRAMEnd:
		return b.mapper.Read(address)
	case address <= addr.WRAMEnd:
		return b.wram[address-addr.WRAMStart]
	case address <= addr.EchoEnd:
		return b.wram[address-addr.EchoStart]
	case address <= addr.OAMEnd:
		return b.PPU.Read(address)
	case address < addr.IOStart:
		// unusable area
		return 0xFF
	case address <= addr.IOEnd:
		return b.readIO(address)
	case address <= addr.HRAMEnd:
		return b.hram[address-addr.HRAMStart]
	default:
		return b.CPU.Interrupts().ReadEnable()
	}
}

func (b *Bus) Write(address uint16, value byte) {
	switch {
	case address <= addr.ROMEnd:
		b.mapper.Write(address, value)
	case address <= addr.VRAMEnd:
		b.PPU.Write(address, value)
	case address <= addr.ExternalRAMEnd:
		b.mapper.Write(address, value)
	case address <= addr.WRAMEnd:
		b.wram[address-addr.WRAMStart] = value
	case address <= addr.EchoEnd:
		b.wram[address-addr.EchoStart] = value
	case address <= addr.OAMEnd:
		b.PPU.Write(address, value)
	case address < addr.IOStart:
		// writes to the unusable area are dropped
	case address <= addr.IOEnd:
		b.writeIO(address, value)
	case address <= addr.HRAMEnd:
		b.hram[address-addr.HRAMStart] = value
	default:
		b.CPU.Interrupts().WriteEnable(value)
	}
}

func (b *Bus) readIO(address uint16) byte {
	switch {
	case address == addr.P1:
		return b.Joypad.Read()
	case address == addr.SB, address == addr.SC:
		return b.Serial.Read(address)
	case address >= addr.DIV && address <= addr.TAC:
		return b.Timer.Read(address)
	case address == addr.IF:
		return b.CPU.Interrupts().ReadFlags()
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		return b.APU.Read(address)
	case address == addr.DMA:
		return b.dma
	case address >= addr.LCDC && address <= addr.WX:
		return b.PPU.Read(address)
	}
	return 0xFF
}

func (b *Bus) writeIO(address uint16, value byte) {
	switch {
	case address == addr.P1:
		b.Joypad.Write(value)
	case address == addr.SB, address == addr.SC:
		if b.Serial.Write(address, value) {
			b.requestInterrupt(addr.SerialInterrupt)
		}
	case address >= addr.DIV && address <= addr.TAC:
		b.Timer.Write(address, value)
	case address == addr.IF:
		b.CPU.Interrupts().WriteFlags(value)
	case address >= addr.AudioStart && address <= addr.AudioEnd:
		b.APU.Write(address, value)
	case address == addr.DMA:
		b.transferOAM(value)
	case address >= addr.LCDC && address <= addr.WX:
		b.PPU.Write(address, value)
	case address == addr.BootROMDisable:
		if value != 0 && b.bootMapped {
			b.bootMapped = false
			slog.Info("Boot ROM unmapped", "pc", b.CPU.PC())
		}
	}
}

// transferOAM copies 160 bytes from value<<8 into OAM in one go. Hardware
// spreads this over 160 machine cycles and blocks the CPU meanwhile.
func (b *Bus) transferOAM(value byte) {
	b.dma = value
	src := uint16(value) << 8
	for i := range uint16(dmaLength) {
		b.PPU.Write(addr.OAMStart+i, b.Read(src+i))
	}
}
