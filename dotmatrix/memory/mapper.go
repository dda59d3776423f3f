package memory

import "github.com/valerio/go-dotmatrix/dotmatrix/addr"

// Mapper is the cartridge side of the bus. It receives every access to the
// ROM window (0x0000-0x7FFF) and the external RAM window (0xA000-0xBFFF).
type Mapper interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// Fixed maps the whole ROM into 0x0000-0x7FFF with no banking.
// Writes to the ROM window are ignored. Carts declaring RAM get a single
// fixed RAM window; without it the window reads 0xFF.
type Fixed struct {
	rom []uint8
	ram []uint8
}

// NewFixed creates a fixed mapping over rom with ramSize bytes of RAM.
func NewFixed(rom []uint8, ramSize int) *Fixed {
	m := &Fixed{
		rom: make([]uint8, max(len(rom), 2*romBankSize)),
		ram: make([]uint8, ramSize),
	}
	copy(m.rom, rom)
	return m
}

func (m *Fixed) Read(address uint16) uint8 {
	switch {
	case address <= addr.ROMEnd:
		return m.rom[address]
	case address >= addr.ExternalRAMStart && address <= addr.ExternalRAMEnd:
		if len(m.ram) == 0 {
			return 0xFF
		}
		return m.ram[int(address-addr.ExternalRAMStart)%len(m.ram)]
	default:
		return 0xFF
	}
}

func (m *Fixed) Write(address uint16, value uint8) {
	if address >= addr.ExternalRAMStart && address <= addr.ExternalRAMEnd && len(m.ram) > 0 {
		m.ram[int(address-addr.ExternalRAMStart)%len(m.ram)] = value
	}
}

// MBC1 is the first and most common banking controller:
//   - up to 2MB ROM (125 usable 16KB banks), up to 32KB RAM (4 8KB banks)
//   - 0x0000-0x1FFF: RAM enable (low nibble 0xA)
//   - 0x2000-0x3FFF: 5 bit ROM bank register, 0 is read as 1
//   - 0x4000-0x5FFF: 2 bit secondary register (upper ROM bits or RAM bank)
//   - 0x6000-0x7FFF: mode select, mode 1 applies the secondary register to
//     the 0x0000 window and to RAM
type MBC1 struct {
	rom        []uint8
	ram        []uint8
	romBanks   int
	bank1      uint8
	bank2      uint8
	mode       uint8
	ramEnabled bool
}

// NewMBC1 creates an MBC1 controller over rom with ramSize bytes of RAM.
// Bank numbers wrap on the header's bank count, or on the image's when the
// header declares more banks than the image holds.
func NewMBC1(rom []uint8, romBanks, ramSize int) *MBC1 {
	banks := (len(rom) + romBankSize - 1) / romBankSize
	if romBanks > 0 && romBanks < banks {
		banks = romBanks
	}
	banks = max(banks, 2)
	m := &MBC1{
		rom:      make([]uint8, banks*romBankSize),
		ram:      make([]uint8, ramSize),
		romBanks: banks,
		bank1:    1,
	}
	copy(m.rom, rom)
	return m
}

func (m *MBC1) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.rom[m.romOffset(m.lowBank(), address)]
	case address <= addr.ROMEnd:
		return m.rom[m.romOffset(m.highBank(), address-0x4000)]
	case address >= addr.ExternalRAMStart && address <= addr.ExternalRAMEnd:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		return m.ram[m.ramOffset(address)]
	default:
		return 0xFF
	}
}

func (m *MBC1) Write(address uint16, value uint8) {
	switch {
	case address <= 0x1FFF:
		m.ramEnabled = value&0x0F == 0x0A
	case address <= 0x3FFF:
		m.bank1 = value & 0x1F
		if m.bank1 == 0 {
			m.bank1 = 1
		}
	case address <= 0x5FFF:
		m.bank2 = value & 0x03
	case address <= addr.ROMEnd:
		m.mode = value & 0x01
	case address >= addr.ExternalRAMStart && address <= addr.ExternalRAMEnd:
		if m.ramEnabled && len(m.ram) > 0 {
			m.ram[m.ramOffset(address)] = value
		}
	}
}

// ROMBank returns the bank currently mapped at 0x4000-0x7FFF.
func (m *MBC1) ROMBank() int {
	return m.highBank() % m.romBanks
}

func (m *MBC1) lowBank() int {
	if m.mode == 1 {
		return int(m.bank2) << 5
	}
	return 0
}

func (m *MBC1) highBank() int {
	return int(m.bank2)<<5 | int(m.bank1)
}

func (m *MBC1) romOffset(bank int, offset uint16) int {
	return (bank%m.romBanks)*romBankSize + int(offset)
}

func (m *MBC1) ramOffset(address uint16) int {
	bank := 0
	if m.mode == 1 {
		bank = int(m.bank2)
	}
	return (bank*ramBankSize + int(address-addr.ExternalRAMStart)) % len(m.ram)
}
