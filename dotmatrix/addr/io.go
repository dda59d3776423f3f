package addr

// memory map
const (
	// BootROMEnd is the last address covered by the boot image overlay.
	BootROMEnd uint16 = 0x00FF
	// ROMEnd is the last address of the cartridge ROM window.
	ROMEnd uint16 = 0x7FFF
	// VRAMStart is the first address of video RAM.
	VRAMStart uint16 = 0x8000
	// VRAMEnd is the last address of video RAM.
	VRAMEnd uint16 = 0x9FFF
	// ExternalRAMStart is the first address of the cartridge RAM window.
	ExternalRAMStart uint16 = 0xA000
	// ExternalRAMEnd is the last address of the cartridge RAM window.
	ExternalRAMEnd uint16 = 0xBFFF
	// WRAMStart is the first address of work RAM.
	WRAMStart uint16 = 0xC000
	// WRAMEnd is the last address of work RAM.
	WRAMEnd uint16 = 0xDFFF
	// EchoStart is the first address of the work RAM mirror.
	EchoStart uint16 = 0xE000
	// EchoEnd is the last address of the work RAM mirror.
	EchoEnd uint16 = 0xFDFF
	// IOStart is the first I/O register address.
	IOStart uint16 = 0xFF00
	// IOEnd is the last I/O register address.
	IOEnd uint16 = 0xFF7F
	// HRAMStart is the first address of high RAM.
	HRAMStart uint16 = 0xFF80
	// HRAMEnd is the last address of high RAM.
	HRAMEnd uint16 = 0xFFFE
)

// video registers
const (
	// LCD Control register.
	LCDC uint16 = 0xFF40
	// LCDC Status register.
	STAT uint16 = 0xFF41
	// Scroll Y (SCY) register.
	SCY uint16 = 0xFF42
	// Scroll X (SCX) register.
	SCX uint16 = 0xFF43
	// LCDC Y-Coordinate (readonly) register.
	LY uint16 = 0xFF44
	// LY Compare register.
	LYC uint16 = 0xFF45
	// DMA Transfer and Start register.
	DMA uint16 = 0xFF46
	// BG Palette register.
	BGP uint16 = 0xFF47
	// Object Palette 0 register.
	OBP0 uint16 = 0xFF48
	// Object Palette 1 register.
	OBP1 uint16 = 0xFF49
	// Window Y Position register.
	WY uint16 = 0xFF4A
	// Window X Position register.
	WX uint16 = 0xFF4B
	// BootROMDisable unmaps the boot image when written with a non-zero value.
	BootROMDisable uint16 = 0xFF50
)

// Audio registers, see https://gbdev.io/pandocs/Audio_Registers.html
const (
	AudioStart uint16 = 0xFF10
	AudioEnd   uint16 = 0xFF3F

	// Voice 1 - pulse with sweep
	NR10 uint16 = 0xFF10 // sweep
	NR11 uint16 = 0xFF11 // length timer & duty cycle
	NR12 uint16 = 0xFF12 // volume & envelope
	NR13 uint16 = 0xFF13 // period low
	NR14 uint16 = 0xFF14 // period high & control

	// Voice 2 - pulse
	NR21 uint16 = 0xFF16
	NR22 uint16 = 0xFF17
	NR23 uint16 = 0xFF18
	NR24 uint16 = 0xFF19

	// Voice 3 - wave
	NR30 uint16 = 0xFF1A // DAC enable
	NR31 uint16 = 0xFF1B // length timer
	NR32 uint16 = 0xFF1C // output level
	NR33 uint16 = 0xFF1D
	NR34 uint16 = 0xFF1E

	// Voice 4 - noise, registers only
	NR41 uint16 = 0xFF20
	NR42 uint16 = 0xFF21
	NR43 uint16 = 0xFF22
	NR44 uint16 = 0xFF23

	NR50 uint16 = 0xFF24 // master volume & VIN panning
	NR51 uint16 = 0xFF25 // panning
	NR52 uint16 = 0xFF26 // power and voice status

	// 32 4-bit samples, high nibble first
	WaveRAMStart uint16 = 0xFF30
	WaveRAMEnd   uint16 = 0xFF3F
)

// OAM (Object Attribute Memory), 40 sprites of 4 bytes each.
const (
	OAMStart uint16 = 0xFE00
	OAMEnd   uint16 = 0xFE9F
)

// tile data and tile maps
const (
	// TileData0 is the start of unsigned tile data (tiles 0-255)
	TileData0 uint16 = 0x8000
	// TileData2 is the base of signed tile data (tiles -128 to 127)
	TileData2 uint16 = 0x9000

	// TileMap0 is background/window tile map 0
	TileMap0 uint16 = 0x9800
	// TileMap1 is background/window tile map 1
	TileMap1 uint16 = 0x9C00
)

// interrupts
const (
	// IF is the address for the Interrupt Flags register.
	IF uint16 = 0xFF0F
	// IE is the address for the Interrupt Enable register.
	IE uint16 = 0xFFFF
)

// joypad
const (
	// P1 is used to read the Joypad state.
	P1 uint16 = 0xFF00
)

// serial I/O
const (
	// SB holds the byte to be transmitted; after a transfer with no peer it reads 0xFF.
	SB uint16 = 0xFF01
	// SC is the serial control register. Bit 7 starts a transfer, bit 0 selects the internal clock.
	SC uint16 = 0xFF02
)

// timers
const (
	// DIV is the divider register, the high byte of the internal divider. Writing to it resets it.
	DIV uint16 = 0xFF04
	// TIMA is the timer counter register. Generates an interrupt when it overflows.
	TIMA uint16 = 0xFF05
	// TMA is the timer modulo register. When TIMA overflows, this data will be loaded.
	TMA uint16 = 0xFF06
	// TAC is the timer control register. Used to start/stop and control the timer clock.
	TAC uint16 = 0xFF07
)

// Interrupt is a bit mask of one or more interrupt sources, laid out as in IE/IF.
type Interrupt uint8

const (
	// VBlankInterrupt is fired when the PPU has completed a frame.
	VBlankInterrupt Interrupt = 1
	// LCDSTATInterrupt is fired based on one of the conditions in the LCDSTAT register.
	LCDSTATInterrupt Interrupt = 1 << 1
	// TimerInterrupt is fired when the timer register (TIMA) overflows (i.e. goes from 0xFF to 0x00).
	TimerInterrupt Interrupt = 1 << 2
	// SerialInterrupt is fired when a serial transfer has completed on the game link port.
	SerialInterrupt Interrupt = 1 << 3
	// JoypadInterrupt is fired when any of the keypad inputs goes from high to low.
	JoypadInterrupt Interrupt = 1 << 4
)

// InterruptMask covers the five implemented interrupt sources.
const InterruptMask Interrupt = 0x1F

// Vector returns the handler address of the source at the given priority index.
func Vector(index int) uint16 {
	return 0x40 + uint16(index)*8
}
