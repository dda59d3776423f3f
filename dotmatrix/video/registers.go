package video

import (
	"github.com/valerio/go-dotmatrix/dotmatrix/addr"
	"github.com/valerio/go-dotmatrix/dotmatrix/bit"
)

// Mode is the PPU mode as reported in the low two bits of STAT.
type Mode uint8

const (
	ModeHBlank Mode = iota
	ModeVBlank
	ModeScan
	ModeDraw
)

var modeNames = [...]string{"hblank", "vblank", "scan", "draw"}

func (m Mode) String() string {
	return modeNames[m&3]
}

// Control wraps the LCDC register.
//
//	Bit 7 - LCD Display Enable             (0=Off, 1=On)
//	Bit 6 - Window Tile Map Display Select (0=9800-9BFF, 1=9C00-9FFF)
//	Bit 5 - Window Display Enable          (0=Off, 1=On)
//	Bit 4 - BG & Window Tile Data Select   (0=8800-97FF, 1=8000-8FFF)
//	Bit 3 - BG Tile Map Display Select     (0=9800-9BFF, 1=9C00-9FFF)
//	Bit 2 - OBJ (Sprite) Size              (0=8x8, 1=8x16)
//	Bit 1 - OBJ (Sprite) Display Enable    (0=Off, 1=On)
//	Bit 0 - BG Display                     (0=Off, 1=On)
type Control uint8

func (c Control) Enabled() bool           { return bit.IsSet(7, uint8(c)) }
func (c Control) WindowEnabled() bool     { return bit.IsSet(5, uint8(c)) }
func (c Control) UnsignedTiles() bool     { return bit.IsSet(4, uint8(c)) }
func (c Control) TallSprites() bool       { return bit.IsSet(2, uint8(c)) }
func (c Control) SpritesEnabled() bool    { return bit.IsSet(1, uint8(c)) }
func (c Control) BackgroundEnabled() bool { return bit.IsSet(0, uint8(c)) }

// WindowMap returns the base address of the window tile map.
func (c Control) WindowMap() uint16 {
	if bit.IsSet(6, uint8(c)) {
		return addr.TileMap1
	}
	return addr.TileMap0
}

// BackgroundMap returns the base address of the background tile map.
func (c Control) BackgroundMap() uint16 {
	if bit.IsSet(3, uint8(c)) {
		return addr.TileMap1
	}
	return addr.TileMap0
}

// SpriteHeight returns 8 or 16.
func (c Control) SpriteHeight() int {
	if c.TallSprites() {
		return 16
	}
	return 8
}

// Status wraps the STAT register.
//
//	Bit 6 - LYC=LY Coincidence Interrupt (1=Enable)
//	Bit 5 - Mode 2 OAM Interrupt         (1=Enable)
//	Bit 4 - Mode 1 V-Blank Interrupt     (1=Enable)
//	Bit 3 - Mode 0 H-Blank Interrupt     (1=Enable)
//	Bit 2 - Coincidence Flag             (0:LYC<>LY, 1:LYC=LY)
//	Bit 1-0 - Mode Flag
type Status uint8

// statWritable covers the interrupt select bits, the rest is read-only.
const statWritable Status = 0x78

func (s Status) Mode() Mode             { return Mode(s & 0x03) }
func (s Status) Coincidence() bool      { return bit.IsSet(2, uint8(s)) }
func (s Status) HBlankInterrupt() bool  { return bit.IsSet(3, uint8(s)) }
func (s Status) VBlankInterrupt() bool  { return bit.IsSet(4, uint8(s)) }
func (s Status) ScanInterrupt() bool    { return bit.IsSet(5, uint8(s)) }
func (s Status) CompareInterrupt() bool { return bit.IsSet(6, uint8(s)) }
func (s Status) withMode(m Mode) Status { return s&^0x03 | Status(m) }
func (s Status) withCoincidence(match bool) Status {
	return Status(bit.SetTo(2, uint8(s), match))
}

// Palette wraps BGP, OBP0 and OBP1: four 2-bit shades, color index 0 in the low bits.
type Palette uint8

// Shade returns the shade (0-3) for a color index.
func (p Palette) Shade(index uint8) uint8 {
	return uint8(p) >> (index * 2) & 0x03
}

// Color returns the display color for a color index.
func (p Palette) Color(index uint8) GBColor {
	return shades[p.Shade(index)]
}
