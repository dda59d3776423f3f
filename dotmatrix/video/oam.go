package video

import (
	"cmp"
	"slices"

	"github.com/valerio/go-dotmatrix/dotmatrix/bit"
)

const (
	oamEntries       = 40
	spritesPerLine   = 10
	spriteYOffset    = 16
	spriteXOffset    = 8
	tileBytes        = 16
	unsignedTileBase = 0x8000
)

// spriteAttr is the fourth byte of an OAM entry.
type spriteAttr uint8

func (a spriteAttr) BehindBackground() bool { return bit.IsSet(7, uint8(a)) }
func (a spriteAttr) FlipY() bool            { return bit.IsSet(6, uint8(a)) }
func (a spriteAttr) FlipX() bool            { return bit.IsSet(5, uint8(a)) }
func (a spriteAttr) HighPalette() bool      { return bit.IsSet(4, uint8(a)) }

// Sprite is a scanline candidate read from OAM. X and Y keep the hardware
// offsets (+8 and +16).
type Sprite struct {
	Y, X  uint8
	Tile  uint8
	Attr  spriteAttr
	Index int
}

func readSprite(oam *[0xA0]byte, index int) Sprite {
	base := index * 4
	return Sprite{
		Y:     oam[base],
		X:     oam[base+1],
		Tile:  oam[base+2],
		Attr:  spriteAttr(oam[base+3]),
		Index: index,
	}
}

// covers reports whether the sprite overlaps scanline ly.
func (s Sprite) covers(ly uint8, height int) bool {
	top := int(s.Y) - spriteYOffset
	return int(ly) >= top && int(ly) < top+height
}

// lineSprites is the per-scanline candidate list filled during mode 2.
type lineSprites struct {
	entries [spritesPerLine]Sprite
	count   int
}

func (l *lineSprites) reset() {
	l.count = 0
}

// consider adds OAM entry index if it covers ly and the line limit allows it.
func (l *lineSprites) consider(oam *[0xA0]byte, index int, ly uint8, height int) {
	if l.count == spritesPerLine {
		return
	}
	s := readSprite(oam, index)
	if !s.covers(ly, height) {
		return
	}
	l.entries[l.count] = s
	l.count++
}

// sort orders candidates by X, keeping OAM order for equal X. Entries are
// collected in OAM order so a stable sort is enough.
func (l *lineSprites) sort() {
	slices.SortStableFunc(l.entries[:l.count], func(a, b Sprite) int {
		return cmp.Compare(a.X, b.X)
	})
}

func (l *lineSprites) all() []Sprite {
	return l.entries[:l.count]
}

// Sprites returns the candidates selected for the current scanline, in priority order.
func (p *PPU) Sprites() []Sprite {
	return slices.Clone(p.sprites.all())
}

// spritePixel returns the first sprite pixel with a non-zero color at screen
// column x, in priority order.
func (p *PPU) spritePixel(x int) (color uint8, attr spriteAttr, ok bool) {
	height := p.lcdc.SpriteHeight()
	for _, s := range p.sprites.all() {
		col := x - (int(s.X) - spriteXOffset)
		if col < 0 || col >= 8 {
			continue
		}
		row := int(p.ly) - (int(s.Y) - spriteYOffset)
		if s.Attr.FlipX() {
			col = 7 - col
		}
		if s.Attr.FlipY() {
			row = height - 1 - row
		}

		tile := s.Tile
		if height == 16 {
			tile &= 0xFE
		}
		address := unsignedTileBase + uint16(tile)*tileBytes + uint16(row)*2
		low, high := p.vramAt(address), p.vramAt(address+1)

		c := tileRowPixel(low, high, col)
		if c != 0 {
			return c, s.Attr, true
		}
	}
	return 0, 0, false
}

// tileRowPixel decodes the 2-bit color of column col (0 is leftmost) from a
// row's bit planes.
func tileRowPixel(low, high uint8, col int) uint8 {
	shift := uint8(7 - col)
	return (high>>shift&1)<<1 | low>>shift&1
}
