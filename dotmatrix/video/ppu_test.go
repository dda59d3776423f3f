package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-dotmatrix/dotmatrix/addr"
)

func newTestPPU(lcdc uint8) *PPU {
	p := New()
	p.Write(addr.BGP, 0xE4)
	p.Write(addr.OBP0, 0xE4)
	p.Write(addr.LCDC, lcdc)
	return p
}

func runDots(p *PPU, n int) addr.Interrupt {
	var irq addr.Interrupt
	for range n {
		irq |= p.Step()
	}
	return irq
}

// setTile fills all 8 rows of the tile at base with the same bit planes.
func setTile(p *PPU, base uint16, low, high byte) {
	for row := range uint16(8) {
		p.Write(base+row*2, low)
		p.Write(base+row*2+1, high)
	}
}

func setSprite(p *PPU, index int, y, x, tile, attr uint8) {
	base := addr.OAMStart + uint16(index*4)
	p.Write(base, y)
	p.Write(base+1, x)
	p.Write(base+2, tile)
	p.Write(base+3, attr)
}

func pixelAt(p *PPU, x, y uint) GBColor {
	return GBColor(p.FrameBuffer().GetPixel(x, y))
}

func TestPPU_FrameTiming(t *testing.T) {
	p := newTestPPU(0x91)

	vblanks, frames := 0, 0
	for range DotsPerFrame {
		if p.Step()&addr.VBlankInterrupt != 0 {
			vblanks++
		}
		if p.FrameReady() {
			frames++
			p.ClearFrameReady()
		}
	}

	assert.Equal(t, 1, vblanks)
	assert.Equal(t, 1, frames)
	assert.Equal(t, uint8(0), p.LY())
	assert.Equal(t, ModeScan, p.Mode())
	assert.Equal(t, 0, p.Dot())
}

func TestPPU_ModeSequence(t *testing.T) {
	tests := []struct {
		dots int
		mode Mode
		ly   uint8
	}{
		{0, ModeScan, 0},
		{79, ModeScan, 0},
		{80, ModeDraw, 0},
		{300, ModeHBlank, 0},
		{455, ModeHBlank, 0},
		{456, ModeScan, 1},
		{143*456 + 300, ModeHBlank, 143},
		{144 * 456, ModeVBlank, 144},
		{153*456 + 455, ModeVBlank, 153},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			p := newTestPPU(0x91)
			runDots(p, tt.dots)
			assert.Equal(t, tt.mode, p.Mode())
			assert.Equal(t, tt.ly, p.LY())
			assert.Equal(t, uint8(tt.mode), p.Read(addr.STAT)&0x03)
		})
	}
}

func TestPPU_LineCompareInterrupt(t *testing.T) {
	p := newTestPPU(0x91)
	p.Write(addr.LYC, 5)
	p.Write(addr.STAT, 0x40)

	irq := runDots(p, 5*dotsPerLine-1)
	assert.Zero(t, irq&addr.LCDSTATInterrupt)
	assert.Zero(t, p.Read(addr.STAT)&0x04)

	irq = p.Step()
	assert.Equal(t, addr.LCDSTATInterrupt, irq&addr.LCDSTATInterrupt)
	assert.Equal(t, uint8(0x04), p.Read(addr.STAT)&0x04)
}

func TestPPU_StatusInterruptSources(t *testing.T) {
	tests := []struct {
		name string
		stat uint8
		dots int
		want addr.Interrupt
	}{
		{"none selected", 0x00, dotsPerLine, 0},
		{"hblank", 0x08, dotsPerLine, addr.LCDSTATInterrupt},
		{"scan", 0x20, dotsPerLine, addr.LCDSTATInterrupt},
		{"vblank", 0x10, visibleLines * dotsPerLine, addr.LCDSTATInterrupt | addr.VBlankInterrupt},
		{"vblank without select", 0x00, visibleLines * dotsPerLine, addr.VBlankInterrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPPU(0x91)
			p.Write(addr.LYC, 0xFF)
			p.Write(addr.STAT, tt.stat)
			assert.Equal(t, tt.want, runDots(p, tt.dots))
		})
	}
}

func TestPPU_DisplayOff(t *testing.T) {
	p := newTestPPU(0x91)
	runDots(p, 3*dotsPerLine+100)
	require.Equal(t, uint8(3), p.LY())

	p.Write(addr.LCDC, 0x11)
	assert.Equal(t, uint8(0), p.LY())
	assert.Equal(t, ModeHBlank, p.Mode())
	assert.Zero(t, runDots(p, DotsPerFrame))
	assert.Equal(t, uint8(0), p.LY())
	assert.False(t, p.FrameReady())

	p.Write(addr.LCDC, 0x91)
	assert.Equal(t, ModeScan, p.Mode())
}

func TestPPU_Registers(t *testing.T) {
	p := newTestPPU(0x91)

	p.Write(addr.STAT, 0xFF)
	assert.Equal(t, uint8(0xFE), p.Read(addr.STAT), "mode and coincidence are read-only")

	p.Write(addr.LY, 0x42)
	assert.Equal(t, uint8(0), p.Read(addr.LY))

	for _, r := range []uint16{addr.SCY, addr.SCX, addr.LYC, addr.BGP, addr.OBP0, addr.OBP1, addr.WY, addr.WX} {
		p.Write(r, 0x5A)
		assert.Equal(t, uint8(0x5A), p.Read(r))
	}

	p.Write(0x8123, 0x77)
	assert.Equal(t, uint8(0x77), p.Read(0x8123))
	p.Write(0xFE9F, 0x66)
	assert.Equal(t, uint8(0x66), p.Read(0xFE9F))
}

func TestControl(t *testing.T) {
	c := Control(0xFF)
	assert.True(t, c.Enabled())
	assert.True(t, c.WindowEnabled())
	assert.True(t, c.UnsignedTiles())
	assert.True(t, c.SpritesEnabled())
	assert.True(t, c.BackgroundEnabled())
	assert.Equal(t, addr.TileMap1, c.WindowMap())
	assert.Equal(t, addr.TileMap1, c.BackgroundMap())
	assert.Equal(t, 16, c.SpriteHeight())

	c = Control(0x00)
	assert.False(t, c.Enabled())
	assert.Equal(t, addr.TileMap0, c.WindowMap())
	assert.Equal(t, addr.TileMap0, c.BackgroundMap())
	assert.Equal(t, 8, c.SpriteHeight())
}

func TestPalette(t *testing.T) {
	p := Palette(0xE4)
	assert.Equal(t, WhiteColor, p.Color(0))
	assert.Equal(t, LightGreyColor, p.Color(1))
	assert.Equal(t, DarkGreyColor, p.Color(2))
	assert.Equal(t, BlackColor, p.Color(3))

	inverted := Palette(0x1B)
	assert.Equal(t, BlackColor, inverted.Color(0))
	assert.Equal(t, WhiteColor, inverted.Color(3))
}

func TestPPU_Background(t *testing.T) {
	tests := []struct {
		name  string
		lcdc  uint8
		setup func(p *PPU)
		want  map[[2]uint]GBColor
	}{
		{
			name: "unsigned tile data",
			lcdc: 0x91,
			setup: func(p *PPU) {
				setTile(p, 0x8000, 0xFF, 0x00)
			},
			want: map[[2]uint]GBColor{{0, 0}: LightGreyColor, {159, 143}: LightGreyColor},
		},
		{
			name: "background disabled forces color 0",
			lcdc: 0x90,
			setup: func(p *PPU) {
				setTile(p, 0x8000, 0xFF, 0xFF)
			},
			want: map[[2]uint]GBColor{{0, 0}: WhiteColor, {80, 70}: WhiteColor},
		},
		{
			name: "signed tile data",
			lcdc: 0x81,
			setup: func(p *PPU) {
				setTile(p, 0x8000, 0xFF, 0x00)
				setTile(p, 0x9000, 0xFF, 0xFF)
			},
			want: map[[2]uint]GBColor{{0, 0}: BlackColor, {159, 143}: BlackColor},
		},
		{
			name: "signed negative tile index",
			lcdc: 0x81,
			setup: func(p *PPU) {
				p.Write(0x9800, 0x80)
				setTile(p, 0x8800, 0x00, 0xFF)
			},
			want: map[[2]uint]GBColor{{0, 0}: DarkGreyColor, {7, 0}: DarkGreyColor, {8, 0}: WhiteColor},
		},
		{
			name: "horizontal scroll discards leading pixels",
			lcdc: 0x91,
			setup: func(p *PPU) {
				p.Write(0x9800, 1)
				setTile(p, 0x8010, 0xFF, 0xFF)
				p.Write(addr.SCX, 4)
			},
			want: map[[2]uint]GBColor{{0, 0}: BlackColor, {3, 0}: BlackColor, {4, 0}: WhiteColor},
		},
		{
			name: "vertical scroll",
			lcdc: 0x91,
			setup: func(p *PPU) {
				p.Write(0x9820, 1)
				setTile(p, 0x8010, 0xFF, 0xFF)
				p.Write(addr.SCY, 8)
			},
			want: map[[2]uint]GBColor{{0, 0}: BlackColor, {0, 7}: BlackColor, {0, 8}: WhiteColor},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPPU(tt.lcdc)
			tt.setup(p)
			runDots(p, DotsPerFrame)
			for pos, color := range tt.want {
				assert.Equal(t, color, pixelAt(p, pos[0], pos[1]), "pixel %v", pos)
			}
		})
	}
}

func TestPPU_Sprites(t *testing.T) {
	tests := []struct {
		name  string
		lcdc  uint8
		setup func(p *PPU)
		want  map[[2]uint]GBColor
	}{
		{
			name: "equal X, lower OAM index on top",
			lcdc: 0x93,
			setup: func(p *PPU) {
				setTile(p, 0x8010, 0xFF, 0x00)
				setTile(p, 0x8020, 0xFF, 0xFF)
				setSprite(p, 0, 16, 16, 1, 0)
				setSprite(p, 1, 16, 16, 2, 0)
			},
			want: map[[2]uint]GBColor{{8, 0}: LightGreyColor, {15, 7}: LightGreyColor, {8, 8}: WhiteColor},
		},
		{
			name: "lower X on top regardless of OAM index",
			lcdc: 0x93,
			setup: func(p *PPU) {
				setTile(p, 0x8010, 0xFF, 0x00)
				setTile(p, 0x8020, 0xFF, 0xFF)
				setSprite(p, 0, 16, 17, 1, 0)
				setSprite(p, 1, 16, 16, 2, 0)
			},
			want: map[[2]uint]GBColor{{8, 0}: BlackColor, {9, 0}: BlackColor, {16, 0}: LightGreyColor},
		},
		{
			name: "color 0 is transparent",
			lcdc: 0x93,
			setup: func(p *PPU) {
				setTile(p, 0x8000, 0x00, 0xFF)
				setTile(p, 0x8010, 0x0F, 0x00)
				setSprite(p, 0, 16, 8, 1, 0)
			},
			want: map[[2]uint]GBColor{{0, 0}: DarkGreyColor, {3, 0}: DarkGreyColor, {4, 0}: LightGreyColor},
		},
		{
			name: "behind background colors 1-3",
			lcdc: 0x93,
			setup: func(p *PPU) {
				setTile(p, 0x8000, 0x00, 0xFF)
				setTile(p, 0x8010, 0xFF, 0xFF)
				setSprite(p, 0, 16, 8, 1, 0x80)
			},
			want: map[[2]uint]GBColor{{0, 0}: DarkGreyColor},
		},
		{
			name: "behind background color 0",
			lcdc: 0x93,
			setup: func(p *PPU) {
				setTile(p, 0x8010, 0xFF, 0xFF)
				setSprite(p, 0, 16, 8, 1, 0x80)
			},
			want: map[[2]uint]GBColor{{0, 0}: BlackColor},
		},
		{
			name: "second object palette",
			lcdc: 0x93,
			setup: func(p *PPU) {
				p.Write(addr.OBP1, 0x1B)
				setTile(p, 0x8010, 0xFF, 0x00)
				setSprite(p, 0, 16, 8, 1, 0x10)
			},
			want: map[[2]uint]GBColor{{0, 0}: DarkGreyColor},
		},
		{
			name: "horizontal flip",
			lcdc: 0x93,
			setup: func(p *PPU) {
				setTile(p, 0x8010, 0x80, 0x00)
				setSprite(p, 0, 16, 8, 1, 0x20)
			},
			want: map[[2]uint]GBColor{{0, 0}: WhiteColor, {7, 0}: LightGreyColor},
		},
		{
			name: "vertical flip",
			lcdc: 0x93,
			setup: func(p *PPU) {
				p.Write(0x8010, 0xFF)
				setSprite(p, 0, 16, 8, 1, 0x40)
			},
			want: map[[2]uint]GBColor{{0, 0}: WhiteColor, {0, 7}: LightGreyColor},
		},
		{
			name: "sprites disabled",
			lcdc: 0x91,
			setup: func(p *PPU) {
				setTile(p, 0x8010, 0xFF, 0xFF)
				setSprite(p, 0, 16, 8, 1, 0)
			},
			want: map[[2]uint]GBColor{{0, 0}: WhiteColor},
		},
		{
			name: "ten sprites per line",
			lcdc: 0x93,
			setup: func(p *PPU) {
				setTile(p, 0x8010, 0xFF, 0xFF)
				for i := range 11 {
					setSprite(p, i, 16, uint8(8+8*i), 1, 0)
				}
			},
			want: map[[2]uint]GBColor{{0, 0}: BlackColor, {72, 0}: BlackColor, {80, 0}: WhiteColor},
		},
		{
			name: "tall sprite ignores tile bit 0",
			lcdc: 0x97,
			setup: func(p *PPU) {
				setTile(p, 0x8020, 0xFF, 0x00)
				setTile(p, 0x8030, 0xFF, 0xFF)
				setSprite(p, 0, 16, 8, 3, 0)
			},
			want: map[[2]uint]GBColor{{0, 0}: LightGreyColor, {0, 8}: BlackColor, {0, 16}: WhiteColor},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPPU(tt.lcdc)
			tt.setup(p)
			runDots(p, DotsPerFrame)
			for pos, color := range tt.want {
				assert.Equal(t, color, pixelAt(p, pos[0], pos[1]), "pixel %v", pos)
			}
		})
	}
}

func TestPPU_Window(t *testing.T) {
	tests := []struct {
		name   string
		lcdc   uint8
		wx, wy uint8
		want   map[[2]uint]GBColor
	}{
		{"covers the screen", 0xF1, 7, 0, map[[2]uint]GBColor{{0, 0}: BlackColor, {159, 143}: BlackColor}},
		{"starts at WX-7", 0xF1, 87, 0, map[[2]uint]GBColor{{79, 0}: WhiteColor, {80, 0}: BlackColor}},
		{"starts at WY", 0xF1, 7, 10, map[[2]uint]GBColor{{0, 9}: WhiteColor, {0, 10}: BlackColor, {0, 18}: LightGreyColor}},
		{"disabled", 0xD1, 7, 0, map[[2]uint]GBColor{{0, 0}: WhiteColor}},
		{"off screen", 0xF1, 167, 0, map[[2]uint]GBColor{{159, 0}: WhiteColor}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPPU(tt.lcdc)
			// window rows 0-7 use tile 1, rows 8-15 tile 2
			for i := range uint16(32) {
				p.Write(addr.TileMap1+i, 1)
				p.Write(addr.TileMap1+32+i, 2)
			}
			setTile(p, 0x8010, 0xFF, 0xFF)
			setTile(p, 0x8020, 0xFF, 0x00)
			p.Write(addr.WX, tt.wx)
			p.Write(addr.WY, tt.wy)

			runDots(p, DotsPerFrame)
			for pos, color := range tt.want {
				assert.Equal(t, color, pixelAt(p, pos[0], pos[1]), "pixel %v", pos)
			}
			assert.Zero(t, p.WindowLine(), "window line resets with the frame")
		})
	}
}

func TestPPU_WindowLineCounter(t *testing.T) {
	p := newTestPPU(0xF1)
	p.Write(addr.WX, 7)
	p.Write(addr.WY, 0)

	runDots(p, 3*dotsPerLine)
	assert.Equal(t, 3, p.WindowLine())
}
