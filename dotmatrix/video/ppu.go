package video

import (
	"github.com/valerio/go-dotmatrix/dotmatrix/addr"
)

const (
	dotsPerLine   = 456
	scanDots      = 80
	visibleLines  = 144
	linesPerFrame = 154

	// DotsPerFrame is the length of one full frame in dots.
	DotsPerFrame = dotsPerLine * linesPerFrame

	// a window with WX above this never reaches the screen
	windowMaxX = 166
)

// PPU is the DMG picture processing unit. It owns VRAM, OAM and the LCD
// registers and is advanced one dot at a time by Step.
type PPU struct {
	vram [0x2000]byte
	oam  [0xA0]byte

	lcdc     Control
	stat     Status
	scy, scx uint8
	ly, lyc  uint8
	wy, wx   uint8
	bgp      Palette
	obp      [2]Palette

	dot int // dot within the current scanline, [0, 455]

	// draw state, latched when mode 3 starts
	x             int
	discard       int
	lineHasWindow bool
	windowDrawn   bool
	windowLine    int

	fetcher fetcher
	sprites lineSprites

	framebuffer *FrameBuffer
	frameReady  bool
}

// New returns a PPU with the LCD off.
func New() *PPU {
	p := &PPU{
		framebuffer: NewFrameBuffer(),
	}
	p.framebuffer.Clear(WhiteColor)
	return p
}

// Step advances the PPU by one dot and returns the interrupts it raised.
func (p *PPU) Step() addr.Interrupt {
	if !p.lcdc.Enabled() {
		return 0
	}

	var irq addr.Interrupt
	switch p.stat.Mode() {
	case ModeScan:
		if p.dot%2 == 0 {
			p.sprites.consider(&p.oam, p.dot/2, p.ly, p.lcdc.SpriteHeight())
		}
		if p.dot == scanDots-1 {
			p.startDraw()
		}
	case ModeDraw:
		irq |= p.drawStep()
	}

	p.dot++
	if p.dot == dotsPerLine {
		p.dot = 0
		irq |= p.nextLine()
	}
	return irq
}

func (p *PPU) setMode(m Mode) {
	p.stat = p.stat.withMode(m)
}

func (p *PPU) enterScan() addr.Interrupt {
	p.setMode(ModeScan)
	p.sprites.reset()
	if p.stat.ScanInterrupt() {
		return addr.LCDSTATInterrupt
	}
	return 0
}

func (p *PPU) startDraw() {
	p.sprites.sort()
	p.x = 0
	p.discard = int(p.scx % 8)
	p.lineHasWindow = p.lcdc.WindowEnabled() && p.ly >= p.wy && p.wx <= windowMaxX
	p.windowDrawn = false
	p.fetcher.reset(false)
	p.setMode(ModeDraw)
}

// drawStep runs one dot of mode 3: the fetcher, then at most one pixel out of the FIFO.
func (p *PPU) drawStep() addr.Interrupt {
	if p.lineHasWindow && !p.fetcher.window && p.discard == 0 && p.x+7 >= int(p.wx) {
		p.fetcher.reset(true)
		p.windowDrawn = true
	}

	p.fetchStep()

	px, ok := p.fetcher.fifo.pop()
	if !ok {
		return 0
	}
	if p.discard > 0 {
		p.discard--
		return 0
	}

	p.renderPixel(px)
	p.x++
	if p.x < FramebufferWidth {
		return 0
	}

	if p.windowDrawn {
		p.windowLine++
	}
	p.setMode(ModeHBlank)
	if p.stat.HBlankInterrupt() {
		return addr.LCDSTATInterrupt
	}
	return 0
}

// renderPixel composites a background pixel with the line's sprites at column p.x.
func (p *PPU) renderPixel(px pixel) {
	index := px.color
	if !px.bgEnabled {
		index = 0
	}
	color := p.bgp.Color(index)

	if p.lcdc.SpritesEnabled() {
		if c, attr, ok := p.spritePixel(p.x); ok && !(attr.BehindBackground() && index != 0) {
			palette := p.obp[0]
			if attr.HighPalette() {
				palette = p.obp[1]
			}
			color = palette.Color(c)
		}
	}

	p.framebuffer.SetPixel(uint(p.x), uint(p.ly), color)
}

// nextLine runs at the end of every scanline's dot budget.
func (p *PPU) nextLine() addr.Interrupt {
	p.ly++
	if p.ly == linesPerFrame {
		p.ly = 0
		p.windowLine = 0
	}

	irq := p.compareLine()
	switch {
	case p.ly == visibleLines:
		p.setMode(ModeVBlank)
		p.frameReady = true
		irq |= addr.VBlankInterrupt
		if p.stat.VBlankInterrupt() {
			irq |= addr.LCDSTATInterrupt
		}
	case p.ly < visibleLines:
		irq |= p.enterScan()
	}
	return irq
}

// compareLine updates the coincidence flag and raises STAT on a match.
func (p *PPU) compareLine() addr.Interrupt {
	match := p.ly == p.lyc
	p.stat = p.stat.withCoincidence(match)
	if match && p.stat.CompareInterrupt() {
		return addr.LCDSTATInterrupt
	}
	return 0
}

func (p *PPU) setControl(value uint8) {
	wasOn := p.lcdc.Enabled()
	p.lcdc = Control(value)

	switch {
	case wasOn && !p.lcdc.Enabled():
		p.ly = 0
		p.dot = 0
		p.windowLine = 0
		p.fetcher.reset(false)
		p.setMode(ModeHBlank)
	case !wasOn && p.lcdc.Enabled():
		p.ly = 0
		p.dot = 0
		p.windowLine = 0
		p.compareLine()
		p.enterScan()
	}
}

func (p *PPU) vramAt(address uint16) uint8 {
	return p.vram[address-addr.VRAMStart]
}

// Read returns a VRAM, OAM or LCD register byte.
func (p *PPU) Read(address uint16) uint8 {
	switch {
	case address >= addr.VRAMStart && address <= addr.VRAMEnd:
		return p.vramAt(address)
	case address >= addr.OAMStart && address <= addr.OAMEnd:
		return p.oam[address-addr.OAMStart]
	}

	switch address {
	case addr.LCDC:
		return uint8(p.lcdc)
	case addr.STAT:
		return uint8(p.stat) | 0x80
	case addr.SCY:
		return p.scy
	case addr.SCX:
		return p.scx
	case addr.LY:
		return p.ly
	case addr.LYC:
		return p.lyc
	case addr.BGP:
		return uint8(p.bgp)
	case addr.OBP0:
		return uint8(p.obp[0])
	case addr.OBP1:
		return uint8(p.obp[1])
	case addr.WY:
		return p.wy
	case addr.WX:
		return p.wx
	}
	return 0xFF
}

// Write stores a VRAM, OAM or LCD register byte. LY is read-only.
func (p *PPU) Write(address uint16, value uint8) {
	switch {
	case address >= addr.VRAMStart && address <= addr.VRAMEnd:
		p.vram[address-addr.VRAMStart] = value
		return
	case address >= addr.OAMStart && address <= addr.OAMEnd:
		p.oam[address-addr.OAMStart] = value
		return
	}

	switch address {
	case addr.LCDC:
		p.setControl(value)
	case addr.STAT:
		p.stat = p.stat&^statWritable | Status(value)&statWritable
	case addr.SCY:
		p.scy = value
	case addr.SCX:
		p.scx = value
	case addr.LYC:
		p.lyc = value
		if p.lcdc.Enabled() {
			p.compareLine()
		}
	case addr.BGP:
		p.bgp = Palette(value)
	case addr.OBP0:
		p.obp[0] = Palette(value)
	case addr.OBP1:
		p.obp[1] = Palette(value)
	case addr.WY:
		p.wy = value
	case addr.WX:
		p.wx = value
	}
}

// FrameReady reports whether a complete frame is waiting in the framebuffer.
func (p *PPU) FrameReady() bool {
	return p.frameReady
}

// ClearFrameReady acknowledges the current frame.
func (p *PPU) ClearFrameReady() {
	p.frameReady = false
}

// FrameBuffer returns the framebuffer, rewritten in place as lines are drawn.
func (p *PPU) FrameBuffer() *FrameBuffer {
	return p.framebuffer
}

func (p *PPU) LY() uint8        { return p.ly }
func (p *PPU) Mode() Mode       { return p.stat.Mode() }
func (p *PPU) Control() Control { return p.lcdc }
func (p *PPU) Status() Status   { return p.stat }
func (p *PPU) WindowLine() int  { return p.windowLine }
func (p *PPU) Dot() int         { return p.dot }
