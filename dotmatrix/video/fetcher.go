package video

import "github.com/valerio/go-dotmatrix/dotmatrix/addr"

type fetchState uint8

const (
	fetchTileNumber fetchState = iota
	fetchTileLow
	fetchTileHigh
	fetchPush
)

// pixel is a decoded background or window pixel waiting in the FIFO.
type pixel struct {
	color     uint8
	bgEnabled bool
}

// pixelFIFO is an 8 slot ring buffer. The fetcher only pushes into an empty
// FIFO, so a full tile always fits.
type pixelFIFO struct {
	slots [8]pixel
	head  int
	size  int
}

func (f *pixelFIFO) push(p pixel) {
	f.slots[(f.head+f.size)%len(f.slots)] = p
	f.size++
}

func (f *pixelFIFO) pop() (pixel, bool) {
	if f.size == 0 {
		return pixel{}, false
	}
	p := f.slots[f.head]
	f.head = (f.head + 1) % len(f.slots)
	f.size--
	return p, true
}

func (f *pixelFIFO) clear() {
	f.head, f.size = 0, 0
}

// fetcher produces background and window pixels, one tile row at a time.
// Each fetch step takes 2 dots; the push step retries every dot until the
// FIFO is empty.
type fetcher struct {
	state  fetchState
	toggle bool
	tileX  int
	window bool

	tileNumber uint8
	low, high  uint8

	fifo pixelFIFO
}

// reset restarts fetching at the first tile column of the background or window.
func (f *fetcher) reset(window bool) {
	f.state = fetchTileNumber
	f.toggle = false
	f.tileX = 0
	f.window = window
	f.fifo.clear()
}

// fetchStep advances the fetcher by one dot.
func (p *PPU) fetchStep() {
	f := &p.fetcher
	if f.state == fetchPush {
		if f.fifo.size != 0 {
			return
		}
		enabled := p.lcdc.BackgroundEnabled()
		for col := range 8 {
			f.fifo.push(pixel{color: tileRowPixel(f.low, f.high, col), bgEnabled: enabled})
		}
		f.tileX++
		f.state = fetchTileNumber
		return
	}

	f.toggle = !f.toggle
	if f.toggle {
		return
	}

	switch f.state {
	case fetchTileNumber:
		f.tileNumber = p.vramAt(p.tileMapAddress())
		f.state = fetchTileLow
	case fetchTileLow:
		f.low = p.vramAt(p.tileDataAddress())
		f.state = fetchTileHigh
	case fetchTileHigh:
		f.high = p.vramAt(p.tileDataAddress() + 1)
		f.state = fetchPush
	}
}

// fetchRow is the row within the 256x256 map that the fetcher reads.
func (p *PPU) fetchRow() int {
	if p.fetcher.window {
		return p.windowLine
	}
	return int(p.ly+p.scy) & 0xFF
}

func (p *PPU) tileMapAddress() uint16 {
	f := &p.fetcher
	base, col := p.lcdc.BackgroundMap(), (int(p.scx)/8+f.tileX)&0x1F
	if f.window {
		base, col = p.lcdc.WindowMap(), f.tileX&0x1F
	}
	return base + uint16(p.fetchRow()/8)*32 + uint16(col)
}

// tileDataAddress resolves the current tile number through the addressing
// mode selected by LCDC bit 4.
func (p *PPU) tileDataAddress() uint16 {
	row := uint16(p.fetchRow()%8) * 2
	if p.lcdc.UnsignedTiles() {
		return addr.TileData0 + uint16(p.fetcher.tileNumber)*tileBytes + row
	}
	offset := int(int8(p.fetcher.tileNumber)) * tileBytes
	return uint16(int(addr.TileData2)+offset) + row
}
