package video

// GBColor is a packed RGBA color as stored in the framebuffer.
type GBColor uint32

const (
	WhiteColor     GBColor = 0xFFFFFFFF
	LightGreyColor GBColor = 0x989898FF
	DarkGreyColor  GBColor = 0x4C4C4CFF
	BlackColor     GBColor = 0x000000FF
)

const (
	FramebufferWidth  = 160
	FramebufferHeight = 144
)

// shades maps a palette shade (0-3) to its display color.
var shades = [4]GBColor{WhiteColor, LightGreyColor, DarkGreyColor, BlackColor}

// FrameBuffer holds one frame of packed pixels, row-major.
type FrameBuffer struct {
	width  uint
	height uint
	buffer []uint32
}

// NewFrameBuffer creates a frame buffer with the screen size.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{
		width:  FramebufferWidth,
		height: FramebufferHeight,
		buffer: make([]uint32, FramebufferWidth*FramebufferHeight),
	}
}

func (fb *FrameBuffer) GetPixel(x, y uint) uint32 {
	return fb.buffer[y*fb.width+x]
}

func (fb *FrameBuffer) SetPixel(x, y uint, color GBColor) {
	fb.buffer[y*fb.width+x] = uint32(color)
}

// Clear fills the whole buffer with a single color.
func (fb *FrameBuffer) Clear(color GBColor) {
	for i := range fb.buffer {
		fb.buffer[i] = uint32(color)
	}
}

// ToSlice returns the backing pixel slice. It is overwritten in place by the next frame.
func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.buffer
}

// Width returns the width in pixels.
func (fb *FrameBuffer) Width() int { return int(fb.width) }

// Height returns the height in pixels.
func (fb *FrameBuffer) Height() int { return int(fb.height) }
