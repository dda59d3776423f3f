package headless

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/valerio/go-dotmatrix/dotmatrix/video"
)

// FrameImage converts a framebuffer of RGBA pixels into an image.
func FrameImage(frame *video.FrameBuffer) *image.RGBA {
	w, h := frame.Width(), frame.Height()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			px := frame.GetPixel(uint(x), uint(y))
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(px >> 24),
				G: uint8(px >> 16),
				B: uint8(px >> 8),
				A: uint8(px),
			})
		}
	}
	return img
}

// SaveFramePNG writes the frame to path as a PNG.
func SaveFramePNG(frame *video.FrameBuffer, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}

	if err := png.Encode(file, FrameImage(frame)); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return file.Close()
}
