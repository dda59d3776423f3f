package terminal

import (
	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-dotmatrix/dotmatrix/video"
)

const white = 3

// pixelToShade converts a framebuffer pixel to a shade level, 0 black to 3 white.
func pixelToShade(pixel uint32) int {
	switch video.GBColor(pixel) {
	case video.DarkGreyColor:
		return 1
	case video.LightGreyColor:
		return 2
	case video.WhiteColor:
		return white
	default:
		return 0
	}
}

var shadeColors = [4]tcell.Color{
	tcell.ColorBlack,
	tcell.ColorGray,
	tcell.ColorSilver,
	tcell.ColorWhite,
}

// halfBlock packs two vertically adjacent pixels into one terminal cell.
func halfBlock(topShade, bottomShade int) (rune, tcell.Style) {
	top, bottom := shadeColors[topShade], shadeColors[bottomShade]
	switch {
	case topShade == bottomShade:
		return '█', tcell.StyleDefault.Foreground(top)
	case topShade == white:
		return '▄', tcell.StyleDefault.Foreground(bottom).Background(top)
	default:
		return '▀', tcell.StyleDefault.Foreground(top).Background(bottom)
	}
}
