package terminal

import (
	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-dotmatrix/dotmatrix/joypad"
)

var keyMapping = map[tcell.Key]joypad.Key{
	tcell.KeyUp:         joypad.Up,
	tcell.KeyDown:       joypad.Down,
	tcell.KeyLeft:       joypad.Left,
	tcell.KeyRight:      joypad.Right,
	tcell.KeyEnter:      joypad.Start,
	tcell.KeyBackspace:  joypad.Select,
	tcell.KeyBackspace2: joypad.Select,
}

var runeMapping = map[rune]joypad.Key{
	'w': joypad.Up,
	's': joypad.Down,
	'a': joypad.Left,
	'd': joypad.Right,
	'z': joypad.A,
	'x': joypad.B,
}

func isDirection(key joypad.Key) bool {
	return key <= joypad.Down
}
