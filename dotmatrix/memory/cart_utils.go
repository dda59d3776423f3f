package memory

import (
	"strings"
	"unicode"
)

// cleanGameboyTitle turns the raw header title into something printable:
// NUL padding becomes spaces and is trimmed, other non-printables become '?'.
func cleanGameboyTitle(titleBytes []byte) string {
	runes := make([]rune, 0, len(titleBytes))

	for _, b := range titleBytes {
		r := rune(b)
		switch {
		case r == 0:
			r = ' '
		case r > unicode.MaxASCII || !unicode.IsPrint(r):
			r = '?'
		}
		runes = append(runes, r)
	}

	title := strings.TrimSpace(string(runes))
	if title == "" {
		return "(Untitled)"
	}

	return title
}

// ramSizeTable maps the RAM size header byte to a byte count.
var ramSizeTable = [...]int{0, 2 * 1024, 8 * 1024, 32 * 1024, 128 * 1024, 64 * 1024}

// cartridgeTypeNames names the types this package knows about, for logging.
var cartridgeTypeNames = map[uint8]string{
	0x00: "ROM ONLY",
	0x01: "MBC1",
	0x02: "MBC1+RAM",
	0x03: "MBC1+RAM+BATTERY",
	0x08: "ROM+RAM",
	0x09: "ROM+RAM+BATTERY",
}

func typeName(t uint8) string {
	if name, ok := cartridgeTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}
