package dotmatrix

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/valerio/go-dotmatrix/dotmatrix/memory"
	"github.com/valerio/go-dotmatrix/dotmatrix/serial"
)

// spin is JR -2, an endless loop on itself.
var spin = []byte{0x18, 0xFE}

// testROM builds a 32 KiB ROM-only image with program at the 0x0100 entry point.
func testROM(program ...byte) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x134:], "TEST")
	copy(rom[0x100:], program)
	return rom
}

func newTestBus(t *testing.T, bootROM []byte, program ...byte) *Bus {
	t.Helper()
	cart, err := memory.NewCartridgeWithData(testROM(program...))
	require.NoError(t, err)
	mapper, err := memory.NewMapper(cart)
	require.NoError(t, err)
	return NewBus(mapper, bootROM, serial.NewLogSink())
}

func stepN(t *testing.T, b *Bus, n int) {
	t.Helper()
	for range n {
		require.NoError(t, b.Step())
	}
}
