package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-dotmatrix/dotmatrix/cpu"
	"github.com/valerio/go-dotmatrix/dotmatrix/memory"
)

// writeROM stores a ROM-only image with program at the entry point.
func writeROM(t *testing.T, dir string, program ...byte) string {
	t.Helper()
	rom := make([]byte, 0x8000)
	copy(rom[0x100:], program)
	path := filepath.Join(dir, "test.gb")
	require.NoError(t, os.WriteFile(path, rom, 0o644))
	return path
}

func TestRun_Headless(t *testing.T) {
	dir := t.TempDir()
	// LD A,'!'; LDH (SB),A; LD A,0x81; LDH (SC),A; JR -2
	romPath := writeROM(t, dir, 0x3E, '!', 0xE0, 0x01, 0x3E, 0x81, 0xE0, 0x02, 0x18, 0xFE)

	opts := options{
		romPath:          romPath,
		headless:         true,
		frames:           4,
		snapshotInterval: 2,
		snapshotDir:      filepath.Join(dir, "shots"),
		wavPath:          filepath.Join(dir, "out.wav"),
		sampleRate:       22050,
		serialOut:        filepath.Join(dir, "serial.txt"),
	}
	require.NoError(t, run(opts))

	serial, err := os.ReadFile(opts.serialOut)
	require.NoError(t, err)
	assert.Equal(t, "!", string(serial))

	assert.FileExists(t, filepath.Join(opts.snapshotDir, "test_frame_2.png"))
	assert.FileExists(t, filepath.Join(opts.snapshotDir, "test_frame_4.png"))

	f, err := os.Open(opts.wavPath)
	require.NoError(t, err)
	defer f.Close()
	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	assert.Equal(t, uint32(22050), dec.SampleRate)
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	assert.NotEmpty(t, buf.Data)
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	romPath := writeROM(t, dir, 0x18, 0xFE)

	t.Run("headless needs frames", func(t *testing.T) {
		err := run(options{romPath: romPath, headless: true})
		assert.ErrorContains(t, err, "--frames")
	})

	t.Run("missing ROM", func(t *testing.T) {
		err := run(options{romPath: filepath.Join(dir, "missing.gb"), headless: true, frames: 1})
		var loadErr *memory.LoadError
		assert.ErrorAs(t, err, &loadErr)
	})

	t.Run("oversized boot ROM", func(t *testing.T) {
		boot := filepath.Join(dir, "boot.bin")
		require.NoError(t, os.WriteFile(boot, make([]byte, 0x200), 0o644))
		err := run(options{romPath: romPath, bootROMPath: boot, headless: true, frames: 1})
		var loadErr *memory.LoadError
		assert.ErrorAs(t, err, &loadErr)
	})

	t.Run("invalid sample rate", func(t *testing.T) {
		err := run(options{romPath: romPath, headless: true, frames: 1, wavPath: filepath.Join(dir, "x.wav")})
		assert.ErrorContains(t, err, "sample rate")
	})

	t.Run("execution error", func(t *testing.T) {
		badPath := writeROM(t, t.TempDir(), 0xFC)
		err := run(options{romPath: badPath, headless: true, frames: 10})
		assert.ErrorIs(t, err, cpu.ErrUnimplemented)
	})
}
