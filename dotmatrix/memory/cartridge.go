package memory

import (
	"fmt"
	"log/slog"
	"os"
)

const (
	titleAddress         = 0x134
	titleLength          = 16
	cartridgeTypeAddress = 0x147
	romSizeAddress       = 0x148
	ramSizeAddress       = 0x149
	headerEnd            = 0x150

	romBankSize = 0x4000
	ramBankSize = 0x2000

	// MaxROMSize is the largest image a DMG header can describe (512 banks).
	MaxROMSize = 8 * 1024 * 1024
	// BootROMSize is the size of the boot image overlay.
	BootROMSize = 0x100
)

// Cartridge holds a ROM image and the header fields needed to pick a mapper.
type Cartridge struct {
	data     []byte
	Title    string
	Type     uint8
	ROMBanks int
	RAMSize  int
}

// NewCartridgeWithData parses the header of a ROM image held in memory.
// The data is copied.
func NewCartridgeWithData(data []byte) (*Cartridge, error) {
	switch {
	case len(data) == 0:
		return nil, &LoadError{Reason: "empty ROM image"}
	case len(data) < headerEnd:
		return nil, &LoadError{Reason: fmt.Sprintf("ROM image of %d bytes has no header", len(data))}
	case len(data) > MaxROMSize:
		return nil, &LoadError{Reason: fmt.Sprintf("ROM image of %d bytes exceeds %d", len(data), MaxROMSize)}
	}

	romSize := data[romSizeAddress]
	if romSize > 8 {
		return nil, &LoadError{Reason: fmt.Sprintf("unknown ROM size byte 0x%02X", romSize)}
	}
	ramSize := data[ramSizeAddress]
	if int(ramSize) >= len(ramSizeTable) {
		return nil, &LoadError{Reason: fmt.Sprintf("unknown RAM size byte 0x%02X", ramSize)}
	}

	cart := &Cartridge{
		data:     make([]byte, len(data)),
		Title:    cleanGameboyTitle(data[titleAddress : titleAddress+titleLength]),
		Type:     data[cartridgeTypeAddress],
		ROMBanks: 2 << romSize,
		RAMSize:  ramSizeTable[ramSize],
	}
	copy(cart.data, data)

	return cart, nil
}

// LoadCartridge reads and parses a ROM image from disk.
func LoadCartridge(path string) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Reason: "reading " + path, Err: err}
	}

	cart, err := NewCartridgeWithData(data)
	if err != nil {
		return nil, err
	}

	slog.Info("Loaded cartridge",
		"path", path,
		"title", cart.Title,
		"type", typeName(cart.Type),
		"rom_banks", cart.ROMBanks,
		"ram_bytes", cart.RAMSize)

	return cart, nil
}

// ValidateBootROM checks that a boot image fits the 0x0000-0x00FF overlay.
func ValidateBootROM(data []byte) error {
	if len(data) == 0 {
		return &LoadError{Reason: "empty boot image"}
	}
	if len(data) > BootROMSize {
		return &LoadError{Reason: fmt.Sprintf("boot image of %d bytes exceeds %d", len(data), BootROMSize)}
	}
	return nil
}

// LoadBootROM reads a boot image from disk.
func LoadBootROM(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Reason: "reading " + path, Err: err}
	}
	if err := ValidateBootROM(data); err != nil {
		return nil, err
	}
	return data, nil
}

// NewMapper selects the mapper variant for the cartridge type byte.
func NewMapper(cart *Cartridge) (Mapper, error) {
	if cart == nil {
		return nil, &LoadError{Reason: "no cartridge"}
	}

	switch cart.Type {
	case 0x00:
		return NewFixed(cart.data, 0), nil
	case 0x08, 0x09:
		return NewFixed(cart.data, ramBankSize), nil
	case 0x01, 0x02, 0x03:
		return NewMBC1(cart.data, cart.ROMBanks, cart.RAMSize), nil
	default:
		slog.Warn("Unsupported cartridge", "type", fmt.Sprintf("0x%02X", cart.Type), "title", cart.Title)
		return nil, &UnsupportedMapperError{Type: cart.Type}
	}
}
