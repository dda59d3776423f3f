package memory

import "fmt"

// LoadError reports a ROM or boot image that cannot be loaded.
// Nothing has executed when it is returned; the caller should abort the load.
type LoadError struct {
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load: %s: %v", e.Reason, e.Err)
	}
	return "load: " + e.Reason
}

func (e *LoadError) Unwrap() error { return e.Err }

// UnsupportedMapperError is returned for a cartridge type byte with no mapper implementation.
type UnsupportedMapperError struct {
	Type uint8
}

func (e *UnsupportedMapperError) Error() string {
	return fmt.Sprintf("unsupported cartridge type 0x%02X", e.Type)
}
