package cpu

import (
	"errors"
	"fmt"
)

// ErrUnimplemented is wrapped by every ExecutionError.
var ErrUnimplemented = errors.New("unimplemented opcode")

// ExecutionError stops the emulated session: the CPU fetched an opcode it has no handler for.
type ExecutionError struct {
	Opcode uint8
	PC     uint16
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("cpu: unimplemented opcode 0x%02X at 0x%04X", e.Opcode, e.PC)
}

func (e *ExecutionError) Unwrap() error { return ErrUnimplemented }
