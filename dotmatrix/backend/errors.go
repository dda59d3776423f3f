package backend

import "fmt"

// DeviceError reports a host output device that could not be opened or used.
// It stops the run loop, not the process.
type DeviceError struct {
	Device string
	Err    error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("%s device: %v", e.Device, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }
