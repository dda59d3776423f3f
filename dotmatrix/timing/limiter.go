package timing

import (
	"time"

	"github.com/valerio/go-dotmatrix/dotmatrix/video"
)

// ClockRate is the DMG master clock in dots per second. The CPU runs at a
// quarter of it.
const ClockRate = 4194304

// FrameRate is the LCD refresh rate, about 59.73 Hz.
func FrameRate() float64 {
	return float64(ClockRate) / float64(video.DotsPerFrame)
}

// DotsDuration converts emulated dots to wall time.
func DotsDuration(dots int) time.Duration {
	return time.Duration(int64(dots) * int64(time.Second) / ClockRate)
}

// Limiter paces emulation against the wall clock.
type Limiter interface {
	// Wait blocks until the wall clock has caught up with dots of emulated
	// time run since the previous call.
	Wait(dots int)
}

// NewNoOpLimiter returns a limiter that never waits, for headless runs.
func NewNoOpLimiter() Limiter {
	return noOpLimiter{}
}

type noOpLimiter struct{}

func (noOpLimiter) Wait(int) {}
