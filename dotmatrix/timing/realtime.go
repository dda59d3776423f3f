package timing

import (
	"log/slog"
	"time"

	"github.com/valerio/go-dotmatrix/dotmatrix/video"
)

// how far behind the emulation may fall before pacing stops trying to catch up
var maxLag = DotsDuration(3 * video.DotsPerFrame)

// RealtimeLimiter keeps emulated time in step with the wall clock. Each Wait
// moves a deadline forward by the emulated time and sleeps until it. A host
// that stalls for longer than a few frames restarts from the current time
// instead of running a burst of catch-up frames.
type RealtimeLimiter struct {
	deadline time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

func NewRealtimeLimiter() *RealtimeLimiter {
	return &RealtimeLimiter{now: time.Now, sleep: time.Sleep}
}

func (r *RealtimeLimiter) Wait(dots int) {
	now := r.now()
	if r.deadline.IsZero() {
		r.deadline = now
	}
	r.deadline = r.deadline.Add(DotsDuration(dots))

	ahead := r.deadline.Sub(now)
	switch {
	case ahead > 0:
		r.sleep(ahead)
	case -ahead > maxLag:
		slog.Debug("Emulation fell behind, resyncing pacing", "lag", -ahead)
		r.deadline = now
	}
}
