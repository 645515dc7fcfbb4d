package loop

import (
	"time"

	"backdrop/internal/config"
)

// spinWindow is how close to the deadline Wait stops sleeping and polls.
const spinWindow = 200 * time.Microsecond

// FPSLimiter paces a host loop to a frame cap read on every call.
type FPSLimiter struct {
	limit func() int
	now   func() time.Time
	sleep func(time.Duration)

	deadline time.Time
}

// NewFPSLimiter creates a limiter that follows config.GetFPSLimit.
func NewFPSLimiter() *FPSLimiter {
	return &FPSLimiter{
		limit: config.GetFPSLimit,
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Wait blocks until the next frame is due and returns how long it blocked.
// Deadlines advance by whole periods so short stalls are absorbed; a loop
// more than one period behind starts a new schedule from now.
func (f *FPSLimiter) Wait() time.Duration {
	fps := f.limit()
	if fps <= 0 {
		f.deadline = time.Time{}
		return 0
	}
	period := time.Second / time.Duration(fps)

	start := f.now()
	if f.deadline.IsZero() || start.Sub(f.deadline) > period {
		f.deadline = start.Add(period)
	} else {
		f.deadline = f.deadline.Add(period)
	}

	for left := f.deadline.Sub(f.now()); left > 0; left = f.deadline.Sub(f.now()) {
		if left > spinWindow {
			f.sleep(left - spinWindow)
		}
	}
	return f.now().Sub(start)
}
