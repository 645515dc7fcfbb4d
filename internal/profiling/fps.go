package profiling

import (
	"runtime"
	"time"

	"backdrop/internal/logging"
)

// FPSCounter logs frame rate and heap usage once per interval.
type FPSCounter struct {
	frames   int
	last     time.Time
	interval time.Duration
	now      func() time.Time
	memStats runtime.MemStats
}

// NewFPSCounter creates a counter that reports every second.
func NewFPSCounter() *FPSCounter {
	return &FPSCounter{
		last:     time.Now(),
		interval: time.Second,
		now:      time.Now,
	}
}

// Frame records one presented frame. It returns the measured rate and true
// when an interval has elapsed and a line was logged.
func (f *FPSCounter) Frame() (float64, bool) {
	f.frames++
	now := f.now()
	elapsed := now.Sub(f.last)
	if elapsed < f.interval {
		return 0, false
	}

	fps := float64(f.frames) / elapsed.Seconds()
	runtime.ReadMemStats(&f.memStats)
	logging.Logger().Debug("frame stats",
		"fps", fps,
		"heap_mb", float64(f.memStats.Alloc)/1024/1024,
		"gc", f.memStats.NumGC,
		"top", TopN(3),
	)

	f.frames = 0
	f.last = now
	return fps, true
}
