package loop

import (
	"testing"
	"time"
)

// stepClock advances a little on every read and by the full amount on sleep.
type stepClock struct {
	t time.Time
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(10 * time.Microsecond)
	return c.t
}

func (c *stepClock) sleep(d time.Duration) {
	c.t = c.t.Add(d)
}

// TestFPSLimiterPacing verifies frames are spaced by the cap, short stalls
// are absorbed and a long hitch restarts the schedule.
func TestFPSLimiterPacing(t *testing.T) {
	clock := &stepClock{t: time.Unix(0, 0)}
	fps := 100
	f := &FPSLimiter{
		limit: func() int { return fps },
		now:   clock.now,
		sleep: clock.sleep,
	}

	steps := []struct {
		name     string
		work     time.Duration
		min, max time.Duration
	}{
		{name: "first frame", work: 0, min: 10 * time.Millisecond, max: 10100 * time.Microsecond},
		{name: "after short work", work: 2 * time.Millisecond, min: 7800 * time.Microsecond, max: 8100 * time.Microsecond},
		{name: "after hitch", work: 50 * time.Millisecond, min: 10 * time.Millisecond, max: 10100 * time.Microsecond},
	}
	for _, s := range steps {
		clock.sleep(s.work)
		if got := f.Wait(); got < s.min || got > s.max {
			t.Errorf("%s: waited %v, want between %v and %v", s.name, got, s.min, s.max)
		}
	}

	fps = 0
	if got := f.Wait(); got != 0 {
		t.Errorf("uncapped: waited %v, want 0", got)
	}
	if !f.deadline.IsZero() {
		t.Error("uncapped wait kept a deadline")
	}
}
