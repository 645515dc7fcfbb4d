package profiling

import (
	"strings"
	"testing"
	"time"
)

func record(name string, d time.Duration) {
	mu.Lock()
	frameTotals[name] += d
	mu.Unlock()
}

func TestTopNOrdersByDuration(t *testing.T) {
	ResetFrame()
	defer ResetFrame()
	record("loop.Tick", 5*time.Millisecond)
	record("renderer.Render", 4200*time.Microsecond)
	record("host.PollEvents", 300*time.Microsecond)

	got := TopN(2)
	want := "loop.Tick:5ms, renderer.Render:4.2ms"
	if got != want {
		t.Errorf("TopN(2) = %q, want %q", got, want)
	}
	if all := TopN(10); strings.Count(all, ",") != 2 {
		t.Errorf("TopN(10) = %q, want three entries", all)
	}
}

func TestSumWithPrefix(t *testing.T) {
	ResetFrame()
	defer ResetFrame()
	record("host.PollEvents", time.Millisecond)
	record("host.Dispatch", 2*time.Millisecond)
	record("renderer.Render", 7*time.Millisecond)

	if got := SumWithPrefix("host."); got != 3*time.Millisecond {
		t.Errorf("SumWithPrefix(host.) = %v, want 3ms", got)
	}
}

func TestTrackAccumulates(t *testing.T) {
	ResetFrame()
	defer ResetFrame()
	stop := Track("a")
	stop()
	stop = Track("a")
	stop()
	if _, ok := Snapshot()["a"]; !ok {
		t.Error("Track did not record an entry")
	}
	ResetFrame()
	if len(Snapshot()) != 0 {
		t.Error("ResetFrame left entries behind")
	}
}

func TestFPSCounterReportsPerInterval(t *testing.T) {
	clock := time.Unix(0, 0)
	f := &FPSCounter{last: clock, interval: time.Second, now: func() time.Time { return clock }}
	step := time.Second/60 + 1

	for i := 0; i < 59; i++ {
		clock = clock.Add(step)
		if _, ok := f.Frame(); ok {
			t.Fatalf("reported early at frame %d", i)
		}
	}
	clock = clock.Add(step)
	fps, ok := f.Frame()
	if !ok {
		t.Fatal("no report after one second")
	}
	if fps < 59.9 || fps > 60.1 {
		t.Errorf("fps = %v, want 60", fps)
	}
}
