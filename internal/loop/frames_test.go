package loop

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFrameQueueDefersNestedRequests(t *testing.T) {
	q := NewFrameQueue()
	runs := 0
	var again func()
	again = func() {
		runs++
		q.RequestFrame(again)
	}
	q.RequestFrame(again)

	if n := q.Dispatch(); n != 1 {
		t.Fatalf("Dispatch ran %d, want 1", n)
	}
	if runs != 1 {
		t.Errorf("runs = %d, want 1 (nested request must wait)", runs)
	}
	if q.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", q.Pending())
	}
}

func TestFrameQueueCancel(t *testing.T) {
	q := NewFrameQueue()
	ran := false
	cancel := q.RequestFrame(func() { ran = true })
	cancel()
	cancel()
	if n := q.Dispatch(); n != 0 || ran {
		t.Errorf("cancelled request ran (n=%d, ran=%v)", n, ran)
	}
}

func TestRunTickerFrameBudget(t *testing.T) {
	q := NewFrameQueue()
	s, d := newTestScheduler(64, 64, WithFrames(q))
	_ = s.Start()

	err := RunTicker(context.Background(), q, TickerConfig{Hz: 1000, Frames: 5})
	if err != nil {
		t.Fatalf("RunTicker: %v", err)
	}
	if len(d.times) != 5 {
		t.Errorf("got %d draws, want 5", len(d.times))
	}
}

func TestRunTickerReturnsWhenDrained(t *testing.T) {
	q := NewFrameQueue()
	s, _ := newTestScheduler(64, 64, WithFrames(q))
	_ = s.Start()
	s.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := RunTicker(ctx, q, TickerConfig{Hz: 1000}); err != nil {
		t.Errorf("RunTicker = %v, want nil once the queue drains", err)
	}
}

func TestRunTickerContextCancel(t *testing.T) {
	q := NewFrameQueue()
	s, _ := newTestScheduler(64, 64, WithFrames(q))
	_ = s.Start()
	defer s.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := RunTicker(ctx, q, TickerConfig{Hz: 500}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("RunTicker = %v, want deadline exceeded", err)
	}
}

func TestFPSLimiterUnlimited(t *testing.T) {
	f := &FPSLimiter{limit: func() int { return 0 }}
	start := time.Now()
	for i := 0; i < 1000; i++ {
		f.Wait()
	}
	if time.Since(start) > time.Second {
		t.Error("unlimited limiter blocked")
	}
}

func TestFPSLimiterPaces(t *testing.T) {
	f := &FPSLimiter{limit: func() int { return 200 }, now: time.Now, sleep: time.Sleep}
	start := time.Now()
	for i := 0; i < 10; i++ {
		f.Wait()
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("10 frames at 200fps took %v, want about 50ms", elapsed)
	}
}
