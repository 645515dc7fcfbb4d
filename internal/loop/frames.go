package loop

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// FrameRequester is the host's display-refresh primitive. RequestFrame
// queues fn for the next refresh and never calls it synchronously; the
// returned cancel drops the request if it has not run yet.
type FrameRequester interface {
	RequestFrame(fn func()) (cancel func())
}

type frameRequest struct {
	id uint64
	fn func()
}

// FrameQueue collects frame requests until the host's next refresh calls
// Dispatch. Requests made while dispatching wait for the following refresh.
type FrameQueue struct {
	mu      sync.Mutex
	nextID  uint64
	pending []frameRequest
}

func NewFrameQueue() *FrameQueue {
	return &FrameQueue{}
}

// RequestFrame queues fn for the next Dispatch.
func (q *FrameQueue) RequestFrame(fn func()) func() {
	q.mu.Lock()
	q.nextID++
	id := q.nextID
	q.pending = append(q.pending, frameRequest{id: id, fn: fn})
	q.mu.Unlock()

	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		for i, r := range q.pending {
			if r.id == id {
				q.pending = append(q.pending[:i], q.pending[i+1:]...)
				return
			}
		}
	}
}

// Dispatch runs every request queued before the call and returns how many ran.
func (q *FrameQueue) Dispatch() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, r := range batch {
		r.fn()
	}
	return len(batch)
}

// Pending reports how many requests wait for the next Dispatch.
func (q *FrameQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// TickerConfig controls RunTicker.
type TickerConfig struct {
	Hz int
	// Frames stops the run after this many refreshes; 0 runs until the
	// context ends or the queue drains.
	Frames uint64
	// OnFrame runs after every refresh.
	OnFrame func(frame uint64)
}

// RunTicker drives q from a time.Ticker, for hosts without a display. It
// returns nil when the frame budget is spent or nothing requested another
// frame, and ctx.Err() when the context ends.
func RunTicker(ctx context.Context, q *FrameQueue, cfg TickerConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid ticker hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var frame uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			ran := q.Dispatch()
			frame++
			if cfg.OnFrame != nil {
				cfg.OnFrame(frame)
			}
			if ran == 0 && q.Pending() == 0 {
				return nil
			}
			if cfg.Frames > 0 && frame >= cfg.Frames {
				return nil
			}
		}
	}
}
