package loop

import (
	"errors"
	"sync"
	"sync/atomic"

	"backdrop/internal/config"
	"backdrop/internal/logging"
	"backdrop/internal/profiling"
	"backdrop/internal/uniforms"
)

// State is the scheduler's lifecycle position.
type State int32

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ErrNotIdle is returned by Start on a scheduler that already left Idle.
// A stopped scheduler is never restarted; build a new one.
var ErrNotIdle = errors.New("loop: scheduler is not idle")

// DrawFunc renders one frame from the current uniforms.
type DrawFunc func() error

// Scheduler advances the animation clock and requests one draw per
// display refresh while Running.
type Scheduler struct {
	state     atomic.Int32
	uniforms  *uniforms.State
	draw      DrawFunc
	increment float64
	frames    FrameRequester

	// tickMu is held for the whole of a tick so Stop can wait out a frame
	// already in flight.
	tickMu sync.Mutex

	mu       sync.Mutex
	cancel   func()
	ticks    uint64
	drawErrs uint64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithIncrement overrides the per-tick clock step.
func WithIncrement(dt float64) Option {
	return func(s *Scheduler) {
		if dt > 0 {
			s.increment = dt
		}
	}
}

// WithFrames attaches the display-refresh primitive. Without one the
// scheduler only moves when Tick is called directly.
func WithFrames(r FrameRequester) Option {
	return func(s *Scheduler) {
		s.frames = r
	}
}

// NewScheduler creates an Idle scheduler that draws with draw and advances u.
func NewScheduler(u *uniforms.State, draw DrawFunc, opts ...Option) *Scheduler {
	s := &Scheduler{
		uniforms:  u,
		draw:      draw,
		increment: config.GetTimeStep(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle position.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// Start moves Idle to Running and requests the first frame.
func (s *Scheduler) Start() error {
	if !s.state.CompareAndSwap(int32(Idle), int32(Running)) {
		return ErrNotIdle
	}
	s.schedule()
	return nil
}

// Stop moves to Stopped and cancels the pending frame request. It blocks
// until a tick already in progress returns. Must not be called from
// inside the DrawFunc.
func (s *Scheduler) Stop() {
	if State(s.state.Swap(int32(Stopped))) == Stopped {
		return
	}
	s.tickMu.Lock()
	s.tickMu.Unlock()

	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Tick runs one frame: draw at the current time, then advance the clock.
// Drawing is skipped while the viewport has no area. It returns false,
// doing nothing, unless the scheduler is Running.
func (s *Scheduler) Tick() bool {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	if s.State() != Running {
		return false
	}
	defer profiling.Track("loop.Tick")()

	if s.uniforms.Ready() {
		if err := s.draw(); err != nil {
			s.reportDrawError(err)
		}
	}
	s.uniforms.Advance(s.increment)

	s.mu.Lock()
	s.ticks++
	s.mu.Unlock()
	return true
}

// Ticks returns how many ticks ran while Running.
func (s *Scheduler) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// DrawErrors returns how many draws failed.
func (s *Scheduler) DrawErrors() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawErrs
}

// Increment returns the per-tick clock step.
func (s *Scheduler) Increment() float64 {
	return s.increment
}

func (s *Scheduler) onFrame() {
	if s.Tick() {
		s.schedule()
	}
}

func (s *Scheduler) schedule() {
	if s.frames == nil {
		return
	}
	cancel := s.frames.RequestFrame(s.onFrame)

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	// Stop may have raced the request above.
	if s.State() != Running {
		cancel()
	}
}

func (s *Scheduler) reportDrawError(err error) {
	s.mu.Lock()
	s.drawErrs++
	n := s.drawErrs
	s.mu.Unlock()

	if n == 1 {
		logging.Logger().Warn("draw failed", "error", err)
	} else if n%600 == 0 {
		logging.Logger().Warn("draw still failing", "error", err, "failures", n)
	}
}
