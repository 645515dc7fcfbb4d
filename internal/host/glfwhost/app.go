package glfwhost

import (
	"log/slog"
	"time"

	"backdrop/internal/logging"
	"backdrop/internal/loop"
	"backdrop/internal/profiling"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// slowFrame is the processing time above which a frame is logged.
const slowFrame = 16 * time.Millisecond

// App runs the window's event loop and drives a frame queue from it.
type App struct {
	window  *Window
	frames  *loop.FrameQueue
	limiter *loop.FPSLimiter
	fps     *profiling.FPSCounter
	log     *slog.Logger
}

func NewApp(window *Window, frames *loop.FrameQueue) *App {
	return &App{
		window:  window,
		frames:  frames,
		limiter: loop.NewFPSLimiter(),
		fps:     profiling.NewFPSCounter(),
		log:     logging.Logger(),
	}
}

// Run polls events and dispatches frames until the window is asked to
// close. It must run on the main thread.
func (a *App) Run() {
	for !a.window.win.ShouldClose() {
		a.tick()
	}
}

func (a *App) tick() {
	profiling.ResetFrame()
	start := time.Now()

	glfw.PollEvents()
	a.frames.Dispatch()

	if d := time.Since(start); d > slowFrame {
		a.log.Warn("slow frame", "duration", d, "top", profiling.TopN(5))
	}
	a.fps.Frame()
	a.limiter.Wait()
}
