// Package lifecycle mounts the background into a container and guarantees
// everything it acquired is released exactly once on unmount.
package lifecycle

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"backdrop/internal/config"
	"backdrop/internal/gpu"
	"backdrop/internal/graphics"
	"backdrop/internal/graphics/renderables/backdrop"
	renderer "backdrop/internal/graphics/renderer"
	"backdrop/internal/logging"
	"backdrop/internal/loop"
	"backdrop/internal/uniforms"
)

// ErrMounted is returned by Mount while a previous mount is still live.
var ErrMounted = errors.New("lifecycle: already mounted")

// Manager owns one background instance at a time.
type Manager struct {
	container Container
	backend   gpu.Backend
	frames    loop.FrameRequester

	increment  float64
	pixelRatio float64
	antialias  bool
	alpha      bool
	log        *slog.Logger

	mu          sync.Mutex
	current     *mount
	unsupported error
}

// Option configures a Manager.
type Option func(*Manager)

// WithFrames sets the display-refresh primitive that drives the loop.
func WithFrames(r loop.FrameRequester) Option {
	return func(m *Manager) { m.frames = r }
}

// WithIncrement overrides the per-frame clock step.
func WithIncrement(dt float64) Option {
	return func(m *Manager) { m.increment = dt }
}

// WithPixelRatio overrides the container's pixel ratio.
func WithPixelRatio(ratio float64) Option {
	return func(m *Manager) { m.pixelRatio = ratio }
}

// WithLogger sets the logger; the package default is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// New creates an unmounted Manager. Defaults come from the config package.
func New(container Container, backend gpu.Backend, opts ...Option) *Manager {
	m := &Manager{
		container:  container,
		backend:    backend,
		increment:  config.GetTimeStep(),
		pixelRatio: config.GetPixelRatio(),
		antialias:  config.GetAntialias(),
		alpha:      config.GetAlpha(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logging.Logger()
	}
	m.log = m.log.With("backend", backend.Name())
	return m
}

// mount is everything acquired by one Mount call.
type mount struct {
	tornDown atomic.Bool
	ratio    float64

	// sceneMu serializes host callbacks and draws against the release of
	// the scene and context, which may happen on another goroutine.
	sceneMu sync.Mutex

	ctx       gpu.Context
	canvas    gpu.Canvas
	attached  bool
	uniforms  *uniforms.State
	surface   *backdrop.Surface
	renderer  *renderer.Renderer
	scheduler *loop.Scheduler

	removeResize  func()
	removePointer func()
}

// Mount builds a fresh context, scene and loop inside the container. On any
// failure what was acquired is torn down again and the error returned; the
// host is expected to carry on without a background. An unsupported device
// is reported once and every later Mount returns the same error at once.
func (m *Manager) Mount() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unsupported != nil {
		return m.unsupported
	}
	if m.current != nil {
		return ErrMounted
	}

	ratio := m.pixelRatio
	if ratio <= 0 {
		ratio = m.container.PixelRatio()
	}
	if ratio <= 0 {
		ratio = 1
	}
	lw, lh := m.container.Size()
	width, height := drawableSize(lw, lh, ratio)

	ctx, err := m.backend.NewContext(gpu.Options{
		Label:      "backdrop",
		Width:      width,
		Height:     height,
		PixelRatio: ratio,
		Antialias:  m.antialias,
		Alpha:      m.alpha,
	})
	if err != nil {
		if errors.Is(err, gpu.ErrUnsupported) {
			m.unsupported = err
			m.log.Warn("background disabled: no drawing context", "error", err)
		}
		return fmt.Errorf("create context: %w", err)
	}

	mt := &mount{ctx: ctx, ratio: ratio}
	if err := m.build(mt, width, height); err != nil {
		m.teardown(mt)
		return err
	}
	m.current = mt

	if width == 0 || height == 0 {
		m.log.Info("mounted with zero-area container, waiting for resize")
	} else {
		m.log.Info("mounted", "width", width, "height", height, "pixel_ratio", ratio)
	}
	return nil
}

func (m *Manager) build(mt *mount, width, height int) error {
	mt.uniforms = uniforms.New(width, height)
	mt.surface = backdrop.NewSurface(mt.uniforms)

	r, err := renderer.NewRenderer(mt.ctx, graphics.NewCamera(width, height), mt.surface)
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}
	mt.renderer = r

	mt.canvas = mt.ctx.Canvas()
	if err := m.container.Attach(mt.canvas); err != nil {
		return fmt.Errorf("attach canvas: %w", err)
	}
	mt.attached = true

	mt.removeResize = m.container.OnResize(func(w, h int) {
		mt.sceneMu.Lock()
		defer mt.sceneMu.Unlock()
		if mt.tornDown.Load() {
			return
		}
		dw, dh := drawableSize(w, h, mt.ratio)
		if mt.uniforms.SetResolution(dw, dh) {
			mt.renderer.UpdateViewport(dw, dh)
		}
	})
	mt.removePointer = m.container.OnPointerMove(func(x, y float64) {
		mt.sceneMu.Lock()
		defer mt.sceneMu.Unlock()
		if mt.tornDown.Load() {
			return
		}
		mt.uniforms.SetPointer(float32(x*mt.ratio), float32(y*mt.ratio))
	})

	opts := []loop.Option{loop.WithIncrement(m.increment)}
	if m.frames != nil {
		opts = append(opts, loop.WithFrames(m.frames))
	}
	mt.scheduler = loop.NewScheduler(mt.uniforms, func() error {
		mt.sceneMu.Lock()
		defer mt.sceneMu.Unlock()
		if mt.tornDown.Load() {
			return gpu.ErrReleased
		}
		return mt.renderer.Render()
	}, opts...)
	return mt.scheduler.Start()
}

// Unmount stops the loop, removes the listeners, detaches the canvas and
// releases geometry, material and context, in that order. Every step runs
// even if an earlier one panics. Calling it when not mounted is a no-op.
// It is safe to call from another goroutine while the host is delivering
// frames and events; a callback already running finishes before the scene
// is released, and later ones see the mount as gone.
func (m *Manager) Unmount() {
	m.mu.Lock()
	mt := m.current
	m.current = nil
	m.mu.Unlock()

	if mt == nil {
		return
	}
	m.teardown(mt)
	m.log.Info("unmounted")
}

func (m *Manager) teardown(mt *mount) {
	if !mt.tornDown.CompareAndSwap(false, true) {
		return
	}

	var errs []error
	step := func(name string, fn func()) {
		defer func() {
			if r := recover(); r != nil {
				errs = append(errs, fmt.Errorf("%s: %v", name, r))
			}
		}()
		fn()
	}

	step("stop loop", func() {
		if mt.scheduler != nil {
			mt.scheduler.Stop()
		}
	})
	step("remove resize listener", func() {
		if mt.removeResize != nil {
			mt.removeResize()
			mt.removeResize = nil
		}
	})
	step("remove pointer listener", func() {
		if mt.removePointer != nil {
			mt.removePointer()
			mt.removePointer = nil
		}
	})
	step("detach canvas", func() {
		if mt.attached {
			mt.attached = false
			m.container.Detach(mt.canvas)
		}
	})
	step("release scene", func() {
		mt.sceneMu.Lock()
		defer mt.sceneMu.Unlock()
		if mt.renderer != nil {
			mt.renderer.Dispose()
		} else if mt.surface != nil {
			mt.surface.Dispose()
		}
	})
	step("release context", func() {
		mt.sceneMu.Lock()
		defer mt.sceneMu.Unlock()
		if mt.ctx != nil {
			mt.ctx.Release()
			mt.ctx = nil
		}
	})

	if err := errors.Join(errs...); err != nil {
		m.log.Error("teardown incomplete", "error", err)
	}
}

// Tick advances the mounted background by one frame. It returns false
// when nothing is mounted or the loop has stopped.
func (m *Manager) Tick() bool {
	m.mu.Lock()
	mt := m.current
	m.mu.Unlock()
	if mt == nil {
		return false
	}
	return mt.scheduler.Tick()
}

// Mounted reports whether a background is live.
func (m *Manager) Mounted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}

// Uniforms returns the live uniform record, or nil when unmounted.
func (m *Manager) Uniforms() *uniforms.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	return m.current.uniforms
}

// Scheduler returns the live scheduler, or nil when unmounted.
func (m *Manager) Scheduler() *loop.Scheduler {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	return m.current.scheduler
}
