// Package gputest provides an in-memory gpu.Backend that tracks every handle
// it hands out, for tests that need to prove nothing leaks or is released twice.
package gputest

import (
	"errors"
	"fmt"
	"sync"

	"backdrop/internal/gpu"
	"backdrop/internal/shader"
)

// Handle kinds.
const (
	KindContext  = "context"
	KindGeometry = "geometry"
	KindMaterial = "material"
)

// Step selects an acquisition to fail.
type Step int

const (
	StepNone Step = iota
	StepContext
	StepGeometry
	StepMaterial
	StepDraw
)

// ErrInjected is returned by the step selected in Backend.FailAt.
var ErrInjected = errors.New("gputest: injected failure")

// Recorder is an ordered event log shared between fakes.
type Recorder struct {
	mu     sync.Mutex
	events []string
}

// Record appends an event.
func (r *Recorder) Record(format string, args ...any) {
	r.mu.Lock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
	r.mu.Unlock()
}

// Events returns a copy of the log.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// Backend is a fake gpu.Backend.
type Backend struct {
	// FailAt makes the chosen step return ErrInjected.
	FailAt Step
	// Unsupported makes NewContext fail with gpu.ErrUnsupported.
	Unsupported bool
	Recorder    *Recorder

	mu       sync.Mutex
	created  map[string]int
	released map[string]int
	doubles  int
	misuse   int
	attempts int
	draws    []gpu.Frame
	sizes    [][2]int
}

// NewBackend returns a Backend with its own Recorder.
func NewBackend() *Backend {
	return &Backend{
		Recorder: &Recorder{},
		created:  make(map[string]int),
		released: make(map[string]int),
	}
}

func (b *Backend) Name() string { return "fake" }

// NewContext creates a fake context with a canvas of the requested size.
func (b *Backend) NewContext(opts gpu.Options) (gpu.Context, error) {
	b.mu.Lock()
	b.attempts++
	b.mu.Unlock()
	if b.Unsupported {
		return nil, fmt.Errorf("fake device: %w", gpu.ErrUnsupported)
	}
	if b.FailAt == StepContext {
		return nil, ErrInjected
	}
	c := &Context{backend: b, canvas: &Canvas{width: opts.Width, height: opts.Height}}
	c.handle = b.acquire(KindContext)
	return c, nil
}

func (b *Backend) acquire(kind string) *handle {
	b.mu.Lock()
	b.created[kind]++
	b.mu.Unlock()
	b.Recorder.Record("create %s", kind)
	return &handle{backend: b, kind: kind}
}

// Attempts counts NewContext calls, including failed ones.
func (b *Backend) Attempts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attempts
}

// Live returns the number of handles created but not yet released.
func (b *Backend) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for kind, c := range b.created {
		n += c - b.released[kind]
	}
	return n
}

// Created returns how many handles of kind were created.
func (b *Backend) Created(kind string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.created[kind]
}

// Released returns how many handles of kind were released.
func (b *Backend) Released(kind string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released[kind]
}

// DoubleReleases counts Release calls on already released handles.
func (b *Backend) DoubleReleases() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.doubles
}

// Misuse counts calls made on released objects.
func (b *Backend) Misuse() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.misuse
}

// Draws returns every frame drawn so far.
func (b *Backend) Draws() []gpu.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]gpu.Frame(nil), b.draws...)
}

// Sizes returns every SetSize call in order.
func (b *Backend) Sizes() [][2]int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][2]int(nil), b.sizes...)
}

type handle struct {
	backend  *Backend
	kind     string
	released bool
}

func (h *handle) Release() {
	b := h.backend
	b.mu.Lock()
	if h.released {
		b.doubles++
		b.mu.Unlock()
		return
	}
	h.released = true
	b.released[h.kind]++
	b.mu.Unlock()
	b.Recorder.Record("release %s", h.kind)
}

func (h *handle) isReleased() bool {
	h.backend.mu.Lock()
	defer h.backend.mu.Unlock()
	return h.released
}

func (b *Backend) misused() {
	b.mu.Lock()
	b.misuse++
	b.mu.Unlock()
}

// Canvas is a fake drawing surface.
type Canvas struct {
	mu            sync.Mutex
	width, height int
}

func (c *Canvas) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// Context is a fake gpu.Context.
type Context struct {
	backend *Backend
	canvas  *Canvas
	*handle
}

func (c *Context) Canvas() gpu.Canvas { return c.canvas }

func (c *Context) SetSize(width, height int) {
	if c.isReleased() {
		c.backend.misused()
		return
	}
	c.canvas.mu.Lock()
	c.canvas.width, c.canvas.height = width, height
	c.canvas.mu.Unlock()
	c.backend.mu.Lock()
	c.backend.sizes = append(c.backend.sizes, [2]int{width, height})
	c.backend.mu.Unlock()
}

func (c *Context) NewGeometry(m gpu.Mesh) (gpu.Geometry, error) {
	if c.isReleased() {
		c.backend.misused()
		return nil, gpu.ErrReleased
	}
	if c.backend.FailAt == StepGeometry {
		return nil, ErrInjected
	}
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return nil, errors.New("gputest: empty mesh")
	}
	return c.backend.acquire(KindGeometry), nil
}

func (c *Context) NewMaterial(p shader.Program) (gpu.Material, error) {
	if c.isReleased() {
		c.backend.misused()
		return nil, gpu.ErrReleased
	}
	if c.backend.FailAt == StepMaterial {
		return nil, ErrInjected
	}
	return c.backend.acquire(KindMaterial), nil
}

func (c *Context) Draw(g gpu.Geometry, m gpu.Material, f gpu.Frame) error {
	gh, _ := g.(*handle)
	mh, _ := m.(*handle)
	if c.isReleased() || gh == nil || mh == nil || gh.isReleased() || mh.isReleased() {
		c.backend.misused()
		return gpu.ErrReleased
	}
	if c.backend.FailAt == StepDraw {
		return ErrInjected
	}
	c.backend.mu.Lock()
	c.backend.draws = append(c.backend.draws, f)
	c.backend.mu.Unlock()
	return nil
}
