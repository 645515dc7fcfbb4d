// Package headless is a windowless container: the size and pointer are set
// programmatically and frames are captured to image files.
package headless

import (
	"errors"
	"sync"

	"backdrop/internal/gpu"
	"backdrop/internal/host"
)

// ErrAttached is returned when a second canvas is attached.
var ErrAttached = errors.New("headless: canvas already attached")

// Viewport is an in-memory container.
type Viewport struct {
	mu            sync.Mutex
	width, height int
	ratio         float64
	canvas        gpu.Canvas

	resize  host.Listeners[func(int, int)]
	pointer host.Listeners[func(float64, float64)]
}

// New returns a viewport of the given logical size. A non-positive ratio
// is taken as 1.
func New(width, height int, ratio float64) *Viewport {
	if ratio <= 0 {
		ratio = 1
	}
	return &Viewport{width: width, height: height, ratio: ratio}
}

func (v *Viewport) Size() (int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

func (v *Viewport) PixelRatio() float64 { return v.ratio }

func (v *Viewport) Attach(c gpu.Canvas) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.canvas != nil {
		return ErrAttached
	}
	v.canvas = c
	return nil
}

func (v *Viewport) Detach(c gpu.Canvas) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.canvas == c {
		v.canvas = nil
	}
}

// Canvas returns the attached canvas, or nil.
func (v *Viewport) Canvas() gpu.Canvas {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.canvas
}

func (v *Viewport) OnResize(fn func(width, height int)) func() {
	return v.resize.Add(fn)
}

func (v *Viewport) OnPointerMove(fn func(x, y float64)) func() {
	return v.pointer.Add(fn)
}

// Listeners returns how many resize and pointer listeners are registered.
func (v *Viewport) Listeners() int {
	return v.resize.Len() + v.pointer.Len()
}

// Resize changes the logical size and notifies listeners if it differs.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	if v.width == width && v.height == height {
		v.mu.Unlock()
		return
	}
	v.width, v.height = width, height
	v.mu.Unlock()

	v.resize.Each(func(fn func(int, int)) { fn(width, height) })
}

// MovePointer reports a pointer position in logical units, top-left origin.
func (v *Viewport) MovePointer(x, y float64) {
	v.pointer.Each(func(fn func(float64, float64)) { fn(x, y) })
}
