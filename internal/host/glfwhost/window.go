// Package glfwhost adapts a GLFW window into a background container.
package glfwhost

import (
	"backdrop/internal/gpu"
	"backdrop/internal/host"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Window is a container over a GLFW window. Sizes and pointer positions
// are in window coordinates; the framebuffer may be larger on high-DPI
// displays. Its callbacks replace any set on the window before.
type Window struct {
	win *glfw.Window

	resize  host.Listeners[func(int, int)]
	pointer host.Listeners[func(float64, float64)]
	keys    host.Listeners[func(glfw.Key)]
}

func New(win *glfw.Window) *Window {
	w := &Window{win: win}

	win.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		w.resize.Each(func(fn func(int, int)) { fn(width, height) })
	})
	// A DPI change alters the framebuffer without changing the window size.
	win.SetFramebufferSizeCallback(func(gw *glfw.Window, _, _ int) {
		width, height := gw.GetSize()
		w.resize.Each(func(fn func(int, int)) { fn(width, height) })
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		w.pointer.Each(func(fn func(float64, float64)) { fn(x, y) })
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		w.keys.Each(func(fn func(glfw.Key)) { fn(key) })
	})
	return w
}

// GLFW returns the underlying window.
func (w *Window) GLFW() *glfw.Window { return w.win }

func (w *Window) Size() (int, int) {
	return w.win.GetSize()
}

// PixelRatio is framebuffer pixels per window unit.
func (w *Window) PixelRatio() float64 {
	ww, _ := w.win.GetSize()
	fw, _ := w.win.GetFramebufferSize()
	if ww <= 0 || fw <= 0 {
		return 1
	}
	return float64(fw) / float64(ww)
}

// Attach shows the window; the canvas is always its own framebuffer.
func (w *Window) Attach(gpu.Canvas) error {
	w.win.Show()
	return nil
}

func (w *Window) Detach(gpu.Canvas) {
	w.win.Hide()
}

func (w *Window) OnResize(fn func(width, height int)) func() {
	return w.resize.Add(fn)
}

func (w *Window) OnPointerMove(fn func(x, y float64)) func() {
	return w.pointer.Add(fn)
}

// OnKeyPress registers fn for key presses.
func (w *Window) OnKeyPress(fn func(glfw.Key)) func() {
	return w.keys.Add(fn)
}
