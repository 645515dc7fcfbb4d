// Package ebitenhost runs the background inside an Ebitengine game, which
// serves as container, refresh source and compositor at once.
package ebitenhost

import (
	"sync"

	"backdrop/internal/gpu"
	"backdrop/internal/host"
	"backdrop/internal/loop"

	"github.com/hajimehoshi/ebiten/v2"
)

// Imager is a canvas that renders into an Ebitengine image.
type Imager interface {
	gpu.Canvas
	Image() *ebiten.Image
}

// Game implements ebiten.Game and lifecycle.Container. Sizes reported to
// listeners are in window units; the screen is laid out in device pixels.
type Game struct {
	frames *loop.FrameQueue

	// OnStart runs once, from the first Update, and may mount.
	OnStart func() error

	mu            sync.Mutex
	started       bool
	width, height int
	ratio         float64
	canvas        Imager
	cursorX       int
	cursorY       int

	resize  host.Listeners[func(int, int)]
	pointer host.Listeners[func(float64, float64)]
}

func NewGame(width, height int, frames *loop.FrameQueue) *Game {
	return &Game{
		frames:  frames,
		width:   width,
		height:  height,
		ratio:   1,
		cursorX: -1,
		cursorY: -1,
	}
}

func (g *Game) Size() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.width, g.height
}

func (g *Game) PixelRatio() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ratio
}

// Attach accepts canvases that render into an ebiten.Image.
func (g *Game) Attach(c gpu.Canvas) error {
	img, ok := c.(Imager)
	if !ok {
		return gpu.ErrUnsupported
	}
	g.mu.Lock()
	g.canvas = img
	g.mu.Unlock()
	return nil
}

func (g *Game) Detach(c gpu.Canvas) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.canvas != nil && gpu.Canvas(g.canvas) == c {
		g.canvas = nil
	}
}

func (g *Game) OnResize(fn func(width, height int)) func() {
	return g.resize.Add(fn)
}

func (g *Game) OnPointerMove(fn func(x, y float64)) func() {
	return g.pointer.Add(fn)
}

// Update forwards pointer motion and dispatches the pending frame.
func (g *Game) Update() error {
	g.mu.Lock()
	start := !g.started
	g.started = true
	g.mu.Unlock()
	if start && g.OnStart != nil {
		if err := g.OnStart(); err != nil {
			return err
		}
	}

	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	x, y := ebiten.CursorPosition()
	g.mu.Lock()
	moved := x != g.cursorX || y != g.cursorY
	g.cursorX, g.cursorY = x, y
	ratio := g.ratio
	g.mu.Unlock()
	if moved {
		// CursorPosition is in layout units, which are device pixels here.
		lx, ly := float64(x)/ratio, float64(y)/ratio
		g.pointer.Each(func(fn func(float64, float64)) { fn(lx, ly) })
	}

	g.frames.Dispatch()
	return nil
}

// Draw composites the attached canvas.
func (g *Game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	c := g.canvas
	g.mu.Unlock()
	if c == nil {
		return
	}
	if img := c.Image(); img != nil {
		screen.DrawImage(img, nil)
	}
}

// Layout tracks the window size and lays the screen out in device pixels.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	ratio := ebiten.Monitor().DeviceScaleFactor()
	if ratio <= 0 {
		ratio = 1
	}

	g.mu.Lock()
	changed := outsideWidth != g.width || outsideHeight != g.height || ratio != g.ratio
	g.width, g.height, g.ratio = outsideWidth, outsideHeight, ratio
	g.mu.Unlock()

	if changed {
		g.resize.Each(func(fn func(int, int)) { fn(outsideWidth, outsideHeight) })
	}
	return int(float64(outsideWidth)*ratio + 0.5), int(float64(outsideHeight)*ratio + 0.5)
}

// Run opens the window and blocks until the game ends.
func (g *Game) Run(title string) error {
	w, h := g.Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}
