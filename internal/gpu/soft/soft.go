// Package soft is a CPU rendition of the background: the fragment stage is
// evaluated per pixel at a reduced resolution and scaled up bilinearly.
// It needs no device and backs headless runs and tests.
package soft

import (
	"errors"
	"image"
	"image/color"
	"math"
	"runtime"
	"sync"

	"backdrop/internal/config"
	"backdrop/internal/gpu"
	"backdrop/internal/profiling"
	"backdrop/internal/shader"

	"github.com/go-gl/mathgl/mgl32"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// Backend creates CPU contexts.
type Backend struct {
	scale float64
}

// NewBackend returns a Backend shading at scale times the drawable size.
// A non-positive scale uses the configured render scale.
func NewBackend(scale float64) *Backend {
	if scale <= 0 || scale > 1 {
		scale = config.GetRenderScale()
	}
	return &Backend{scale: scale}
}

func (b *Backend) Name() string { return "soft" }

func (b *Backend) NewContext(opts gpu.Options) (gpu.Context, error) {
	c := &Context{
		canvas: &Canvas{},
		scale:  b.scale,
		alpha:  opts.Alpha,
	}
	c.canvas.resize(opts.Width, opts.Height)
	return c, nil
}

// Canvas holds the presented frame.
type Canvas struct {
	mu  sync.RWMutex
	img *image.RGBA
}

func (c *Canvas) Size() (int, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns a copy of the last presented frame.
func (c *Canvas) Image() *image.RGBA {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := image.NewRGBA(c.img.Bounds())
	copy(out.Pix, c.img.Pix)
	return out
}

func (c *Canvas) resize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.img = image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
}

// Context shades into an offscreen buffer and presents into its Canvas.
type Context struct {
	canvas *Canvas
	scale  float64
	alpha  bool

	mu       sync.Mutex
	released bool
	buffer   *image.RGBA
}

func (c *Context) Canvas() gpu.Canvas { return c.canvas }

func (c *Context) SetSize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return
	}
	c.canvas.resize(width, height)
}

type geometry struct {
	vertices []mgl32.Vec3
	released bool
}

func (g *geometry) Release() { g.released = true }

func (c *Context) NewGeometry(m gpu.Mesh) (gpu.Geometry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return nil, gpu.ErrReleased
	}
	if len(m.Vertices) < 3 || len(m.Vertices)%3 != 0 || len(m.Indices) == 0 {
		return nil, errors.New("soft: mesh needs xyz vertices and indices")
	}
	g := &geometry{vertices: make([]mgl32.Vec3, 0, len(m.Vertices)/3)}
	for i := 0; i < len(m.Vertices); i += 3 {
		g.vertices = append(g.vertices, mgl32.Vec3{m.Vertices[i], m.Vertices[i+1], m.Vertices[i+2]})
	}
	return g, nil
}

type material struct {
	name     string
	released bool
}

func (m *material) Release() { m.released = true }

func (c *Context) NewMaterial(p shader.Program) (gpu.Material, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return nil, gpu.ErrReleased
	}
	return &material{name: p.Name}, nil
}

// Draw shades the screen rectangle covered by g and presents it.
func (c *Context) Draw(g gpu.Geometry, m gpu.Material, f gpu.Frame) error {
	defer profiling.Track("soft.Draw")()

	geo, _ := g.(*geometry)
	mat, _ := m.(*material)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released || geo == nil || mat == nil || geo.released || mat.released {
		return gpu.ErrReleased
	}

	width, height := c.canvas.Size()
	if width == 0 || height == 0 {
		return nil
	}
	lw := max(1, int(float64(width)*c.scale+0.5))
	lh := max(1, int(float64(height)*c.scale+0.5))
	if c.buffer == nil || c.buffer.Bounds().Dx() != lw || c.buffer.Bounds().Dy() != lh {
		c.buffer = image.NewRGBA(image.Rect(0, 0, lw, lh))
	}

	cover := coverage(geo.vertices, f, width, height)
	c.shade(f, cover, width, height)

	c.canvas.mu.Lock()
	defer c.canvas.mu.Unlock()
	if lw == width && lh == height {
		xdraw.Draw(c.canvas.img, c.canvas.img.Bounds(), c.buffer, image.Point{}, xdraw.Src)
	} else {
		xdraw.BiLinear.Scale(c.canvas.img, c.canvas.img.Bounds(), c.buffer, c.buffer.Bounds(), xdraw.Src, nil)
	}
	return nil
}

// shade fills the buffer row by row across GOMAXPROCS workers. Buffer
// pixels map to the centre of the drawable pixels they cover.
func (c *Context) shade(f gpu.Frame, cover rect, width, height int) {
	buf := c.buffer
	lw, lh := buf.Bounds().Dx(), buf.Bounds().Dy()
	sx := float32(width) / float32(lw)
	sy := float32(height) / float32(lh)

	empty := color.RGBA{A: 255}
	if c.alpha {
		empty = color.RGBA{}
	}

	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for y := 0; y < lh; y++ {
		eg.Go(func() error {
			py := (float32(y) + 0.5) * sy
			for x := 0; x < lw; x++ {
				px := (float32(x) + 0.5) * sx
				if !cover.contains(px, py) {
					buf.SetRGBA(x, y, empty)
					continue
				}
				buf.SetRGBA(x, y, toRGBA(shader.Shade(f.Uniforms, mgl32.Vec2{px, py})))
			}
			return nil
		})
	}
	_ = eg.Wait()
}

func (c *Context) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released = true
	c.buffer = nil
}

// rect is a pixel-space rectangle, top-left origin, max exclusive.
type rect struct {
	minX, minY, maxX, maxY float32
}

func (r rect) contains(x, y float32) bool {
	return x >= r.minX && x < r.maxX && y >= r.minY && y < r.maxY
}

// coverage projects the vertices into pixels and returns their clipped
// bounding box. A frame without matrices is treated as clip space.
func coverage(vertices []mgl32.Vec3, f gpu.Frame, width, height int) rect {
	mvp := mgl32.Ident4()
	if f.Projection != (mgl32.Mat4{}) {
		view := f.View
		if view == (mgl32.Mat4{}) {
			view = mgl32.Ident4()
		}
		mvp = f.Projection.Mul4(view)
	}

	minX, minY := float32(math.Inf(1)), float32(math.Inf(1))
	maxX, maxY := float32(math.Inf(-1)), float32(math.Inf(-1))
	for _, v := range vertices {
		clip := mvp.Mul4x1(v.Vec4(1))
		if clip.W() == 0 {
			continue
		}
		x, y := clip.X()/clip.W(), clip.Y()/clip.W()
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	minX, maxX = mgl32.Clamp(minX, -1, 1), mgl32.Clamp(maxX, -1, 1)
	minY, maxY = mgl32.Clamp(minY, -1, 1), mgl32.Clamp(maxY, -1, 1)

	w, h := float32(width), float32(height)
	return rect{
		minX: (minX + 1) / 2 * w,
		maxX: (maxX + 1) / 2 * w,
		minY: (1 - maxY) / 2 * h,
		maxY: (1 - minY) / 2 * h,
	}
}

func toRGBA(c mgl32.Vec4) color.RGBA {
	return color.RGBA{
		R: channel(c.X()),
		G: channel(c.Y()),
		B: channel(c.Z()),
		A: channel(c.W()),
	}
}

func channel(v float32) uint8 {
	return uint8(mgl32.Clamp(v, 0, 1)*255 + 0.5)
}
