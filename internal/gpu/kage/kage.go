// Package kage draws the background with an Ebitengine Kage shader into an
// offscreen image that the game host composites each frame.
package kage

import (
	"errors"
	"fmt"
	"sync"

	"backdrop/internal/gpu"
	"backdrop/internal/profiling"
	"backdrop/internal/shader"

	"github.com/hajimehoshi/ebiten/v2"
)

// Backend creates Kage contexts. It must be used from the game loop.
type Backend struct{}

func NewBackend() *Backend { return &Backend{} }

func (b *Backend) Name() string { return "kage" }

func (b *Backend) NewContext(opts gpu.Options) (gpu.Context, error) {
	c := &Context{canvas: &Canvas{}}
	c.canvas.resize(opts.Width, opts.Height)
	return c, nil
}

// Canvas is the offscreen image the shader renders into.
type Canvas struct {
	mu            sync.Mutex
	img           *ebiten.Image
	width, height int
}

func (c *Canvas) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// Image returns the rendered frame, or nil while the canvas has no area.
func (c *Canvas) Image() *ebiten.Image {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.img
}

func (c *Canvas) resize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.img != nil {
		c.img.Deallocate()
		c.img = nil
	}
	c.width, c.height = max(width, 0), max(height, 0)
	// ebiten.NewImage panics on an empty rectangle.
	if c.width > 0 && c.height > 0 {
		c.img = ebiten.NewImage(c.width, c.height)
	}
}

func (c *Canvas) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.img != nil {
		c.img.Deallocate()
		c.img = nil
	}
}

// Context is a gpu.Context over an Ebitengine offscreen image.
type Context struct {
	canvas *Canvas

	mu       sync.Mutex
	released bool
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
	vertices []ebiten.Vertex
	ndc      [][2]float32
	indices  []uint16
	released bool
}

func (g *geometry) Release() { g.released = true }

// NewGeometry keeps the clip-space positions; they are mapped to pixels at
// draw time so the mesh follows resizes.
func (c *Context) NewGeometry(m gpu.Mesh) (gpu.Geometry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return nil, gpu.ErrReleased
	}
	if len(m.Vertices) < 3 || len(m.Vertices)%3 != 0 || len(m.Indices) == 0 {
		return nil, errors.New("kage: mesh needs xyz vertices and indices")
	}
	n := len(m.Vertices) / 3
	if n > 1<<16 {
		return nil, fmt.Errorf("kage: %d vertices exceed 16-bit indices", n)
	}

	g := &geometry{
		vertices: make([]ebiten.Vertex, n),
		ndc:      make([][2]float32, n),
		indices:  make([]uint16, len(m.Indices)),
	}
	for i := range n {
		g.ndc[i] = [2]float32{m.Vertices[i*3], m.Vertices[i*3+1]}
		g.vertices[i] = ebiten.Vertex{ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1}
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return nil, fmt.Errorf("kage: index %d out of range", idx)
		}
		g.indices[i] = uint16(idx)
	}
	return g, nil
}

type material struct {
	shader *ebiten.Shader
}

func (m *material) Release() {
	if m.shader != nil {
		m.shader.Deallocate()
		m.shader = nil
	}
}

func (c *Context) NewMaterial(p shader.Program) (gpu.Material, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return nil, gpu.ErrReleased
	}
	if len(p.Kage) == 0 {
		return nil, fmt.Errorf("kage: shader %s has no Kage source", p.Name)
	}
	s, err := ebiten.NewShader(p.Kage)
	if err != nil {
		return nil, fmt.Errorf("kage: shader %s: %w", p.Name, err)
	}
	return &material{shader: s}, nil
}

// Draw renders the mesh with the shader into the canvas image.
func (c *Context) Draw(g gpu.Geometry, m gpu.Material, f gpu.Frame) error {
	defer profiling.Track("kage.Draw")()

	geo, _ := g.(*geometry)
	mat, _ := m.(*material)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released || geo == nil || mat == nil || geo.released || mat.shader == nil {
		return gpu.ErrReleased
	}

	dst := c.canvas.Image()
	if dst == nil {
		return nil
	}
	w, h := c.canvas.Size()
	for i, p := range geo.ndc {
		geo.vertices[i].DstX = (p[0] + 1) / 2 * float32(w)
		geo.vertices[i].DstY = (1 - p[1]) / 2 * float32(h)
	}

	dst.Clear()
	dst.DrawTrianglesShader(geo.vertices, geo.indices, mat.shader, &ebiten.DrawTrianglesShaderOptions{
		Uniforms: shader.KageUniforms(f.Uniforms),
	})
	return nil
}

func (c *Context) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return
	}
	c.released = true
	c.canvas.release()
}
