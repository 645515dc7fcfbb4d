// Package opengl draws the background through an OpenGL 4.1 core context
// owned by a GLFW window.
package opengl

import (
	"fmt"
	"sync"

	"backdrop/internal/gpu"
	"backdrop/internal/profiling"
	"backdrop/internal/shader"
	"backdrop/internal/uniforms"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Backend creates contexts on one window. All calls must come from the
// thread the window was created on.
type Backend struct {
	window *glfw.Window
}

func NewBackend(window *glfw.Window) *Backend {
	return &Backend{window: window}
}

func (b *Backend) Name() string { return "opengl" }

// NewContext makes the window's GL context current and loads the bindings.
// A missing window or failed load is reported as gpu.ErrUnsupported.
func (b *Backend) NewContext(opts gpu.Options) (gpu.Context, error) {
	if b.window == nil {
		return nil, fmt.Errorf("opengl: no window: %w", gpu.ErrUnsupported)
	}
	b.window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("opengl: %w: %w", gpu.ErrUnsupported, err)
	}

	if opts.Antialias {
		gl.Enable(gl.MULTISAMPLE)
	} else {
		gl.Disable(gl.MULTISAMPLE)
	}
	gl.Disable(gl.DEPTH_TEST)

	c := &Context{
		window: b.window,
		canvas: &Canvas{window: b.window, width: opts.Width, height: opts.Height},
		alpha:  opts.Alpha,
	}
	return c, nil
}

// Canvas is the window's default framebuffer.
type Canvas struct {
	window *glfw.Window

	mu            sync.Mutex
	width, height int
}

func (c *Canvas) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// Window returns the window that presents this canvas.
func (c *Canvas) Window() *glfw.Window { return c.window }

func (c *Canvas) resize(width, height int) {
	c.mu.Lock()
	c.width, c.height = width, height
	c.mu.Unlock()
}

// Context is a gpu.Context on the window's GL context.
type Context struct {
	window   *glfw.Window
	canvas   *Canvas
	alpha    bool
	released bool
}

func (c *Context) Canvas() gpu.Canvas { return c.canvas }

func (c *Context) SetSize(width, height int) {
	if c.released {
		return
	}
	c.canvas.resize(width, height)
}

type geometry struct {
	vao, vbo, ebo uint32
	count         int32
}

func (g *geometry) Release() {
	if g.vao == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &g.vao)
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteBuffers(1, &g.ebo)
	g.vao, g.vbo, g.ebo = 0, 0, 0
}

// NewGeometry uploads xyz positions to attribute 0 and the triangle indices.
func (c *Context) NewGeometry(m gpu.Mesh) (gpu.Geometry, error) {
	if c.released {
		return nil, gpu.ErrReleased
	}
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return nil, fmt.Errorf("opengl: empty mesh")
	}

	g := &geometry{count: int32(len(m.Indices))}
	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*4, gl.Ptr(m.Vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.BindVertexArray(0)

	if err := gl.GetError(); err != gl.NO_ERROR {
		g.Release()
		return nil, fmt.Errorf("opengl: upload mesh: error 0x%x", err)
	}
	return g, nil
}

type material struct {
	prog *program
}

func (m *material) Release() {
	if m.prog != nil {
		m.prog.delete()
		m.prog = nil
	}
}

func (c *Context) NewMaterial(p shader.Program) (gpu.Material, error) {
	if c.released {
		return nil, gpu.ErrReleased
	}
	prog, err := newProgram(p.Vertex, p.Fragment, p.Uniforms)
	if err != nil {
		return nil, fmt.Errorf("opengl: shader %s: %w", p.Name, err)
	}
	return &material{prog: prog}, nil
}

// Draw clears, draws the geometry and swaps buffers.
func (c *Context) Draw(g gpu.Geometry, m gpu.Material, f gpu.Frame) error {
	defer profiling.Track("opengl.Draw")()

	geo, _ := g.(*geometry)
	mat, _ := m.(*material)
	if c.released || geo == nil || mat == nil || geo.vao == 0 || mat.prog == nil {
		return gpu.ErrReleased
	}

	width, height := c.canvas.Size()
	gl.Viewport(0, 0, int32(width), int32(height))
	if c.alpha {
		gl.ClearColor(0, 0, 0, 0)
	} else {
		gl.ClearColor(0, 0, 0, 1)
	}
	gl.Clear(gl.COLOR_BUFFER_BIT)

	u := f.Uniforms
	prog := mat.prog
	gl.UseProgram(prog.id)
	prog.setFloat(uniforms.NameTime, u.Time)
	prog.setVec2(uniforms.NameMouse, u.Pointer.X(), u.Pointer.Y())
	prog.setVec2(uniforms.NameResolution, u.Resolution.X(), u.Resolution.Y())
	prog.setFloat(uniforms.NameAspect, u.Aspect)

	gl.BindVertexArray(geo.vao)
	gl.DrawElements(gl.TRIANGLES, geo.count, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)

	c.window.SwapBuffers()

	if err := gl.GetError(); err != gl.NO_ERROR {
		return fmt.Errorf("opengl: draw: error 0x%x", err)
	}
	return nil
}

// Release marks the context dead. GL objects are owned by geometry and
// material; the window and its GL context belong to the host.
func (c *Context) Release() {
	if c.released {
		return
	}
	c.released = true
	gl.UseProgram(0)
}
