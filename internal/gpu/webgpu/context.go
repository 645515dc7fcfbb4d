// Package webgpu draws the background through wgpu-native on a GLFW window
// surface.
package webgpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"backdrop/internal/gpu"
	"backdrop/internal/profiling"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Backend creates one surface per context on its window. The window must
// be created without a client API.
type Backend struct {
	window *glfw.Window

	// ForceFallbackAdapter selects the software adapter when the platform
	// offers one.
	ForceFallbackAdapter bool
}

func NewBackend(window *glfw.Window) *Backend {
	return &Backend{window: window}
}

func (b *Backend) Name() string { return "webgpu" }

// NewContext requests an adapter and device compatible with the window
// surface. Any failure to find one is reported as gpu.ErrUnsupported.
func (b *Backend) NewContext(opts gpu.Options) (gpu.Context, error) {
	if b.window == nil {
		return nil, fmt.Errorf("webgpu: no window: %w", gpu.ErrUnsupported)
	}

	c := &Context{
		label:       opts.Label,
		canvas:      &Canvas{window: b.window, width: opts.Width, height: opts.Height},
		alpha:       opts.Alpha,
		sampleCount: 1,
	}
	if opts.Antialias {
		c.sampleCount = 4
	}

	c.instance = wgpu.CreateInstance(nil)
	c.surface = c.instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(b.window))

	adapter, err := c.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: b.ForceFallbackAdapter,
		CompatibleSurface:    c.surface,
	})
	if err != nil {
		c.Release()
		return nil, fmt.Errorf("webgpu: request adapter: %w: %w", gpu.ErrUnsupported, err)
	}
	c.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: opts.Label + " device"})
	if err != nil {
		c.Release()
		return nil, fmt.Errorf("webgpu: request device: %w: %w", gpu.ErrUnsupported, err)
	}
	c.device = device
	c.queue = device.GetQueue()

	caps := c.surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		c.Release()
		return nil, fmt.Errorf("webgpu: surface has no formats: %w", gpu.ErrUnsupported)
	}
	c.format = caps.Formats[0]
	c.alphaMode = pickAlphaMode(caps.AlphaModes, opts.Alpha)

	if err := c.configure(opts.Width, opts.Height); err != nil {
		c.Release()
		return nil, err
	}
	return c, nil
}

func pickAlphaMode(modes []wgpu.CompositeAlphaMode, alpha bool) wgpu.CompositeAlphaMode {
	want := wgpu.CompositeAlphaModeOpaque
	if alpha {
		want = wgpu.CompositeAlphaModePremultiplied
	}
	for _, m := range modes {
		if m == want {
			return m
		}
	}
	return modes[0]
}

// Canvas is the window surface.
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

// Context owns the wgpu instance, surface, device and the MSAA target.
type Context struct {
	label       string
	canvas      *Canvas
	alpha       bool
	sampleCount uint32

	mu        sync.Mutex
	released  bool
	instance  *wgpu.Instance
	surface   *wgpu.Surface
	adapter   *wgpu.Adapter
	device    *wgpu.Device
	queue     *wgpu.Queue
	format    wgpu.TextureFormat
	alphaMode wgpu.CompositeAlphaMode

	configured bool
	msaa       *wgpu.Texture
	msaaView   *wgpu.TextureView
}

func (c *Context) Canvas() gpu.Canvas { return c.canvas }

// SetSize reconfigures the surface. A zero-area size leaves the surface
// unconfigured until the next non-empty size.
func (c *Context) SetSize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return
	}
	if err := c.configureLocked(width, height); err != nil {
		// The next Draw reports the missing target.
		c.configured = false
	}
}

func (c *Context) configure(width, height int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.configureLocked(width, height)
}

func (c *Context) configureLocked(width, height int) error {
	c.canvas.mu.Lock()
	c.canvas.width, c.canvas.height = width, height
	c.canvas.mu.Unlock()

	c.releaseMSAA()
	if width <= 0 || height <= 0 {
		c.configured = false
		return nil
	}

	c.surface.Configure(c.adapter, c.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      c.format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   c.alphaMode,
	})
	c.configured = true

	if c.sampleCount > 1 {
		tex, err := c.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: c.label + " msaa",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   c.sampleCount,
			Dimension:     wgpu.TextureDimension2D,
			Format:        c.format,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			return fmt.Errorf("webgpu: msaa target: %w", err)
		}
		view, err := tex.CreateView(nil)
		if err != nil {
			tex.Release()
			return fmt.Errorf("webgpu: msaa view: %w", err)
		}
		c.msaa, c.msaaView = tex, view
	}
	return nil
}

func (c *Context) releaseMSAA() {
	if c.msaaView != nil {
		c.msaaView.Release()
		c.msaaView = nil
	}
	if c.msaa != nil {
		c.msaa.Release()
		c.msaa = nil
	}
}

type geometry struct {
	vertices *wgpu.Buffer
	indices  *wgpu.Buffer
	count    uint32
}

func (g *geometry) Release() {
	if g.vertices != nil {
		g.vertices.Release()
		g.vertices = nil
	}
	if g.indices != nil {
		g.indices.Release()
		g.indices = nil
	}
}

// NewGeometry uploads the mesh into vertex and index buffers.
func (c *Context) NewGeometry(m gpu.Mesh) (gpu.Geometry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return nil, gpu.ErrReleased
	}
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return nil, errors.New("webgpu: empty mesh")
	}

	g := &geometry{count: uint32(len(m.Indices))}
	var err error
	g.vertices, err = c.upload(c.label+" vertices", float32Bytes(m.Vertices), wgpu.BufferUsageVertex)
	if err != nil {
		return nil, err
	}
	g.indices, err = c.upload(c.label+" indices", uint32Bytes(m.Indices), wgpu.BufferUsageIndex)
	if err != nil {
		g.Release()
		return nil, err
	}
	return g, nil
}

func (c *Context) upload(label string, data []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	buf, err := c.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: create %s: %w", label, err)
	}
	c.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// Draw renders one frame into the surface and presents it.
func (c *Context) Draw(g gpu.Geometry, m gpu.Material, f gpu.Frame) error {
	defer profiling.Track("webgpu.Draw")()

	geo, _ := g.(*geometry)
	mat, _ := m.(*material)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released || geo == nil || mat == nil || geo.vertices == nil || mat.pipeline == nil {
		return gpu.ErrReleased
	}
	if !c.configured {
		return errors.New("webgpu: surface not configured")
	}

	c.queue.WriteBuffer(mat.uniforms, 0, f.Uniforms.Std140())

	surfaceTexture, err := c.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("webgpu: acquire surface: %w", err)
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("webgpu: surface view: %w", err)
	}
	defer view.Release()

	encoder, err := c.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("webgpu: command encoder: %w", err)
	}
	defer encoder.Release()

	attachment := wgpu.RenderPassColorAttachment{
		View:       view,
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: c.clearColor(),
	}
	if c.msaaView != nil {
		attachment.View = c.msaaView
		attachment.ResolveTarget = view
		attachment.StoreOp = wgpu.StoreOpDiscard
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{attachment},
	})
	pass.SetPipeline(mat.pipeline)
	pass.SetBindGroup(0, mat.bindGroup, nil)
	pass.SetVertexBuffer(0, geo.vertices, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(geo.indices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	pass.DrawIndexed(geo.count, 1, 0, 0, 0)
	pass.End()
	pass.Release()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("webgpu: finish: %w", err)
	}
	defer commandBuffer.Release()

	c.queue.Submit(commandBuffer)
	c.surface.Present()
	return nil
}

func (c *Context) clearColor() wgpu.Color {
	if c.alpha {
		return wgpu.Color{}
	}
	return wgpu.Color{A: 1}
}

// Release frees the device objects in reverse order of creation. Geometry
// and materials must be released first.
func (c *Context) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return
	}
	c.released = true

	c.releaseMSAA()
	if c.queue != nil {
		c.queue.Release()
		c.queue = nil
	}
	if c.device != nil {
		c.device.Release()
		c.device = nil
	}
	if c.adapter != nil {
		c.adapter.Release()
		c.adapter = nil
	}
	if c.surface != nil {
		c.surface.Release()
		c.surface = nil
	}
	if c.instance != nil {
		c.instance.Release()
		c.instance = nil
	}
}

func float32Bytes(v []float32) []byte {
	buf := make([]byte, 0, len(v)*4)
	for _, f := range v {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return buf
}

func uint32Bytes(v []uint32) []byte {
	buf := make([]byte, 0, len(v)*4)
	for _, u := range v {
		buf = binary.LittleEndian.AppendUint32(buf, u)
	}
	return buf
}
