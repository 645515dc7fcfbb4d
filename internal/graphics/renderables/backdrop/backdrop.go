package backdrop

import (
	"fmt"

	"backdrop/internal/gpu"
	"backdrop/internal/graphics"
	renderer "backdrop/internal/graphics/renderer"
	"backdrop/internal/shader"
	"backdrop/internal/uniforms"
)

// Surface is the full-viewport quad paired with the background shader.
// It reads the shared uniform record at draw time rather than holding a copy.
type Surface struct {
	uniforms *uniforms.State
	program  shader.Program
	mesh     gpu.Mesh

	geometry gpu.Geometry
	material gpu.Material
}

// NewSurface creates the quad renderable bound to u.
func NewSurface(u *uniforms.State) *Surface {
	return &Surface{
		uniforms: u,
		program:  shader.Backdrop(),
		mesh:     graphics.QuadMesh(),
	}
}

// Init uploads the quad and compiles the material. On failure anything
// already created is released before returning.
func (s *Surface) Init(target gpu.Context) error {
	g, err := target.NewGeometry(s.mesh)
	if err != nil {
		return fmt.Errorf("backdrop geometry: %w", err)
	}
	m, err := target.NewMaterial(s.program)
	if err != nil {
		g.Release()
		return fmt.Errorf("backdrop material: %w", err)
	}
	s.geometry, s.material = g, m
	return nil
}

// Render draws the quad with the current uniform snapshot.
func (s *Surface) Render(ctx renderer.RenderContext) error {
	if s.geometry == nil || s.material == nil {
		return gpu.ErrReleased
	}
	return ctx.Target.Draw(s.geometry, s.material, gpu.Frame{
		Projection: ctx.Proj,
		View:       ctx.View,
		Uniforms:   s.uniforms.Snapshot(),
	})
}

// Dispose releases geometry then material. Safe to call more than once.
func (s *Surface) Dispose() {
	if s.geometry != nil {
		s.geometry.Release()
		s.geometry = nil
	}
	if s.material != nil {
		s.material.Release()
		s.material = nil
	}
}

// SetViewport is a no-op: resolution reaches the shader through the uniforms.
func (s *Surface) SetViewport(width, height int) {}

// Uniforms returns the record this surface reads.
func (s *Surface) Uniforms() *uniforms.State {
	return s.uniforms
}
