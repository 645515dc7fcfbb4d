package renderer

import (
	"fmt"

	"backdrop/internal/gpu"
	"backdrop/internal/graphics"
	"backdrop/internal/profiling"
)

// Renderer drives the scene: one camera and its renderables, drawn into a
// single gpu.Context.
type Renderer struct {
	target      gpu.Context
	camera      *graphics.Camera
	renderables []Renderable
}

// NewRenderer initializes every renderable in order. If one fails, the
// renderables already initialized are disposed in reverse order.
func NewRenderer(target gpu.Context, camera *graphics.Camera, rs ...Renderable) (*Renderer, error) {
	r := &Renderer{
		target: target,
		camera: camera,
	}

	for i, rb := range rs {
		if err := rb.Init(target); err != nil {
			for j := i - 1; j >= 0; j-- {
				rs[j].Dispose()
			}
			return nil, fmt.Errorf("init renderable %d: %w", i, err)
		}
		r.renderables = append(r.renderables, rb)
	}

	return r, nil
}

// Render draws all renderables with the current camera matrices.
func (r *Renderer) Render() error {
	defer profiling.Track("renderer.Render")()

	ctx := RenderContext{
		Camera: r.camera,
		Target: r.target,
		View:   r.camera.GetViewMatrix(),
		Proj:   r.camera.GetProjectionMatrix(),
	}
	for _, rb := range r.renderables {
		if err := rb.Render(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Dispose cleans up all renderables in reverse order. Calling it again is a no-op.
func (r *Renderer) Dispose() {
	for i := len(r.renderables) - 1; i >= 0; i-- {
		r.renderables[i].Dispose()
	}
	r.renderables = nil
}

// GetCamera returns the camera instance
func (r *Renderer) GetCamera() *graphics.Camera {
	return r.camera
}

// UpdateViewport resizes the drawing buffer, recomputes the projection and
// notifies the renderables.
func (r *Renderer) UpdateViewport(width, height int) {
	if !r.camera.Resize(width, height) {
		return
	}
	r.target.SetSize(width, height)
	for _, rb := range r.renderables {
		rb.SetViewport(width, height)
	}
}
