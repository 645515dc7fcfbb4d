package renderer

import (
	"backdrop/internal/gpu"
	"backdrop/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderContext provides shared context for all renderables
type RenderContext struct {
	Camera *graphics.Camera
	Target gpu.Context
	View   mgl32.Mat4
	Proj   mgl32.Mat4
}

// Renderable interface defines the lifecycle for renderable features
type Renderable interface {
	Init(target gpu.Context) error
	Render(ctx RenderContext) error
	Dispose()
	SetViewport(width, height int)
}
