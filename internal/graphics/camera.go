package graphics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is an orthographic camera framing the [-1,1] plane. Only the
// aspect tracks the viewport; the frustum itself never changes, the shader
// does its own aspect correction.
type Camera struct {
	Left, Right float32
	Top, Bottom float32
	NearPlane   float32
	FarPlane    float32
	Position    mgl32.Vec3
	AspectRatio float32

	width, height int
	projection    mgl32.Mat4
}

func NewCamera(width, height int) *Camera {
	c := &Camera{
		Left:        -1,
		Right:       1,
		Top:         1,
		Bottom:      -1,
		NearPlane:   0.1,
		FarPlane:    1000.0,
		Position:    mgl32.Vec3{0, 0, 1},
		AspectRatio: 1,
	}
	c.width, c.height = width, height
	c.updateProjection(width, height)
	return c
}

// Resize recomputes the projection in place. It reports false when the
// size is unchanged.
func (c *Camera) Resize(width, height int) bool {
	if width == c.width && height == c.height {
		return false
	}
	c.width, c.height = width, height
	c.updateProjection(width, height)
	return true
}

func (c *Camera) updateProjection(width, height int) {
	c.AspectRatio = 1
	if width > 0 && height > 0 {
		c.AspectRatio = float32(width) / float32(height)
	}
	c.projection = mgl32.Ortho(c.Left, c.Right, c.Bottom, c.Top, c.NearPlane, c.FarPlane)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return c.projection
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, mgl32.Vec3{c.Position.X(), c.Position.Y(), 0}, mgl32.Vec3{0, 1, 0})
}

// Size returns the viewport the projection was last computed for.
func (c *Camera) Size() (int, int) {
	return c.width, c.height
}
