// Package gpu is the narrow device surface the background needs: one
// context per mount, one quad geometry, one shader material.
package gpu

import (
	"errors"

	"backdrop/internal/shader"
	"backdrop/internal/uniforms"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrUnsupported means the host cannot provide a drawing context at all.
	// It is terminal; callers must not retry.
	ErrUnsupported = errors.New("gpu: drawing context unsupported")

	// ErrReleased is returned when a released context is asked to do work.
	ErrReleased = errors.New("gpu: context released")
)

// Options configures a new Context.
type Options struct {
	Label string

	// Drawable size in pixels (logical size times PixelRatio).
	Width, Height int
	PixelRatio    float64

	Antialias bool
	Alpha     bool
}

// Mesh is position-only geometry: xyz triples and triangle indices.
type Mesh struct {
	Vertices []float32
	Indices  []uint32
}

// Frame carries everything one draw call reads.
type Frame struct {
	Projection mgl32.Mat4
	View       mgl32.Mat4
	Uniforms   uniforms.Values
}

// Canvas is the drawing surface element a host attaches to its container.
type Canvas interface {
	Size() (width, height int)
}

// Geometry is an uploaded mesh.
type Geometry interface {
	Release()
}

// Material is a compiled shader program bound to the uniform block.
type Material interface {
	Release()
}

// Context owns the device objects of one mount.
type Context interface {
	Canvas() Canvas
	// SetSize resizes the drawing buffer in pixels.
	SetSize(width, height int)
	NewGeometry(m Mesh) (Geometry, error)
	NewMaterial(p shader.Program) (Material, error)
	// Draw renders geometry with material and presents the result.
	Draw(g Geometry, m Material, f Frame) error
	Release()
}

// Backend creates contexts. It returns an error wrapping ErrUnsupported
// when the host has no usable device.
type Backend interface {
	Name() string
	NewContext(opts Options) (Context, error)
}
