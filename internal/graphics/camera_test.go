package graphics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// TestCameraFramesQuad verifies the quad corners land on the clip-space corners
func TestCameraFramesQuad(t *testing.T) {
	c := NewCamera(800, 600)
	mvp := c.GetProjectionMatrix().Mul4(c.GetViewMatrix())
	m := QuadMesh()
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		v := mgl32.Vec3{m.Vertices[i], m.Vertices[i+1], m.Vertices[i+2]}
		clip := mvp.Mul4x1(v.Vec4(1))
		ndc := clip.Vec3().Mul(1 / clip.W())
		if math.Abs(float64(ndc.X()-v.X())) > 1e-5 || math.Abs(float64(ndc.Y()-v.Y())) > 1e-5 {
			t.Errorf("vertex %v projects to %v", v, ndc)
		}
		if ndc.Z() < -1 || ndc.Z() > 1 {
			t.Errorf("vertex %v clipped by depth: z=%v", v, ndc.Z())
		}
	}
}

// TestCameraResizeIdempotent verifies a repeated resize leaves the projection untouched
func TestCameraResizeIdempotent(t *testing.T) {
	c := NewCamera(1024, 768)
	before := c.GetProjectionMatrix()
	if c.Resize(1024, 768) {
		t.Error("Resize to the same size reported a change")
	}
	if after := c.GetProjectionMatrix(); after != before {
		t.Errorf("projection changed: %v -> %v", before, after)
	}
	if !c.Resize(1920, 1080) {
		t.Error("Resize to a new size reported no change")
	}
	if math.Abs(float64(c.AspectRatio)-1920.0/1080.0) > 1e-6 {
		t.Errorf("AspectRatio = %v, want %v", c.AspectRatio, 1920.0/1080.0)
	}
}

// TestCameraZeroArea verifies a zero-area viewport keeps a finite projection
func TestCameraZeroArea(t *testing.T) {
	c := NewCamera(0, 0)
	if c.AspectRatio != 1 {
		t.Errorf("AspectRatio = %v, want 1", c.AspectRatio)
	}
	p := c.GetProjectionMatrix()
	for i, v := range p {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("projection[%d] = %v", i, v)
		}
	}
	c.Resize(800, 600)
	if math.Abs(float64(c.AspectRatio)-800.0/600.0) > 1e-6 {
		t.Errorf("AspectRatio = %v, want %v", c.AspectRatio, 800.0/600.0)
	}
}

func TestQuadMesh(t *testing.T) {
	m := QuadMesh()
	if len(m.Vertices) != 12 {
		t.Errorf("got %d vertex floats, want 12", len(m.Vertices))
	}
	if len(m.Indices) != 6 {
		t.Errorf("got %d indices, want 6", len(m.Indices))
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Vertices)/3 {
			t.Errorf("index %d out of range", idx)
		}
	}
}
