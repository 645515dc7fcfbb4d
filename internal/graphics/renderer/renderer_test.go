package renderer

import (
	"errors"
	"testing"

	"backdrop/internal/gpu"
	"backdrop/internal/gpu/gputest"
	"backdrop/internal/graphics"
)

type stubRenderable struct {
	name     string
	failInit bool
	log      *[]string
	viewport [2]int
}

func (s *stubRenderable) Init(gpu.Context) error {
	if s.failInit {
		return errors.New("init failed")
	}
	*s.log = append(*s.log, "init "+s.name)
	return nil
}

func (s *stubRenderable) Render(RenderContext) error {
	*s.log = append(*s.log, "render "+s.name)
	return nil
}

func (s *stubRenderable) Dispose() {
	*s.log = append(*s.log, "dispose "+s.name)
}

func (s *stubRenderable) SetViewport(width, height int) {
	s.viewport = [2]int{width, height}
}

func newTarget(t *testing.T) (*gputest.Backend, gpu.Context) {
	t.Helper()
	b := gputest.NewBackend()
	ctx, err := b.NewContext(gpu.Options{Width: 800, Height: 600, PixelRatio: 1})
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return b, ctx
}

func equalLog(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("log = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestRendererDisposeReverseOrder verifies renderables are torn down last-in first-out, once
func TestRendererDisposeReverseOrder(t *testing.T) {
	_, target := newTarget(t)
	var log []string
	a := &stubRenderable{name: "a", log: &log}
	b := &stubRenderable{name: "b", log: &log}

	r, err := NewRenderer(target, graphics.NewCamera(800, 600), a, b)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	if err := r.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	r.Dispose()
	r.Dispose()

	equalLog(t, log, []string{"init a", "init b", "render a", "render b", "dispose b", "dispose a"})
}

// TestRendererPartialInit verifies a failing Init disposes only what was initialized
func TestRendererPartialInit(t *testing.T) {
	_, target := newTarget(t)
	var log []string
	a := &stubRenderable{name: "a", log: &log}
	b := &stubRenderable{name: "b", log: &log, failInit: true}
	c := &stubRenderable{name: "c", log: &log}

	if _, err := NewRenderer(target, graphics.NewCamera(800, 600), a, b, c); err == nil {
		t.Fatal("NewRenderer succeeded with a failing renderable")
	}
	equalLog(t, log, []string{"init a", "dispose a"})
}

// TestRendererUpdateViewport verifies resizes reach the camera, the drawing buffer and renderables
func TestRendererUpdateViewport(t *testing.T) {
	backend, target := newTarget(t)
	var log []string
	a := &stubRenderable{name: "a", log: &log}
	r, err := NewRenderer(target, graphics.NewCamera(800, 600), a)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	r.UpdateViewport(1920, 1080)
	r.UpdateViewport(1920, 1080)

	if w, h := r.GetCamera().Size(); w != 1920 || h != 1080 {
		t.Errorf("camera size = %dx%d, want 1920x1080", w, h)
	}
	if a.viewport != [2]int{1920, 1080} {
		t.Errorf("renderable viewport = %v, want [1920 1080]", a.viewport)
	}
	if sizes := backend.Sizes(); len(sizes) != 1 {
		t.Errorf("SetSize called %d times, want 1 (repeat resize must be a no-op)", len(sizes))
	}
}
