package shader

import (
	"math"
	"math/rand"
	"testing"

	"backdrop/internal/uniforms"

	"github.com/go-gl/mathgl/mgl32"
)

func sceneValues(time float32, pointer mgl32.Vec2) uniforms.Values {
	return uniforms.Values{
		Time:       time,
		Pointer:    pointer,
		Resolution: mgl32.Vec2{800, 600},
		Aspect:     800.0 / 600.0,
	}
}

// TestShadeDeterministic verifies identical inputs give identical colors
func TestShadeDeterministic(t *testing.T) {
	r := rand.New(rand.NewSource(12345))
	for i := 0; i < 200; i++ {
		u := sceneValues(r.Float32()*100, mgl32.Vec2{r.Float32() * 800, r.Float32() * 600})
		px := mgl32.Vec2{r.Float32() * 800, r.Float32() * 600}
		a := Shade(u, px)
		b := Shade(u, px)
		if a != b {
			t.Fatalf("Shade not deterministic at %v: %v != %v", px, a, b)
		}
	}
}

// TestShadeOpaqueAndBounded verifies alpha is fixed and channels stay in [0,1]
func TestShadeOpaqueAndBounded(t *testing.T) {
	r := rand.New(rand.NewSource(12345))
	for i := 0; i < 500; i++ {
		u := sceneValues(r.Float32()*1000, mgl32.Vec2{r.Float32() * 800, r.Float32() * 600})
		c := Shade(u, mgl32.Vec2{r.Float32() * 800, r.Float32() * 600})
		if c.W() != 1 {
			t.Fatalf("alpha = %v, want 1", c.W())
		}
		for ch := 0; ch < 3; ch++ {
			if c[ch] < 0 || c[ch] > 1 || math.IsNaN(float64(c[ch])) {
				t.Fatalf("channel %d = %v out of range", ch, c[ch])
			}
		}
	}
}

// TestPointerGlowFalloff verifies the glow peaks at distance 0 and vanishes at the radius
func TestPointerGlowFalloff(t *testing.T) {
	if got := PointerGlow(0); math.Abs(float64(got)-0.3) > 1e-6 {
		t.Errorf("PointerGlow(0) = %v, want 0.3", got)
	}
	for _, d := range []float32{GlowRadius, 0.31, 0.5, 2} {
		if got := PointerGlow(d); got != 0 {
			t.Errorf("PointerGlow(%v) = %v, want 0", d, got)
		}
	}
	prev := PointerGlow(0)
	for d := float32(0.01); d < GlowRadius; d += 0.01 {
		g := PointerGlow(d)
		if g > prev {
			t.Fatalf("PointerGlow not decreasing at %v: %v > %v", d, g, prev)
		}
		if g > PointerGlow(0) {
			t.Fatalf("PointerGlow(%v) = %v exceeds the value at 0", d, g)
		}
		prev = g
	}
}

// TestShadeGlowAtPointer verifies the pixel under the damped pointer is lit
// by the glow and a far pixel is not
func TestShadeGlowAtPointer(t *testing.T) {
	u := sceneValues(0, mgl32.Vec2{400, 300})
	near := Shade(u, mgl32.Vec2{400, 300})
	far := Shade(u, mgl32.Vec2{5, 5})

	// glow adds 0.2*0.3 to red at distance 0; the pattern term alone adds at most 0.003
	if near.X()-far.X() < 0.05 {
		t.Errorf("red at pointer %v not brighter than far pixel %v", near.X(), far.X())
	}
	if far.X() > 0.06 {
		t.Errorf("far pixel red = %v, expected base color without glow", far.X())
	}
}

// TestShadeZeroResolution verifies a zero-area viewport returns the base color
func TestShadeZeroResolution(t *testing.T) {
	c := Shade(uniforms.Values{Aspect: 1}, mgl32.Vec2{0, 0})
	for ch := 0; ch < 4; ch++ {
		if math.IsNaN(float64(c[ch])) || math.IsInf(float64(c[ch]), 0) {
			t.Fatalf("channel %d not finite: %v", ch, c[ch])
		}
	}
}

func TestCenterAspect(t *testing.T) {
	res := mgl32.Vec2{1920, 1080}
	aspect := float32(1920.0 / 1080.0)
	c := Center(mgl32.Vec2{1920, 540}, res, aspect)
	if math.Abs(float64(c.X()-0.5*aspect)) > 1e-6 || c.Y() != 0 {
		t.Errorf("Center = %v, want [%v 0]", c, 0.5*aspect)
	}
}
