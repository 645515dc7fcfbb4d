package noise

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func randomPoint(r *rand.Rand, span float32) mgl32.Vec2 {
	return mgl32.Vec2{(r.Float32()*2 - 1) * span, (r.Float32()*2 - 1) * span}
}

// TestHashDeterministic verifies Hash returns identical results for identical input
func TestHashDeterministic(t *testing.T) {
	p := mgl32.Vec2{3.25, -7.5}
	first := Hash(p)
	for i := 0; i < 100; i++ {
		if got := Hash(p); got != first {
			t.Fatalf("Hash not deterministic: first=%v, call %d=%v", first, i, got)
		}
	}
}

// TestHashDifferentInputs verifies neighbouring lattice points do not collide
func TestHashDifferentInputs(t *testing.T) {
	tests := []struct {
		name string
		a, b mgl32.Vec2
	}{
		{"x step", mgl32.Vec2{1, 0}, mgl32.Vec2{2, 0}},
		{"y step", mgl32.Vec2{0, 1}, mgl32.Vec2{0, 2}},
		{"axis swap", mgl32.Vec2{1, 2}, mgl32.Vec2{2, 1}},
		{"negative", mgl32.Vec2{-3, 4}, mgl32.Vec2{3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Hash(tt.a) == Hash(tt.b) {
				t.Errorf("Hash(%v) == Hash(%v) = %v", tt.a, tt.b, Hash(tt.a))
			}
		})
	}
}

// TestHashRange verifies Hash stays within [0,1)
func TestHashRange(t *testing.T) {
	r := rand.New(rand.NewSource(12345))
	for i := 0; i < 1000; i++ {
		p := randomPoint(r, 1000)
		v := Hash(p)
		if v < 0 || v >= 1 {
			t.Errorf("Hash(%v) = %v, outside [0,1)", p, v)
		}
	}
}

// TestNoiseRange verifies Noise stays within [0,1)
func TestNoiseRange(t *testing.T) {
	r := rand.New(rand.NewSource(12345))
	for i := 0; i < 1000; i++ {
		p := randomPoint(r, 100)
		v := Noise(p)
		if v < 0 || v >= 1 {
			t.Errorf("Noise(%v) = %v, outside [0,1)", p, v)
		}
	}
}

// TestNoiseMatchesLattice verifies Noise equals Hash exactly at integer coordinates
func TestNoiseMatchesLattice(t *testing.T) {
	for x := -4; x <= 4; x++ {
		for y := -4; y <= 4; y++ {
			p := mgl32.Vec2{float32(x), float32(y)}
			if got, want := Noise(p), Hash(p); got != want {
				t.Errorf("Noise(%v) = %v, want lattice value %v", p, got, want)
			}
		}
	}
}

// TestFBMRange verifies FBM stays within [0,1)
func TestFBMRange(t *testing.T) {
	r := rand.New(rand.NewSource(12345))
	for i := 0; i < 1000; i++ {
		p := randomPoint(r, 100)
		v := FBM(p)
		if v < 0 || v >= 1 {
			t.Errorf("FBM(%v) = %v, outside [0,1)", p, v)
		}
	}
}

// TestFBMNormalization verifies FBM is the weighted octave sum divided by 0.9375
func TestFBMNormalization(t *testing.T) {
	p := mgl32.Vec2{1.37, -2.81}
	want := (0.5*Noise(p) + 0.25*Noise(p.Mul(2)) + 0.125*Noise(p.Mul(4)) + 0.0625*Noise(p.Mul(8))) / 0.9375
	if got := FBM(p); math.Abs(float64(got-want)) > 1e-6 {
		t.Errorf("FBM(%v) = %v, want %v", p, got, want)
	}
}

// TestFBMContinuity samples a dense grid across several lattice cells and
// checks finite differences stay small
func TestFBMContinuity(t *testing.T) {
	const (
		step      = float32(1.0 / 512)
		threshold = float32(0.01)
	)
	maxDiff := float32(0)
	for y := float32(-2); y < 2; y += 0.125 {
		for x := float32(-2); x < 2; x += step {
			p := mgl32.Vec2{x, y}
			v := FBM(p)
			dx := abs32(FBM(mgl32.Vec2{x + step, y}) - v)
			dy := abs32(FBM(mgl32.Vec2{x, y + step}) - v)
			if dx > maxDiff {
				maxDiff = dx
			}
			if dy > maxDiff {
				maxDiff = dy
			}
		}
	}
	if maxDiff > threshold {
		t.Errorf("FBM finite difference %v exceeds %v", maxDiff, threshold)
	}
}

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		name      string
		e0, e1, x float32
		want      float32
	}{
		{"below", 0.49, 0.51, 0.2, 0},
		{"above", 0.49, 0.51, 0.9, 1},
		{"midpoint", 0, 1, 0.5, 0.5},
		{"reversed at start", 0.3, 0, 0, 1},
		{"reversed at end", 0.3, 0, 0.3, 0},
		{"reversed beyond", 0.3, 0, 2, 0},
		{"equal edges", 1, 1, 0.5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Smoothstep(tt.e0, tt.e1, tt.x); math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("Smoothstep(%v, %v, %v) = %v, want %v", tt.e0, tt.e1, tt.x, got, tt.want)
			}
		})
	}
}

func TestFractBounds(t *testing.T) {
	for _, x := range []float32{-1e-9, -0.5, 0, 0.999, 3.75, -123.25} {
		f := Fract(x)
		if f < 0 || f >= 1 {
			t.Errorf("Fract(%v) = %v, outside [0,1)", x, f)
		}
	}
}
