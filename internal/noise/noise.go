package noise

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Value noise and fractal Brownian motion, float32 throughout so results
// track what the fragment stage computes on the GPU.

// octave weights sum to fbmNorm
const (
	fbmOctaves = 4
	fbmNorm    = 0.5 + 0.25 + 0.125 + 0.0625
)

// below1 is the largest float32 strictly less than 1.
var below1 = math.Nextafter32(1, 0)

// Fract returns x - floor(x), kept inside [0,1) even when rounding
// would push a tiny negative input up to exactly 1.
func Fract(x float32) float32 {
	f := x - float32(math.Floor(float64(x)))
	if f >= 1 {
		return below1
	}
	if f < 0 {
		return 0
	}
	return f
}

// Mix linearly interpolates between a and b, matching GLSL mix.
func Mix(a, b, t float32) float32 {
	return a*(1-t) + b*t
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Smoothstep is the GLSL smoothstep. Reversed edges (e0 > e1) give a
// falling curve.
func Smoothstep(e0, e1, x float32) float32 {
	if e0 == e1 {
		if x < e0 {
			return 0
		}
		return 1
	}
	t := Clamp((x-e0)/(e1-e0), 0, 1)
	return t * t * (3 - 2*t)
}

func sin32(x float32) float32 { return float32(math.Sin(float64(x))) }

func abs32(x float32) float32 { return float32(math.Abs(float64(x))) }

// Hash maps a 2D coordinate to a pseudo-random scalar in [0,1).
func Hash(p mgl32.Vec2) float32 {
	a := sin32(17*p.X() + p.Y()*0.1)
	b := 0.1 + abs32(sin32(p.Y()*13+p.X()))
	return Fract(1e4 * a * b)
}

// Noise is 2D value noise: four lattice hashes blended bilinearly with a
// smoothstep weight per axis.
func Noise(p mgl32.Vec2) float32 {
	ix := float32(math.Floor(float64(p.X())))
	iy := float32(math.Floor(float64(p.Y())))
	fx := p.X() - ix
	fy := p.Y() - iy

	a := Hash(mgl32.Vec2{ix, iy})
	b := Hash(mgl32.Vec2{ix + 1, iy})
	c := Hash(mgl32.Vec2{ix, iy + 1})
	d := Hash(mgl32.Vec2{ix + 1, iy + 1})

	ux := fx * fx * (3 - 2*fx)
	uy := fy * fy * (3 - 2*fy)
	return Mix(Mix(a, b, ux), Mix(c, d, ux), uy)
}

// FBM sums four octaves of Noise at doubling frequency and halving
// amplitude, normalized back into [0,1).
func FBM(p mgl32.Vec2) float32 {
	var sum float32
	amp := float32(0.5)
	for i := 0; i < fbmOctaves; i++ {
		sum += amp * Noise(p)
		p = p.Mul(2)
		amp *= 0.5
	}
	v := sum / fbmNorm
	if v >= 1 {
		return below1
	}
	return v
}
