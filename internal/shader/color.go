package shader

import (
	"backdrop/internal/noise"
	"backdrop/internal/uniforms"

	"github.com/go-gl/mathgl/mgl32"
)

// GlowRadius is the pointer distance at which the glow reaches zero.
const GlowRadius = 0.3

const (
	glowStrength   = 0.3
	pointerDamping = 0.2
	patternScale   = 3.0
	lineWeight     = 0.2
	patternFade    = 0.1
)

var (
	baseColor   = mgl32.Vec3{0.05, 0.05, 0.05}
	accentColor = mgl32.Vec3{0.1, 0.05, 0.05}
	glowColor   = mgl32.Vec3{0.2, 0.1, 0.1}
)

// Center maps a pixel coordinate into [-0.5,0.5] with the horizontal axis
// scaled by aspect.
func Center(pixel, resolution mgl32.Vec2, aspect float32) mgl32.Vec2 {
	c := mgl32.Vec2{pixel.X()/resolution.X() - 0.5, pixel.Y()/resolution.Y() - 0.5}
	c[0] *= aspect
	return c
}

// PointerGlow is the radial falloff: glowStrength at distance 0, zero at
// GlowRadius and beyond.
func PointerGlow(distance float32) float32 {
	return noise.Smoothstep(GlowRadius, 0, distance) * glowStrength
}

// Shade evaluates the fragment stage for one pixel. pixel is in drawable
// pixels with a top-left origin, the same space as the pointer.
func Shade(u uniforms.Values, pixel mgl32.Vec2) mgl32.Vec4 {
	if u.Resolution.X() <= 0 || u.Resolution.Y() <= 0 {
		return baseColor.Vec4(1)
	}
	t := u.Time
	centered := Center(pixel, u.Resolution, u.Aspect)
	mouse := Center(u.Pointer, u.Resolution, u.Aspect)

	p := centered.Mul(patternScale)
	p = p.Add(mgl32.Vec2{sin32(t * 0.05), cos32(t * 0.03)}.Mul(0.1))

	n := noise.FBM(p.Add(mgl32.Vec2{t * 0.02, t * 0.02}))
	n2 := noise.FBM(p.Mul(2).Sub(mgl32.Vec2{t * 0.01, t * 0.01}))

	lines := noise.Smoothstep(0.49, 0.51, abs32(sin32(p.X()*10+t*0.1)))*lineWeight +
		noise.Smoothstep(0.49, 0.51, abs32(cos32(p.Y()*10+t*0.08)))*lineWeight

	pattern := (n + n2*0.5) * lines * patternFade

	glow := PointerGlow(centered.Sub(mouse.Mul(pointerDamping)).Len())

	c := mixVec3(baseColor, accentColor, pattern).Add(glowColor.Mul(glow))
	return c.Vec4(1)
}

func mixVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.Vec3{
		noise.Mix(a[0], b[0], t),
		noise.Mix(a[1], b[1], t),
		noise.Mix(a[2], b[2], t),
	}
}
