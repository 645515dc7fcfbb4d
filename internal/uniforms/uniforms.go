package uniforms

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Uniform names as declared by the GLSL program.
const (
	NameTime       = "u_time"
	NameMouse      = "u_mouse"
	NameResolution = "u_resolution"
	NameAspect     = "u_aspect"
)

// Std140Size is the byte size of the packed uniform block.
const Std140Size = 32

// Values is one consistent read of the uniform record.
type Values struct {
	Time       float32
	Pointer    mgl32.Vec2
	Resolution mgl32.Vec2
	Aspect     float32
}

// Std140 packs the values as the WGSL block
// { time, aspect, mouse: vec2, resolution: vec2, pad: vec2 }.
func (v Values) Std140() []byte {
	buf := make([]byte, Std140Size)
	fields := [...]float32{
		v.Time, v.Aspect,
		v.Pointer.X(), v.Pointer.Y(),
		v.Resolution.X(), v.Resolution.Y(),
	}
	for i, f := range fields {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// State is the shared uniform record. The loop advances time, the pointer
// adapter writes the pointer and the resize handler writes resolution and
// aspect together. Readers take a Snapshot once per frame.
type State struct {
	mu         sync.RWMutex
	time       float64
	pointer    mgl32.Vec2
	pointerSet bool
	resolution mgl32.Vec2
	aspect     float32
	ready      bool
}

// New creates a State sized to the drawable, with the pointer at its center.
func New(width, height int) *State {
	s := &State{aspect: 1}
	s.SetResolution(width, height)
	return s
}

// Time returns the animation clock.
func (s *State) Time() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.time
}

// Advance moves the clock forward by dt. Negative or NaN steps are ignored.
func (s *State) Advance(dt float64) {
	if !(dt > 0) {
		return
	}
	s.mu.Lock()
	s.time += dt
	s.mu.Unlock()
}

// SetPointer records the last pointer position in drawable pixels.
func (s *State) SetPointer(x, y float32) {
	s.mu.Lock()
	s.pointer = mgl32.Vec2{x, y}
	s.pointerSet = true
	s.mu.Unlock()
}

// Pointer returns the last pointer position.
func (s *State) Pointer() mgl32.Vec2 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pointer
}

// SetResolution stores the drawable size and its aspect ratio in one step.
// A zero-area size keeps aspect at 1 and marks the state not ready.
// It reports whether anything changed.
func (s *State) SetResolution(width, height int) bool {
	res := mgl32.Vec2{float32(max(width, 0)), float32(max(height, 0))}
	aspect := float32(1)
	ready := width > 0 && height > 0
	if ready {
		aspect = res.X() / res.Y()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resolution == res && s.aspect == aspect && s.ready == ready {
		return false
	}
	s.resolution = res
	s.aspect = aspect
	s.ready = ready
	if !s.pointerSet {
		s.pointer = res.Mul(0.5)
	}
	return true
}

// Resolution returns the drawable size and aspect as one pair.
func (s *State) Resolution() (mgl32.Vec2, float32) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolution, s.aspect
}

// Ready reports whether the drawable has a non-zero area.
func (s *State) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Snapshot returns a consistent copy of every field.
func (s *State) Snapshot() Values {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Values{
		Time:       float32(s.time),
		Pointer:    s.pointer,
		Resolution: s.resolution,
		Aspect:     s.aspect,
	}
}
