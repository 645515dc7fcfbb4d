package config

import "sync"

// DefaultTimeStep is how far the animation clock moves per frame.
const DefaultTimeStep = 0.01

// AnimationSettings holds animation configuration
type AnimationSettings struct {
	mu       sync.RWMutex
	timeStep float64
}

var globalAnimationSettings = &AnimationSettings{
	timeStep: DefaultTimeStep,
}

// GetTimeStep returns the per-frame clock increment
func GetTimeStep() float64 {
	globalAnimationSettings.mu.RLock()
	defer globalAnimationSettings.mu.RUnlock()
	return globalAnimationSettings.timeStep
}

// SetTimeStep sets the per-frame clock increment. Non-positive values
// restore the default so the clock never runs backwards.
func SetTimeStep(step float64) {
	globalAnimationSettings.mu.Lock()
	defer globalAnimationSettings.mu.Unlock()

	if !(step > 0) {
		step = DefaultTimeStep
	}
	if step > 1 {
		step = 1
	}

	globalAnimationSettings.timeStep = step
}
