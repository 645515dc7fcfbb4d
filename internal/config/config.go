package config

import "sync"

// RenderSettings holds render configuration
type RenderSettings struct {
	mu          sync.RWMutex
	fpsLimit    int     // frames per second, 0 = unlimited
	pixelRatio  float64 // 0 = ask the host
	antialias   bool
	alpha       bool
	renderScale float64 // software backend internal resolution
}

var globalRenderSettings = &RenderSettings{
	fpsLimit:    60,
	antialias:   true,
	alpha:       true,
	renderScale: 0.5,
}

// GetFPSLimit returns the frame cap, 0 meaning unlimited
func GetFPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fpsLimit
}

// SetFPSLimit sets the frame cap
func SetFPSLimit(limit int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	// Clamp to reasonable values
	if limit < 0 {
		limit = 0
	}
	if limit > 1000 {
		limit = 1000
	}

	globalRenderSettings.fpsLimit = limit
}

// GetPixelRatio returns the pixel ratio override, 0 when the host decides
func GetPixelRatio() float64 {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.pixelRatio
}

// SetPixelRatio overrides the host pixel ratio; values <= 0 clear the override
func SetPixelRatio(ratio float64) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	if ratio <= 0 {
		ratio = 0
	}
	if ratio > 4 {
		ratio = 4
	}

	globalRenderSettings.pixelRatio = ratio
}

// GetAntialias returns whether multisampling is requested
func GetAntialias() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.antialias
}

// SetAntialias sets whether multisampling is requested
func SetAntialias(enabled bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.antialias = enabled
}

// GetAlpha returns whether the drawing surface carries an alpha channel
func GetAlpha() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.alpha
}

// SetAlpha sets whether the drawing surface carries an alpha channel
func SetAlpha(enabled bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.alpha = enabled
}

// GetRenderScale returns the software renderer's internal resolution factor
func GetRenderScale() float64 {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.renderScale
}

// SetRenderScale sets the software renderer's internal resolution factor
func SetRenderScale(scale float64) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()

	if scale < 0.05 {
		scale = 0.05
	}
	if scale > 1 {
		scale = 1
	}

	globalRenderSettings.renderScale = scale
}
