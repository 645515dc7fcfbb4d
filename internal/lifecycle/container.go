package lifecycle

import "backdrop/internal/gpu"

// Container is the mount point the background draws into: a window, an
// offscreen viewport or a game host.
type Container interface {
	// Size is the logical size; the drawable is Size times PixelRatio.
	Size() (width, height int)
	PixelRatio() float64

	// Attach places the canvas inside the container; Detach removes it.
	Attach(c gpu.Canvas) error
	Detach(c gpu.Canvas)

	// OnResize and OnPointerMove register listeners in logical units and
	// return a function that removes them.
	OnResize(fn func(width, height int)) (remove func())
	OnPointerMove(fn func(x, y float64)) (remove func())
}

// drawableSize scales a logical size by ratio, rounding to whole pixels.
func drawableSize(width, height int, ratio float64) (int, int) {
	if ratio <= 0 {
		ratio = 1
	}
	return int(float64(width)*ratio + 0.5), int(float64(height)*ratio + 0.5)
}
