package glfwhost

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// API selects what the window's surface is created for.
type API int

const (
	// APIOpenGL creates a 4.1 core context.
	APIOpenGL API = iota
	// APINone leaves the surface to an external device such as wgpu.
	APINone
)

// WindowOptions describes the window SetupWindow creates.
type WindowOptions struct {
	Title         string
	Width, Height int
	API           API
	Antialias     bool
	Transparent   bool
}

// SetupWindow creates a hidden window; Attach shows it. glfw.Init must
// have been called on the main thread.
func SetupWindow(opts WindowOptions) (*glfw.Window, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)
	if opts.Transparent {
		glfw.WindowHint(glfw.TransparentFramebuffer, glfw.True)
	}

	switch opts.API {
	case APIOpenGL:
		glfw.WindowHint(glfw.ContextVersionMajor, 4)
		glfw.WindowHint(glfw.ContextVersionMinor, 1)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		if opts.Antialias {
			glfw.WindowHint(glfw.Samples, 4)
		}
	case APINone:
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	default:
		return nil, fmt.Errorf("glfwhost: unknown API %d", opts.API)
	}

	window, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("glfwhost: create window: %w", err)
	}

	if opts.API == APIOpenGL {
		window.MakeContextCurrent()
		// The loop paces itself.
		glfw.SwapInterval(0)
	}
	window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	return window, nil
}
