package main

import (
	"fmt"

	"backdrop/internal/config"
	"backdrop/internal/gpu"
	"backdrop/internal/gpu/opengl"
	"backdrop/internal/gpu/webgpu"
	"backdrop/internal/host/glfwhost"
	"backdrop/internal/lifecycle"
	"backdrop/internal/logging"
	"backdrop/internal/loop"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
)

func runWindow(o options) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	api := glfwhost.APIOpenGL
	if o.backend == "wgpu" {
		api = glfwhost.APINone
	}
	win, err := glfwhost.SetupWindow(glfwhost.WindowOptions{
		Title:       "backdrop",
		Width:       o.width,
		Height:      o.height,
		API:         api,
		Antialias:   config.GetAntialias(),
		Transparent: config.GetAlpha(),
	})
	if err != nil {
		return err
	}
	defer win.Destroy()

	var backend gpu.Backend
	switch o.backend {
	case "gl":
		backend = opengl.NewBackend(win)
	case "wgpu":
		backend = webgpu.NewBackend(win)
	default:
		return fmt.Errorf("unknown backend %q", o.backend)
	}

	container := glfwhost.New(win)
	container.OnKeyPress(func(k glfw.Key) {
		if k == glfw.KeyEscape {
			win.SetShouldClose(true)
		}
	})

	frames := loop.NewFrameQueue()
	m := lifecycle.New(container, backend, lifecycle.WithFrames(frames))
	if err := m.Mount(); err != nil {
		// The window still runs, just without a background.
		logging.Logger().Warn("running without background", "error", err)
		win.Show()
	}

	done := make(chan struct{})
	closer.Bind(func() {
		win.SetShouldClose(true)
		glfw.PostEmptyEvent()
		<-done
	})

	glfwhost.NewApp(container, frames).Run()

	m.Unmount()
	close(done)
	return nil
}
