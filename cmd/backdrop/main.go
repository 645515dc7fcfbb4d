// Command backdrop renders the animated background in a window, or
// headless into image files.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"backdrop/internal/buildinfo"
	"backdrop/internal/config"
	"backdrop/internal/logging"
)

func init() {
	runtime.LockOSThread()
}

type options struct {
	backend    string
	backendSet bool
	width      int
	height     int
	fps        int
	step       float64
	pixelRatio float64
	scale      float64
	antialias  bool
	alpha      bool

	headless bool
	hz       int
	frames   uint64
	out      string
	format   string

	logLevel string
	version  bool
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.backend, "backend", "gl", "renderer: gl, wgpu or soft")
	flag.IntVar(&o.width, "width", 900, "window width in window units")
	flag.IntVar(&o.height, "height", 600, "window height in window units")
	flag.IntVar(&o.fps, "fps", config.GetFPSLimit(), "frame rate cap, 0 for none")
	flag.Float64Var(&o.step, "step", config.DefaultTimeStep, "animation time added per frame")
	flag.Float64Var(&o.pixelRatio, "pixel-ratio", 0, "drawable pixels per window unit, 0 to ask the display")
	flag.Float64Var(&o.scale, "scale", config.GetRenderScale(), "soft renderer resolution factor")
	flag.BoolVar(&o.antialias, "antialias", config.GetAntialias(), "request multisampling")
	flag.BoolVar(&o.alpha, "alpha", config.GetAlpha(), "request a transparent drawing buffer")
	flag.BoolVar(&o.headless, "headless", false, "render without a window (soft backend)")
	flag.IntVar(&o.hz, "hz", 60, "headless refresh rate")
	flag.Uint64Var(&o.frames, "frames", 0, "headless frame count, 0 to run until interrupted")
	flag.StringVar(&o.out, "out", "", "headless output directory; frames are not written if empty")
	flag.StringVar(&o.format, "format", "png", "headless image format: png, bmp or tiff")
	flag.StringVar(&o.logLevel, "log-level", "info", "debug, info, warn or error")
	flag.BoolVar(&o.version, "version", false, "print version and exit")
	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "backend" {
			o.backendSet = true
		}
	})
	return o
}

func applyConfig(o options) {
	config.SetFPSLimit(o.fps)
	config.SetTimeStep(o.step)
	config.SetPixelRatio(o.pixelRatio)
	config.SetRenderScale(o.scale)
	config.SetAntialias(o.antialias)
	config.SetAlpha(o.alpha)
}

func main() {
	o := parseFlags()
	if o.version {
		fmt.Println(buildinfo.String())
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logging.ParseLevel(o.logLevel),
	}))
	logging.SetLogger(logger)
	applyConfig(o)

	logger.Info("starting", "version", buildinfo.Short(), "backend", o.backend,
		"width", o.width, "height", o.height, "fps", config.GetFPSLimit(), "step", config.GetTimeStep())

	var err error
	if o.headless || o.backend == "soft" {
		err = runHeadless(o)
	} else {
		err = runWindow(o)
	}
	if err != nil {
		logger.Error("backdrop failed", "error", err)
		os.Exit(1)
	}
}
