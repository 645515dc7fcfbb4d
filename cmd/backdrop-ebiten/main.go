// Command backdrop-ebiten renders the background as a Kage shader inside
// an Ebitengine window.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"backdrop/internal/buildinfo"
	"backdrop/internal/config"
	"backdrop/internal/gpu/kage"
	"backdrop/internal/host/ebitenhost"
	"backdrop/internal/lifecycle"
	"backdrop/internal/logging"
	"backdrop/internal/loop"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	var (
		width    = flag.Int("width", 900, "window width")
		height   = flag.Int("height", 600, "window height")
		fps      = flag.Int("fps", config.GetFPSLimit(), "ticks per second, 0 to follow the display")
		step     = flag.Float64("step", config.DefaultTimeStep, "animation time added per frame")
		logLevel = flag.String("log-level", "info", "debug, info, warn or error")
		version  = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()
	if *version {
		fmt.Println(buildinfo.String())
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logging.ParseLevel(*logLevel),
	}))
	logging.SetLogger(logger)
	config.SetFPSLimit(*fps)
	config.SetTimeStep(*step)

	if limit := config.GetFPSLimit(); limit > 0 {
		ebiten.SetTPS(limit)
	} else {
		ebiten.SetTPS(ebiten.SyncWithFPS)
	}

	frames := loop.NewFrameQueue()
	game := ebitenhost.NewGame(*width, *height, frames)
	m := lifecycle.New(game, kage.NewBackend(), lifecycle.WithFrames(frames))
	game.OnStart = func() error {
		if err := m.Mount(); err != nil {
			logger.Warn("running without background", "error", err)
		}
		return nil
	}

	logger.Info("starting", "version", buildinfo.Short(), "backend", "kage")
	err := game.Run("backdrop")
	m.Unmount()
	if err != nil {
		logger.Error("backdrop failed", "error", err)
		os.Exit(1)
	}
}
