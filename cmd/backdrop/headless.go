package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"backdrop/internal/config"
	"backdrop/internal/gpu/soft"
	"backdrop/internal/host/headless"
	"backdrop/internal/lifecycle"
	"backdrop/internal/logging"
	"backdrop/internal/loop"

	"github.com/xlab/closer"
)

// headlessBackend checks the requested backend for a headless run. Only
// soft draws without a window; the default backend is replaced by it, an
// explicit other choice is an error.
func headlessBackend(o options) (string, error) {
	if o.backend == "soft" {
		return "soft", nil
	}
	if o.backendSet {
		return "", fmt.Errorf("backend %q cannot run headless, use -backend=soft", o.backend)
	}
	return "soft", nil
}

func runHeadless(o options) error {
	if _, err := headlessBackend(o); err != nil {
		return err
	}
	format, err := headless.ParseFormat(o.format)
	if err != nil {
		return err
	}
	if o.out != "" {
		if err := os.MkdirAll(o.out, 0o755); err != nil {
			return fmt.Errorf("output directory: %w", err)
		}
	}

	log := logging.Logger()
	if o.backend != "soft" {
		log.Info("headless run uses the soft backend", "requested", o.backend)
	}
	view := headless.New(o.width, o.height, config.GetPixelRatio())
	frames := loop.NewFrameQueue()
	m := lifecycle.New(view, soft.NewBackend(config.GetRenderScale()), lifecycle.WithFrames(frames))
	if err := m.Mount(); err != nil {
		return fmt.Errorf("mount: %w", err)
	}
	// Interrupts unmount before the process exits.
	closer.Bind(m.Unmount)
	defer m.Unmount()

	var writeErrs []error
	cfg := loop.TickerConfig{
		Hz:     o.hz,
		Frames: o.frames,
		OnFrame: func(n uint64) {
			if o.out == "" {
				return
			}
			path, err := headless.WriteFrame(view.Canvas(), o.out, n, format)
			if err != nil {
				if len(writeErrs) == 0 {
					log.Error("write frame", "frame", n, "error", err)
				}
				writeErrs = append(writeErrs, err)
				return
			}
			log.Debug("wrote frame", "path", path)
		},
	}
	runErr := loop.RunTicker(context.Background(), frames, cfg)

	if s := m.Scheduler(); s != nil {
		log.Info("headless run done", "frames", s.Ticks(), "draw_errors", s.DrawErrors())
	}
	return errors.Join(runErr, errors.Join(writeErrs...))
}
