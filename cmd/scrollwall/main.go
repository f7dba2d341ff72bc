// Command scrollwall runs the scrolling image wallpaper engine
// standalone: it loads configuration and a default profile, opens a
// GPU device, and drives the updater and default-profile loader tasks
// described in spec §5; no renderer or overlay task is started.
// Wiring an actual window/event-loop toolkit is left to
// the host application (spec §1 lists it as an external collaborator
// with only a surface-handle/physical-size/event contract); this
// binary runs the engine against the displays and profile named on
// the command line, with no GPU surface attached, to exercise
// everything up to the point a concrete window binding would take
// over the render loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	wgpubackend "github.com/mossvale/scrollwall/backend/wgpu"
	"github.com/mossvale/scrollwall/app"
	"github.com/mossvale/scrollwall/config"
	"github.com/mossvale/scrollwall/group"
	"github.com/mossvale/scrollwall/internal/logging"
	"github.com/mossvale/scrollwall/panel"
	"github.com/mossvale/scrollwall/rect"
	"github.com/mossvale/scrollwall/renderer"
)

func main() {
	var (
		logLevel   = flag.String("log-level", "info", "debug, info, warn, error")
		logFile    = flag.String("log-file", "", "write logs to this file instead of stderr")
		configPath = flag.String("config", "", "path to config.toml (defaults to the OS config dir)")
		docsDir    = flag.String("docs-dir", ".", "directory holding profile/panel/playlist TOML documents")
		profile    = flag.String("profile", "default", "profile name to load at startup")
		display    = flag.String("display", "1920x1080", "primary display geometry, WxH+X+Y or CxR@WxH+X+Y")
	)
	flag.Parse()

	logger, closer, err := logging.New(logging.Options{Level: *logLevel, File: *logFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closer.Close()

	if err := run(logger, *configPath, *docsDir, *profile, *display); err != nil {
		logger.Error("scrollwall: fatal error", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configPath, docsDir, profileName, displaySpec string) error {
	if configPath == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("resolving config path: %w", err)
		}
		configPath = p
	}
	cfg := config.GetOrCreateDefault(configPath, logger)

	geometries, err := parseDisplayGeometry(displaySpec)
	if err != nil {
		return fmt.Errorf("parsing -display: %w", err)
	}
	primaryDisplay := &panel.Display{Name: "primary", Geometries: geometries}

	device, err := wgpubackend.New(logger)
	if err != nil {
		return fmt.Errorf("opening GPU device: %w", err)
	}

	r, err := renderer.New(device, logger)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	decodeWorkers := cfg.DecodeWorkers
	if decodeWorkers <= 0 {
		decodeWorkers = 4
	}

	g := group.New()
	resolver := group.NewResolver(docsDir, device, r.ImageLayout(), 64, logger)
	engine := app.NewEngine(g, resolver, 1, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	displays := group.Displays{primaryDisplay.Name: primaryDisplay}

	logger.Info("scrollwall: starting", "profile", profileName, "config", configPath, "decode_workers", decodeWorkers)
	return app.Run(ctx, engine, profileName, displays)
}

func parseDisplayGeometry(spec string) ([]rect.Rect, error) {
	if grid, err := rect.ParseGrid(spec); err == nil {
		return grid, nil
	}
	r, err := rect.Parse(spec)
	if err != nil {
		return nil, err
	}
	return []rect.Rect{r}, nil
}
