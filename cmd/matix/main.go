package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/matix/internal/config"
	"github.com/zeusync/matix/internal/core/observability/log"
	"github.com/zeusync/matix/internal/injector"
)

func main() {
	configPath := flag.String("config", "configs/game.yaml", "game configuration file")
	backend := flag.String("backend", "", "renderer override: term, window or none")
	minimapDir := flag.String("minimap", "", "write a WebP minimap of every loaded scene into this directory")
	frames := flag.Int("frames", 0, "stop after this many frames (0 runs until quit)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "matix:", err)
		os.Exit(1)
	}
	if *backend != "" {
		cfg.Render.Backend = *backend
	}
	if *minimapDir != "" {
		cfg.Minimap.Path = *minimapDir
	}
	if *frames > 0 {
		cfg.Engine.Frames = *frames
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "matix:", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "matix:", err)
		os.Exit(1)
	}
}

// run keeps the game on the main goroutine, which the window backend
// requires, and watches for interrupts on the side.
func run(cfg *config.Config) error {
	app, cleanup, err := injector.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return watchSignals(ctx, cancel, app.Log)
	})

	runErr := app.Run(ctx)
	cancel()
	if err := group.Wait(); err != nil {
		return err
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	app.Log.Info("game stopped", log.Int("frames", app.Game.Frames()))
	return nil
}

func watchSignals(ctx context.Context, cancel context.CancelFunc, l log.Log) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	select {
	case sig := <-signals:
		l.Info("signal received, stopping", log.String("signal", sig.String()))
		cancel()
	case <-ctx.Done():
	}
	return nil
}
