package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"lumen-terminal/internal/config"
	"lumen-terminal/internal/router"
	"lumen-terminal/internal/server"
	"lumen-terminal/internal/settings"
	"lumen-terminal/internal/simclient"
	"lumen-terminal/internal/theme"
)

func main() {
	logger := newLogger()
	slog.SetDefault(logger)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	store := settings.NewFileStore(cfg.SettingsPath)
	provider := theme.NewTermProvider(nil)
	root := theme.NewRootSurface(os.Getenv("TERM"))
	bridge := theme.NewBridge(provider, store, root, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher, err := settings.NewWatcher(store, logger, bridge.Resync)
	if err != nil {
		logger.Error("build settings watcher", "err", err)
		os.Exit(1)
	}
	if err := watcher.Start(ctx); err != nil {
		logger.Error("start settings watcher", "err", err)
		os.Exit(1)
	}
	defer func() { _ = watcher.Close() }()

	sim, err := simclient.New(cfg.BackendURL, nil)
	if err != nil {
		logger.Error("build simulation client", "err", err)
		os.Exit(1)
	}

	runtime, err := server.New(cfg, logger, bridge, sim, router.DefaultChain(logger, cfg.MaxSessions))
	if err != nil {
		logger.Error("build ssh server", "err", err)
		os.Exit(1)
	}

	if err := runtime.Run(ctx); err != nil {
		logger.Error("run ssh server", "err", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LUMEN_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
}
