package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kapu/mathsprint-site-go/internal/app"
	"github.com/kapu/mathsprint-site-go/internal/config"
	"github.com/kapu/mathsprint-site-go/internal/health"
	"github.com/kapu/mathsprint-site-go/internal/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.EnableFileLoggingWithLevel(util.LogConfig{
		Dir:        cfg.Logging.Dir,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	}, "server.log", cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	health.Init(cfg.Version)

	logger.Info("mathsprint_server_starting",
		"version", cfg.Version,
		"log_level", cfg.Logging.Level,
		"port", cfg.Server.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runtime, err := app.BuildRuntime(ctx, cfg, logger)
	if err != nil {
		logger.Error("runtime_build_failed", "error", err)
		os.Exit(1)
	}
	defer runtime.Close()

	if err := runtime.Run(ctx); err != nil {
		logger.Error("server_exited_with_error", "error", err)
		os.Exit(1)
	}
	logger.Info("server_stopped")
}
