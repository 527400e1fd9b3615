package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dosmundos/admin-tools/internal/app"
	"github.com/dosmundos/admin-tools/internal/config"
	"github.com/dosmundos/admin-tools/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "confpatch failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.DebugObj("confpatch starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	patcher, err := app.NewPatcher(cfg, log, os.Stdout)
	if err != nil {
		logger.ErrorObj("failed to initialize patcher", "error", err)
		return err
	}

	if err := patcher.Run(ctx); err != nil {
		return fmt.Errorf("patcher run: %w", err)
	}

	return nil
}
