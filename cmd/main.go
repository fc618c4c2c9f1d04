package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"collection_finder/internal/application"
	"collection_finder/internal/config"
	"collection_finder/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}

	log := slog.New(logx.NewHandler(os.Stdout, cfg.App.LogLevel))
	slog.SetDefault(log)

	if err = application.Run(ctx, cfg, log); err != nil {
		log.Error("application failed", logx.Error(err))
		os.Exit(1)
	}

	log.Info("application stopped")
}
