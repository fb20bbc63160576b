package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/zd0907-arc/market-live-terminal/app"
	"github.com/zd0907-arc/market-live-terminal/app/monitor"
	"github.com/zd0907-arc/market-live-terminal/internal/config"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	log, err := app.NewLogger(cfg.App)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer log.Sync()

	m, err := monitor.InitMonitor(ctx, *cfg, log)
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info("Shutting down monitor...")
		cancel()
	}()

	m.Run(ctx)
	log.Info("Monitor stopped")
}
