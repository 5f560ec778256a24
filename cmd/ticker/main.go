package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"btcticker/config"
	"btcticker/internal/ticker/collector"
	"btcticker/logger"

	"go.uber.org/zap"
)

func main() {
	// viper config
	cfg := config.Load()

	// zap logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer log.Sync()

	// Ctrl+C cancels the ingest phase; the chart still renders afterwards.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// run pipeline
	if err := collector.Run(ctx, cfg, log); err != nil {
		log.Fatal("ticker failed", zap.Error(err))
	}
}
