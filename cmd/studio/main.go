package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/goliatone/go-studio/pkg/config"
	"github.com/goliatone/go-studio/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "studio: load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "studio: build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := build(ctx, cfg, log)
	if err != nil {
		log.Fatal("studio init failed", zap.Error(err))
	}
	defer srv.Close()

	log.Info("studio ready",
		zap.String("pages", cfg.Server.Addr+cfg.Server.BasePath+"/dashboard"),
		zap.String("api", cfg.Server.APIAddr+cfg.Server.BasePath),
		zap.String("renderer", cfg.Charts.Renderer),
		zap.Bool("mock_api", cfg.API.UseMock),
	)
	if err := srv.Run(ctx); err != nil {
		log.Error("studio stopped", zap.Error(err))
		os.Exit(1)
	}
}
