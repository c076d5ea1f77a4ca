package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"webtask-bridge/internal/bootstrap"
	"webtask-bridge/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	logger := logx.L()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api, err := bootstrap.InitAPI(ctx)
	if err != nil {
		logger.Fatal("init api", zap.Error(err))
	}
	if err := api.Start(ctx); err != nil {
		logger.Error("api exited", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
